package audit

import (
	"time"

	"github.com/google/uuid"
)

// Log is an append-only record of a mutation. Logs are never updated or
// deleted individually; they go away only when their company is deleted.
type Log struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	CompanyID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Action     string     `gorm:"type:varchar(50);not null"`
	EntityType string     `gorm:"type:varchar(50);not null;index:idx_audit_entity"`
	EntityID   uuid.UUID  `gorm:"type:uuid;index:idx_audit_entity"`
	UserID     *uuid.UUID `gorm:"type:uuid"`
	OldData    string     `gorm:"type:jsonb"`
	NewData    string     `gorm:"type:jsonb"`
	CreatedAt  time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Log) TableName() string {
	return "audit_logs"
}

// Actions recorded by the audit trail
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLock   = "lock"
	ActionUnlock = "unlock"
)

// NewLog creates an audit log entry
func NewLog(companyID uuid.UUID, userID *uuid.UUID, action, entityType string, entityID uuid.UUID, oldData, newData string) *Log {
	return &Log{
		ID:         uuid.New(),
		CompanyID:  companyID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		OldData:    oldData,
		NewData:    newData,
		CreatedAt:  time.Now(),
	}
}
