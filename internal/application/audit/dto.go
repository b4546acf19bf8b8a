package audit

import (
	"encoding/json"
	"time"

	"github.com/accounting/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// LogResponse represents an audit entry in API responses
type LogResponse struct {
	ID         uuid.UUID       `json:"id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	UserID     *uuid.UUID      `json:"user_id"`
	OldData    json.RawMessage `json:"old_data,omitempty"`
	NewData    json.RawMessage `json:"new_data,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToLogResponse converts a domain Log to LogResponse
func ToLogResponse(l *audit.Log) LogResponse {
	return LogResponse{
		ID:         l.ID,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		UserID:     l.UserID,
		OldData:    json.RawMessage(l.OldData),
		NewData:    json.RawMessage(l.NewData),
		CreatedAt:  l.CreatedAt,
	}
}
