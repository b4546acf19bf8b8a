package identity

import (
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCommissionPercent is applied when a membership does not override
// the seller's commission rate.
var DefaultCommissionPercent = decimal.NewFromInt(20)

// Membership links a user to a company with a role and a commission rate.
// A user has at most one membership per company.
type Membership struct {
	shared.BaseAggregateRoot
	CompanyID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_membership_company_user,priority:1"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_membership_company_user,priority:2"`
	Role              Role            `gorm:"type:varchar(20);not null;default:'ACCOUNTANT'"`
	CommissionPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:20.00"`
}

// TableName returns the table name for GORM
func (Membership) TableName() string {
	return "company_users"
}

// NewMembership creates a membership with the default commission rate
func NewMembership(companyID, userID uuid.UUID, role Role) (*Membership, error) {
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be OWNER, ACCOUNTANT, or SALES")
	}
	return &Membership{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyID:         companyID,
		UserID:            userID,
		Role:              role,
		CommissionPercent: DefaultCommissionPercent,
	}, nil
}

// ChangeRole changes the member's role
func (m *Membership) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be OWNER, ACCOUNTANT, or SALES")
	}
	m.Role = role
	m.Touch()
	return nil
}

// SetCommissionPercent sets the member's commission rate (0-100)
func (m *Membership) SetCommissionPercent(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_COMMISSION_PERCENT", "Commission percent must be between 0 and 100")
	}
	m.CommissionPercent = percent
	m.Touch()
	return nil
}

// IsOwner reports whether the member holds the OWNER role
func (m *Membership) IsOwner() bool {
	return m.Role == RoleOwner
}
