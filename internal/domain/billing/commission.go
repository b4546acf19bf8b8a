package billing

import (
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionStatus represents the payout workflow state.
// Transitions are forward-only: PENDING -> APPROVED -> PAID.
type CommissionStatus string

const (
	CommissionStatusPending  CommissionStatus = "PENDING"
	CommissionStatusApproved CommissionStatus = "APPROVED"
	CommissionStatusPaid     CommissionStatus = "PAID"
)

// CalculateCommission returns base*percent/100 rounded half-up to two
// decimal places. Negative inputs are rejected.
func CalculateCommission(base, percent decimal.Decimal) (decimal.Decimal, error) {
	if base.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Commission base cannot be negative")
	}
	if percent.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_COMMISSION_PERCENT", "Commission percent cannot be negative")
	}
	return base.Mul(percent).Div(decimal.NewFromInt(100)).Round(2), nil
}

// Commission is a payout snapshot taken when an invoice is paid. It keeps
// its own copy of the base amount and rate so later edits to the invoice
// or the membership never change a recorded payout.
type Commission struct {
	shared.TenantAggregateRoot
	InvoiceID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	UserID           *uuid.UUID       `gorm:"type:uuid;index"`
	BaseAmount       decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Percent          decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:20.00"`
	CommissionAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Status           CommissionStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
}

// TableName returns the table name for GORM
func (Commission) TableName() string {
	return "commissions"
}

// NewCommission creates a pending commission snapshot
func NewCommission(companyID, invoiceID uuid.UUID, userID *uuid.UUID, base, percent decimal.Decimal) (*Commission, error) {
	amount, err := CalculateCommission(base, percent)
	if err != nil {
		return nil, err
	}
	return &Commission{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		InvoiceID:           invoiceID,
		UserID:              userID,
		BaseAmount:          base.Round(2),
		Percent:             percent,
		CommissionAmount:    amount,
		Status:              CommissionStatusPending,
	}, nil
}

// Approve moves a pending commission to approved
func (c *Commission) Approve() error {
	if c.Status != CommissionStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending commissions can be approved")
	}
	c.Status = CommissionStatusApproved
	c.Touch()
	return nil
}

// MarkPaid moves an approved commission to paid
func (c *Commission) MarkPaid() error {
	if c.Status != CommissionStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved commissions can be marked paid")
	}
	c.Status = CommissionStatusPaid
	c.Touch()
	return nil
}
