package billing

import (
	"strings"
	"time"

	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice.
// Statuses only move forward: draft -> issued -> paid.
type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "draft"
	InvoiceStatusIssued InvoiceStatus = "issued"
	InvoiceStatusPaid   InvoiceStatus = "paid"
)

// statusRank orders the canonical states for the monotonic transition check
var statusRank = map[InvoiceStatus]int{
	InvoiceStatusDraft:  0,
	InvoiceStatusIssued: 1,
	InvoiceStatusPaid:   2,
}

// statusAliases folds the legacy status vocabulary into canonical states.
// "sent" and "overdue" are display variants of issued, not states of their own.
var statusAliases = map[string]InvoiceStatus{
	"draft":   InvoiceStatusDraft,
	"sent":    InvoiceStatusIssued,
	"issued":  InvoiceStatusIssued,
	"overdue": InvoiceStatusIssued,
	"paid":    InvoiceStatusPaid,
}

// NormalizeStatus maps a raw status string to its canonical state.
// Unrecognized input returns ok=false, which callers treat as "no change".
func NormalizeStatus(raw string) (InvoiceStatus, bool) {
	status, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]
	return status, ok
}

// IsValid reports whether the status is a canonical state
func (s InvoiceStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// Invoice is the billing aggregate root. TotalAmount is always the sum of
// its line item totals, recomputed server-side.
type Invoice struct {
	shared.TenantAggregateRoot
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_company_number,priority:2"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'draft'"`
	SoldBy        *uuid.UUID      `gorm:"type:uuid;index"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IsLocked      bool            `gorm:"not null;default:false"`
	PaidAt        *time.Time
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new draft invoice
func NewInvoice(companyID, customerID, createdBy uuid.UUID, invoiceNumber string, soldBy *uuid.UUID) (*Invoice, error) {
	if err := validateInvoiceNumber(invoiceNumber); err != nil {
		return nil, err
	}
	return &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(companyID, createdBy),
		CustomerID:          customerID,
		InvoiceNumber:       strings.TrimSpace(invoiceNumber),
		Status:              InvoiceStatusDraft,
		SoldBy:              soldBy,
		TotalAmount:         decimal.Zero,
	}, nil
}

// CanTransitionTo reports whether moving to target is a forward transition.
// Staying in the current state is always allowed.
func (i *Invoice) CanTransitionTo(target InvoiceStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown invoice status")
	}
	if statusRank[target] < statusRank[i.Status] {
		return shared.NewDomainError("INVALID_STATE", "Invoice status cannot move backward")
	}
	return nil
}

// TransitionTo advances the invoice status. It returns true when this call
// moved the invoice into the paid state. Reaching paid stamps PaidAt.
func (i *Invoice) TransitionTo(target InvoiceStatus) (becamePaid bool, err error) {
	if err := i.CanTransitionTo(target); err != nil {
		return false, err
	}
	if target == i.Status {
		return false, nil
	}

	i.Status = target
	if target == InvoiceStatusPaid {
		now := time.Now()
		i.PaidAt = &now
		becamePaid = true
	}
	i.Touch()
	return becamePaid, nil
}

// IsPaid reports whether the invoice has reached the paid state
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// Lock prevents mutation by non-owner roles. Locking is orthogonal to status.
func (i *Invoice) Lock() {
	i.IsLocked = true
	i.Touch()
}

// Unlock releases the lock
func (i *Invoice) Unlock() {
	i.IsLocked = false
	i.Touch()
}

// SetNumber changes the invoice number
func (i *Invoice) SetNumber(invoiceNumber string) error {
	if err := validateInvoiceNumber(invoiceNumber); err != nil {
		return err
	}
	i.InvoiceNumber = strings.TrimSpace(invoiceNumber)
	i.Touch()
	return nil
}

// AssignCustomer changes the customer the invoice bills
func (i *Invoice) AssignCustomer(customerID uuid.UUID) {
	i.CustomerID = customerID
	i.Touch()
}

// AssignSeller sets or clears the selling user
func (i *Invoice) AssignSeller(soldBy *uuid.UUID) {
	i.SoldBy = soldBy
	i.Touch()
}

// RecalculateTotal sets TotalAmount to the sum of the given line item totals
func (i *Invoice) RecalculateTotal(items []InvoiceItem) {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalAmount)
	}
	i.TotalAmount = total.Round(2)
	i.Touch()
}

func validateInvoiceNumber(number string) error {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if len(trimmed) > 50 {
		return shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	return nil
}
