package billing

import (
	"strings"

	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceItem is a single line on an invoice. TotalAmount is always
// recomputed server-side; a client-supplied total is only verified.
type InvoiceItem struct {
	shared.BaseAggregateRoot
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// ComputeLineTotal returns quantity*unitPrice - discount rounded half-up to
// two decimal places. A negative result is rejected.
func ComputeLineTotal(quantity, unitPrice, discount decimal.Decimal) (decimal.Decimal, error) {
	if quantity.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discount.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	total := quantity.Mul(unitPrice).Sub(discount).Round(2)
	if total.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_TOTAL", "Line total cannot be negative")
	}
	return total, nil
}

// NewInvoiceItem creates a line item with a server-computed total
func NewInvoiceItem(invoiceID uuid.UUID, description string, quantity, unitPrice, discount decimal.Decimal) (*InvoiceItem, error) {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if len(trimmed) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot exceed 500 characters")
	}

	total, err := ComputeLineTotal(quantity, unitPrice, discount)
	if err != nil {
		return nil, err
	}

	return &InvoiceItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceID:         invoiceID,
		Description:       trimmed,
		Quantity:          quantity,
		UnitPrice:         unitPrice,
		Discount:          discount,
		TotalAmount:       total,
	}, nil
}

// VerifyClaimedTotal rejects a client-supplied total that disagrees with
// the server-computed one
func (it *InvoiceItem) VerifyClaimedTotal(claimed decimal.Decimal) error {
	if !claimed.Equal(it.TotalAmount) {
		return shared.NewDomainError("TOTAL_MISMATCH",
			"Item total does not match quantity*unit_price - discount")
	}
	return nil
}
