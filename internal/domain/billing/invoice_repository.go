package billing

import (
	"context"
	"time"

	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByIDForCompany finds an invoice by ID within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Invoice, error)

	// FindAllForCompany finds all invoices for a company. Supported filter
	// keys: status, customer_id, sold_by_user_id.
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// ExistsByNumber checks if an invoice number is taken within the company
	ExistsByNumber(ctx context.Context, companyID uuid.UUID, invoiceNumber string) (bool, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// MarkPaid atomically moves an invoice that is not yet paid into the
	// paid state. It returns true only when this call performed the
	// transition, which makes "became paid" observable exactly once even
	// under concurrent updates.
	MarkPaid(ctx context.Context, companyID, id uuid.UUID, paidAt time.Time) (bool, error)

	// DeleteCascade deletes an invoice together with its items and commissions
	DeleteCascade(ctx context.Context, companyID, id uuid.UUID) error

	// CountForCompany counts invoices for a company
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)

	// AddItem inserts a line item and recalculates the parent invoice's
	// total in the same transaction
	AddItem(ctx context.Context, companyID uuid.UUID, item *InvoiceItem) error

	// FindItems lists the line items of an invoice
	FindItems(ctx context.Context, invoiceID uuid.UUID) ([]InvoiceItem, error)
}

// CommissionRepository defines the interface for commission persistence
type CommissionRepository interface {
	// FindByIDForCompany finds a commission by ID within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Commission, error)

	// FindByInvoice finds the commission recorded for an invoice, if any
	FindByInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) (*Commission, error)

	// FindAllForCompany finds all commissions for a company. Supported
	// filter keys: status, user_id, invoice_id.
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Commission, error)

	// Save creates or updates a commission
	Save(ctx context.Context, commission *Commission) error

	// DeleteForCompany deletes a commission within a company
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error

	// CountForCompany counts commissions for a company
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)
}
