package partner

import (
	"context"

	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByIDForCompany finds a customer by ID within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Customer, error)

	// FindByEmail finds a customer by email within a company
	FindByEmail(ctx context.Context, companyID uuid.UUID, email string) (*Customer, error)

	// FindAllForCompany finds all customers for a company
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// ExistsByEmail checks if a customer with the given email exists in the company
	ExistsByEmail(ctx context.Context, companyID uuid.UUID, email string) (bool, error)

	// HasInvoices reports whether any invoice references the customer
	HasInvoices(ctx context.Context, companyID, id uuid.UUID) (bool, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// DeleteForCompany deletes a customer within a company
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error

	// CountForCompany counts customers for a company
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)
}
