package identity

import (
	"context"

	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	// FindByID finds a company by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)

	// FindByIDs finds multiple companies by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Company, error)

	// FindAll finds all companies matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Company, error)

	// Save creates or updates a company
	Save(ctx context.Context, company *Company) error

	// DeleteCascade deletes a company and all records owned by it
	// (memberships, customers, products, invoices, commissions, audit logs)
	DeleteCascade(ctx context.Context, id uuid.UUID) error

	// Count counts companies matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
