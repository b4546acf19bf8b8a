package catalog

import (
	"context"

	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByIDForCompany finds a product by ID within a company
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by exact SKU match within a company
	FindBySKU(ctx context.Context, companyID uuid.UUID, sku string) (*Product, error)

	// FindAllForCompany finds all products for a company
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Product, error)

	// SearchSuggestions finds active products whose name or SKU contains the
	// query, case-insensitive, capped at limit
	SearchSuggestions(ctx context.Context, companyID uuid.UUID, query string, limit int) ([]Product, error)

	// ExistsBySKU checks if a product with the given SKU exists in the company
	ExistsBySKU(ctx context.Context, companyID uuid.UUID, sku string) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// DeleteForCompany deletes a product within a company
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error

	// CountForCompany counts products for a company
	CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)
}
