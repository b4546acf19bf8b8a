package catalog

import (
	"strings"

	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item. SKU is unique per company when set.
type Product struct {
	shared.TenantAggregateRoot
	SKU           string          `gorm:"type:varchar(50);uniqueIndex:idx_product_company_sku,priority:2"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	StockQuantity int             `gorm:"not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product
func NewProduct(companyID uuid.UUID, sku, name string, unitPrice, costPrice decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if costPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		SKU:                 strings.TrimSpace(sku),
		Name:                strings.TrimSpace(name),
		UnitPrice:           unitPrice,
		CostPrice:           costPrice,
		IsActive:            true,
	}, nil
}

// Update updates the product's attributes
func (p *Product) Update(sku, name, description string, unitPrice, costPrice decimal.Decimal, stockQuantity int) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateSKU(sku); err != nil {
		return err
	}
	if unitPrice.IsNegative() || costPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	p.SKU = strings.TrimSpace(sku)
	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.UnitPrice = unitPrice
	p.CostPrice = costPrice
	p.StockQuantity = stockQuantity
	p.Touch()
	return nil
}

// SetDescription sets the product description
func (p *Product) SetDescription(description string) {
	p.Description = description
	p.Touch()
}

// Activate marks the product as active
func (p *Product) Activate() {
	p.IsActive = true
	p.Touch()
}

// Deactivate hides the product from search suggestions
func (p *Product) Deactivate() {
	p.IsActive = false
	p.Touch()
}

func validateProductName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(trimmed) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateSKU(sku string) error {
	if len(strings.TrimSpace(sku)) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	return nil
}
