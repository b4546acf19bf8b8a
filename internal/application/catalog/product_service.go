package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appaudit "github.com/accounting/backend/internal/application/audit"
	appidentity "github.com/accounting/backend/internal/application/identity"
	"github.com/accounting/backend/internal/domain/audit"
	"github.com/accounting/backend/internal/domain/catalog"
	"github.com/accounting/backend/internal/domain/identity"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const productEntityType = "product"

// suggestionLimit caps autocomplete results
const suggestionLimit = 10

// ProductService handles product business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	recorder    *appaudit.Recorder
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, recorder *appaudit.Recorder) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		recorder:    recorder,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, access appidentity.AccessContext, req CreateProductRequest) (*ProductResponse, error) {
	if err := access.Require(identity.PermProductCreate); err != nil {
		return nil, err
	}

	product, err := s.buildProduct(ctx, access, req)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	s.recorder.Record(ctx, access.CompanyID, &access.UserID, audit.ActionCreate, productEntityType, product.ID, nil, response)
	return &response, nil
}

// Import creates products in bulk. Rows with a SKU that already exists in
// the company are skipped; invalid rows are reported without aborting the
// rest of the batch.
func (s *ProductService) Import(ctx context.Context, access appidentity.AccessContext, req ImportProductsRequest) (*ImportProductsResponse, error) {
	if err := access.Require(identity.PermProductImport); err != nil {
		return nil, err
	}

	result := &ImportProductsResponse{}
	for i, row := range req.Products {
		product, err := s.buildProduct(ctx, access, row)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == "ALREADY_EXISTS" {
				result.Skipped++
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", i+1, err.Error()))
			continue
		}
		if err := s.productRepo.Save(ctx, product); err != nil {
			return nil, err
		}
		result.Created++
	}

	s.recorder.Record(ctx, access.CompanyID, &access.UserID, audit.ActionCreate, productEntityType, uuid.Nil, nil, result)
	return result, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, access appidentity.AccessContext, productID uuid.UUID) (*ProductResponse, error) {
	if err := access.Require(identity.PermProductRead); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByIDForCompany(ctx, access.CompanyID, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by exact SKU match
func (s *ProductService) GetBySKU(ctx context.Context, access appidentity.AccessContext, sku string) (*ProductResponse, error) {
	if err := access.Require(identity.PermProductRead); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindBySKU(ctx, access.CompanyID, strings.TrimSpace(sku))
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, access appidentity.AccessContext, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if err := access.Require(identity.PermProductRead); err != nil {
		return nil, 0, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 && filter.PageSize <= 100 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search

	products, err := s.productRepo.FindAllForCompany(ctx, access.CompanyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForCompany(ctx, access.CompanyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses, total, nil
}

// SearchSuggestions returns up to ten active products whose name or SKU
// contains the query, for invoice line autocomplete
func (s *ProductService) SearchSuggestions(ctx context.Context, access appidentity.AccessContext, query string) ([]ProductSuggestion, error) {
	if err := access.Require(identity.PermProductRead); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []ProductSuggestion{}, nil
	}

	products, err := s.productRepo.SearchSuggestions(ctx, access.CompanyID, query, suggestionLimit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]ProductSuggestion, 0, len(products))
	for i := range products {
		suggestions = append(suggestions, ToProductSuggestion(&products[i]))
	}
	return suggestions, nil
}

// Update updates a product's attributes
func (s *ProductService) Update(ctx context.Context, access appidentity.AccessContext, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	if err := access.Require(identity.PermProductUpdate); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByIDForCompany(ctx, access.CompanyID, productID)
	if err != nil {
		return nil, err
	}
	before := ToProductResponse(product)

	sku := product.SKU
	if req.SKU != nil {
		sku = *req.SKU
	}
	if trimmed := strings.TrimSpace(sku); trimmed != "" && trimmed != product.SKU {
		exists, err := s.productRepo.ExistsBySKU(ctx, access.CompanyID, trimmed)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
		}
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := product.Description
	if req.Description != nil {
		description = *req.Description
	}
	unitPrice := product.UnitPrice
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
	}
	costPrice := product.CostPrice
	if req.CostPrice != nil {
		costPrice = *req.CostPrice
	}
	stock := product.StockQuantity
	if req.StockQuantity != nil {
		stock = *req.StockQuantity
	}

	if err := product.Update(sku, name, description, unitPrice, costPrice, stock); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		if *req.IsActive {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	s.recorder.Record(ctx, access.CompanyID, &access.UserID, audit.ActionUpdate, productEntityType, product.ID, before, response)
	return &response, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, access appidentity.AccessContext, productID uuid.UUID) error {
	if err := access.Require(identity.PermProductDelete); err != nil {
		return err
	}

	product, err := s.productRepo.FindByIDForCompany(ctx, access.CompanyID, productID)
	if err != nil {
		return err
	}
	if err := s.productRepo.DeleteForCompany(ctx, access.CompanyID, productID); err != nil {
		return err
	}

	s.recorder.Record(ctx, access.CompanyID, &access.UserID, audit.ActionDelete, productEntityType, productID, ToProductResponse(product), nil)
	return nil
}

func (s *ProductService) buildProduct(ctx context.Context, access appidentity.AccessContext, req CreateProductRequest) (*catalog.Product, error) {
	sku := strings.TrimSpace(req.SKU)
	if sku != "" {
		exists, err := s.productRepo.ExistsBySKU(ctx, access.CompanyID, sku)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
		}
	}

	product, err := catalog.NewProduct(access.CompanyID, sku, req.Name, req.UnitPrice, req.CostPrice)
	if err != nil {
		return nil, err
	}
	product.SetCreatedBy(access.UserID)
	if req.Description != "" {
		product.SetDescription(req.Description)
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	return product, nil
}
