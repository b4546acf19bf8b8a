package catalog

import (
	"context"
	"testing"

	appaudit "github.com/accounting/backend/internal/application/audit"
	appidentity "github.com/accounting/backend/internal/application/identity"
	"github.com/accounting/backend/internal/domain/audit"
	"github.com/accounting/backend/internal/domain/catalog"
	"github.com/accounting/backend/internal/domain/identity"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, companyID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, companyID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) SearchSuggestions(ctx context.Context, companyID uuid.UUID, query string, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, companyID, query, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, companyID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, companyID, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockProductRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type mockAuditRepository struct{}

func (mockAuditRepository) Append(ctx context.Context, log *audit.Log) error { return nil }
func (mockAuditRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]audit.Log, error) {
	return nil, nil
}
func (mockAuditRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	return 0, nil
}

func testRecorder() *appaudit.Recorder {
	return appaudit.NewRecorder(mockAuditRepository{}, zap.NewNop())
}

func access(companyID uuid.UUID, role identity.Role) appidentity.AccessContext {
	return appidentity.AccessContext{UserID: uuid.New(), CompanyID: companyID, Role: role}
}

// =============================================================================
// Tests
// =============================================================================

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("creates a product", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ExistsBySKU", ctx, companyID, "WID-1").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		svc := NewProductService(repo, testRecorder())
		resp, err := svc.Create(ctx, access(companyID, identity.RoleOwner), CreateProductRequest{
			SKU:       "WID-1",
			Name:      "Widget",
			UnitPrice: decimal.RequireFromString("49.99"),
		})
		require.NoError(t, err)
		assert.Equal(t, "WID-1", resp.SKU)
		assert.True(t, resp.IsActive)
	})

	t.Run("rejects duplicate SKU", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ExistsBySKU", ctx, companyID, "WID-1").Return(true, nil)

		svc := NewProductService(repo, testRecorder())
		_, err := svc.Create(ctx, access(companyID, identity.RoleOwner), CreateProductRequest{SKU: "WID-1", Name: "Widget"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("only the owner can create", func(t *testing.T) {
		svc := NewProductService(new(MockProductRepository), testRecorder())
		_, err := svc.Create(ctx, access(companyID, identity.RoleAccountant), CreateProductRequest{Name: "Widget"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
		_, err = svc.Create(ctx, access(companyID, identity.RoleSales), CreateProductRequest{Name: "Widget"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestProductService_Import(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	repo := new(MockProductRepository)
	repo.On("ExistsBySKU", ctx, companyID, "A-1").Return(false, nil)
	repo.On("ExistsBySKU", ctx, companyID, "A-2").Return(true, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	svc := NewProductService(repo, testRecorder())
	resp, err := svc.Import(ctx, access(companyID, identity.RoleOwner), ImportProductsRequest{
		Products: []CreateProductRequest{
			{SKU: "A-1", Name: "First"},
			{SKU: "A-2", Name: "Duplicate"},
			{SKU: "A-3", Name: "", UnitPrice: decimal.Zero}, // invalid: empty name
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Created)
	assert.Equal(t, 1, resp.Skipped)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "row 3")
}

func TestProductService_SearchSuggestions(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("queries with the fixed limit", func(t *testing.T) {
		product, err := catalog.NewProduct(companyID, "WID-1", "Widget", decimal.RequireFromString("49.99"), decimal.Zero)
		require.NoError(t, err)

		repo := new(MockProductRepository)
		repo.On("SearchSuggestions", ctx, companyID, "wid", 10).Return([]catalog.Product{*product}, nil)

		svc := NewProductService(repo, testRecorder())
		suggestions, err := svc.SearchSuggestions(ctx, access(companyID, identity.RoleSales), "  wid ")
		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		assert.Equal(t, "WID-1", suggestions[0].SKU)
	})

	t.Run("empty query returns nothing without hitting the store", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, testRecorder())
		suggestions, err := svc.SearchSuggestions(ctx, access(companyID, identity.RoleSales), "   ")
		require.NoError(t, err)
		assert.Empty(t, suggestions)
		repo.AssertNotCalled(t, "SearchSuggestions", ctx, companyID, mock.Anything, mock.Anything)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	product, err := catalog.NewProduct(companyID, "WID-1", "Widget", decimal.RequireFromString("49.99"), decimal.RequireFromString("20.00"))
	require.NoError(t, err)

	repo := new(MockProductRepository)
	repo.On("FindByIDForCompany", ctx, companyID, product.ID).Return(product, nil)
	repo.On("Save", ctx, product).Return(nil)

	price := decimal.RequireFromString("59.99")
	active := false
	svc := NewProductService(repo, testRecorder())
	resp, err := svc.Update(ctx, access(companyID, identity.RoleOwner), product.ID, UpdateProductRequest{
		UnitPrice: &price,
		IsActive:  &active,
	})
	require.NoError(t, err)
	assert.True(t, resp.UnitPrice.Equal(price))
	assert.False(t, resp.IsActive)
	assert.Equal(t, "WID-1", resp.SKU)
}

func TestProductService_GetBySKU(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	product, err := catalog.NewProduct(companyID, "WID-1", "Widget", decimal.RequireFromString("49.99"), decimal.Zero)
	require.NoError(t, err)

	repo := new(MockProductRepository)
	repo.On("FindBySKU", ctx, companyID, "WID-1").Return(product, nil)
	repo.On("FindBySKU", ctx, companyID, "NOPE").Return(nil, shared.ErrNotFound)

	svc := NewProductService(repo, testRecorder())

	resp, err := svc.GetBySKU(ctx, access(companyID, identity.RoleSales), " WID-1 ")
	require.NoError(t, err)
	assert.Equal(t, product.ID, resp.ID)

	_, err = svc.GetBySKU(ctx, access(companyID, identity.RoleSales), "NOPE")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
