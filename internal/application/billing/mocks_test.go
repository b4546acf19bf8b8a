package billing

import (
	"context"
	"time"

	appaudit "github.com/accounting/backend/internal/application/audit"
	appidentity "github.com/accounting/backend/internal/application/identity"
	"github.com/accounting/backend/internal/domain/audit"
	"github.com/accounting/backend/internal/domain/billing"
	"github.com/accounting/backend/internal/domain/identity"
	"github.com/accounting/backend/internal/domain/partner"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsByNumber(ctx context.Context, companyID uuid.UUID, invoiceNumber string) (bool, error) {
	args := m.Called(ctx, companyID, invoiceNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkPaid(ctx context.Context, companyID, id uuid.UUID, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, companyID, id, paidAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) DeleteCascade(ctx context.Context, companyID, id uuid.UUID) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) AddItem(ctx context.Context, companyID uuid.UUID, item *billing.InvoiceItem) error {
	args := m.Called(ctx, companyID, item)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindItems(ctx context.Context, invoiceID uuid.UUID) ([]billing.InvoiceItem, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).([]billing.InvoiceItem), args.Error(1)
}

// MockCommissionRepository is a mock implementation of billing.CommissionRepository
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*billing.Commission, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Commission), args.Error(1)
}

func (m *MockCommissionRepository) FindByInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) (*billing.Commission, error) {
	args := m.Called(ctx, companyID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Commission), args.Error(1)
}

func (m *MockCommissionRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]billing.Commission, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]billing.Commission), args.Error(1)
}

func (m *MockCommissionRepository) Save(ctx context.Context, commission *billing.Commission) error {
	args := m.Called(ctx, commission)
	return args.Error(0)
}

func (m *MockCommissionRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockCommissionRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockMembershipRepository is a mock implementation of identity.MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindByCompanyAndUser(ctx context.Context, companyID, userID uuid.UUID) (*identity.Membership, error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]identity.Membership, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]identity.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]identity.Membership, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]identity.Membership), args.Error(1)
}

func (m *MockMembershipRepository) Save(ctx context.Context, membership *identity.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMembershipRepository) CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, companyID uuid.UUID, email string) (*partner.Customer, error) {
	args := m.Called(ctx, companyID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByEmail(ctx context.Context, companyID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, companyID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) HasInvoices(ctx context.Context, companyID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, companyID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// mockSnapshotter is a mock implementation of Snapshotter
type mockSnapshotter struct {
	mock.Mock
}

func (m *mockSnapshotter) SnapshotOnPaid(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

// =============================================================================
// Test helpers
// =============================================================================

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
