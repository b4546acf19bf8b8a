package partner

import (
	"context"

	appaudit "github.com/accounting/backend/internal/application/audit"
	appidentity "github.com/accounting/backend/internal/application/identity"
	"github.com/accounting/backend/internal/domain/audit"
	"github.com/accounting/backend/internal/domain/identity"
	"github.com/accounting/backend/internal/domain/partner"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const customerEntityType = "customer"

// CustomerService handles customer business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	recorder     *appaudit.Recorder
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, recorder *appaudit.Recorder) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		recorder:     recorder,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, access appidentity.AccessContext, req CreateCustomerRequest) (*CustomerResponse, error) {
	if err := access.Require(identity.PermCustomerCreate); err != nil {
		return nil, err
	}

	if req.Email != "" {
		exists, err := s.customerRepo.ExistsByEmail(ctx, access.CompanyID, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
		}
	}

	customer, err := partner.NewCustomer(access.CompanyID, req.Name, req.Phone, req.Email)
	if err != nil {
		return nil, err
	}
	customer.SetCreatedBy(access.UserID)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	s.recorder.Record(ctx, access.CompanyID, &access.UserID, audit.ActionCreate, customerEntityType, customer.ID, nil, response)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, access appidentity.AccessContext, customerID uuid.UUID) (*CustomerResponse, error) {
	if err := access.Require(identity.PermCustomerRead); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByIDForCompany(ctx, access.CompanyID, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, access appidentity.AccessContext, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	if err := access.Require(identity.PermCustomerRead); err != nil {
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

	customers, err := s.customerRepo.FindAllForCompany(ctx, access.CompanyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.CountForCompany(ctx, access.CompanyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, ToCustomerResponse(&customers[i]))
	}
	return responses, total, nil
}

// Update updates a customer's basic information
func (s *CustomerService) Update(ctx context.Context, access appidentity.AccessContext, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	if err := access.Require(identity.PermCustomerUpdate); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByIDForCompany(ctx, access.CompanyID, customerID)
	if err != nil {
		return nil, err
	}
	before := ToCustomerResponse(customer)

	name := customer.Name
	if req.Name != nil {
		name = *req.Name
	}
	phone := customer.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	email := customer.Email
	if req.Email != nil {
		email = *req.Email
	}

	if email != "" && email != customer.Email {
		exists, err := s.customerRepo.ExistsByEmail(ctx, access.CompanyID, email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
		}
	}

	if err := customer.Update(name, phone, email); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	s.recorder.Record(ctx, access.CompanyID, &access.UserID, audit.ActionUpdate, customerEntityType, customer.ID, before, response)
	return &response, nil
}

// Delete removes a customer. A customer that is referenced by invoices
// cannot be deleted.
func (s *CustomerService) Delete(ctx context.Context, access appidentity.AccessContext, customerID uuid.UUID) error {
	if err := access.Require(identity.PermCustomerDelete); err != nil {
		return err
	}

	customer, err := s.customerRepo.FindByIDForCompany(ctx, access.CompanyID, customerID)
	if err != nil {
		return err
	}

	hasInvoices, err := s.customerRepo.HasInvoices(ctx, access.CompanyID, customerID)
	if err != nil {
		return err
	}
	if hasInvoices {
		return shared.NewDomainError("INVALID_STATE", "Customer has invoices and cannot be deleted")
	}

	if err := s.customerRepo.DeleteForCompany(ctx, access.CompanyID, customerID); err != nil {
		return err
	}

	s.recorder.Record(ctx, access.CompanyID, &access.UserID, audit.ActionDelete, customerEntityType, customerID, ToCustomerResponse(customer), nil)
	return nil
}
