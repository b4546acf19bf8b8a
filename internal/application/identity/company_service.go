package identity

import (
	"context"

	"github.com/accounting/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanyService handles company lifecycle and enrollment of the creator
type CompanyService struct {
	companyRepo    identity.CompanyRepository
	membershipRepo identity.MembershipRepository
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo identity.CompanyRepository, membershipRepo identity.MembershipRepository) *CompanyService {
	return &CompanyService{
		companyRepo:    companyRepo,
		membershipRepo: membershipRepo,
	}
}

// Create creates a company and enrolls the creator as its owner. The owner
// earns no commission on their own company unless a rate is set later.
func (s *CompanyService) Create(ctx context.Context, creatorID uuid.UUID, req CreateCompanyRequest) (*CompanyResponse, error) {
	company, err := identity.NewCompany(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}

	membership, err := identity.NewMembership(company.ID, creatorID, identity.RoleOwner)
	if err != nil {
		return nil, err
	}
	if err := membership.SetCommissionPercent(decimal.Zero); err != nil {
		return nil, err
	}
	if err := s.membershipRepo.Save(ctx, membership); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// ListForUser returns the companies the user belongs to
func (s *CompanyService) ListForUser(ctx context.Context, userID uuid.UUID) ([]CompanyResponse, error) {
	memberships, err := s.membershipRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []CompanyResponse{}, nil
	}

	ids := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.CompanyID)
	}
	companies, err := s.companyRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]CompanyResponse, 0, len(companies))
	for i := range companies {
		responses = append(responses, ToCompanyResponse(&companies[i]))
	}
	return responses, nil
}

// Get returns the company the caller is acting in
func (s *CompanyService) Get(ctx context.Context, access AccessContext) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, access.CompanyID)
	if err != nil {
		return nil, err
	}
	response := ToCompanyResponse(company)
	return &response, nil
}

// Update renames the company. Owner only.
func (s *CompanyService) Update(ctx context.Context, access AccessContext, req UpdateCompanyRequest) (*CompanyResponse, error) {
	if err := access.RequireOwner(); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindByID(ctx, access.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := company.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(company)
	return &response, nil
}

// Delete removes the company and everything it owns. Owner only.
func (s *CompanyService) Delete(ctx context.Context, access AccessContext) error {
	if err := access.RequireOwner(); err != nil {
		return err
	}
	if _, err := s.companyRepo.FindByID(ctx, access.CompanyID); err != nil {
		return err
	}
	return s.companyRepo.DeleteCascade(ctx, access.CompanyID)
}
