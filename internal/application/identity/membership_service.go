package identity

import (
	"context"
	"errors"

	"github.com/accounting/backend/internal/domain/identity"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MembershipService handles enrollment of users into companies. Any member
// may list the roster; every mutation is owner only.
type MembershipService struct {
	membershipRepo identity.MembershipRepository
	userRepo       identity.UserRepository
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(membershipRepo identity.MembershipRepository, userRepo identity.UserRepository) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
	}
}

// List returns the company's members
func (s *MembershipService) List(ctx context.Context, access AccessContext, filter shared.Filter) ([]MembershipResponse, error) {
	memberships, err := s.membershipRepo.FindByCompany(ctx, access.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]MembershipResponse, 0, len(memberships))
	for i := range memberships {
		responses = append(responses, ToMembershipResponse(&memberships[i]))
	}
	return responses, nil
}

// Add enrolls an existing user into the company. Owner only.
func (s *MembershipService) Add(ctx context.Context, access AccessContext, req CreateMembershipRequest) (*MembershipResponse, error) {
	if err := access.RequireOwner(); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	_, err := s.membershipRepo.FindByCompanyAndUser(ctx, access.CompanyID, req.UserID)
	if err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User is already a member of this company")
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	membership, err := identity.NewMembership(access.CompanyID, req.UserID, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if req.CommissionPercent != nil {
		if err := membership.SetCommissionPercent(*req.CommissionPercent); err != nil {
			return nil, err
		}
	}
	if err := s.membershipRepo.Save(ctx, membership); err != nil {
		return nil, err
	}

	response := ToMembershipResponse(membership)
	return &response, nil
}

// Update changes a member's role or commission rate. Owner only. The last
// owner of a company cannot be demoted.
func (s *MembershipService) Update(ctx context.Context, access AccessContext, membershipID uuid.UUID, req UpdateMembershipRequest) (*MembershipResponse, error) {
	if err := access.RequireOwner(); err != nil {
		return nil, err
	}

	membership, err := s.findInCompany(ctx, access.CompanyID, membershipID)
	if err != nil {
		return nil, err
	}

	if req.Role != nil && identity.Role(*req.Role) != membership.Role {
		if membership.IsOwner() {
			if err := s.ensureNotLastOwner(ctx, access.CompanyID); err != nil {
				return nil, err
			}
		}
		if err := membership.ChangeRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
	}
	if req.CommissionPercent != nil {
		if err := membership.SetCommissionPercent(*req.CommissionPercent); err != nil {
			return nil, err
		}
	}

	if err := s.membershipRepo.Save(ctx, membership); err != nil {
		return nil, err
	}

	response := ToMembershipResponse(membership)
	return &response, nil
}

// Remove drops a member from the company. Owner only. The last owner of a
// company cannot be removed.
func (s *MembershipService) Remove(ctx context.Context, access AccessContext, membershipID uuid.UUID) error {
	if err := access.RequireOwner(); err != nil {
		return err
	}

	membership, err := s.findInCompany(ctx, access.CompanyID, membershipID)
	if err != nil {
		return err
	}
	if membership.IsOwner() {
		if err := s.ensureNotLastOwner(ctx, access.CompanyID); err != nil {
			return err
		}
	}

	return s.membershipRepo.Delete(ctx, membership.ID)
}

func (s *MembershipService) findInCompany(ctx context.Context, companyID, membershipID uuid.UUID) (*identity.Membership, error) {
	membership, err := s.membershipRepo.FindByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if membership.CompanyID != companyID {
		return nil, shared.ErrNotFound
	}
	return membership, nil
}

func (s *MembershipService) ensureNotLastOwner(ctx context.Context, companyID uuid.UUID) error {
	memberships, err := s.membershipRepo.FindByCompany(ctx, companyID, shared.DefaultFilter())
	if err != nil {
		return err
	}
	owners := 0
	for _, m := range memberships {
		if m.IsOwner() {
			owners++
		}
	}
	if owners <= 1 {
		return shared.NewDomainError("INVALID_STATE", "A company must keep at least one owner")
	}
	return nil
}
