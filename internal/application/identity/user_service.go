package identity

import (
	"context"

	"github.com/accounting/backend/internal/domain/identity"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserService handles user profile management
type UserService struct {
	userRepo       identity.UserRepository
	membershipRepo identity.MembershipRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, membershipRepo identity.MembershipRepository) *UserService {
	return &UserService{userRepo: userRepo, membershipRepo: membershipRepo}
}

// ListForCompany returns the users enrolled in the caller's company, joined
// with their role and commission rate there. OWNER and ACCOUNTANT only.
func (s *UserService) ListForCompany(ctx context.Context, access AccessContext, filter shared.Filter) ([]CompanyUserResponse, error) {
	if access.Role != identity.RoleOwner && access.Role != identity.RoleAccountant {
		return nil, shared.ErrForbidden
	}

	memberships, err := s.membershipRepo.FindByCompany(ctx, access.CompanyID, filter)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0, len(memberships))
	for i := range memberships {
		userIDs = append(userIDs, memberships[i].UserID)
	}
	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*identity.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	responses := make([]CompanyUserResponse, 0, len(memberships))
	for i := range memberships {
		user, ok := byID[memberships[i].UserID]
		if !ok {
			continue
		}
		responses = append(responses, ToCompanyUserResponse(user, &memberships[i]))
	}
	return responses, nil
}

// Get returns a user by ID
func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// Update changes a user's own profile. Email changes are checked for
// uniqueness before touching the aggregate.
func (s *UserService) Update(ctx context.Context, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	email := user.Email
	if req.Email != nil && *req.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
		}
		email = *req.Email
	}

	fullName := user.FullName
	if req.FullName != nil {
		fullName = *req.FullName
	}
	if err := user.UpdateProfile(email, fullName); err != nil {
		return nil, err
	}

	if req.Password != nil {
		if err := user.ChangePassword(*req.Password); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		if *req.IsActive {
			user.Activate()
		} else {
			user.Deactivate()
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Delete removes a user account. Memberships are dropped and seller or
// creator references on financial records are nulled rather than cascaded,
// so invoices and commissions survive the deletion.
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.DeleteDetach(ctx, userID)
}
