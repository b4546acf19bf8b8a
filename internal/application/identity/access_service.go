package identity

import (
	"context"
	"errors"

	"github.com/accounting/backend/internal/domain/identity"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccessService resolves the acting company for a request and loads the
// caller's membership in it.
type AccessService struct {
	membershipRepo identity.MembershipRepository
}

// NewAccessService creates a new AccessService
func NewAccessService(membershipRepo identity.MembershipRepository) *AccessService {
	return &AccessService{membershipRepo: membershipRepo}
}

// Resolve builds the AccessContext for a request.
//
// When the request names a company explicitly (header or query parameter),
// the caller must be a member of that company; a miss is Forbidden, never a
// fallback. Without an explicit company, a caller with exactly one
// membership acts in that company. Zero or several memberships cannot be
// resolved implicitly and the caller must select a company.
func (s *AccessService) Resolve(ctx context.Context, userID uuid.UUID, explicitCompanyID *uuid.UUID) (AccessContext, error) {
	if explicitCompanyID != nil {
		membership, err := s.membershipRepo.FindByCompanyAndUser(ctx, *explicitCompanyID, userID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return AccessContext{}, shared.NewDomainError("FORBIDDEN", "You are not a member of this company")
			}
			return AccessContext{}, err
		}
		return contextFromMembership(membership), nil
	}

	memberships, err := s.membershipRepo.FindByUser(ctx, userID)
	if err != nil {
		return AccessContext{}, err
	}
	switch len(memberships) {
	case 0:
		return AccessContext{}, shared.NewDomainError("FORBIDDEN", "You do not belong to any company")
	case 1:
		return contextFromMembership(&memberships[0]), nil
	default:
		return AccessContext{}, shared.NewDomainError("FORBIDDEN", "Multiple companies available; select one with the X-Company-ID header")
	}
}

func contextFromMembership(m *identity.Membership) AccessContext {
	return AccessContext{
		UserID:            m.UserID,
		CompanyID:         m.CompanyID,
		Role:              m.Role,
		CommissionPercent: m.CommissionPercent,
	}
}
