package identity

import (
	"context"

	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MembershipRepository defines the interface for membership persistence
type MembershipRepository interface {
	// FindByID finds a membership by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Membership, error)

	// FindByCompanyAndUser finds the membership linking a user to a company
	FindByCompanyAndUser(ctx context.Context, companyID, userID uuid.UUID) (*Membership, error)

	// FindByUser finds all memberships for a user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Membership, error)

	// FindByCompany finds all memberships for a company
	FindByCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]Membership, error)

	// Save creates or updates a membership
	Save(ctx context.Context, membership *Membership) error

	// Delete deletes a membership
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByCompany counts memberships for a company
	CountByCompany(ctx context.Context, companyID uuid.UUID) (int64, error)
}
