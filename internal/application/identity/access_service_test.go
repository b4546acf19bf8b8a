package identity

import (
	"context"
	"testing"

	"github.com/accounting/backend/internal/domain/identity"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMembership(t *testing.T, companyID, userID uuid.UUID, role identity.Role) *identity.Membership {
	t.Helper()
	m, err := identity.NewMembership(companyID, userID, role)
	require.NoError(t, err)
	return m
}

func TestAccessService_Resolve_ExplicitCompany(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	companyID := uuid.New()

	t.Run("member of the named company", func(t *testing.T) {
		repo := new(MockMembershipRepository)
		membership := newMembership(t, companyID, userID, identity.RoleAccountant)
		repo.On("FindByCompanyAndUser", ctx, companyID, userID).Return(membership, nil)

		access, err := NewAccessService(repo).Resolve(ctx, userID, &companyID)
		require.NoError(t, err)
		assert.Equal(t, companyID, access.CompanyID)
		assert.Equal(t, identity.RoleAccountant, access.Role)
		repo.AssertExpectations(t)
	})

	t.Run("not a member of the named company", func(t *testing.T) {
		repo := new(MockMembershipRepository)
		repo.On("FindByCompanyAndUser", ctx, companyID, userID).Return(nil, shared.ErrNotFound)

		_, err := NewAccessService(repo).Resolve(ctx, userID, &companyID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
	})

	t.Run("explicit company never falls back to inference", func(t *testing.T) {
		repo := new(MockMembershipRepository)
		repo.On("FindByCompanyAndUser", ctx, companyID, userID).Return(nil, shared.ErrNotFound)

		_, err := NewAccessService(repo).Resolve(ctx, userID, &companyID)
		require.Error(t, err)
		repo.AssertNotCalled(t, "FindByUser", ctx, userID)
	})
}

func TestAccessService_Resolve_InferredCompany(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("single membership is inferred", func(t *testing.T) {
		companyID := uuid.New()
		repo := new(MockMembershipRepository)
		membership := newMembership(t, companyID, userID, identity.RoleSales)
		repo.On("FindByUser", ctx, userID).Return([]identity.Membership{*membership}, nil)

		access, err := NewAccessService(repo).Resolve(ctx, userID, nil)
		require.NoError(t, err)
		assert.Equal(t, companyID, access.CompanyID)
		assert.Equal(t, identity.RoleSales, access.Role)
		assert.True(t, access.CommissionPercent.Equal(decimal.NewFromInt(20)))
	})

	t.Run("no memberships is forbidden", func(t *testing.T) {
		repo := new(MockMembershipRepository)
		repo.On("FindByUser", ctx, userID).Return([]identity.Membership{}, nil)

		_, err := NewAccessService(repo).Resolve(ctx, userID, nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
	})

	t.Run("multiple memberships require an explicit company", func(t *testing.T) {
		repo := new(MockMembershipRepository)
		a := newMembership(t, uuid.New(), userID, identity.RoleOwner)
		b := newMembership(t, uuid.New(), userID, identity.RoleSales)
		repo.On("FindByUser", ctx, userID).Return([]identity.Membership{*a, *b}, nil)

		_, err := NewAccessService(repo).Resolve(ctx, userID, nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
	})
}

func TestAccessContext_Require(t *testing.T) {
	sales := AccessContext{Role: identity.RoleSales}
	assert.NoError(t, sales.Require(identity.PermInvoiceRead))
	assert.ErrorIs(t, sales.Require(identity.PermInvoiceCreate), shared.ErrForbidden)
	assert.ErrorIs(t, sales.RequireOwner(), shared.ErrForbidden)
	assert.True(t, sales.IsSales())

	// The denial names the roles that do hold the permission
	err := sales.Require(identity.PermInvoiceCreate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoice:create")
	assert.Contains(t, err.Error(), "OWNER")
	assert.Contains(t, err.Error(), "ACCOUNTANT")

	owner := AccessContext{Role: identity.RoleOwner}
	assert.NoError(t, owner.RequireOwner())
	assert.NoError(t, owner.Require(identity.PermInvoiceDelete))
	assert.False(t, owner.IsSales())
}
