package identity

import (
	"fmt"
	"strings"

	"github.com/accounting/backend/internal/domain/identity"
	"github.com/accounting/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccessContext is the resolved security context for one request: who the
// caller is, which company the request operates on, and what the caller's
// membership in that company grants. Services receive it instead of raw IDs
// so every operation is forced through the same role checks.
type AccessContext struct {
	UserID            uuid.UUID
	CompanyID         uuid.UUID
	Role              identity.Role
	CommissionPercent decimal.Decimal
}

// Require returns a FORBIDDEN error unless the caller's role grants the
// permission; the message names the roles that do hold it
func (a AccessContext) Require(p identity.Permission) error {
	if !a.Role.Can(p) {
		allowed := identity.AllowedRoles(p)
		names := make([]string, len(allowed))
		for i, role := range allowed {
			names[i] = string(role)
		}
		return shared.NewDomainError("FORBIDDEN",
			fmt.Sprintf("%s requires one of the roles: %s", p, strings.Join(names, ", ")))
	}
	return nil
}

// RequireOwner returns ErrForbidden unless the caller is the company owner
func (a AccessContext) RequireOwner() error {
	if a.Role != identity.RoleOwner {
		return shared.ErrForbidden
	}
	return nil
}

// IsSales reports whether the caller holds the SALES role, which restricts
// invoice and commission visibility to the caller's own records
func (a AccessContext) IsSales() bool {
	return a.Role == identity.RoleSales
}
