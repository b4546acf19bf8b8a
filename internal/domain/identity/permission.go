package identity

// Role is a user's role within a company. Roles are fixed; there is no
// per-tenant role editing.
type Role string

const (
	RoleOwner      Role = "OWNER"
	RoleAccountant Role = "ACCOUNTANT"
	RoleSales      Role = "SALES"
)

// IsValid reports whether the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAccountant, RoleSales:
		return true
	}
	return false
}

// Permission identifies a guarded operation, formatted as "entity:action"
type Permission string

const (
	PermInvoiceCreate Permission = "invoice:create"
	PermInvoiceUpdate Permission = "invoice:update"
	PermInvoiceDelete Permission = "invoice:delete"
	PermInvoiceLock   Permission = "invoice:lock"
	PermInvoiceUnlock Permission = "invoice:unlock"
	PermInvoiceRead   Permission = "invoice:read"

	PermCommissionRead           Permission = "commission:read"
	PermCommissionApprove        Permission = "commission:approve"
	PermCommissionMarkPaid       Permission = "commission:mark_paid"
	PermCommissionCreateSnapshot Permission = "commission:create_snapshot"

	PermCustomerRead   Permission = "customer:read"
	PermCustomerCreate Permission = "customer:create"
	PermCustomerUpdate Permission = "customer:update"
	PermCustomerDelete Permission = "customer:delete"

	PermProductRead   Permission = "product:read"
	PermProductCreate Permission = "product:create"
	PermProductUpdate Permission = "product:update"
	PermProductDelete Permission = "product:delete"
	PermProductImport Permission = "product:import"

	PermAuditRead Permission = "audit:read"
)

// permissionMatrix maps each permission to the roles allowed to exercise it.
// An unknown permission denies everyone.
var permissionMatrix = map[Permission][]Role{
	PermInvoiceCreate: {RoleOwner, RoleAccountant},
	PermInvoiceUpdate: {RoleOwner},
	PermInvoiceDelete: {RoleOwner},
	PermInvoiceLock:   {RoleOwner},
	PermInvoiceUnlock: {RoleOwner},
	PermInvoiceRead:   {RoleOwner, RoleAccountant, RoleSales},

	PermCommissionRead:           {RoleOwner, RoleAccountant, RoleSales},
	PermCommissionApprove:        {RoleOwner},
	PermCommissionMarkPaid:       {RoleOwner},
	PermCommissionCreateSnapshot: {RoleOwner, RoleAccountant},

	PermCustomerRead:   {RoleOwner, RoleAccountant, RoleSales},
	PermCustomerCreate: {RoleOwner, RoleAccountant},
	PermCustomerUpdate: {RoleOwner, RoleAccountant},
	PermCustomerDelete: {RoleOwner, RoleAccountant},

	PermProductRead:   {RoleOwner, RoleAccountant, RoleSales},
	PermProductCreate: {RoleOwner},
	PermProductUpdate: {RoleOwner},
	PermProductDelete: {RoleOwner},
	PermProductImport: {RoleOwner},

	PermAuditRead: {RoleOwner, RoleAccountant},
}

// Can reports whether the role is allowed to exercise the permission
func (r Role) Can(p Permission) bool {
	roles, ok := permissionMatrix[p]
	if !ok {
		return false
	}
	for _, allowed := range roles {
		if allowed == r {
			return true
		}
	}
	return false
}

// AllowedRoles returns the roles permitted for a permission
func AllowedRoles(p Permission) []Role {
	roles := permissionMatrix[p]
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}
