// Package entity contains the core business objects of the project.
package entity

// Role represents the coarse role a principal can have in the system.
type Role string

const (
	// RoleCustomer indicates a marketplace customer.
	RoleCustomer Role = "customer"
	// RoleStoreOwner indicates a principal that owns (or is onboarding) a store.
	RoleStoreOwner Role = "store_owner"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleStoreOwner:
		return true
	default:
		return false
	}
}
