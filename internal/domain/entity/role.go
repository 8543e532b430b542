// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the type of role an actor can have in the hub.
type Role string

const (
	// RoleWebmaster is the administrator role.
	RoleWebmaster Role = "webmaster"
	// RoleFranchise indicates a distributing franchise operator.
	RoleFranchise Role = "distributing_franchise"
	// RoleCustomer indicates an end customer.
	RoleCustomer Role = "customer"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleWebmaster, RoleFranchise, RoleCustomer:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ActivationStatus is the lifecycle state of an account.
type ActivationStatus string

const (
	ActivationPending  ActivationStatus = "pending"
	ActivationActive   ActivationStatus = "active"
	ActivationInactive ActivationStatus = "inactive"
)

// IsValid checks if the ActivationStatus is a valid value.
func (s ActivationStatus) IsValid() bool {
	switch s {
	case ActivationPending, ActivationActive, ActivationInactive:
		return true
	default:
		return false
	}
}
