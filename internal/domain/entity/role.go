// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the type of role a user can have in the system.
type Role string

const (
	// RoleConsumer indicates a buyer who browses products and places orders.
	RoleConsumer Role = "CONSUMER"
	// RoleProducer indicates a farmer who lists products and fulfils orders.
	RoleProducer Role = "PRODUCER"
	// RoleAdmin indicates a platform operator with order management powers.
	RoleAdmin Role = "ADMIN"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleConsumer, RoleProducer, RoleAdmin:
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
