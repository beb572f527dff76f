package model

import (
	"fmt"
	"time"
)

// UserRole represents the role of a user in the system.
type UserRole string

const (
	// RoleUser is a standard authenticated user.
	RoleUser UserRole = "user"
	// RoleAdmin has elevated permissions for server administration.
	RoleAdmin UserRole = "admin"
)

// ParseRole converts the lowercase wire form of a role into a UserRole.
// Unknown values are an error, never a default.
func ParseRole(s string) (UserRole, error) {
	switch s {
	case "user":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("invalid role %q", s)
	}
}

// Satisfies reports whether a user holding this role may access a resource
// that requires the given role. Admin satisfies every requirement.
func (r UserRole) Satisfies(required UserRole) bool {
	if r == RoleAdmin {
		return true
	}
	return r == required
}

// User represents a Notor user account.
type User struct {
	ID       int64     `json:"id"`
	Created  time.Time `json:"created"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	PassHash string    `json:"-"` // bcrypt hash, never serialized
	Role     UserRole  `json:"role"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NewUser is the payload for creating a user account.
type NewUser struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Pass     string   `json:"pass"`
	Role     UserRole `json:"role"`
}
