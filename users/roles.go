package users

import (
	"strings"

	errs "github.com/beritahub/go-portal-client/internal/errors"
)

// Role is the closed set of portal roles. Role checks are set-membership
// over this enum rather than free-form string comparison.
type Role string

const (
	RoleReader Role = "reader" // Can browse articles and comment
	RoleWriter Role = "writer" // Can author and manage own articles
	RoleAdmin  Role = "admin"  // Can manage users, categories, and all content
)

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleReader, RoleWriter, RoleAdmin}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleReader, RoleWriter, RoleAdmin:
		return true
	}
	return false
}

// In reports whether r is a member of set. An unknown role is never a
// member of anything; unrecognized values fail closed.
func (r Role) In(set ...Role) bool {
	if !r.Valid() {
		return false
	}
	for _, candidate := range set {
		if r == candidate {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole normalizes and validates a role string.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", errs.Wrapf(errs.ErrInvalidRole, "%q", s)
	}
	return role, nil
}
