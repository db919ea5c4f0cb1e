package domain

import (
	"errors"
	"time"
)

// Role partitions accounts into independent uniqueness scopes. The numeric
// role id stored alongside each account defaults per role but may be
// overridden at registration time for non-admin roles.
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleRegulatorAdmin  Role = "regulator_admin"
	RoleRegulatedEntity Role = "regulated_entity"
)

// roleProfile captures the per-role registration rules that the three
// role-scoped flows differ by.
type roleProfile struct {
	defaultRoleID int
	// singleSlot restricts the role to at most one active account
	// system-wide, regardless of username.
	singleSlot bool
	// allowRoleIDOverride permits the request body to supply a custom
	// numeric role id.
	allowRoleIDOverride bool
}

var roleProfiles = map[Role]roleProfile{
	RoleAdmin:           {defaultRoleID: 1, singleSlot: true},
	RoleRegulatorAdmin:  {defaultRoleID: 2, allowRoleIDOverride: true},
	RoleRegulatedEntity: {defaultRoleID: 3, allowRoleIDOverride: true},
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleProfiles[r]
	return ok
}

// DefaultRoleID returns the numeric role id assigned when the request does
// not override it.
func (r Role) DefaultRoleID() int {
	return roleProfiles[r].defaultRoleID
}

// SingleSlot reports whether at most one active account of this role may
// exist system-wide.
func (r Role) SingleSlot() bool {
	return roleProfiles[r].singleSlot
}

// AllowsRoleIDOverride reports whether registration may supply a custom
// numeric role id.
func (r Role) AllowsRoleIDOverride() bool {
	return roleProfiles[r].allowRoleIDOverride
}

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrAccountExists      = errors.New("username already exists")
	ErrAdminExists        = errors.New("admin already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Account models a registered user within a role scope.
type Account struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	RoleID       int        `json:"role_id"`
	Sector       string     `json:"sector,omitempty"`
	Active       bool       `json:"active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}
