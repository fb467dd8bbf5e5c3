package domain

import (
	"strings"
	"time"
)

const (
	RoleSuperuser = "superuser"
	RoleStaff     = "staff"
	RoleMember    = "member"
)

// User models an account of the remote API.
type User struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	IsActive    bool       `json:"is_active"`
	DateJoined  *time.Time `json:"date_joined,omitempty"`
}

// Role collapses the staff flags into a single role name.
func (u User) Role() string {
	switch {
	case u.IsSuperuser:
		return RoleSuperuser
	case u.IsStaff:
		return RoleStaff
	default:
		return RoleMember
	}
}

// Initials returns the upper-cased first letters of first and last name.
func (u User) Initials() string {
	var b strings.Builder
	for _, part := range []string{u.FirstName, u.LastName} {
		for _, r := range part {
			b.WriteRune(r)
			break
		}
	}
	return strings.ToUpper(b.String())
}

// UserInput carries the fields of a new account. Password is write-only.
type UserInput struct {
	Username        string  `json:"username"`
	Password        string  `json:"password"`
	Email           string  `json:"email"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	IsStaff         bool    `json:"is_staff"`
	IsSuperuser     bool    `json:"is_superuser"`
	Groups          []int64 `json:"groups"`
	UserPermissions []int64 `json:"user_permissions"`
}

// UserPatch is a sparse account update. An empty password is not sent.
type UserPatch struct {
	Username        *string  `json:"username,omitempty"`
	Password        *string  `json:"password,omitempty"`
	Email           *string  `json:"email,omitempty"`
	FirstName       *string  `json:"first_name,omitempty"`
	LastName        *string  `json:"last_name,omitempty"`
	IsStaff         *bool    `json:"is_staff,omitempty"`
	IsSuperuser     *bool    `json:"is_superuser,omitempty"`
	IsActive        *bool    `json:"is_active,omitempty"`
	Groups          *[]int64 `json:"groups,omitempty"`
	UserPermissions *[]int64 `json:"user_permissions,omitempty"`
}

// Permissions is the codename set returned by /api/users/me/permissions/.
type Permissions struct {
	Permissions []string `json:"permissions"`
}

// Has reports whether codename is granted.
func (p Permissions) Has(codename string) bool {
	for _, c := range p.Permissions {
		if c == codename {
			return true
		}
	}
	return false
}
