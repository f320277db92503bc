package enums

import "fmt"

// UserRole gates who may upload media; everyone may browse, comment, and rate.
type UserRole string

const (
	UserRoleMember  UserRole = "member"
	UserRoleCreator UserRole = "creator"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleMember, UserRoleCreator:
		return true
	}
	return false
}

func (r UserRole) String() string {
	return string(r)
}

func ParseUserRole(value string) (UserRole, error) {
	role := UserRole(value)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid user role %q", value)
	}
	return role, nil
}
