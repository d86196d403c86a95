package entity

import "strings"

// Role represents an account-wide authorization role
type Role string

const (
	RoleBasic Role = "BASIC"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	return r == RoleBasic || r == RoleAdmin
}

// ParseRole defaults an empty value to BASIC.
func ParseRole(s string) (Role, bool) {
	if strings.TrimSpace(s) == "" {
		return RoleBasic, true
	}
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// AccessLevel is the permission tier a membership grants on a project.
type AccessLevel string

const (
	AccessDeveloper  AccessLevel = "DEVELOPER"
	AccessMaintainer AccessLevel = "MAINTAINER"
	AccessOwner      AccessLevel = "OWNER"
)

func (a AccessLevel) Valid() bool {
	switch a {
	case AccessDeveloper, AccessMaintainer, AccessOwner:
		return true
	}
	return false
}

func ParseAccessLevel(s string) (AccessLevel, bool) {
	a := AccessLevel(strings.ToUpper(strings.TrimSpace(s)))
	return a, a.Valid()
}
