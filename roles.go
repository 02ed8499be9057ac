package tenancy

import "strings"

// MemberRole is the role a user holds inside a tenant.
type MemberRole string

const (
	// RoleMember can view and contribute club data
	RoleMember MemberRole = "member"
	// RoleAdmin manages club membership and settings
	RoleAdmin MemberRole = "admin"
	// RoleOwner is the club owner (full control)
	RoleOwner MemberRole = "owner"
)

// IsValid checks if the role is one of the predefined valid roles
func (r MemberRole) IsValid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleOwner:
		return true
	default:
		return false
	}
}

// IsAtLeast checks if this role meets the minimum required level
func (r MemberRole) IsAtLeast(minRole MemberRole) bool {
	roleHierarchy := map[MemberRole]int{
		RoleMember: 1,
		RoleAdmin:  2,
		RoleOwner:  3,
	}

	level, ok := roleHierarchy[r]
	if !ok {
		return false
	}

	minLevel, ok := roleHierarchy[minRole]
	if !ok {
		return false
	}

	return level >= minLevel
}

// IsAdmin reports whether the role grants tenant administration rights.
func (r MemberRole) IsAdmin() bool {
	return r.IsAtLeast(RoleAdmin)
}

// ParseMemberRole safely parses a string into a MemberRole type. The listing
// endpoint serializes roles with varying case, so matching is case-insensitive.
func ParseMemberRole(roleStr string) (MemberRole, bool) {
	role := MemberRole(strings.ToLower(roleStr))
	return role, role.IsValid()
}
