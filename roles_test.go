package tenancy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	tenancy "github.com/goliatone/go-tenancy"
)

func TestMemberRoleLadder(t *testing.T) {
	assert.True(t, tenancy.RoleOwner.IsAtLeast(tenancy.RoleAdmin))
	assert.True(t, tenancy.RoleAdmin.IsAtLeast(tenancy.RoleAdmin))
	assert.False(t, tenancy.RoleMember.IsAtLeast(tenancy.RoleAdmin))
	assert.False(t, tenancy.MemberRole("").IsAtLeast(tenancy.RoleMember))
}

func TestMemberRoleIsAdmin(t *testing.T) {
	assert.True(t, tenancy.RoleAdmin.IsAdmin())
	assert.True(t, tenancy.RoleOwner.IsAdmin())
	assert.False(t, tenancy.RoleMember.IsAdmin())
	assert.False(t, tenancy.MemberRole("janitor").IsAdmin())
}

func TestParseMemberRole(t *testing.T) {
	tests := []struct {
		input string
		want  tenancy.MemberRole
		ok    bool
	}{
		{"member", tenancy.RoleMember, true},
		{"Admin", tenancy.RoleAdmin, true},
		{"OWNER", tenancy.RoleOwner, true},
		{"treasurer", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			role, ok := tenancy.ParseMemberRole(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, role)
			}
		})
	}
}
