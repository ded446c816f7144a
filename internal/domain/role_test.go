package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleSuperAdmin.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("moderator").Valid())
}

func TestRoleAtLeast(t *testing.T) {
	cases := []struct {
		role Role
		min  Role
		want bool
	}{
		{RoleUser, RoleUser, true},
		{RoleUser, RoleAdmin, false},
		{RoleUser, RoleSuperAdmin, false},
		{RoleAdmin, RoleUser, true},
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleSuperAdmin, false},
		{RoleSuperAdmin, RoleUser, true},
		{RoleSuperAdmin, RoleAdmin, true},
		{RoleSuperAdmin, RoleSuperAdmin, true},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, tc.role.AtLeast(tc.min), "%s at least %s", tc.role, tc.min)
	}
}

func TestRoleAtLeastUnknownRole(t *testing.T) {
	// Unknown roles never clear any bar, not even the user tier
	assert.False(t, Role("moderator").AtLeast(RoleUser))
	assert.False(t, Role("").AtLeast(RoleUser))
}
