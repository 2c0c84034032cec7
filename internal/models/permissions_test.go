package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestHasCapability(t *testing.T) {
	tests := []struct {
		name       string
		role       UserRole
		perms      datatypes.JSONMap
		capability Capability
		want       bool
	}{
		{
			name:       "superadmin always has access capabilities",
			role:       UserRoleSuperAdmin,
			perms:      datatypes.JSONMap{"access_directory": false, "access_files": false},
			capability: CapabilityAccessDirectory,
			want:       true,
		},
		{
			name:       "superadmin is never read-only",
			role:       UserRoleSuperAdmin,
			perms:      datatypes.JSONMap{"read_only": true},
			capability: CapabilityReadOnly,
			want:       false,
		},
		{
			name:       "admin denied when map says false",
			role:       UserRoleAdmin,
			perms:      datatypes.JSONMap{"access_files": false},
			capability: CapabilityAccessFiles,
			want:       false,
		},
		{
			name:       "admin granted when map says true",
			role:       UserRoleAdmin,
			perms:      datatypes.JSONMap{"access_files": true},
			capability: CapabilityAccessFiles,
			want:       true,
		},
		{
			name:       "missing access key defaults open",
			role:       UserRoleAdmin,
			perms:      datatypes.JSONMap{},
			capability: CapabilityAccessDirectory,
			want:       true,
		},
		{
			name:       "missing read_only key defaults off",
			role:       UserRoleAdmin,
			perms:      datatypes.JSONMap{},
			capability: CapabilityReadOnly,
			want:       false,
		},
		{
			name:       "nil map uses defaults",
			role:       UserRoleAdmin,
			perms:      nil,
			capability: CapabilityAccessFiles,
			want:       true,
		},
		{
			name:       "non-bool value falls back to default",
			role:       UserRoleAdmin,
			perms:      datatypes.JSONMap{"read_only": "yes"},
			capability: CapabilityReadOnly,
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HasCapability(tt.role, tt.perms, tt.capability)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergePermissionDefaults(t *testing.T) {
	t.Run("fills missing keys", func(t *testing.T) {
		merged := MergePermissionDefaults(datatypes.JSONMap{"read_only": true})

		assert.Equal(t, true, merged["read_only"])
		assert.Equal(t, true, merged["access_directory"])
		assert.Equal(t, true, merged["access_files"])
	})

	t.Run("drops unknown keys", func(t *testing.T) {
		merged := MergePermissionDefaults(datatypes.JSONMap{"manage_billing": true})

		_, ok := merged["manage_billing"]
		assert.False(t, ok)
		assert.Len(t, merged, 3)
	})

	t.Run("ignores non-bool values", func(t *testing.T) {
		merged := MergePermissionDefaults(datatypes.JSONMap{"access_files": "nope"})

		assert.Equal(t, true, merged["access_files"])
	})

	t.Run("does not modify the input", func(t *testing.T) {
		in := datatypes.JSONMap{"read_only": true}
		_ = MergePermissionDefaults(in)

		assert.Len(t, in, 1)
	})
}

func TestUserCapabilityHelpers(t *testing.T) {
	admin := &User{Role: UserRoleAdmin, Permissions: datatypes.JSONMap{
		"read_only":        true,
		"access_directory": false,
	}}
	super := &User{Role: UserRoleSuperAdmin, Permissions: datatypes.JSONMap{
		"read_only": true,
	}}

	assert.True(t, admin.IsReadOnly())
	assert.False(t, admin.Can(CapabilityAccessDirectory))
	assert.True(t, admin.Can(CapabilityAccessFiles))
	assert.False(t, admin.IsSuperAdmin())

	assert.False(t, super.IsReadOnly())
	assert.True(t, super.Can(CapabilityAccessDirectory))
	assert.True(t, super.IsSuperAdmin())
}
