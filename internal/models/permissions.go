package models

import "gorm.io/datatypes"

// Capability is a named permission a user may or may not hold.
type Capability string

const (
	CapabilityReadOnly        Capability = "read_only"
	CapabilityAccessDirectory Capability = "access_directory"
	CapabilityAccessFiles     Capability = "access_files"
)

// capabilityDefaults applies when a key is missing from a stored map.
// Access capabilities default open, read-only defaults off.
var capabilityDefaults = map[Capability]bool{
	CapabilityReadOnly:        false,
	CapabilityAccessDirectory: true,
	CapabilityAccessFiles:     true,
}

// DefaultPermissions returns the canonical permission map used to
// materialize missing keys at the write boundary.
func DefaultPermissions() datatypes.JSONMap {
	perms := make(datatypes.JSONMap, len(capabilityDefaults))
	for capability, value := range capabilityDefaults {
		perms[string(capability)] = value
	}
	return perms
}

// MergePermissionDefaults fills any capability missing from the input with
// its default so the stored map always carries all known keys. The input
// map is not modified.
func MergePermissionDefaults(perms datatypes.JSONMap) datatypes.JSONMap {
	merged := DefaultPermissions()
	for key, value := range perms {
		if _, known := capabilityDefaults[Capability(key)]; known {
			if b, ok := value.(bool); ok {
				merged[key] = b
			}
		}
	}
	return merged
}

// HasCapability evaluates a capability for a role and stored permission map.
// Superadmins bypass the map entirely: every access capability is granted
// and read_only is never in effect.
func HasCapability(role UserRole, perms datatypes.JSONMap, capability Capability) bool {
	if role == UserRoleSuperAdmin {
		return capability != CapabilityReadOnly
	}
	if value, ok := perms[string(capability)]; ok {
		if b, ok := value.(bool); ok {
			return b
		}
	}
	return capabilityDefaults[capability]
}

// Can reports whether the user holds the given access capability.
func (u *User) Can(capability Capability) bool {
	return HasCapability(u.Role, u.Permissions, capability)
}

// IsReadOnly reports whether the user is restricted to read-only mode.
func (u *User) IsReadOnly() bool {
	return HasCapability(u.Role, u.Permissions, CapabilityReadOnly)
}

// IsSuperAdmin reports whether the user holds the superadmin role.
func (u *User) IsSuperAdmin() bool {
	return u.Role == UserRoleSuperAdmin
}
