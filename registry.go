package coachvault

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AdminRegistry is the admin roster object. The two sets are disjoint: a
// super admin never appears in Admins.
type AdminRegistry struct {
	SuperAdmins []string `json:"super_admins"`
	Admins      []string `json:"admins"`
}

// IsSuperAdmin reports membership in SuperAdmins, case-insensitively.
func (r AdminRegistry) IsSuperAdmin(username string) bool {
	return containsFold(r.SuperAdmins, username)
}

// IsAdmin reports membership in Admins, case-insensitively.
func (r AdminRegistry) IsAdmin(username string) bool {
	return containsFold(r.Admins, username)
}

// Contains reports membership in either set, case-insensitively.
func (r AdminRegistry) Contains(username string) bool {
	return r.IsSuperAdmin(username) || r.IsAdmin(username)
}

// RoleOf returns the role granted by the roster, or false when the
// username is in neither set.
func (r AdminRegistry) RoleOf(username string) (Role, bool) {
	if r.IsSuperAdmin(username) {
		return RoleSuperAdmin, true
	}
	if r.IsAdmin(username) {
		return RoleAdmin, true
	}
	return "", false
}

// Validate checks the disjointness invariant.
func (r AdminRegistry) Validate() error {
	for _, name := range r.SuperAdmins {
		if containsFold(r.Admins, name) {
			return fmt.Errorf("registry invariant violated: %q in both sets", name)
		}
	}
	return nil
}

func containsFold(set []string, name string) bool {
	for _, member := range set {
		if strings.EqualFold(member, name) {
			return true
		}
	}
	return false
}

func removeFold(set []string, name string) []string {
	out := set[:0]
	for _, member := range set {
		if !strings.EqualFold(member, name) {
			out = append(out, member)
		}
	}
	return out
}

func decodeAdminRegistry(data []byte) (AdminRegistry, error) {
	var reg AdminRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return AdminRegistry{}, fmt.Errorf("decode admin registry: %w", err)
	}
	return reg, nil
}

// encodeAdminRegistry keeps the stored object human-diffable: two-space
// indent, trailing newline.
func encodeAdminRegistry(reg AdminRegistry) ([]byte, error) {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode admin registry: %w", err)
	}
	return append(data, '\n'), nil
}
