package role

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Role is a named bundle of permissions.
type Role struct {
	// ID is the machine name. It is unique within a store and never changes.
	ID string

	// Label is the human-readable name.
	Label string

	Permissions PermissionSet

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of the role.
func (r Role) Clone() Role {
	r.Permissions = r.Permissions.Clone()
	return r
}

// PermissionSet is a set of permission names.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from the given names, ignoring duplicates.
func NewPermissionSet(names ...string) PermissionSet {
	s := make(PermissionSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s PermissionSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts names and reports whether the set changed.
func (s PermissionSet) Add(names ...string) bool {
	changed := false
	for _, n := range names {
		if _, ok := s[n]; !ok {
			s[n] = struct{}{}
			changed = true
		}
	}
	return changed
}

// Remove deletes names and reports whether the set changed.
func (s PermissionSet) Remove(names ...string) bool {
	changed := false
	for _, n := range names {
		if _, ok := s[n]; ok {
			delete(s, n)
			changed = true
		}
	}
	return changed
}

// Sorted returns the names in ascending order. The result is never nil.
func (s PermissionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Clone returns a copy of the set. A nil set clones to an empty one.
func (s PermissionSet) Clone() PermissionSet {
	out := make(PermissionSet, len(s))
	for n := range s {
		out[n] = struct{}{}
	}
	return out
}

// String joins the sorted names with commas.
func (s PermissionSet) String() string {
	return strings.Join(s.Sorted(), ",")
}

// DefaultLabel derives a label from a machine name by upper-casing its first
// character. "test_role" becomes "Test_role".
func DefaultLabel(id string) string {
	r, size := utf8.DecodeRuneInString(id)
	if r == utf8.RuneError {
		return id
	}
	return string(unicode.ToUpper(r)) + id[size:]
}

// ParsePermissions splits a comma-delimited permission list. Names are
// trimmed, empty entries dropped and duplicates removed, keeping the order in
// which names first appear.
func ParsePermissions(s string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// SortByID orders roles by ID ascending, in place.
func SortByID(roles []Role) {
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
}
