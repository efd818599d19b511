package output

import (
	"fmt"
	"strings"

	"github.com/aussie/rolectl/internal/role"
)

// Operator compares a role field against a filter value.
type Operator string

const (
	OpEqual    Operator = "="
	OpNotEqual Operator = "!="
	OpContains Operator = "*="
)

// Filter selects roles by a single field comparison.
type Filter struct {
	Field string
	Op    Operator
	Value string
}

// fields maps accepted field names and aliases to canonical names.
var fields = map[string]string{
	"id":          "id",
	"rid":         "id",
	"label":       "label",
	"perms":       "perms",
	"permissions": "perms",
}

// ParseFilter parses "field=value", "field!=value" or "field*=value". An
// expression without an operator matches roles holding that permission.
func ParseFilter(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{}, fmt.Errorf("empty filter expression")
	}

	for i := 0; i < len(expr); i++ {
		op, ok := operatorAt(expr, i)
		if !ok {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(expr[:i]))
		field, known := fields[name]
		if !known {
			return Filter{}, fmt.Errorf("unknown filter field %q: must be one of id, label, perms", name)
		}
		return Filter{
			Field: field,
			Op:    op,
			Value: strings.TrimSpace(expr[i+len(op):]),
		}, nil
	}

	return Filter{Field: "perms", Op: OpEqual, Value: expr}, nil
}

func operatorAt(expr string, i int) (Operator, bool) {
	for _, op := range []Operator{OpNotEqual, OpContains, OpEqual} {
		if strings.HasPrefix(expr[i:], string(op)) {
			return op, true
		}
	}
	return "", false
}

// Match reports whether r satisfies the filter.
func (f Filter) Match(r role.Role) bool {
	switch f.Field {
	case "id":
		return f.compare(r.ID)
	case "label":
		return f.compare(r.Label)
	case "perms":
		switch f.Op {
		case OpEqual:
			return r.Permissions.Has(f.Value)
		case OpNotEqual:
			return !r.Permissions.Has(f.Value)
		case OpContains:
			for p := range r.Permissions {
				if strings.Contains(p, f.Value) {
					return true
				}
			}
			return false
		}
	}
	return false
}

func (f Filter) compare(v string) bool {
	switch f.Op {
	case OpEqual:
		return v == f.Value
	case OpNotEqual:
		return v != f.Value
	case OpContains:
		return strings.Contains(v, f.Value)
	}
	return false
}

// Apply returns the roles matching every filter, preserving order.
func Apply(roles []role.Role, filters ...Filter) []role.Role {
	if len(filters) == 0 {
		return roles
	}
	out := make([]role.Role, 0, len(roles))
next:
	for _, r := range roles {
		for _, f := range filters {
			if !f.Match(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}
