// Package registry defines which permission names exist.
package registry

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Permission describes a single permission as declared in a permissions file.
type Permission struct {
	Name           string `yaml:"-"`
	Title          string `yaml:"title"`
	Description    string `yaml:"description,omitempty"`
	RestrictAccess bool   `yaml:"restrict access,omitempty"`
}

// Registry is a set of known permissions. The zero value knows nothing.
type Registry struct {
	perms map[string]Permission
}

// Static returns a registry containing names.
func Static(names ...string) *Registry {
	r := &Registry{perms: make(map[string]Permission, len(names))}
	for _, n := range names {
		r.perms[n] = Permission{Name: n, Title: n}
	}
	return r
}

// IsValid reports whether name is a known permission.
func (r *Registry) IsValid(name string) bool {
	_, ok := r.perms[name]
	return ok
}

// Len returns the number of known permissions.
func (r *Registry) Len() int { return len(r.perms) }

// Lookup returns the declaration for name.
func (r *Registry) Lookup(name string) (Permission, bool) {
	p, ok := r.perms[name]
	return p, ok
}

// Names returns every known permission name in ascending order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.perms))
	for n := range r.perms {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Merge adds every permission of other. Later declarations win.
func (r *Registry) Merge(other *Registry) {
	if r.perms == nil {
		r.perms = make(map[string]Permission, len(other.perms))
	}
	for n, p := range other.perms {
		r.perms[n] = p
	}
}

// Parse reads a permissions document: a YAML mapping from permission name to
// its title, description and "restrict access" flag.
//
//	administer nodes:
//	  title: 'Administer content'
//	  restrict access: true
//	access content:
//	  title: 'View published content'
func Parse(data []byte) (*Registry, error) {
	var doc map[string]*Permission
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	r := &Registry{perms: make(map[string]Permission, len(doc))}
	for name, p := range doc {
		if name == "" {
			return nil, errors.New("permission with empty name")
		}
		perm := Permission{Name: name, Title: name}
		if p != nil {
			perm = *p
			perm.Name = name
			if perm.Title == "" {
				perm.Title = name
			}
		}
		r.perms[name] = perm
	}
	return r, nil
}

// LoadFiles parses and merges every file in paths.
func LoadFiles(paths ...string) (*Registry, error) {
	merged := &Registry{perms: make(map[string]Permission)}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read permissions file: %w", err)
		}
		r, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		merged.Merge(r)
	}
	return merged, nil
}
