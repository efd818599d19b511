// Package file provides a role.Store backed by a single TOML document.
//
// Every mutation rewrites the whole document to a temporary file in the same
// directory and renames it over the original, so readers never observe a
// partially written file. Atomicity holds within one process only.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/aussie/rolectl/internal/role"
)

type document struct {
	Roles []record `toml:"roles"`
}

type record struct {
	ID          string    `toml:"id"`
	Label       string    `toml:"label"`
	Permissions []string  `toml:"permissions"`
	CreatedAt   time.Time `toml:"created_at"`
	UpdatedAt   time.Time `toml:"updated_at"`
}

// Store reads and writes roles from a TOML file.
type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a store for path. The file is created on the first write.
func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Get(_ context.Context, id string) (role.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, err := s.load()
	if err != nil {
		return role.Role{}, err
	}
	r, ok := roles[id]
	if !ok {
		return role.Role{}, role.ErrNotFound
	}
	return r, nil
}

func (s *Store) List(_ context.Context) ([]role.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]role.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, r)
	}
	role.SortByID(out)
	return out, nil
}

func (s *Store) Create(_ context.Context, r role.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := roles[r.ID]; ok {
		return role.ErrAlreadyExists
	}
	roles[r.ID] = r.Clone()
	return s.save(roles)
}

func (s *Store) Update(_ context.Context, id string, fn func(r *role.Role) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, err := s.load()
	if err != nil {
		return err
	}
	r, ok := roles[id]
	if !ok {
		return role.ErrNotFound
	}
	if err := fn(&r); err != nil {
		return err
	}
	r.ID = id
	roles[id] = r
	return s.save(roles)
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := roles[id]; !ok {
		return role.ErrNotFound
	}
	delete(roles, id)
	return s.save(roles)
}

func (s *Store) Close() error { return nil }

// load reads the document. A missing file is an empty store.
func (s *Store) load() (map[string]role.Role, error) {
	roles := make(map[string]role.Role)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return roles, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	for _, rec := range doc.Roles {
		roles[rec.ID] = role.Role{
			ID:          rec.ID,
			Label:       rec.Label,
			Permissions: role.NewPermissionSet(rec.Permissions...),
			CreatedAt:   rec.CreatedAt,
			UpdatedAt:   rec.UpdatedAt,
		}
	}
	return roles, nil
}

func (s *Store) save(roles map[string]role.Role) error {
	list := make([]role.Role, 0, len(roles))
	for _, r := range roles {
		list = append(list, r)
	}
	role.SortByID(list)

	doc := document{Roles: make([]record, len(list))}
	for i, r := range list {
		doc.Roles[i] = record{
			ID:          r.ID,
			Label:       r.Label,
			Permissions: r.Permissions.Sorted(),
			CreatedAt:   r.CreatedAt.UTC(),
			UpdatedAt:   r.UpdatedAt.UTC(),
		}
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode roles: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
