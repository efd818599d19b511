// Package memory provides a role.Store kept entirely in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/aussie/rolectl/internal/role"
)

// Store is a map of roles guarded by a mutex.
type Store struct {
	mu    sync.RWMutex
	roles map[string]role.Role
}

// New returns an empty store.
func New() *Store {
	return &Store{roles: make(map[string]role.Role)}
}

func (s *Store) Get(_ context.Context, id string) (role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.roles[id]
	if !ok {
		return role.Role{}, role.ErrNotFound
	}
	return r.Clone(), nil
}

func (s *Store) List(_ context.Context) ([]role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]role.Role, 0, len(s.roles))
	for _, r := range s.roles {
		out = append(out, r.Clone())
	}
	role.SortByID(out)
	return out, nil
}

func (s *Store) Create(_ context.Context, r role.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[r.ID]; ok {
		return role.ErrAlreadyExists
	}
	s.roles[r.ID] = r.Clone()
	return nil
}

func (s *Store) Update(_ context.Context, id string, fn func(r *role.Role) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.roles[id]
	if !ok {
		return role.ErrNotFound
	}
	next := current.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	next.ID = id
	s.roles[id] = next.Clone()
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[id]; !ok {
		return role.ErrNotFound
	}
	delete(s.roles, id)
	return nil
}

func (s *Store) Close() error { return nil }
