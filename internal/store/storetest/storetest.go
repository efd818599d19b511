// Package storetest holds the behaviour every role.Store implementation must
// satisfy. Store packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussie/rolectl/internal/role"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) role.Store

func newRole(id string, perms ...string) role.Role {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return role.Role{
		ID:          id,
		Label:       role.DefaultLabel(id),
		Permissions: role.NewPermissionSet(perms...),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

// Run executes the shared suite against stores built by factory.
func Run(t *testing.T, factory Factory) {
	open := func(t *testing.T) role.Store {
		s := factory(t)
		t.Cleanup(func() { _ = s.Close() })
		return s
	}
	ctx := context.Background()

	t.Run("get missing role", func(t *testing.T) {
		s := open(t)
		_, err := s.Get(ctx, "nope")
		require.ErrorIs(t, err, role.ErrNotFound)
	})

	t.Run("create then get", func(t *testing.T) {
		s := open(t)
		want := newRole("editor", "access content", "post comments")
		require.NoError(t, s.Create(ctx, want))

		got, err := s.Get(ctx, "editor")
		require.NoError(t, err)
		require.Equal(t, "editor", got.ID)
		require.Equal(t, "Editor", got.Label)
		require.Equal(t, []string{"access content", "post comments"}, got.Permissions.Sorted())
		require.True(t, want.CreatedAt.Equal(got.CreatedAt))
		require.True(t, want.UpdatedAt.Equal(got.UpdatedAt))
	})

	t.Run("create with no permissions", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Create(ctx, newRole("empty")))

		got, err := s.Get(ctx, "empty")
		require.NoError(t, err)
		require.NotNil(t, got.Permissions)
		require.Empty(t, got.Permissions)
	})

	t.Run("duplicate create leaves store unchanged", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Create(ctx, newRole("editor", "a")))

		dup := newRole("editor", "b")
		dup.Label = "Other"
		require.ErrorIs(t, s.Create(ctx, dup), role.ErrAlreadyExists)

		got, err := s.Get(ctx, "editor")
		require.NoError(t, err)
		require.Equal(t, "Editor", got.Label)
		require.Equal(t, []string{"a"}, got.Permissions.Sorted())
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		s := open(t)
		for _, id := range []string{"b", "a", "c"} {
			require.NoError(t, s.Create(ctx, newRole(id)))
		}

		roles, err := s.List(ctx)
		require.NoError(t, err)
		ids := make([]string, len(roles))
		for i, r := range roles {
			ids[i] = r.ID
		}
		require.Equal(t, []string{"a", "b", "c"}, ids)
	})

	t.Run("list on empty store", func(t *testing.T) {
		s := open(t)
		roles, err := s.List(ctx)
		require.NoError(t, err)
		require.Empty(t, roles)
	})

	t.Run("update applies changes", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Create(ctx, newRole("editor", "a")))

		later := time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC)
		err := s.Update(ctx, "editor", func(r *role.Role) error {
			r.Permissions.Add("b", "c")
			r.Permissions.Remove("a")
			r.UpdatedAt = later
			return nil
		})
		require.NoError(t, err)

		got, err := s.Get(ctx, "editor")
		require.NoError(t, err)
		require.Equal(t, []string{"b", "c"}, got.Permissions.Sorted())
		require.True(t, later.Equal(got.UpdatedAt))
	})

	t.Run("update missing role", func(t *testing.T) {
		s := open(t)
		called := false
		err := s.Update(ctx, "nope", func(r *role.Role) error {
			called = true
			return nil
		})
		require.ErrorIs(t, err, role.ErrNotFound)
		require.False(t, called)
	})

	t.Run("update callback error discards changes", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Create(ctx, newRole("editor", "a")))

		boom := errors.New("boom")
		err := s.Update(ctx, "editor", func(r *role.Role) error {
			r.Permissions.Add("b")
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := s.Get(ctx, "editor")
		require.NoError(t, err)
		require.Equal(t, []string{"a"}, got.Permissions.Sorted())
	})

	t.Run("returned roles are copies", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Create(ctx, newRole("editor", "a")))

		got, err := s.Get(ctx, "editor")
		require.NoError(t, err)
		got.Permissions.Add("mutated")

		roles, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, roles, 1)
		roles[0].Permissions.Add("mutated")

		again, err := s.Get(ctx, "editor")
		require.NoError(t, err)
		require.Equal(t, []string{"a"}, again.Permissions.Sorted())
	})

	t.Run("delete", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Create(ctx, newRole("editor", "a")))
		require.NoError(t, s.Create(ctx, newRole("viewer")))

		require.NoError(t, s.Delete(ctx, "editor"))
		_, err := s.Get(ctx, "editor")
		require.ErrorIs(t, err, role.ErrNotFound)

		roles, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, roles, 1)
		require.Equal(t, "viewer", roles[0].ID)
	})

	t.Run("delete missing role", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Create(ctx, newRole("viewer")))
		require.ErrorIs(t, s.Delete(ctx, "nope"), role.ErrNotFound)

		roles, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, roles, 1)
	})

	t.Run("recreate after delete starts empty", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Create(ctx, newRole("editor", "a", "b")))
		require.NoError(t, s.Delete(ctx, "editor"))
		require.NoError(t, s.Create(ctx, newRole("editor")))

		got, err := s.Get(ctx, "editor")
		require.NoError(t, err)
		require.Empty(t, got.Permissions)
	})
}
