package role

import "context"

// Store persists roles. Implementations must return copies and must make
// Create, Update and Delete atomic with respect to other callers of the same
// store.
type Store interface {
	// Get returns the role with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (Role, error)

	// List returns every role ordered by ID ascending.
	List(ctx context.Context) ([]Role, error)

	// Create inserts r unless a role with the same ID exists, in which case it
	// returns ErrAlreadyExists.
	Create(ctx context.Context, r Role) error

	// Update loads the role, passes it to fn and saves the result if fn
	// returns nil. Returns ErrNotFound when the role does not exist.
	Update(ctx context.Context, id string, fn func(r *Role) error) error

	// Delete removes the role or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	Close() error
}

// PermissionRegistry knows which permission names exist.
type PermissionRegistry interface {
	IsValid(name string) bool
}

// Notifier receives one-line confirmations after successful mutations.
type Notifier interface {
	Success(message string)
}

// CacheInvalidator is called after a role's permissions change.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, roleID string) error
}
