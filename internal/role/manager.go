package role

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Manager implements role CRUD and permission grants on top of a Store.
type Manager struct {
	store       Store
	registry    PermissionRegistry
	notifier    Notifier
	invalidator CacheInvalidator
	logger      *zap.Logger
	now         func() time.Time
}

// Option configures a Manager.
type Option func(m *Manager)

// WithRegistry validates granted and revoked permissions against reg.
func WithRegistry(reg PermissionRegistry) Option {
	return func(m *Manager) { m.registry = reg }
}

// WithNotifier sets the sink for success messages.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithInvalidator sets the hook called after permissions change.
func WithInvalidator(inv CacheInvalidator) Option {
	return func(m *Manager) { m.invalidator = inv }
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a Manager backed by store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create adds a role with no permissions. An empty label is derived from id.
func (m *Manager) Create(ctx context.Context, id, label string) (Role, error) {
	id, err := normalizeID(id)
	if err != nil {
		return Role{}, err
	}
	if strings.TrimSpace(label) == "" {
		label = DefaultLabel(id)
	}

	now := m.now().UTC()
	r := Role{
		ID:          id,
		Label:       label,
		Permissions: PermissionSet{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.store.Create(ctx, r); err != nil {
		return Role{}, m.wrap("create", id, err)
	}

	m.logger.Debug("role created", zap.String("role", id), zap.String("label", label))
	m.notify(fmt.Sprintf("Created %q", id))
	return r.Clone(), nil
}

// Delete removes a role permanently.
func (m *Manager) Delete(ctx context.Context, id string) error {
	id, err := normalizeID(id)
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return m.wrap("delete", id, err)
	}

	m.logger.Debug("role deleted", zap.String("role", id))
	m.notify(fmt.Sprintf("Deleted %q", id))
	return nil
}

// Get returns a single role.
func (m *Manager) Get(ctx context.Context, id string) (Role, error) {
	id, err := normalizeID(id)
	if err != nil {
		return Role{}, err
	}
	r, err := m.store.Get(ctx, id)
	if err != nil {
		return Role{}, m.wrap("get", id, err)
	}
	return r, nil
}

// List returns every role ordered by ID.
func (m *Manager) List(ctx context.Context) ([]Role, error) {
	roles, err := m.store.List(ctx)
	if err != nil {
		return nil, storeErr("list", err)
	}
	SortByID(roles)
	return roles, nil
}

// GrantPermissions adds perms to the role. Either every permission is applied
// or none is.
func (m *Manager) GrantPermissions(ctx context.Context, id string, perms []string) error {
	id, err := normalizeID(id)
	if err != nil {
		return err
	}
	names, err := m.validate(perms)
	if err != nil {
		return err
	}

	if err := m.store.Update(ctx, id, func(r *Role) error {
		if r.Permissions == nil {
			r.Permissions = PermissionSet{}
		}
		if r.Permissions.Add(names...) {
			r.UpdatedAt = m.now().UTC()
		}
		return nil
	}); err != nil {
		return m.wrap("grant", id, err)
	}

	m.logger.Debug("permissions granted", zap.String("role", id), zap.Strings("permissions", names))
	m.notify(fmt.Sprintf("Added %s to %q", quoteList(names), id))
	m.permissionsChanged(ctx, id)
	return nil
}

// RevokePermissions removes perms from the role. Names the role does not hold
// are ignored.
func (m *Manager) RevokePermissions(ctx context.Context, id string, perms []string) error {
	id, err := normalizeID(id)
	if err != nil {
		return err
	}
	names, err := m.validate(perms)
	if err != nil {
		return err
	}

	if err := m.store.Update(ctx, id, func(r *Role) error {
		if r.Permissions.Remove(names...) {
			r.UpdatedAt = m.now().UTC()
		}
		return nil
	}); err != nil {
		return m.wrap("revoke", id, err)
	}

	m.logger.Debug("permissions revoked", zap.String("role", id), zap.Strings("permissions", names))
	m.notify(fmt.Sprintf("Removed %s from %q", quoteList(names), id))
	m.permissionsChanged(ctx, id)
	return nil
}

// normalizeID trims surrounding space from a machine name and rejects blank
// ones.
func normalizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrInvalidID
	}
	return id, nil
}

// validate normalises perms and checks them against the registry.
func (m *Manager) validate(perms []string) ([]string, error) {
	seen := make(map[string]struct{}, len(perms))
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		names = append(names, p)
	}
	if len(names) == 0 {
		return nil, ErrNoPermissions
	}

	if m.registry == nil {
		return names, nil
	}
	var invalid []string
	for _, n := range names {
		if !m.registry.IsValid(n) {
			invalid = append(invalid, n)
		}
	}
	if len(invalid) > 0 {
		return nil, &InvalidPermissionError{Names: invalid}
	}
	return names, nil
}

// permissionsChanged runs the invalidation hook. The mutation is already
// stored, so a failing hook is only logged.
func (m *Manager) permissionsChanged(ctx context.Context, id string) {
	if m.invalidator == nil {
		return
	}
	if err := m.invalidator.Invalidate(ctx, id); err != nil {
		m.logger.Warn("cache invalidation failed", zap.String("role", id), zap.Error(err))
	}
}

func (m *Manager) notify(msg string) {
	if m.notifier != nil {
		m.notifier.Success(msg)
	}
}

func (m *Manager) wrap(op, id string, err error) error {
	err = storeErr(op, err)
	if _, ok := err.(*StoreError); ok {
		return err
	}
	return fmt.Errorf("%w: %q", err, id)
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}
