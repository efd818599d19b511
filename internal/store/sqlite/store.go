// Package sqlite provides a role.Store backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aussie/rolectl/internal/role"
)

type Store struct {
	db *sql.DB
}

// Open connects to dsn, enables foreign keys and applies pending migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// One connection keeps ":memory:" databases and the foreign_keys pragma
	// consistent across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// withTx runs fn within a transaction, committing when fn returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) Get(ctx context.Context, id string) (role.Role, error) {
	var r role.Role
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		r, err = getRole(ctx, tx, id)
		return err
	})
	return r, err
}

func (s *Store) List(ctx context.Context) ([]role.Role, error) {
	var roles []role.Role
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT id, label, created_at, updated_at FROM roles ORDER BY id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		index := make(map[string]int)
		for rows.Next() {
			r, err := scanRole(rows)
			if err != nil {
				return err
			}
			index[r.ID] = len(roles)
			roles = append(roles, r)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		perms, err := tx.QueryContext(ctx,
			`SELECT role_id, permission FROM role_permissions ORDER BY role_id, permission`)
		if err != nil {
			return err
		}
		defer perms.Close()

		for perms.Next() {
			var roleID, name string
			if err := perms.Scan(&roleID, &name); err != nil {
				return err
			}
			if i, ok := index[roleID]; ok {
				roles[i].Permissions.Add(name)
			}
		}
		return perms.Err()
	})
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []role.Role{}
	}
	return roles, nil
}

func (s *Store) Create(ctx context.Context, r role.Role) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO roles (id, label, created_at, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(id) DO NOTHING`,
			r.ID, r.Label, formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return role.ErrAlreadyExists
		}
		return insertPermissions(ctx, tx, r.ID, r.Permissions.Sorted())
	})
}

func (s *Store) Update(ctx context.Context, id string, fn func(r *role.Role) error) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		r, err := getRole(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(&r); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE roles SET label = ?, updated_at = ? WHERE id = ?`,
			r.Label, formatTime(r.UpdatedAt), id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM role_permissions WHERE role_id = ?`, id); err != nil {
			return err
		}
		return insertPermissions(ctx, tx, id, r.Permissions.Sorted())
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM role_permissions WHERE role_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return role.ErrNotFound
		}
		return nil
	})
}

func getRole(ctx context.Context, q querier, id string) (role.Role, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, label, created_at, updated_at FROM roles WHERE id = ?`, id)
	r, err := scanRole(row)
	if err != nil {
		return role.Role{}, mapNotFound(err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT permission FROM role_permissions WHERE role_id = ? ORDER BY permission`, id)
	if err != nil {
		return role.Role{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return role.Role{}, err
		}
		r.Permissions.Add(name)
	}
	return r, rows.Err()
}

func insertPermissions(ctx context.Context, tx *sql.Tx, roleID string, perms []string) error {
	for _, p := range perms {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO role_permissions (role_id, permission) VALUES (?, ?)`,
			roleID, p); err != nil {
			return err
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRole(sc scanner) (role.Role, error) {
	var r role.Role
	var created, updated string
	if err := sc.Scan(&r.ID, &r.Label, &created, &updated); err != nil {
		return role.Role{}, err
	}
	var err error
	if r.CreatedAt, err = parseTime(created); err != nil {
		return role.Role{}, err
	}
	if r.UpdatedAt, err = parseTime(updated); err != nil {
		return role.Role{}, err
	}
	r.Permissions = role.PermissionSet{}
	return r, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return role.ErrNotFound
	}
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
