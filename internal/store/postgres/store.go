// Package postgres provides a role.Store backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/aussie/rolectl/internal/role"
)

type Store struct {
	db *sql.DB
}

// Open connects to dsn, verifies the connection and applies pending
// migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
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
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Get(ctx context.Context, id string) (role.Role, error) {
	var r role.Role
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		r, err = getRole(ctx, tx, id, false)
		return err
	})
	return r, err
}

func (s *Store) List(ctx context.Context) ([]role.Role, error) {
	roles := []role.Role{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT r.id, r.label, r.created_at, r.updated_at, p.permission
			 FROM roles r
			 LEFT JOIN role_permissions p ON p.role_id = r.id
			 ORDER BY r.id ASC, p.permission ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				r    role.Role
				perm sql.NullString
			)
			if err := rows.Scan(&r.ID, &r.Label, &r.CreatedAt, &r.UpdatedAt, &perm); err != nil {
				return err
			}
			if n := len(roles); n == 0 || roles[n-1].ID != r.ID {
				r.Permissions = role.PermissionSet{}
				r.CreatedAt = r.CreatedAt.UTC()
				r.UpdatedAt = r.UpdatedAt.UTC()
				roles = append(roles, r)
			}
			if perm.Valid {
				roles[len(roles)-1].Permissions.Add(perm.String)
			}
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *Store) Create(ctx context.Context, r role.Role) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO roles (id, label, created_at, updated_at) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`,
			r.ID, r.Label, r.CreatedAt.UTC(), r.UpdatedAt.UTC())
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
		r, err := getRole(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := fn(&r); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE roles SET label = $1, updated_at = $2 WHERE id = $3`,
			r.Label, r.UpdatedAt.UTC(), id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM role_permissions WHERE role_id = $1`, id); err != nil {
			return err
		}
		return insertPermissions(ctx, tx, id, r.Permissions.Sorted())
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
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
}

// getRole loads a role and its permissions. forUpdate locks the role row
// until the transaction ends.
func getRole(ctx context.Context, tx *sql.Tx, id string, forUpdate bool) (role.Role, error) {
	query := `SELECT id, label, created_at, updated_at FROM roles WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var r role.Role
	if err := tx.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.Label, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return role.Role{}, role.ErrNotFound
		}
		return role.Role{}, err
	}
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	r.Permissions = role.PermissionSet{}

	rows, err := tx.QueryContext(ctx,
		`SELECT permission FROM role_permissions WHERE role_id = $1 ORDER BY permission`, id)
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
			`INSERT INTO role_permissions (role_id, permission) VALUES ($1, $2)`,
			roleID, p); err != nil {
			return err
		}
	}
	return nil
}
