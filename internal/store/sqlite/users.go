// SPDX-License-Identifier: MIT

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hcabrera/juegosd/internal/catalog"
)

// Users persists catalog.User rows.
type Users struct {
	db *sql.DB
}

const userColumns = `id, nombre, email, pais, fecha_registro, eliminado`

func scanUser(row interface{ Scan(...any) error }) (*catalog.User, error) {
	var u catalog.User
	var deleted int
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Country, &u.RegisteredAt, &deleted); err != nil {
		return nil, err
	}
	u.Deleted = deleted != 0
	return &u, nil
}

func normEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Insert stores a new user and assigns its ID.
func (s *Users) Insert(ctx context.Context, u *catalog.User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO usuarios (nombre, email, email_norm, pais, fecha_registro)
		 VALUES (?, ?, ?, ?, ?)`,
		u.Name, u.Email, normEmail(u.Email), u.Country, u.RegisteredAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %q: %w", u.Email, catalog.ErrDuplicate)
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

// ByID returns the user with the given ID, including deleted rows.
func (s *Users) ByID(ctx context.Context, id int64) (*catalog.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM usuarios WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("usuario %d: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query usuario %d: %w", id, err)
	}
	return u, nil
}

// List returns users ordered by ID.
func (s *Users) List(ctx context.Context, includeDeleted bool) ([]catalog.User, error) {
	q := `SELECT ` + userColumns + ` FROM usuarios`
	if !includeDeleted {
		q += ` WHERE eliminado = 0`
	}
	q += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}
	defer rows.Close()

	users := make([]catalog.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Update rewrites the mutable columns of a user.
func (s *Users) Update(ctx context.Context, u *catalog.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE usuarios SET nombre = ?, email = ?, email_norm = ?, pais = ? WHERE id = ?`,
		u.Name, u.Email, normEmail(u.Email), u.Country, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %q: %w", u.Email, catalog.ErrDuplicate)
		}
		return fmt.Errorf("update usuario %d: %w", u.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("usuario %d: %w", u.ID, catalog.ErrNotFound)
	}
	return nil
}

// SoftDelete marks a user as deleted.
func (s *Users) SoftDelete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE usuarios SET eliminado = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete usuario %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("usuario %d: %w", id, catalog.ErrNotFound)
	}
	return nil
}

// EmailExists reports whether any user already registered the email.
func (s *Users) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM usuarios WHERE email_norm = ? AND id != ?`,
		normEmail(email), excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("email exists: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of users, optionally including deleted rows.
func (s *Users) Count(ctx context.Context, includeDeleted bool) (int, error) {
	q := `SELECT COUNT(*) FROM usuarios`
	if !includeDeleted {
		q += ` WHERE eliminado = 0`
	}
	var n int
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count usuarios: %w", err)
	}
	return n, nil
}
