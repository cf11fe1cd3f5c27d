// SPDX-License-Identifier: MIT

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hcabrera/juegosd/internal/catalog"
)

// Developers persists catalog.Developer rows.
type Developers struct {
	db *sql.DB
}

const developerColumns = `id, nombre, pais, ano_fundacion, sitio_web, especialidad, eliminado`

func scanDeveloper(row interface{ Scan(...any) error }) (*catalog.Developer, error) {
	var d catalog.Developer
	var deleted int
	if err := row.Scan(&d.ID, &d.Name, &d.Country, &d.FoundingYear,
		&d.Website, &d.Specialty, &deleted); err != nil {
		return nil, err
	}
	d.Deleted = deleted != 0
	return &d, nil
}

// Insert stores a new developer and assigns its ID.
func (s *Developers) Insert(ctx context.Context, d *catalog.Developer) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO desarrolladores (nombre, nombre_norm, pais, ano_fundacion, sitio_web, especialidad)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.Name, catalog.FoldTitle(d.Name), d.Country, d.FoundingYear, d.Website, d.Specialty)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("desarrollador %q: %w", d.Name, catalog.ErrDuplicate)
		}
		return fmt.Errorf("insert desarrollador: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = id
	return nil
}

// ByID returns the developer with the given ID, including deleted rows.
func (s *Developers) ByID(ctx context.Context, id int64) (*catalog.Developer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+developerColumns+` FROM desarrolladores WHERE id = ?`, id)
	d, err := scanDeveloper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("desarrollador %d: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query desarrollador %d: %w", id, err)
	}
	return d, nil
}

// List returns developers ordered by ID.
func (s *Developers) List(ctx context.Context, includeDeleted bool) ([]catalog.Developer, error) {
	q := `SELECT ` + developerColumns + ` FROM desarrolladores`
	if !includeDeleted {
		q += ` WHERE eliminado = 0`
	}
	q += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list desarrolladores: %w", err)
	}
	defer rows.Close()

	devs := make([]catalog.Developer, 0)
	for rows.Next() {
		d, err := scanDeveloper(rows)
		if err != nil {
			return nil, fmt.Errorf("scan desarrollador: %w", err)
		}
		devs = append(devs, *d)
	}
	return devs, rows.Err()
}

// Update rewrites the mutable columns of a developer.
func (s *Developers) Update(ctx context.Context, d *catalog.Developer) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE desarrolladores
		 SET nombre = ?, nombre_norm = ?, pais = ?, ano_fundacion = ?, sitio_web = ?, especialidad = ?
		 WHERE id = ?`,
		d.Name, catalog.FoldTitle(d.Name), d.Country, d.FoundingYear, d.Website, d.Specialty, d.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("desarrollador %q: %w", d.Name, catalog.ErrDuplicate)
		}
		return fmt.Errorf("update desarrollador %d: %w", d.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("desarrollador %d: %w", d.ID, catalog.ErrNotFound)
	}
	return nil
}

// SoftDelete marks a developer as deleted.
func (s *Developers) SoftDelete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE desarrolladores SET eliminado = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete desarrollador %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("desarrollador %d: %w", id, catalog.ErrNotFound)
	}
	return nil
}

// NameExists reports whether any developer uses the folded name.
func (s *Developers) NameExists(ctx context.Context, foldedName string, excludeID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM desarrolladores WHERE nombre_norm = ? AND id != ?`,
		foldedName, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("name exists: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of developers, optionally including deleted rows.
func (s *Developers) Count(ctx context.Context, includeDeleted bool) (int, error) {
	q := `SELECT COUNT(*) FROM desarrolladores`
	if !includeDeleted {
		q += ` WHERE eliminado = 0`
	}
	var n int
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count desarrolladores: %w", err)
	}
	return n, nil
}
