// SPDX-License-Identifier: MIT

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hcabrera/juegosd/internal/catalog"
)

// Reviews persists catalog.Review rows.
type Reviews struct {
	db *sql.DB
}

const reviewColumns = `id, id_videojuego, id_usuario, calificacion, comentario, fecha, eliminado`

func scanReview(row interface{ Scan(...any) error }) (*catalog.Review, error) {
	var r catalog.Review
	var deleted int
	if err := row.Scan(&r.ID, &r.GameID, &r.UserID, &r.Rating, &r.Comment, &r.Date, &deleted); err != nil {
		return nil, err
	}
	r.Deleted = deleted != 0
	return &r, nil
}

// Insert stores a new review and assigns its ID.
func (s *Reviews) Insert(ctx context.Context, r *catalog.Review) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO resenas (id_videojuego, id_usuario, calificacion, comentario, fecha)
		 VALUES (?, ?, ?, ?, ?)`,
		r.GameID, r.UserID, r.Rating, r.Comment, r.Date)
	if err != nil {
		return fmt.Errorf("insert resena: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

// ByID returns the review with the given ID, including deleted rows.
func (s *Reviews) ByID(ctx context.Context, id int64) (*catalog.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM resenas WHERE id = ?`, id)
	r, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resena %d: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query resena %d: %w", id, err)
	}
	return r, nil
}

// List returns reviews ordered by ID, optionally restricted to one game.
// gameID <= 0 lists all reviews.
func (s *Reviews) List(ctx context.Context, gameID int64, includeDeleted bool) ([]catalog.Review, error) {
	q := `SELECT ` + reviewColumns + ` FROM resenas WHERE 1=1`
	args := []any{}
	if !includeDeleted {
		q += ` AND eliminado = 0`
	}
	if gameID > 0 {
		q += ` AND id_videojuego = ?`
		args = append(args, gameID)
	}
	q += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list resenas: %w", err)
	}
	defer rows.Close()

	reviews := make([]catalog.Review, 0)
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resena: %w", err)
		}
		reviews = append(reviews, *r)
	}
	return reviews, rows.Err()
}

// Update rewrites the mutable columns of a review.
func (s *Reviews) Update(ctx context.Context, r *catalog.Review) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE resenas SET calificacion = ?, comentario = ? WHERE id = ?`,
		r.Rating, r.Comment, r.ID)
	if err != nil {
		return fmt.Errorf("update resena %d: %w", r.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("resena %d: %w", r.ID, catalog.ErrNotFound)
	}
	return nil
}

// SoftDelete marks a review as deleted.
func (s *Reviews) SoftDelete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE resenas SET eliminado = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete resena %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("resena %d: %w", id, catalog.ErrNotFound)
	}
	return nil
}

// Count returns the number of reviews, optionally including deleted rows.
func (s *Reviews) Count(ctx context.Context, includeDeleted bool) (int, error) {
	q := `SELECT COUNT(*) FROM resenas`
	if !includeDeleted {
		q += ` WHERE eliminado = 0`
	}
	var n int
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count resenas: %w", err)
	}
	return n, nil
}
