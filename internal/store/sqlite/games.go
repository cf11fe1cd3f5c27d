// SPDX-License-Identifier: MIT

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hcabrera/juegosd/internal/catalog"
)

// Games persists catalog.Game rows.
type Games struct {
	db *sql.DB
}

const gameColumns = `id, titulo, desarrollador_id, ano_lanzamiento, genero, plataformas, precio, imagen_url, eliminado`

func scanGame(row interface{ Scan(...any) error }) (*catalog.Game, error) {
	var g catalog.Game
	var platforms string
	var deleted int
	if err := row.Scan(&g.ID, &g.Title, &g.DeveloperID, &g.ReleaseYear, &g.Genre,
		&platforms, &g.Price, &g.ImageURL, &deleted); err != nil {
		return nil, err
	}
	g.Platforms = decodePlatforms(platforms)
	g.Deleted = deleted != 0
	return &g, nil
}

// Insert stores a new game and assigns its ID.
func (s *Games) Insert(ctx context.Context, g *catalog.Game) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO juegos (titulo, titulo_norm, desarrollador_id, ano_lanzamiento, genero, plataformas, precio, imagen_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Title, catalog.FoldTitle(g.Title), g.DeveloperID, g.ReleaseYear,
		g.Genre, encodePlatforms(g.Platforms), g.Price, g.ImageURL)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("titulo %q: %w", g.Title, catalog.ErrDuplicate)
		}
		return fmt.Errorf("insert juego: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert juego id: %w", err)
	}
	g.ID = id
	return nil
}

// ByID returns the game with the given ID, including soft-deleted rows.
// Callers decide whether a deleted row counts as found.
func (s *Games) ByID(ctx context.Context, id int64) (*catalog.Game, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM juegos WHERE id = ?`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("juego %d: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query juego %d: %w", id, err)
	}
	return g, nil
}

// List returns games ordered by ID. Soft-deleted rows are excluded unless
// includeDeleted is set.
func (s *Games) List(ctx context.Context, includeDeleted bool) ([]catalog.Game, error) {
	q := `SELECT ` + gameColumns + ` FROM juegos`
	if !includeDeleted {
		q += ` WHERE eliminado = 0`
	}
	q += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list juegos: %w", err)
	}
	defer rows.Close()

	games := make([]catalog.Game, 0)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan juego: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// Update rewrites the mutable columns of a game.
func (s *Games) Update(ctx context.Context, g *catalog.Game) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE juegos
		 SET titulo = ?, titulo_norm = ?, ano_lanzamiento = ?, genero = ?, plataformas = ?, precio = ?, imagen_url = ?
		 WHERE id = ?`,
		g.Title, catalog.FoldTitle(g.Title), g.ReleaseYear, g.Genre,
		encodePlatforms(g.Platforms), g.Price, g.ImageURL, g.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("titulo %q: %w", g.Title, catalog.ErrDuplicate)
		}
		return fmt.Errorf("update juego %d: %w", g.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("juego %d: %w", g.ID, catalog.ErrNotFound)
	}
	return nil
}

// SoftDelete marks a game as deleted.
func (s *Games) SoftDelete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE juegos SET eliminado = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete juego %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("juego %d: %w", id, catalog.ErrNotFound)
	}
	return nil
}

// TitleExists reports whether any game (deleted included) uses the folded
// title, excluding the given ID. The original service compared new titles
// against the full file, deleted rows included.
func (s *Games) TitleExists(ctx context.Context, foldedTitle string, excludeID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM juegos WHERE titulo_norm = ? AND id != ?`,
		foldedTitle, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("title exists: %w", err)
	}
	return n > 0, nil
}

// CountByGenre buckets live games by lowercased genre.
func (s *Games) CountByGenre(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT lower(trim(genero)), COUNT(*) FROM juegos WHERE eliminado = 0 GROUP BY lower(trim(genero))`)
	if err != nil {
		return nil, fmt.Errorf("count by genre: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var genre string
		var n int
		if err := rows.Scan(&genre, &n); err != nil {
			return nil, err
		}
		counts[genre] = n
	}
	return counts, rows.Err()
}

// AveragePrice returns the mean price of live games, 0 when there are none.
func (s *Games) AveragePrice(ctx context.Context) (float64, error) {
	var avg float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(precio), 0) FROM juegos WHERE eliminado = 0`).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average price: %w", err)
	}
	return avg, nil
}

// SetImageURL records the stored cover image for a game.
func (s *Games) SetImageURL(ctx context.Context, id int64, url string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE juegos SET imagen_url = ? WHERE id = ?`, url, id)
	if err != nil {
		return fmt.Errorf("set image url: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("juego %d: %w", id, catalog.ErrNotFound)
	}
	return nil
}

// Count returns the number of games, optionally including deleted rows.
func (s *Games) Count(ctx context.Context, includeDeleted bool) (int, error) {
	q := `SELECT COUNT(*) FROM juegos`
	if !includeDeleted {
		q += ` WHERE eliminado = 0`
	}
	var n int
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count juegos: %w", err)
	}
	return n, nil
}
