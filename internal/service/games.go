// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/hcabrera/juegosd/internal/cache"
	"github.com/hcabrera/juegosd/internal/catalog"
	"github.com/hcabrera/juegosd/internal/log"
	"github.com/hcabrera/juegosd/internal/media"
	"github.com/hcabrera/juegosd/internal/metrics"
	"github.com/hcabrera/juegosd/internal/store/sqlite"
)

// PriceStats is the /juegos/estadisticas/precio-promedio payload.
type PriceStats struct {
	Average float64 `json:"precio_promedio"`
	Total   int     `json:"total_juegos"`
}

// GameService owns game CRUD, filtering, statistics and cover images.
type GameService struct {
	store *sqlite.Store
	cache cache.Cache
	media media.Store
	ttl   time.Duration
	gen   generation
}

func NewGameService(store *sqlite.Store, c cache.Cache, m media.Store, ttl time.Duration) *GameService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &GameService{store: store, cache: c, media: m, ttl: ttl}
}

func (s *GameService) validate(g *catalog.Game) error {
	g.Title = strings.TrimSpace(g.Title)
	g.Genre = strings.TrimSpace(g.Genre)
	if g.Title == "" {
		return invalid("el titulo es obligatorio")
	}
	if g.Genre == "" {
		g.Genre = "Desconocido"
	}
	if g.ReleaseYear == 0 {
		g.ReleaseYear = time.Now().Year()
	}
	if g.DeveloperID <= 0 {
		return invalid("desarrollador_id es obligatorio")
	}
	if g.Price < 0 {
		return invalid("el precio no puede ser negativo")
	}
	if g.ReleaseYear != 0 && (g.ReleaseYear < 1950 || g.ReleaseYear > time.Now().Year()+2) {
		return invalid("ano_lanzamiento %d fuera de rango", g.ReleaseYear)
	}
	if g.Platforms == nil {
		g.Platforms = []string{}
	}
	return nil
}

// Create validates and stores a new game. The title must be unique across
// the whole catalog, deleted games included, ignoring case and diacritics.
func (s *GameService) Create(ctx context.Context, g *catalog.Game) (err error) {
	defer func() { metrics.IncMutation("juegos", "create", err) }()

	if err = s.validate(g); err != nil {
		return err
	}
	dev, err := s.store.Developers.ByID(ctx, g.DeveloperID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return invalid("desarrollador %d no existe", g.DeveloperID)
		}
		return err
	}
	if dev.Deleted {
		return invalid("desarrollador %d no existe", g.DeveloperID)
	}
	exists, err := s.store.Games.TitleExists(ctx, catalog.FoldTitle(g.Title), 0)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("titulo %q: %w", g.Title, catalog.ErrDuplicate)
	}

	if err = s.store.Games.Insert(ctx, g); err != nil {
		return err
	}
	s.gen.bump()
	logger := log.WithComponentFromContext(ctx, "games")
	logger.Info().
		Str("event", "juego.created").
		Int64("id", g.ID).
		Str("titulo", g.Title).
		Msg("game created")
	return nil
}

// Get returns a live game. Soft-deleted games read as missing.
func (s *GameService) Get(ctx context.Context, id int64) (*catalog.Game, error) {
	g, err := s.store.Games.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Deleted {
		return nil, fmt.Errorf("juego %d: %w", id, catalog.ErrNotFound)
	}
	return g, nil
}

// List returns live games matching the filter. Unfiltered listings are
// served from cache.
func (s *GameService) List(ctx context.Context, f catalog.GameFilter) ([]catalog.Game, error) {
	key := s.gen.key("juegos", "list")
	if f.Empty() {
		if games, ok := cached[[]catalog.Game](s.cache, key); ok {
			return games, nil
		}
	}

	games, err := s.store.Games.List(ctx, false)
	if err != nil {
		return nil, err
	}
	if f.Empty() {
		s.cache.Set(key, games, s.ttl)
		return games, nil
	}
	return filterGames(games, f), nil
}

func filterGames(games []catalog.Game, f catalog.GameFilter) []catalog.Game {
	wantTitle := catalog.FoldTitle(f.Title)
	wantGenre := catalog.FoldTitle(f.Genre)
	wantPlatform := catalog.FoldTitle(f.Platform)

	out := make([]catalog.Game, 0, len(games))
	for _, g := range games {
		if wantGenre != "" && catalog.FoldTitle(g.Genre) != wantGenre {
			continue
		}
		if wantPlatform != "" && !hasPlatform(g.Platforms, wantPlatform) {
			continue
		}
		if f.MinPrice != nil && g.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && g.Price > *f.MaxPrice {
			continue
		}
		if wantTitle != "" {
			folded := catalog.FoldTitle(g.Title)
			if f.Exact {
				if folded != wantTitle {
					continue
				}
			} else if !strings.Contains(folded, wantTitle) {
				continue
			}
		}
		out = append(out, g)
	}
	return out
}

func hasPlatform(platforms []string, want string) bool {
	for _, p := range platforms {
		if catalog.FoldTitle(p) == want {
			return true
		}
	}
	return false
}

// Update replaces the mutable fields of a live game. Uniqueness checks
// exclude the game itself so renaming to the same title works.
func (s *GameService) Update(ctx context.Context, g *catalog.Game) (err error) {
	defer func() { metrics.IncMutation("juegos", "update", err) }()

	current, err := s.Get(ctx, g.ID)
	if err != nil {
		return err
	}
	// Omitted fields keep their stored value instead of picking up the
	// creation defaults.
	if g.DeveloperID == 0 {
		g.DeveloperID = current.DeveloperID
	}
	if strings.TrimSpace(g.Genre) == "" {
		g.Genre = current.Genre
	}
	if g.ReleaseYear == 0 {
		g.ReleaseYear = current.ReleaseYear
	}
	if g.Platforms == nil {
		g.Platforms = current.Platforms
	}
	if err = s.validate(g); err != nil {
		return err
	}
	if g.DeveloperID != current.DeveloperID {
		return invalid("desarrollador_id no se puede cambiar")
	}
	exists, err := s.store.Games.TitleExists(ctx, catalog.FoldTitle(g.Title), g.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("titulo %q: %w", g.Title, catalog.ErrDuplicate)
	}
	if g.ImageURL == "" {
		g.ImageURL = current.ImageURL
	}

	if err = s.store.Games.Update(ctx, g); err != nil {
		return err
	}
	s.gen.bump()
	return nil
}

// Delete soft-deletes a live game.
func (s *GameService) Delete(ctx context.Context, id int64) (err error) {
	defer func() { metrics.IncMutation("juegos", "delete", err) }()

	if _, err = s.Get(ctx, id); err != nil {
		return err
	}
	if err = s.store.Games.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.gen.bump()
	logger := log.WithComponentFromContext(ctx, "games")
	logger.Info().
		Str("event", "juego.deleted").
		Int64("id", id).
		Msg("game soft-deleted")
	return nil
}

// CountByGenre buckets live games by genre, keys title-cased the way the
// original statistics endpoint presented them.
func (s *GameService) CountByGenre(ctx context.Context) (map[string]int, error) {
	key := s.gen.key("juegos", "stats", "generos")
	if counts, ok := cached[map[string]int](s.cache, key); ok {
		return counts, nil
	}

	raw, err := s.store.Games.CountByGenre(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(raw))
	for genre, n := range raw {
		counts[catalog.TitleCaseGenre(genre)] = n
	}
	s.cache.Set(key, counts, s.ttl)
	return counts, nil
}

// AveragePrice returns the mean price over live games, rounded to cents.
func (s *GameService) AveragePrice(ctx context.Context) (PriceStats, error) {
	key := s.gen.key("juegos", "stats", "precio")
	if stats, ok := cached[PriceStats](s.cache, key); ok {
		return stats, nil
	}

	avg, err := s.store.Games.AveragePrice(ctx)
	if err != nil {
		return PriceStats{}, err
	}
	total, err := s.store.Games.Count(ctx, false)
	if err != nil {
		return PriceStats{}, err
	}
	stats := PriceStats{
		Average: math.Round(avg*100) / 100,
		Total:   total,
	}
	s.cache.Set(key, stats, s.ttl)
	return stats, nil
}

// AttachImage validates and stores a cover image for a live game, then
// records its serving URL. A previous cover is removed afterwards.
func (s *GameService) AttachImage(ctx context.Context, id int64, r io.Reader) (string, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	name, err := s.media.Save(r)
	switch {
	case errors.Is(err, media.ErrTooLarge):
		metrics.IncImageUpload("too_large")
		return "", fmt.Errorf("%s: %w", err.Error(), catalog.ErrInvalid)
	case errors.Is(err, media.ErrUnsupportedType):
		metrics.IncImageUpload("bad_type")
		return "", fmt.Errorf("%s: %w", err.Error(), catalog.ErrInvalid)
	case err != nil:
		metrics.IncImageUpload("failure")
		return "", err
	}

	url := "/imagenes/" + name
	if err := s.store.Games.SetImageURL(ctx, id, url); err != nil {
		_ = s.media.Delete(name)
		metrics.IncImageUpload("failure")
		return "", err
	}

	if old := strings.TrimPrefix(g.ImageURL, "/imagenes/"); old != "" && old != g.ImageURL {
		_ = s.media.Delete(old)
	}
	s.gen.bump()
	metrics.IncImageUpload("success")
	return url, nil
}

// Image loads a stored cover by name.
func (s *GameService) Image(name string) (*media.Blob, error) {
	return s.media.Get(name)
}
