// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hcabrera/juegosd/internal/catalog"
	"github.com/hcabrera/juegosd/internal/metrics"
	"github.com/hcabrera/juegosd/internal/store/sqlite"
)

// DeveloperService owns studio CRUD. Names are unique the same way game
// titles are: case and diacritic insensitive, deleted rows included.
type DeveloperService struct {
	store *sqlite.Store
}

func NewDeveloperService(store *sqlite.Store) *DeveloperService {
	return &DeveloperService{store: store}
}

func (s *DeveloperService) validate(d *catalog.Developer) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return invalid("el nombre es obligatorio")
	}
	if d.FoundingYear != 0 && (d.FoundingYear < 1950 || d.FoundingYear > time.Now().Year()) {
		return invalid("ano_fundacion %d fuera de rango", d.FoundingYear)
	}
	return nil
}

func (s *DeveloperService) Create(ctx context.Context, d *catalog.Developer) (err error) {
	defer func() { metrics.IncMutation("desarrolladores", "create", err) }()

	if err = s.validate(d); err != nil {
		return err
	}
	exists, err := s.store.Developers.NameExists(ctx, catalog.FoldTitle(d.Name), 0)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("nombre %q: %w", d.Name, catalog.ErrDuplicate)
	}
	return s.store.Developers.Insert(ctx, d)
}

func (s *DeveloperService) Get(ctx context.Context, id int64) (*catalog.Developer, error) {
	d, err := s.store.Developers.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Deleted {
		return nil, fmt.Errorf("desarrollador %d: %w", id, catalog.ErrNotFound)
	}
	return d, nil
}

func (s *DeveloperService) List(ctx context.Context) ([]catalog.Developer, error) {
	return s.store.Developers.List(ctx, false)
}

func (s *DeveloperService) Update(ctx context.Context, d *catalog.Developer) (err error) {
	defer func() { metrics.IncMutation("desarrolladores", "update", err) }()

	if _, err = s.Get(ctx, d.ID); err != nil {
		return err
	}
	if err = s.validate(d); err != nil {
		return err
	}
	exists, err := s.store.Developers.NameExists(ctx, catalog.FoldTitle(d.Name), d.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("nombre %q: %w", d.Name, catalog.ErrDuplicate)
	}
	return s.store.Developers.Update(ctx, d)
}

// Delete soft-deletes a studio. Studios still referenced by live games
// cannot go away, or their games would point at nothing.
func (s *DeveloperService) Delete(ctx context.Context, id int64) (err error) {
	defer func() { metrics.IncMutation("desarrolladores", "delete", err) }()

	if _, err = s.Get(ctx, id); err != nil {
		return err
	}

	games, err := s.store.Games.List(ctx, false)
	if err != nil {
		return err
	}
	for _, g := range games {
		if g.DeveloperID == id {
			return fmt.Errorf("desarrollador %d tiene juegos activos: %w", id, catalog.ErrNotPermitted)
		}
	}
	return s.store.Developers.SoftDelete(ctx, id)
}
