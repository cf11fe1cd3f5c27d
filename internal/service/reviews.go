// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/hcabrera/juegosd/internal/catalog"
	"github.com/hcabrera/juegosd/internal/metrics"
	"github.com/hcabrera/juegosd/internal/store/sqlite"
)

// ErrRateLimited means a user posted reviews faster than allowed.
var ErrRateLimited = fmt.Errorf("demasiadas resenas en poco tiempo: %w", catalog.ErrNotPermitted)

// ReviewService owns review CRUD with a per-user posting limit.
type ReviewService struct {
	store *sqlite.Store

	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	perMin   int
}

// NewReviewService builds the service. perMinute <= 0 disables the limit.
func NewReviewService(store *sqlite.Store, perMinute int) *ReviewService {
	return &ReviewService{
		store:    store,
		limiters: make(map[int64]*rate.Limiter),
		perMin:   perMinute,
	}
}

func (s *ReviewService) allow(userID int64) bool {
	if s.perMin <= 0 {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	lim, ok := s.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(float64(s.perMin)/60.0), s.perMin)
		s.limiters[userID] = lim
	}
	return lim.Allow()
}

func (s *ReviewService) validate(r *catalog.Review) error {
	r.Comment = strings.TrimSpace(r.Comment)
	if r.Rating < 1 || r.Rating > 5 {
		return invalid("calificacion %d fuera de rango (1-5)", r.Rating)
	}
	return nil
}

// Create validates references and stores a review. The game and the user
// must both exist and be live.
func (s *ReviewService) Create(ctx context.Context, r *catalog.Review) (err error) {
	defer func() { metrics.IncMutation("resenas", "create", err) }()

	if err = s.validate(r); err != nil {
		return err
	}
	g, err := s.store.Games.ByID(ctx, r.GameID)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return invalid("juego %d no existe", r.GameID)
	case err != nil:
		return err
	case g.Deleted:
		return invalid("juego %d no existe", r.GameID)
	}
	u, err := s.store.Users.ByID(ctx, r.UserID)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return invalid("usuario %d no existe", r.UserID)
	case err != nil:
		return err
	case u.Deleted:
		return invalid("usuario %d no existe", r.UserID)
	}
	if !s.allow(r.UserID) {
		return ErrRateLimited
	}
	if r.Date == "" {
		r.Date = catalog.Now()
	}
	return s.store.Reviews.Insert(ctx, r)
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*catalog.Review, error) {
	r, err := s.store.Reviews.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Deleted {
		return nil, fmt.Errorf("resena %d: %w", id, catalog.ErrNotFound)
	}
	return r, nil
}

// List returns live reviews, optionally for a single game.
func (s *ReviewService) List(ctx context.Context, gameID int64) ([]catalog.Review, error) {
	return s.store.Reviews.List(ctx, gameID, false)
}

// Update changes rating and comment. The author and game never change.
func (s *ReviewService) Update(ctx context.Context, r *catalog.Review) (err error) {
	defer func() { metrics.IncMutation("resenas", "update", err) }()

	current, err := s.Get(ctx, r.ID)
	if err != nil {
		return err
	}
	if err = s.validate(r); err != nil {
		return err
	}
	r.GameID = current.GameID
	r.UserID = current.UserID
	r.Date = current.Date
	return s.store.Reviews.Update(ctx, r)
}

func (s *ReviewService) Delete(ctx context.Context, id int64) (err error) {
	defer func() { metrics.IncMutation("resenas", "delete", err) }()

	if _, err = s.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Reviews.SoftDelete(ctx, id)
}
