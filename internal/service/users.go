// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/hcabrera/juegosd/internal/catalog"
	"github.com/hcabrera/juegosd/internal/metrics"
	"github.com/hcabrera/juegosd/internal/store/sqlite"
)

// UserService owns user CRUD. Emails are unique case-insensitively.
type UserService struct {
	store *sqlite.Store
}

func NewUserService(store *sqlite.Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) validate(u *catalog.User) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	if u.Name == "" {
		return invalid("el nombre es obligatorio")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return invalid("email %q no es valido", u.Email)
	}
	return nil
}

func (s *UserService) Create(ctx context.Context, u *catalog.User) (err error) {
	defer func() { metrics.IncMutation("usuarios", "create", err) }()

	if err = s.validate(u); err != nil {
		return err
	}
	exists, err := s.store.Users.EmailExists(ctx, u.Email, 0)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("email %q: %w", u.Email, catalog.ErrDuplicate)
	}
	if u.RegisteredAt == "" {
		u.RegisteredAt = catalog.Today()
	}
	return s.store.Users.Insert(ctx, u)
}

func (s *UserService) Get(ctx context.Context, id int64) (*catalog.User, error) {
	u, err := s.store.Users.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Deleted {
		return nil, fmt.Errorf("usuario %d: %w", id, catalog.ErrNotFound)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]catalog.User, error) {
	return s.store.Users.List(ctx, false)
}

func (s *UserService) Update(ctx context.Context, u *catalog.User) (err error) {
	defer func() { metrics.IncMutation("usuarios", "update", err) }()

	current, err := s.Get(ctx, u.ID)
	if err != nil {
		return err
	}
	if err = s.validate(u); err != nil {
		return err
	}
	exists, err := s.store.Users.EmailExists(ctx, u.Email, u.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("email %q: %w", u.Email, catalog.ErrDuplicate)
	}
	if u.RegisteredAt == "" {
		u.RegisteredAt = current.RegisteredAt
	}
	return s.store.Users.Update(ctx, u)
}

func (s *UserService) Delete(ctx context.Context, id int64) (err error) {
	defer func() { metrics.IncMutation("usuarios", "delete", err) }()

	if _, err = s.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Users.SoftDelete(ctx, id)
}
