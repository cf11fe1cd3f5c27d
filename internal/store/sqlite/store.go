// SPDX-License-Identifier: MIT

package sqlite

import (
	"database/sql"
	"strings"
)

// Store bundles the per-entity repositories over one connection pool.
type Store struct {
	db         *sql.DB
	Games      *Games
	Developers *Developers
	Users      *Users
	Reviews    *Reviews
}

// New wires the entity repositories. Migrate must have run.
func New(db *sql.DB) *Store {
	return &Store{
		db:         db,
		Games:      &Games{db: db},
		Developers: &Developers{db: db},
		Users:      &Users{db: db},
		Reviews:    &Reviews{db: db},
	}
}

// DB exposes the underlying pool for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// isUniqueViolation reports whether err is a UNIQUE index violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// platformsSep joins the platform list into a single column, the same
// comma-joined encoding the original CSV files used.
const platformsSep = ","

func encodePlatforms(platforms []string) string {
	cleaned := make([]string, 0, len(platforms))
	for _, p := range platforms {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, platformsSep)
}

func decodePlatforms(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, platformsSep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
