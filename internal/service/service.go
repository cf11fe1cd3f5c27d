// SPDX-License-Identifier: MIT

// Package service implements the catalog use cases on top of the SQLite
// store: validation, soft-delete visibility, caching and statistics.
package service

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hcabrera/juegosd/internal/cache"
	"github.com/hcabrera/juegosd/internal/catalog"
	"github.com/hcabrera/juegosd/internal/metrics"
)

// DefaultCacheTTL bounds how stale a cached listing may get even without
// invalidation.
const DefaultCacheTTL = 5 * time.Minute

// generation invalidates cached reads without enumerating keys: every
// mutation bumps the counter, leaving stale entries to expire by TTL.
type generation struct {
	n atomic.Int64
}

func (g *generation) key(parts ...string) string {
	return fmt.Sprintf("v%d:%s", g.n.Load(), strings.Join(parts, ":"))
}

func (g *generation) bump() { g.n.Add(1) }

// cached reads a typed value from the cache. Backends that re-shape
// values through an encoding (Redis) decode straight into T via
// GetJSON; the in-memory backend hands the stored value back and a
// wrong type counts as a miss.
func cached[T any](c cache.Cache, key string) (T, bool) {
	var zero T
	if tg, ok := c.(cache.TypedGetter); ok {
		var v T
		if tg.GetJSON(key, &v) {
			metrics.IncCacheLookup(true)
			return v, true
		}
		metrics.IncCacheLookup(false)
		return zero, false
	}
	v, ok := c.Get(key)
	if !ok {
		metrics.IncCacheLookup(false)
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		metrics.IncCacheLookup(false)
		return zero, false
	}
	metrics.IncCacheLookup(true)
	return typed, true
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), catalog.ErrInvalid)
}
