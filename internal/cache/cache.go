// SPDX-License-Identifier: MIT

// Package cache provides TTL caching for catalog read paths, with an
// in-memory default and an optional Redis backend.
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Cache is the read-path cache used by the service layer.
type Cache interface {
	// Get returns the cached value, or false when missing or expired.
	Get(key string) (any, bool)
	// Set stores a value under key for ttl.
	Set(key string, value any, ttl time.Duration)
	// Delete removes one key.
	Delete(key string)
	// Clear drops everything.
	Clear()
	// Stats reports hit/miss counters.
	Stats() Stats
}

// TypedGetter is implemented by backends whose values cross an encoding
// boundary on the way back. GetJSON decodes the cached value into dest,
// so the caller gets its own type instead of json.Unmarshal's generic
// shapes.
type TypedGetter interface {
	GetJSON(key string, dest any) bool
}

// Stats holds cache performance counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Sets        int64
	Evictions   int64
	CurrentSize int
}

type entry struct {
	value      any
	expiration time.Time
}

func (e *entry) expired(now time.Time) bool {
	return now.After(e.expiration)
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]*entry

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64

	stop chan struct{}
	once sync.Once
}

// NewMemory returns an in-memory cache. When cleanupInterval > 0 a
// background janitor evicts expired entries; call Stop to end it.
func NewMemory(cleanupInterval time.Duration) Cache {
	c := &memoryCache{
		entries: make(map[string]*entry),
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.janitor(cleanupInterval)
	}
	return c
}

func (c *memoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()

	if !found || e.expired(time.Now()) {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return e.value, true
}

func (c *memoryCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = &entry{value: value, expiration: time.Now().Add(ttl)}
	c.mu.Unlock()
	c.sets.Add(1)
}

func (c *memoryCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *memoryCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
}

func (c *memoryCache) Stats() Stats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()

	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Sets:        c.sets.Load(),
		Evictions:   c.evictions.Load(),
		CurrentSize: size,
	}
}

func (c *memoryCache) deleteExpired() {
	now := time.Now()
	c.mu.Lock()
	var evicted int64
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			evicted++
		}
	}
	c.mu.Unlock()
	c.evictions.Add(evicted)
}

func (c *memoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stop:
			return
		}
	}
}

// Stop ends the janitor goroutine. Safe to call more than once.
func (c *memoryCache) Stop() {
	c.once.Do(func() { close(c.stop) })
}

type noOpCache struct{}

// NewNoOp returns a cache that never stores anything.
func NewNoOp() Cache { return &noOpCache{} }

func (noOpCache) Get(string) (any, bool)           { return nil, false }
func (noOpCache) Set(string, any, time.Duration)   {}
func (noOpCache) Delete(string)                    {}
func (noOpCache) Clear()                           {}
func (noOpCache) Stats() Stats                     { return Stats{} }
