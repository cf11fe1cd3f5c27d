// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hcabrera/juegosd/internal/log"
)

// Holder keeps the live configuration and supports hot reload from the
// config file. Readers always see a consistent snapshot.
type Holder struct {
	mu       sync.RWMutex
	current  AppConfig
	loader   *Loader
	path     string
	onChange []func(AppConfig)
}

// NewHolder creates a holder seeded with the initial configuration.
func NewHolder(initial AppConfig, loader *Loader, path string) *Holder {
	return &Holder{current: initial, loader: loader, path: path}
}

// Current returns the live configuration snapshot.
func (h *Holder) Current() AppConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// OnChange registers a callback invoked after every successful reload.
func (h *Holder) OnChange(fn func(AppConfig)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// Reload re-resolves configuration from file and environment. On error the
// previous configuration stays active.
func (h *Holder) Reload() error {
	cfg, err := h.loader.Load()
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.current = cfg
	callbacks := append([]func(AppConfig){}, h.onChange...)
	h.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
	return nil
}

// Watch blocks until ctx is done, reloading the configuration whenever the
// config file changes. Editors replace files on save, so the parent
// directory is watched and events are debounced.
func (h *Holder) Watch(ctx context.Context) error {
	if h.path == "" {
		<-ctx.Done()
		return nil
	}

	logger := log.WithComponent("config")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Debug().Err(err).Msg("close config watcher")
		}
	}()

	dir := filepath.Dir(h.path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	var debounce *time.Timer
	reload := func() {
		if err := h.Reload(); err != nil {
			logger.Error().
				Err(err).
				Str("event", "config.reload_failed").
				Str("path", h.path).
				Msg("config reload failed, keeping previous configuration")
			return
		}
		logger.Info().
			Str("event", "config.reloaded").
			Str("path", h.path).
			Msg("configuration reloaded")
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(h.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(250*time.Millisecond, reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("config watcher error")
		}
	}
}
