// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewLoader("", "test").Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, filepath.Join("data", "catalogo.db"), cfg.DBPath)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, "dir", cfg.MediaBackend)
	assert.EqualValues(t, DefaultMediaMax, cfg.MediaMaxBytes)
	assert.True(t, cfg.ImportOnStart)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
listen: "127.0.0.1:7000"
logLevel: debug
cache:
  backend: none
media:
  backend: badger
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("JUEGOS_LISTEN", "127.0.0.1:9100")
	t.Setenv("JUEGOS_CACHE_TTL", "5m")

	cfg, err := NewLoader(path, "test").Load()
	require.NoError(t, err)

	// ENV wins over file, file wins over defaults.
	assert.Equal(t, "127.0.0.1:9100", cfg.ListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "none", cfg.CacheBackend)
	assert.Equal(t, "badger", cfg.MediaBackend)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestLoadRejectsUnknownFileKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nonsense: true\n"), 0o600))

	_, err := NewLoader(path, "test").Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"defaults_ok", func(c *AppConfig) {}, false},
		{"bad_listen", func(c *AppConfig) { c.ListenAddr = "nonsense" }, true},
		{"redis_without_addr", func(c *AppConfig) { c.CacheBackend = "redis" }, true},
		{"redis_with_addr", func(c *AppConfig) {
			c.CacheBackend = "redis"
			c.RedisAddr = "localhost:6379"
		}, false},
		{"unknown_cache", func(c *AppConfig) { c.CacheBackend = "memcached" }, true},
		{"unknown_media", func(c *AppConfig) { c.MediaBackend = "s3" }, true},
		{"zero_media_cap", func(c *AppConfig) { c.MediaMaxBytes = 0 }, true},
		{"bad_proxy_cidr", func(c *AppConfig) { c.TrustedProxies = "10.0.0.1" }, true},
		{"good_proxy_cidr", func(c *AppConfig) { c.TrustedProxies = "10.0.0.0/8, 192.168.0.0/16" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults("test")
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHolderReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logLevel: info\n"), 0o600))

	loader := NewLoader(path, "test")
	initial, err := loader.Load()
	require.NoError(t, err)

	holder := NewHolder(initial, loader, path)

	// Break the file; reload must fail and keep the old snapshot.
	require.NoError(t, os.WriteFile(path, []byte("listen: [broken\n"), 0o600))
	assert.Error(t, holder.Reload())
	assert.Equal(t, initial.ListenAddr, holder.Current().ListenAddr)

	// Fix the file; reload succeeds and callbacks fire.
	var seen []string
	holder.OnChange(func(c AppConfig) { seen = append(seen, c.LogLevel) })
	require.NoError(t, os.WriteFile(path, []byte("logLevel: warn\n"), 0o600))
	require.NoError(t, holder.Reload())
	assert.Equal(t, "warn", holder.Current().LogLevel)
	assert.Equal(t, []string{"warn"}, seen)
}
