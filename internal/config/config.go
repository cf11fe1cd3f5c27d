// SPDX-License-Identifier: MIT

// Package config loads juegosd configuration with precedence
// ENV > config file > defaults.
package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Defaults for the public listener. The service binds all interfaces on
// port 10000, matching the deployment contract of the hosted original.
const (
	DefaultListenAddr  = "0.0.0.0:10000"
	DefaultMetricsAddr = ":9090"
	DefaultMediaMax    = 5 << 20 // 5 MB upload cap
)

// AppConfig is the resolved application configuration.
type AppConfig struct {
	// Server
	ListenAddr string
	DataDir    string
	DBPath     string

	// Logging
	LogLevel   string
	LogService string
	Version    string

	// Auth: empty token leaves the API open, as the original service was.
	APIToken string

	// HTTP hardening
	AllowedOrigins []string
	TrustedProxies string
	RateLimitRPS   int
	RateLimitBurst int

	// Metrics
	MetricsEnabled bool
	MetricsAddr    string

	// Cache: "memory", "redis" or "none"
	CacheBackend  string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Media: "dir" or "badger"
	MediaBackend  string
	MediaDir      string
	MediaMaxBytes int64

	// Reviews: per-user token bucket (creations per minute)
	ReviewRatePerMinute int

	// Tracing: OTLP/HTTP endpoint, empty disables tracing
	TracingEndpoint string

	// Seed the database from CSV files in the data dir when it is empty.
	ImportOnStart bool
}

// Loader resolves the configuration from defaults, an optional YAML file
// and the environment, in increasing precedence.
type Loader struct {
	path    string
	version string
}

// NewLoader creates a configuration loader. path may be empty.
func NewLoader(path, version string) *Loader {
	return &Loader{path: path, version: version}
}

// Load resolves the configuration.
func (l *Loader) Load() (AppConfig, error) {
	cfg := defaults(l.version)

	if l.path != "" {
		fileCfg, err := readFile(l.path)
		if err != nil {
			return AppConfig{}, fmt.Errorf("config file %s: %w", l.path, err)
		}
		mergeFile(&cfg, fileCfg)
	}

	mergeEnv(&cfg)

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "catalogo.db")
	}
	if cfg.MediaDir == "" {
		cfg.MediaDir = filepath.Join(cfg.DataDir, "imagenes")
	}

	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func defaults(version string) AppConfig {
	return AppConfig{
		ListenAddr:          DefaultListenAddr,
		DataDir:             "data",
		LogLevel:            "info",
		LogService:          "juegosd",
		Version:             version,
		RateLimitRPS:        50,
		RateLimitBurst:      100,
		MetricsEnabled:      true,
		MetricsAddr:         DefaultMetricsAddr,
		CacheBackend:        "memory",
		CacheTTL:            60 * time.Second,
		RedisDB:             0,
		MediaBackend:        "dir",
		MediaMaxBytes:       DefaultMediaMax,
		ReviewRatePerMinute: 10,
		ImportOnStart:       true,
	}
}

func mergeEnv(cfg *AppConfig) {
	cfg.ListenAddr = ParseString("JUEGOS_LISTEN", cfg.ListenAddr)
	cfg.DataDir = ParseString("JUEGOS_DATA", cfg.DataDir)
	cfg.DBPath = ParseString("JUEGOS_DB_PATH", cfg.DBPath)
	cfg.LogLevel = ParseString("JUEGOS_LOG_LEVEL", cfg.LogLevel)
	cfg.APIToken = ParseString("JUEGOS_API_TOKEN", cfg.APIToken)
	cfg.AllowedOrigins = ParseStringSlice("JUEGOS_ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.TrustedProxies = ParseString("JUEGOS_TRUSTED_PROXIES", cfg.TrustedProxies)
	cfg.RateLimitRPS = ParseInt("JUEGOS_RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = ParseInt("JUEGOS_RATE_LIMIT_BURST", cfg.RateLimitBurst)
	cfg.MetricsEnabled = ParseBool("JUEGOS_METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.MetricsAddr = ParseString("JUEGOS_METRICS_ADDR", cfg.MetricsAddr)
	cfg.CacheBackend = ParseString("JUEGOS_CACHE_BACKEND", cfg.CacheBackend)
	cfg.CacheTTL = ParseDuration("JUEGOS_CACHE_TTL", cfg.CacheTTL)
	cfg.RedisAddr = ParseString("JUEGOS_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = ParseString("JUEGOS_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = ParseInt("JUEGOS_REDIS_DB", cfg.RedisDB)
	cfg.MediaBackend = ParseString("JUEGOS_MEDIA_BACKEND", cfg.MediaBackend)
	cfg.MediaDir = ParseString("JUEGOS_MEDIA_DIR", cfg.MediaDir)
	cfg.MediaMaxBytes = ParseInt64("JUEGOS_MEDIA_MAX_BYTES", cfg.MediaMaxBytes)
	cfg.ReviewRatePerMinute = ParseInt("JUEGOS_REVIEW_RATE", cfg.ReviewRatePerMinute)
	cfg.TracingEndpoint = ParseString("JUEGOS_OTLP_ENDPOINT", cfg.TracingEndpoint)
	cfg.ImportOnStart = ParseBool("JUEGOS_IMPORT_ON_START", cfg.ImportOnStart)
}
