// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hcabrera/juegosd/internal/api"
	"github.com/hcabrera/juegosd/internal/cache"
	"github.com/hcabrera/juegosd/internal/config"
	"github.com/hcabrera/juegosd/internal/daemon"
	"github.com/hcabrera/juegosd/internal/health"
	jlog "github.com/hcabrera/juegosd/internal/log"
	"github.com/hcabrera/juegosd/internal/media"
	"github.com/hcabrera/juegosd/internal/metrics"
	"github.com/hcabrera/juegosd/internal/service"
	"github.com/hcabrera/juegosd/internal/store/csvstore"
	"github.com/hcabrera/juegosd/internal/store/sqlite"
	"github.com/hcabrera/juegosd/internal/telemetry"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Safe defaults until the real configuration is loaded.
	jlog.Configure(jlog.Config{
		Level:   "info",
		Service: "juegosd",
		Version: version,
	})

	logger := jlog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config path: explicit via --config, otherwise auto-load
	// ${JUEGOS_DATA}/config.yaml when it exists.
	effectiveConfigPath := strings.TrimSpace(*configPath)
	if effectiveConfigPath == "" {
		dataDir := strings.TrimSpace(config.ParseString("JUEGOS_DATA", "data"))
		autoPath := filepath.Join(dataDir, "config.yaml")
		if _, err := os.Stat(autoPath); err == nil {
			effectiveConfigPath = autoPath
		}
	}

	loader := config.NewLoader(effectiveConfigPath, version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", effectiveConfigPath).
			Msg("failed to load configuration")
	}

	jlog.Configure(jlog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})

	if effectiveConfigPath != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str("path", effectiveConfigPath).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	serverCfg := config.ParseServerConfig()
	serverCfg.ListenAddr = cfg.ListenAddr

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", serverCfg.ListenAddr).
		Msg("starting juegosd")

	logger.Info().Msgf("→ Data dir: %s", cfg.DataDir)
	logger.Info().Msgf("→ Database: %s", cfg.DBPath)
	logger.Info().Msgf("→ Cache: %s (TTL %s)", cfg.CacheBackend, cfg.CacheTTL)
	logger.Info().Msgf("→ Media: %s (max %d bytes)", cfg.MediaBackend, cfg.MediaMaxBytes)
	if cfg.APIToken != "" {
		logger.Info().Msg("→ API token: configured")
	} else {
		logger.Warn().
			Str("security", "weak").
			Msg("→ API token: NOT configured (mutations open). Set JUEGOS_API_TOKEN for security.")
	}

	tracing, err := telemetry.NewProvider(ctx, telemetry.Config{
		ServiceName:    "juegosd",
		ServiceVersion: version,
		Endpoint:       cfg.TracingEndpoint,
		SamplingRate:   1,
	})
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "tracing.init_failed").
			Msg("failed to initialise tracing")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "datadir.create_failed").
			Str("path", cfg.DataDir).
			Msg("failed to create data directory")
	}

	db, err := sqlite.Open(cfg.DBPath, sqlite.DefaultConfig())
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "db.open_failed").
			Str("path", cfg.DBPath).
			Msg("failed to open database")
	}
	if err := sqlite.Migrate(ctx, db); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "db.migrate_failed").
			Msg("failed to migrate database")
	}
	store := sqlite.New(db)

	if cfg.ImportOnStart {
		seedFromCSV(ctx, store, cfg.DataDir, logger)
	}

	appCache, cacheCleanup, redisCache := buildCache(cfg, logger)
	mediaStore, mediaCleanup := buildMedia(cfg, logger)

	hm := health.NewManager(version)
	hm.RegisterChecker(health.NewDBChecker(db))
	if redisCache != nil {
		hm.RegisterChecker(health.NewPingChecker("redis", redisCache))
	}
	if cfg.MediaBackend == "dir" {
		hm.RegisterChecker(health.NewDirChecker("media_dir", cfg.MediaDir))
	}

	if err := api.ValidateSpec(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "openapi.invalid").
			Msg("embedded OpenAPI document is invalid")
	}

	games := service.NewGameService(store, appCache, mediaStore, cfg.CacheTTL)
	devs := service.NewDeveloperService(store)
	users := service.NewUserService(store)
	reviews := service.NewReviewService(store, cfg.ReviewRatePerMinute)

	// Reloads re-apply the log level; the API reads its token through the
	// holder so rotation takes effect without a restart.
	holder := config.NewHolder(cfg, loader, effectiveConfigPath)
	holder.OnChange(func(c config.AppConfig) {
		jlog.Configure(jlog.Config{
			Level:   c.LogLevel,
			Service: c.LogService,
			Version: c.Version,
		})
	})

	srv := api.New(api.Deps{
		Config:  cfg,
		Holder:  holder,
		Version: version,
		Games:   games,
		Devs:    devs,
		Users:   users,
		Reviews: reviews,
		Store:   store,
		Health:  hm,
	})

	metricsAddr := ""
	if cfg.MetricsEnabled {
		metricsAddr = strings.TrimSpace(cfg.MetricsAddr)
		if metricsAddr == "" {
			metricsAddr = config.DefaultMetricsAddr
		}
	}

	deps := daemon.Deps{
		Logger:      logger,
		APIHandler:  srv.Router(),
		MetricsAddr: metricsAddr,
	}
	if cfg.MetricsEnabled {
		deps.MetricsHandler = promhttp.Handler()
	}

	mgr, err := daemon.NewManager(serverCfg, deps)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.creation_failed").
			Msg("failed to create daemon manager")
	}

	// LIFO: tracing flushes last, the store closes before it.
	mgr.RegisterShutdownHook("tracing", tracing.Shutdown)
	mgr.RegisterShutdownHook("store", func(context.Context) error { return store.Close() })
	if mediaCleanup != nil {
		mgr.RegisterShutdownHook("media", func(context.Context) error { return mediaCleanup() })
	}
	if cacheCleanup != nil {
		mgr.RegisterShutdownHook("cache", func(context.Context) error { return cacheCleanup() })
	}

	go func() {
		if err := holder.Watch(ctx); err != nil {
			logger.Warn().Err(err).Msg("config watcher stopped")
		}
	}()

	// SIGHUP forces a reload regardless of file events.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if err := holder.Reload(); err != nil {
					logger.Error().Err(err).Msg("SIGHUP reload failed, keeping previous configuration")
				} else {
					logger.Info().Str("event", "config.reloaded").Str("trigger", "sighup").Msg("configuration reloaded")
				}
			}
		}
	}()

	go refreshEntityGauges(ctx, store, logger)

	if err := mgr.Start(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.failed").
			Msg("daemon manager failed")
	}

	logger.Info().Msg("server exiting")
}

// seedFromCSV loads the CSV snapshot from the data dir into an empty
// database. A non-empty catalog is left untouched.
func seedFromCSV(ctx context.Context, store *sqlite.Store, dir string, logger zerolog.Logger) {
	n, err := store.Games.Count(ctx, true)
	if err != nil {
		logger.Error().Err(err).Msg("seed check failed")
		return
	}
	if n > 0 {
		logger.Debug().Int("games", n).Msg("catalog already populated, skipping CSV seed")
		return
	}

	res, err := csvstore.Import(ctx, store, dir)
	if err != nil {
		logger.Error().
			Err(err).
			Str("event", "seed.failed").
			Str("dir", dir).
			Msg("CSV seed failed")
		return
	}

	loaded := res.Games + res.Developers + res.Users + res.Reviews
	metrics.RecordImport(loaded, res.Skipped)
	logger.Info().
		Str("event", "seed.completed").
		Int("juegos", res.Games).
		Int("desarrolladores", res.Developers).
		Int("usuarios", res.Users).
		Int("resenas", res.Reviews).
		Int("skipped", res.Skipped).
		Msg("catalog seeded from CSV")
}

// buildCache selects the cache backend. Redis failures fall back to the
// in-memory cache so a missing Redis never blocks startup.
func buildCache(cfg config.AppConfig, logger zerolog.Logger) (cache.Cache, func() error, *cache.RedisCache) {
	switch cfg.CacheBackend {
	case "none":
		return cache.NewNoOp(), nil, nil
	case "redis":
		rc, err := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, jlog.WithComponent("cache"))
		if err != nil {
			logger.Warn().
				Err(err).
				Str("event", "cache.redis_unavailable").
				Str("addr", cfg.RedisAddr).
				Msg("Redis unavailable, falling back to in-memory cache")
			c := memoryCache()
			return c, stopFunc(c), nil
		}
		return rc, rc.Close, rc
	default:
		c := memoryCache()
		return c, stopFunc(c), nil
	}
}

func memoryCache() cache.Cache {
	return cache.NewMemory(time.Minute)
}

// stopFunc adapts the memory cache janitor Stop to a shutdown hook.
func stopFunc(c cache.Cache) func() error {
	s, ok := c.(interface{ Stop() })
	if !ok {
		return nil
	}
	return func() error {
		s.Stop()
		return nil
	}
}

// buildMedia selects the image store backend.
func buildMedia(cfg config.AppConfig, logger zerolog.Logger) (media.Store, func() error) {
	if cfg.MediaBackend == "badger" {
		bs, err := media.OpenBadgerStore(filepath.Join(cfg.DataDir, "imagenes.badger"), cfg.MediaMaxBytes)
		if err != nil {
			logger.Fatal().
				Err(err).
				Str("event", "media.badger_open_failed").
				Msg("failed to open badger image store")
		}
		return bs, bs.Close
	}

	ds, err := media.NewDirStore(cfg.MediaDir, cfg.MediaMaxBytes)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "media.dir_open_failed").
			Str("path", cfg.MediaDir).
			Msg("failed to open image directory")
	}
	return ds, nil
}

// refreshEntityGauges keeps the catalog size gauges current.
func refreshEntityGauges(ctx context.Context, store *sqlite.Store, logger zerolog.Logger) {
	refresh := func() {
		counts := []struct {
			entity string
			count  func(context.Context, bool) (int, error)
		}{
			{"juegos", store.Games.Count},
			{"desarrolladores", store.Developers.Count},
			{"usuarios", store.Users.Count},
			{"resenas", store.Reviews.Count},
		}
		for _, c := range counts {
			n, err := c.count(ctx, false)
			if err != nil {
				logger.Debug().Err(err).Str("entity", c.entity).Msg("entity count failed")
				continue
			}
			metrics.RecordEntityCount(c.entity, n)
		}
	}

	refresh()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
