// SPDX-License-Identifier: MIT

// Package api exposes the videogame catalog over HTTP: CRUD for games,
// studios, users and reviews, statistics, cover images and the OpenAPI
// docs page.
package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/hcabrera/juegosd/internal/api/middleware"
	"github.com/hcabrera/juegosd/internal/config"
	"github.com/hcabrera/juegosd/internal/health"
	"github.com/hcabrera/juegosd/internal/service"
	"github.com/hcabrera/juegosd/internal/store/sqlite"
)

// Server wires the catalog services into HTTP handlers.
type Server struct {
	cfg     config.AppConfig
	holder  *config.Holder
	version string
	games   *service.GameService
	devs    *service.DeveloperService
	users   *service.UserService
	reviews *service.ReviewService
	store   *sqlite.Store
	health  *health.Manager
}

// Deps carries everything the server needs. All fields are required
// except Health, which defaults to a checker-less manager, and Holder,
// which makes reloadable settings (the API token) take effect without a
// restart.
type Deps struct {
	Config  config.AppConfig
	Holder  *config.Holder
	Version string
	Games   *service.GameService
	Devs    *service.DeveloperService
	Users   *service.UserService
	Reviews *service.ReviewService
	Store   *sqlite.Store
	Health  *health.Manager
}

func New(d Deps) *Server {
	if d.Health == nil {
		d.Health = health.NewManager("dev")
	}
	if d.Version == "" {
		d.Version = "dev"
	}
	return &Server{
		cfg:     d.Config,
		holder:  d.Holder,
		version: d.Version,
		games:   d.Games,
		devs:    d.Devs,
		users:   d.Users,
		reviews: d.Reviews,
		store:   d.Store,
		health:  d.Health,
	}
}

// Router assembles the full route table under the canonical middleware
// stack. Collection paths keep their trailing slash for compatibility
// with the original service's clients.
func (s *Server) Router() *chi.Mux {
	r := middleware.NewRouter(middleware.StackConfig{
		AllowedOrigins: s.cfg.AllowedOrigins,
		TracingService: "juegosd-api",
		RateLimitRPS:   s.cfg.RateLimitRPS,
		RateLimitBurst: s.cfg.RateLimitBurst,
	})

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Get("/docs", s.handleDocs)
	r.Get("/docs/openapi.yaml", s.handleOpenAPISpec)
	r.Get("/docs/init.js", s.handleDocsInit)

	r.Get("/juegos/", s.handleListGames)
	r.Get("/juegos/buscar", s.handleSearchGames)
	r.Get("/juegos/estadisticas/generos", s.handleGenreStats)
	r.Get("/juegos/estadisticas/precio-promedio", s.handlePriceStats)
	r.Get("/juegos/{id}", s.handleGetGame)

	r.Get("/desarrolladores/", s.handleListDevelopers)
	r.Get("/desarrolladores/{id}", s.handleGetDeveloper)

	r.Get("/usuarios/", s.handleListUsers)
	r.Get("/usuarios/{id}", s.handleGetUser)

	r.Get("/resenas/", s.handleListReviews)
	r.Get("/resenas/{id}", s.handleGetReview)

	r.Get("/imagenes/{nombre}", s.handleGetImage)

	// Mutations sit behind the token check when one is configured.
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Post("/juegos/", s.handleCreateGame)
		r.Put("/juegos/{id}", s.handleUpdateGame)
		r.Delete("/juegos/{id}", s.handleDeleteGame)
		r.Post("/juegos/{id}/imagen", s.handleUploadImage)

		r.Post("/desarrolladores/", s.handleCreateDeveloper)
		r.Put("/desarrolladores/{id}", s.handleUpdateDeveloper)
		r.Delete("/desarrolladores/{id}", s.handleDeleteDeveloper)

		r.Post("/usuarios/", s.handleCreateUser)
		r.Put("/usuarios/{id}", s.handleUpdateUser)
		r.Delete("/usuarios/{id}", s.handleDeleteUser)

		r.Post("/resenas/", s.handleCreateReview)
		r.Put("/resenas/{id}", s.handleUpdateReview)
		r.Delete("/resenas/{id}", s.handleDeleteReview)

		r.Post("/exportar", s.handleExport)
	})

	return r
}
