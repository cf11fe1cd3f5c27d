// SPDX-License-Identifier: MIT

// Package middleware provides the HTTP ingress middleware of the catalog
// API server.
package middleware

import (
	"github.com/go-chi/chi/v5"

	applog "github.com/hcabrera/juegosd/internal/log"
)

// StackConfig configures the canonical ingress middleware stack.
type StackConfig struct {
	AllowedOrigins []string

	// TracingService names the tracer; empty disables tracing spans.
	TracingService string

	// Rate limiting. RPS <= 0 disables the limiter.
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter builds a chi router with the canonical stack applied:
// recoverer first, then correlation, CORS, headers, observability and
// rate limiting.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(Recoverer)
	r.Use(CORS(cfg.AllowedOrigins))
	r.Use(SecurityHeaders())
	r.Use(Metrics())
	if cfg.TracingService != "" {
		r.Use(Tracing(cfg.TracingService))
	}
	r.Use(applog.Middleware())
	if cfg.RateLimitRPS > 0 {
		r.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}
	return r
}
