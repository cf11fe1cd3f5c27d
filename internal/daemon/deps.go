// SPDX-License-Identifier: MIT

package daemon

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Deps carries the handlers the manager serves. Injection keeps the
// lifecycle testable without real services behind the routes.
type Deps struct {
	// Logger is the structured logger for the daemon.
	Logger zerolog.Logger

	// APIHandler serves the catalog API.
	APIHandler http.Handler

	// MetricsHandler serves Prometheus metrics; nil disables the
	// metrics listener.
	MetricsHandler http.Handler

	// MetricsAddr is the metrics listen address (e.g. ":9090").
	MetricsAddr string
}

// Validate checks the required dependencies.
func (d *Deps) Validate() error {
	if d.Logger.GetLevel() == zerolog.Disabled {
		return ErrMissingLogger
	}
	if d.APIHandler == nil {
		return ErrMissingAPIHandler
	}
	return nil
}
