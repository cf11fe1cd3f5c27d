// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit caps requests per client IP using a sliding one-second
// window. burst <= 0 falls back to the per-second limit.
func RateLimit(rps, burst int) func(http.Handler) http.Handler {
	limit := rps
	if burst > limit {
		limit = burst
	}
	return httprate.Limit(
		limit,
		time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"demasiadas solicitudes"}`))
		}),
	)
}
