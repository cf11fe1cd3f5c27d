// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"runtime"

	applog "github.com/hcabrera/juegosd/internal/log"
)

// Recoverer turns handler panics into 500 responses instead of dropped
// connections, logging the stack for the postmortem.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				buf := make([]byte, 8192)
				n := runtime.Stack(buf, false)

				logger := applog.WithComponentFromContext(r.Context(), "panic-recovery")
				logger.Error().
					Str("event", "http.panic").
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Str("stack", string(buf[:n])).
					Msg("recovered from handler panic")

				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
