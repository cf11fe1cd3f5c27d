// SPDX-License-Identifier: MIT

package log

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Middleware returns an HTTP middleware that assigns a request ID, attaches a
// request-scoped logger to the context and logs request completion.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rid := r.Header.Get("X-Request-ID")
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", rid)

			ctx := ContextWithRequestID(r.Context(), rid)
			reqLogger := Base().With().
				Str("request_id", rid).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()
			ctx = reqLogger.WithContext(ctx)

			lw := &loggingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(lw, r.WithContext(ctx))

			reqLogger.Info().
				Str("event", "http.request").
				Int("status", lw.status).
				Int64("bytes", lw.bytes).
				Str("remote", r.RemoteAddr).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}

type loggingWriter struct {
	http.ResponseWriter
	status  int
	bytes   int64
	written bool
}

func (w *loggingWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *loggingWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}
