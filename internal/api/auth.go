// SPDX-License-Identifier: MIT

package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/hcabrera/juegosd/internal/log"
)

// token returns the live API token. When a config holder is wired the
// value follows hot reloads; otherwise the startup snapshot applies.
func (s *Server) token() string {
	if s.holder != nil {
		return s.holder.Current().APIToken
	}
	return s.cfg.APIToken
}

// requireAuth guards mutating routes. With no token configured the API
// stays open, matching the original deployment.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := s.token()
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		logger := log.WithComponentFromContext(r.Context(), "auth")

		got := bearerToken(r)
		if got == "" {
			logger.Warn().
				Str("event", "auth.missing_token").
				Str("path", r.URL.Path).
				Msg("authorization header missing")
			writeJSON(w, http.StatusUnauthorized, errorBody{Detail: "no autorizado"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			logger.Warn().
				Str("event", "auth.invalid_token").
				Str("path", r.URL.Path).
				Msg("invalid api token")
			writeJSON(w, http.StatusUnauthorized, errorBody{Detail: "no autorizado"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
