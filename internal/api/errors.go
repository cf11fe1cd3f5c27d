// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hcabrera/juegosd/internal/catalog"
	"github.com/hcabrera/juegosd/internal/log"
	"github.com/hcabrera/juegosd/internal/service"
)

// errorBody matches the {"detail": ...} error shape of the original
// service, so existing clients keep parsing errors the same way.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps domain errors onto HTTP statuses.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var code int
	switch {
	case errors.Is(err, service.ErrRateLimited):
		code = http.StatusTooManyRequests
	case errors.Is(err, catalog.ErrInvalid):
		code = http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, catalog.ErrDuplicate), errors.Is(err, catalog.ErrNotPermitted):
		code = http.StatusConflict
	default:
		code = http.StatusInternalServerError
		log.FromContext(r.Context()).Error().Err(err).
			Str("event", "http.internal_error").
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	writeJSON(w, code, errorBody{Detail: err.Error()})
}

func respondBadRequest(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Detail: detail})
}
