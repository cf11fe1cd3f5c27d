// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/hcabrera/juegosd/internal/log"
	"github.com/hcabrera/juegosd/internal/metrics"
	"github.com/hcabrera/juegosd/internal/store/csvstore"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"servicio": "API de Videojuegos",
		"version":  s.version,
		"docs":     "/docs",
	})
}

// handleExport dumps the whole catalog to CSV files in the data
// directory, deleted rows included.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	err := csvstore.Export(r.Context(), s.store, s.cfg.DataDir)
	metrics.IncExport(err)
	if err != nil {
		respondError(w, r, err)
		return
	}
	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Info().
		Str("event", "export.requested").
		Str("dir", s.cfg.DataDir).
		Msg("catalog export completed")
	writeJSON(w, http.StatusOK, map[string]string{
		"mensaje":    "catalogo exportado",
		"directorio": s.cfg.DataDir,
	})
}
