// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hcabrera/juegosd/internal/media"
)

// handleUploadImage accepts a multipart form with an "imagen" field, or a
// raw body when no form is sent. The bytes decide the type, never the
// declared Content-Type.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	body := r.Body
	if file, _, err := r.FormFile("imagen"); err == nil {
		defer file.Close()
		body = file
	}

	url, err := s.games.AttachImage(r.Context(), id, body)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"imagen_url": url})
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	blob, err := s.games.Image(chi.URLParam(r, "nombre"))
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody{Detail: err.Error()})
			return
		}
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(blob.Data)
}
