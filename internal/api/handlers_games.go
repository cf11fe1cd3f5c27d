// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hcabrera/juegosd/internal/catalog"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id invalido")
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("cuerpo JSON invalido: %v", err)
	}
	return nil
}

func parsePrice(q string) (*float64, error) {
	if q == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(q, 64)
	if err != nil || f < 0 {
		return nil, fmt.Errorf("precio invalido: %q", q)
	}
	return &f, nil
}

// gameRequest is the mutable subset of a game accepted on create/update.
type gameRequest struct {
	Title       string   `json:"titulo"`
	DeveloperID int64    `json:"desarrollador_id"`
	ReleaseYear int      `json:"ano_lanzamiento"`
	Genre       string   `json:"genero"`
	Platforms   []string `json:"plataformas"`
	Price       float64  `json:"precio"`
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	min, err := parsePrice(q.Get("precio_min"))
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	max, err := parsePrice(q.Get("precio_max"))
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	games, err := s.games.List(r.Context(), catalog.GameFilter{
		Title:    q.Get("titulo"),
		Exact:    q.Get("exacto") == "true",
		Genre:    q.Get("genero"),
		Platform: q.Get("plataforma"),
		MinPrice: min,
		MaxPrice: max,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleSearchGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	title := q.Get("titulo")
	if title == "" {
		respondBadRequest(w, "falta el parametro titulo")
		return
	}

	games, err := s.games.List(r.Context(), catalog.GameFilter{
		Title: title,
		Exact: q.Get("exacto") == "true",
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	g, err := s.games.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	g := catalog.Game{
		Title:       req.Title,
		DeveloperID: req.DeveloperID,
		ReleaseYear: req.ReleaseYear,
		Genre:       req.Genre,
		Platforms:   req.Platforms,
		Price:       req.Price,
	}
	if err := s.games.Create(r.Context(), &g); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	var req gameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	g := catalog.Game{
		ID:          id,
		Title:       req.Title,
		DeveloperID: req.DeveloperID,
		ReleaseYear: req.ReleaseYear,
		Genre:       req.Genre,
		Platforms:   req.Platforms,
		Price:       req.Price,
	}
	if err := s.games.Update(r.Context(), &g); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	if err := s.games.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "juego eliminado"})
}

func (s *Server) handleGenreStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.games.CountByGenre(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handlePriceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.games.AveragePrice(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
