// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"strconv"

	"github.com/hcabrera/juegosd/internal/catalog"
)

type reviewRequest struct {
	GameID  int64  `json:"id_videojuego"`
	UserID  int64  `json:"id_usuario"`
	Rating  int    `json:"calificacion"`
	Comment string `json:"comentario"`
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	var gameID int64
	if q := r.URL.Query().Get("id_videojuego"); q != "" {
		id, err := strconv.ParseInt(q, 10, 64)
		if err != nil || id <= 0 {
			respondBadRequest(w, "id_videojuego invalido")
			return
		}
		gameID = id
	}

	reviews, err := s.reviews.List(r.Context(), gameID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	rev, err := s.reviews.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rev)
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	rev := catalog.Review{
		GameID:  req.GameID,
		UserID:  req.UserID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := s.reviews.Create(r.Context(), &rev); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rev)
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	rev := catalog.Review{
		ID:      id,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := s.reviews.Update(r.Context(), &rev); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rev)
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	if err := s.reviews.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "resena eliminada"})
}
