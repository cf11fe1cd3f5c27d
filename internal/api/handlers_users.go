// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/hcabrera/juegosd/internal/catalog"
)

type userRequest struct {
	Name         string `json:"nombre"`
	Email        string `json:"email"`
	Country      string `json:"pais"`
	RegisteredAt string `json:"fecha_registro"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	u, err := s.users.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	u := catalog.User{
		Name:         req.Name,
		Email:        req.Email,
		Country:      req.Country,
		RegisteredAt: req.RegisteredAt,
	}
	if err := s.users.Create(r.Context(), &u); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	u := catalog.User{
		ID:           id,
		Name:         req.Name,
		Email:        req.Email,
		Country:      req.Country,
		RegisteredAt: req.RegisteredAt,
	}
	if err := s.users.Update(r.Context(), &u); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	if err := s.users.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "usuario eliminado"})
}
