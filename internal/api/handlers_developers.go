// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/hcabrera/juegosd/internal/catalog"
)

type developerRequest struct {
	Name         string `json:"nombre"`
	Country      string `json:"pais"`
	FoundingYear int    `json:"ano_fundacion"`
	Website      string `json:"sitio_web"`
	Specialty    string `json:"especialidad"`
}

func (req developerRequest) model(id int64) catalog.Developer {
	return catalog.Developer{
		ID:           id,
		Name:         req.Name,
		Country:      req.Country,
		FoundingYear: req.FoundingYear,
		Website:      req.Website,
		Specialty:    req.Specialty,
	}
}

func (s *Server) handleListDevelopers(w http.ResponseWriter, r *http.Request) {
	devs, err := s.devs.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, devs)
}

func (s *Server) handleGetDeveloper(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	d, err := s.devs.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleCreateDeveloper(w http.ResponseWriter, r *http.Request) {
	var req developerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	d := req.model(0)
	if err := s.devs.Create(r.Context(), &d); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleUpdateDeveloper(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	var req developerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	d := req.model(id)
	if err := s.devs.Update(r.Context(), &d); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDeveloper(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	if err := s.devs.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "desarrollador eliminado"})
}
