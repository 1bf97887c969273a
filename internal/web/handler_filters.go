package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleConstants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Constants())
}

func (s *Server) handleItemsByStatus(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListByStatus(r.Context(), chi.URLParam(r, "status"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleItemsByPriority(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListByPriority(r.Context(), chi.URLParam(r, "priority"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleUrgentItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListUrgent(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleActiveItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListActive(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
