package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Jawed-lol/inkwell-sub000/internal/http/response"
)

// handleListBooks returns a page of the catalog.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	page, err := s.catalogService.ListBooks(r.Context(), paginationFromQuery(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}

// handleGetBook returns a single book by slug with enriched reviews.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.catalogService.GetBook(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleSearchBooks matches the q parameter against title, author, and genre.
func (s *Server) handleSearchBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.catalogService.SearchBooks(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handleRandomBooks returns a random catalog sample.
func (s *Server) handleRandomBooks(w http.ResponseWriter, r *http.Request) {
	count := 0
	if raw := r.URL.Query().Get("count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			count = n
		}
	}

	books, err := s.catalogService.RandomBooks(r.Context(), count)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handleHealthCheck reports server liveness.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"status": "ok"}, s.logger)
}
