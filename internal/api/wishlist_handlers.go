package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Jawed-lol/inkwell-sub000/internal/http/response"
)

// handleListWishlist returns the user's wishlist enriched with book data.
func (s *Server) handleListWishlist(w http.ResponseWriter, r *http.Request) {
	books, err := s.wishlistService.List(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handleAddToWishlist puts a book on the wishlist. Idempotent.
func (s *Server) handleAddToWishlist(w http.ResponseWriter, r *http.Request) {
	err := s.wishlistService.Add(r.Context(), getUserID(r.Context()), chi.URLParam(r, "bookID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "book added to wishlist", s.logger)
}

// handleRemoveFromWishlist takes a book off the wishlist. Idempotent.
func (s *Server) handleRemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	err := s.wishlistService.Remove(r.Context(), getUserID(r.Context()), chi.URLParam(r, "bookID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.SuccessMessage(w, "book removed from wishlist", s.logger)
}
