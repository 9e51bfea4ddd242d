package api

import (
	"net/http"

	"github.com/Jawed-lol/inkwell-sub000/internal/http/response"
	"github.com/Jawed-lol/inkwell-sub000/internal/service"
)

// handleGetCart returns the user's reconciled cart.
func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := s.cartService.Get(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, cart, s.logger)
}

// handleSetCart replaces the user's cart with the submitted list and returns
// the reconciled view that was persisted.
func (s *Server) handleSetCart(w http.ResponseWriter, r *http.Request) {
	var items []service.CartItemRequest
	if err := decodeBody(r, &items); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	cart, err := s.cartService.Set(r.Context(), getUserID(r.Context()), items)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, cart, s.logger)
}
