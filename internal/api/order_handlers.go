package api

import (
	"net/http"

	"github.com/Jawed-lol/inkwell-sub000/internal/http/response"
	"github.com/Jawed-lol/inkwell-sub000/internal/service"
)

// handlePlaceOrder converts the submitted lines into a durable order.
func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req service.PlaceOrderRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	order, err := s.orderService.Place(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, order, s.logger)
}

// handleOrderHistory returns a page of the user's orders, newest first.
func (s *Server) handleOrderHistory(w http.ResponseWriter, r *http.Request) {
	page, err := s.orderService.History(r.Context(), getUserID(r.Context()), paginationFromQuery(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}
