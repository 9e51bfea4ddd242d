package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Jawed-lol/inkwell-sub000/internal/http/response"
	"github.com/Jawed-lol/inkwell-sub000/internal/service"
)

// handleSubmitReview upserts the authenticated user's review on a book.
func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitReviewRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	summary, err := s.reviewService.Submit(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, summary, s.logger)
}

// handleListBookReviews returns all reviews on a book.
func (s *Server) handleListBookReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.reviewService.ListByBook(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, reviews, s.logger)
}

// handleListUserReviews returns the authenticated user's reviews across books.
func (s *Server) handleListUserReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.reviewService.ListByUser(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, reviews, s.logger)
}

// handleDeleteReview removes the authenticated user's own review.
func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reviewService.Delete(
		r.Context(),
		getUserID(r.Context()),
		chi.URLParam(r, "bookID"),
		chi.URLParam(r, "reviewID"),
	)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, summary, s.logger)
}
