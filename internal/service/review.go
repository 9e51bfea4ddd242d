package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Jawed-lol/inkwell-sub000/internal/domain"
	"github.com/Jawed-lol/inkwell-sub000/internal/id"
	"github.com/Jawed-lol/inkwell-sub000/internal/store"
)

// ReviewService maintains the embedded review list on books.
type ReviewService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(st *store.Store, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:  st,
		logger: logger,
	}
}

// SubmitReviewRequest contains a review submission. The reviewer's identity
// comes from the verified bearer token, never from the request body.
type SubmitReviewRequest struct {
	BookSlug string `json:"book_slug" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment" validate:"max=2000"`
}

// ReviewSummary is the aggregate state of a book's reviews after a mutation.
type ReviewSummary struct {
	BookSlug      string  `json:"book_slug"`
	Rating        float64 `json:"rating"`
	ReviewsNumber int     `json:"reviews_number"`
}

// UserReview is a row in the per-user review listing, denormalizing the
// book's title and cover for display.
type UserReview struct {
	ID         string    `json:"id"`
	BookSlug   string    `json:"book_slug"`
	BookTitle  string    `json:"book_title"`
	CoverImage string    `json:"cover_image"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Submit upserts the user's review on a book: a first submission appends, a
// resubmission updates the existing review in place.
func (s *ReviewService) Submit(ctx context.Context, userID string, req SubmitReviewRequest) (*ReviewSummary, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	reviewID, err := id.Generate(id.PrefixReview)
	if err != nil {
		return nil, fmt.Errorf("generate review ID: %w", err)
	}

	review := domain.Review{
		ID:        reviewID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	book, err := s.store.UpsertReview(ctx, req.BookSlug, review)
	if err != nil {
		return nil, err
	}

	s.logger.Info("review submitted", "book_id", book.ID, "user_id", userID, "rating", req.Rating)

	return &ReviewSummary{
		BookSlug:      book.Slug,
		Rating:        book.AverageRating(),
		ReviewsNumber: book.ReviewsNumber,
	}, nil
}

// Delete removes the user's own review from a book. Deleting someone else's
// review fails with Forbidden.
func (s *ReviewService) Delete(ctx context.Context, userID, bookID, reviewID string) (*ReviewSummary, error) {
	book, err := s.store.DeleteReview(ctx, bookID, reviewID, userID)
	if err != nil {
		return nil, err
	}

	return &ReviewSummary{
		BookSlug:      book.Slug,
		Rating:        book.AverageRating(),
		ReviewsNumber: book.ReviewsNumber,
	}, nil
}

// ListByBook returns all reviews on a book with reviewer names resolved,
// newest first.
func (s *ReviewService) ListByBook(ctx context.Context, bookSlug string) ([]BookReview, error) {
	book, err := s.store.GetBookBySlug(ctx, bookSlug)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	reviews := make([]BookReview, 0, len(book.Reviews))
	for _, review := range book.Reviews {
		name, ok := names[review.UserID]
		if !ok {
			if user, err := s.store.GetUser(ctx, review.UserID); err == nil {
				name = user.Name
			} else {
				name = "unknown"
			}
			names[review.UserID] = name
		}
		reviews = append(reviews, BookReview{
			ID:        review.ID,
			UserID:    review.UserID,
			Name:      name,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		})
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})

	return reviews, nil
}

// ListByUser returns the user's reviews across all books, newest first.
func (s *ReviewService) ListByUser(ctx context.Context, userID string) ([]UserReview, error) {
	reviews := []UserReview{}
	for book, err := range s.store.Books.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("scan books: %w", err)
		}
		for _, review := range book.Reviews {
			if review.UserID != userID {
				continue
			}
			reviews = append(reviews, UserReview{
				ID:         review.ID,
				BookSlug:   book.Slug,
				BookTitle:  book.Title,
				CoverImage: book.CoverImage,
				Rating:     review.Rating,
				Comment:    review.Comment,
				CreatedAt:  review.CreatedAt,
			})
		}
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})

	return reviews, nil
}
