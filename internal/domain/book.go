// Package domain contains the core business entities and domain logic for the Inkwell bookstore.
package domain

import (
	"math"
	"time"
)

// Book represents a catalog entry.
//
// Reviews are embedded: the book document exclusively owns its review list,
// and ReviewsNumber caches len(Reviews) for list views that don't need the
// full review payload.
type Book struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	AuthorID    string    `json:"author_id"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Genre       string    `json:"genre,omitempty"`
	Language    string    `json:"language,omitempty"`
	Publisher   string    `json:"publisher,omitempty"`
	ISBN        string    `json:"isbn,omitempty"`
	Description string    `json:"description,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	PublishYear int       `json:"publish_year,omitempty"`

	Reviews       []Review `json:"reviews"`
	ReviewsNumber int      `json:"reviews_number"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp to the current time.
func (b *Book) Touch() {
	b.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (b *Book) InitTimestamps() {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
}

// Review is a single user review, embedded in its book.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"` // 1..5
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AverageRating returns the arithmetic mean of all review ratings,
// rounded to one decimal place. An unreviewed book reports 0.
func (b *Book) AverageRating() float64 {
	if len(b.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range b.Reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(b.Reviews))
	return math.Round(avg*10) / 10
}

// ReviewByUser returns the index of the user's review, or -1.
// At most one review per (book, user) pair exists.
func (b *Book) ReviewByUser(userID string) int {
	for i := range b.Reviews {
		if b.Reviews[i].UserID == userID {
			return i
		}
	}
	return -1
}

// UpsertReview applies one-review-per-user semantics: if the user already
// reviewed this book, rating/comment/timestamp are updated in place and the
// existing review ID is kept; otherwise the review is appended and the cached
// count bumped. Returns true if a new review was appended.
func (b *Book) UpsertReview(review Review) bool {
	if i := b.ReviewByUser(review.UserID); i >= 0 {
		b.Reviews[i].Rating = review.Rating
		b.Reviews[i].Comment = review.Comment
		b.Reviews[i].CreatedAt = review.CreatedAt
		return false
	}
	b.Reviews = append(b.Reviews, review)
	b.ReviewsNumber = len(b.Reviews)
	return true
}

// RemoveReview deletes the review with the given ID.
// Returns false if no such review exists.
func (b *Book) RemoveReview(reviewID string) bool {
	for i := range b.Reviews {
		if b.Reviews[i].ID == reviewID {
			b.Reviews = append(b.Reviews[:i], b.Reviews[i+1:]...)
			b.ReviewsNumber = len(b.Reviews)
			return true
		}
	}
	return false
}
