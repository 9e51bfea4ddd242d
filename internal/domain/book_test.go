package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBook_AverageRating(t *testing.T) {
	book := &Book{}
	assert.Equal(t, 0.0, book.AverageRating(), "unreviewed book reports 0")

	book.Reviews = []Review{{Rating: 4}, {Rating: 5}}
	assert.Equal(t, 4.5, book.AverageRating())

	book.Reviews = []Review{{Rating: 3}, {Rating: 4}, {Rating: 4}}
	assert.Equal(t, 3.7, book.AverageRating(), "mean rounds to one decimal")

	book.Reviews = []Review{{Rating: 5}, {Rating: 5}, {Rating: 5}}
	assert.Equal(t, 5.0, book.AverageRating())
}

func TestBook_UpsertReview(t *testing.T) {
	book := &Book{}

	first := Review{ID: "rev-1", UserID: "usr-1", Rating: 3, Comment: "fine", CreatedAt: time.Now()}
	assert.True(t, book.UpsertReview(first), "first submission appends")
	assert.Len(t, book.Reviews, 1)
	assert.Equal(t, 1, book.ReviewsNumber)

	second := Review{ID: "rev-2", UserID: "usr-1", Rating: 5, Comment: "grew on me", CreatedAt: time.Now()}
	assert.False(t, book.UpsertReview(second), "resubmission updates in place")
	assert.Len(t, book.Reviews, 1)
	assert.Equal(t, 1, book.ReviewsNumber)

	// The original review ID survives; rating and comment are the new ones.
	assert.Equal(t, "rev-1", book.Reviews[0].ID)
	assert.Equal(t, 5, book.Reviews[0].Rating)
	assert.Equal(t, "grew on me", book.Reviews[0].Comment)

	other := Review{ID: "rev-3", UserID: "usr-2", Rating: 4}
	assert.True(t, book.UpsertReview(other))
	assert.Len(t, book.Reviews, 2)
	assert.Equal(t, 2, book.ReviewsNumber)
}

func TestBook_RemoveReview(t *testing.T) {
	book := &Book{}
	book.UpsertReview(Review{ID: "rev-1", UserID: "usr-1", Rating: 4})
	book.UpsertReview(Review{ID: "rev-2", UserID: "usr-2", Rating: 2})

	assert.True(t, book.RemoveReview("rev-1"))
	assert.Len(t, book.Reviews, 1)
	assert.Equal(t, 1, book.ReviewsNumber)
	assert.Equal(t, "rev-2", book.Reviews[0].ID)

	assert.False(t, book.RemoveReview("rev-1"), "already removed")
}

func TestUser_PruneCart(t *testing.T) {
	user := &User{Cart: []CartItem{
		{Slug: "dune", Quantity: 2},
		{Slug: "1984", Quantity: 1},
		{Slug: "emma", Quantity: 3},
	}}

	user.PruneCart(map[string]bool{"dune": true, "emma": true})

	assert.Equal(t, []CartItem{{Slug: "1984", Quantity: 1}}, user.Cart,
		"only the ordered slugs leave the cart")
}

func TestOrderTotal(t *testing.T) {
	items := []OrderItem{
		{BookSlug: "dune", Quantity: 2, Price: 12.99},
		{BookSlug: "1984", Quantity: 1, Price: 8.25},
	}
	assert.Equal(t, 34.23, OrderTotal(items))
	assert.Equal(t, 0.0, OrderTotal(nil))
}

func TestOrder_OrderedSlugs(t *testing.T) {
	order := &Order{Items: []OrderItem{
		{BookSlug: "dune", Quantity: 1},
		{BookSlug: "emma", Quantity: 2},
	}}
	assert.Equal(t, map[string]bool{"dune": true, "emma": true}, order.OrderedSlugs())
}
