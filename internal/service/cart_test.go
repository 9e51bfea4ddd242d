package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_Set_EnrichesLines(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	ctx := context.Background()
	env.seedBook(t, "Dune", "Frank Herbert", 12.99, 5)
	user := env.seedUser(t, "Paul", "paul@arrakis.example")

	cart, err := env.cart.Set(ctx, user.ID, []CartItemRequest{
		{Slug: "dune", Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, cart, 1)

	assert.Equal(t, "dune", cart[0].Slug)
	assert.Equal(t, "Dune", cart[0].Title)
	assert.Equal(t, "Frank Herbert", cart[0].Author)
	assert.Equal(t, 12.99, cart[0].Price)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestCartService_Set_DropsNonPositiveQuantities(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	ctx := context.Background()
	env.seedBook(t, "Dune", "Frank Herbert", 12.99, 5)
	env.seedBook(t, "Emma", "Jane Austen", 8.25, 5)
	user := env.seedUser(t, "Paul", "paul@arrakis.example")

	cart, err := env.cart.Set(ctx, user.ID, []CartItemRequest{
		{Slug: "dune", Quantity: 0},
		{Slug: "emma", Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, "emma", cart[0].Slug)
}

func TestCartService_UnknownItemBecomesPlaceholder(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	ctx := context.Background()
	env.seedBook(t, "Dune", "Frank Herbert", 12.99, 5)
	user := env.seedUser(t, "Paul", "paul@arrakis.example")

	cart, err := env.cart.Set(ctx, user.ID, []CartItemRequest{
		{Slug: "dune", Quantity: 1},
		{Slug: "vanished-book", Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, cart, 2, "an unknown item never drops the cart")

	placeholder := cart[1]
	assert.Equal(t, "vanished-book", placeholder.Slug)
	assert.Equal(t, "unknown", placeholder.Title)
	assert.Equal(t, "unknown", placeholder.Author)
	assert.Equal(t, 0.0, placeholder.Price)
	assert.Equal(t, 3, placeholder.Quantity)
	assert.NotEmpty(t, placeholder.CoverImage)
}

func TestCartService_IDFallbackRepairsSlug(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	ctx := context.Background()
	book := env.seedBook(t, "Dune", "Frank Herbert", 12.99, 5)
	user := env.seedUser(t, "Paul", "paul@arrakis.example")

	// A stale client cached the internal book ID instead of the slug.
	cart, err := env.cart.Set(ctx, user.ID, []CartItemRequest{
		{Slug: book.ID, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, "dune", cart[0].Slug, "persisted line uses the canonical slug")

	stored, err := env.store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored.Cart, 1)
	assert.Equal(t, "dune", stored.Cart[0].Slug)
}

func TestCartService_ReconcileIdempotent(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	ctx := context.Background()
	env.seedBook(t, "Dune", "Frank Herbert", 12.99, 5)
	env.seedBook(t, "Emma", "Jane Austen", 8.25, 5)
	user := env.seedUser(t, "Paul", "paul@arrakis.example")

	first, err := env.cart.Set(ctx, user.ID, []CartItemRequest{
		{Slug: "dune", Quantity: 2},
		{Slug: "missing-item", Quantity: 1},
		{Slug: "emma", Quantity: 1},
	})
	require.NoError(t, err)

	// Reading back reconciles the stored cart again; the result must be
	// identical, including the placeholder line and the ordering.
	second, err := env.cart.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// And a third pass over the persisted list stays stable too.
	resubmitted := make([]CartItemRequest, 0, len(second))
	for _, line := range second {
		resubmitted = append(resubmitted, CartItemRequest{Slug: line.Slug, Quantity: line.Quantity})
	}
	third, err := env.cart.Set(ctx, user.ID, resubmitted)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestCartService_Set_PersistsReconciledList(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	ctx := context.Background()
	env.seedBook(t, "Dune", "Frank Herbert", 12.99, 5)
	user := env.seedUser(t, "Paul", "paul@arrakis.example")

	_, err := env.cart.Set(ctx, user.ID, []CartItemRequest{
		{Slug: "dune", Quantity: 2},
		{Slug: "ghost", Quantity: -1},
	})
	require.NoError(t, err)

	stored, err := env.store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored.Cart, 1, "negative-quantity line is not persisted")
	assert.Equal(t, "dune", stored.Cart[0].Slug)
	assert.Equal(t, 2, stored.Cart[0].Quantity)
}
