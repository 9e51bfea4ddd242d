package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Jawed-lol/inkwell-sub000/internal/errors"
	"github.com/Jawed-lol/inkwell-sub000/internal/store"
)

func TestCatalogService_ListBooks(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	ctx := context.Background()
	env.seedBook(t, "Dune", "Frank Herbert", 12.99, 2)
	env.seedBook(t, "Emma", "Jane Austen", 8.25, 3)
	env.seedBook(t, "A Wizard of Earthsea", "Ursula K. Le Guin", 9.75, 4)

	page, err := env.catalog.ListBooks(ctx, store.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Total)
	assert.True(t, page.HasMore)
	assert.NotEmpty(t, page.Items[0].Author, "summaries carry the author's display name")
}

func TestCatalogService_GetBook(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	ctx := context.Background()
	env.seedBook(t, "Dune", "Frank Herbert", 12.99, 2)

	detail, err := env.catalog.GetBook(ctx, "dune")
	require.NoError(t, err)
	assert.Equal(t, "Dune", detail.Title)
	assert.Equal(t, "Frank Herbert", detail.Author)
	assert.Equal(t, 12.99, detail.Price)
	assert.Equal(t, 0.0, detail.Rating)
	assert.NotNil(t, detail.Reviews)

	_, err = env.catalog.GetBook(ctx, "no-such-book")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestCatalogService_SearchBooks(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	ctx := context.Background()
	env.seedBook(t, "Dune", "Frank Herbert", 12.99, 2)
	env.seedBook(t, "Dune Messiah", "Frank Herbert", 11.50, 3)
	env.seedBook(t, "Emma", "Jane Austen", 8.25, 3)

	// Substring on title, case-insensitive.
	results, err := env.catalog.SearchBooks(ctx, "dUnE")
	require.NoError(t, err)
	slugs := make([]string, 0, len(results))
	for _, r := range results {
		slugs = append(slugs, r.Slug)
	}
	assert.ElementsMatch(t, []string{"dune", "dune-messiah"}, slugs)

	// Substring on author.
	results, err = env.catalog.SearchBooks(ctx, "austen")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "emma", results[0].Slug)

	_, err = env.catalog.SearchBooks(ctx, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestCatalogService_RandomBooks(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	ctx := context.Background()
	for _, title := range []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta"} {
		env.seedBook(t, title, "Author "+title, 5.00, 1)
	}

	books, err := env.catalog.RandomBooks(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, books, 4, "defaults to 4")

	books, err = env.catalog.RandomBooks(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, books, 3)
}

func TestCatalogService_CreateBook_UnknownAuthor(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := env.catalog.CreateBook(context.Background(), CreateBookRequest{
		Title:    "Orphan",
		AuthorID: "aut-missing",
		Price:    5.00,
		Stock:    1,
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestWishlistService(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()

	ctx := context.Background()
	book := env.seedBook(t, "Dune", "Frank Herbert", 12.99, 2)
	user := env.seedUser(t, "Paul", "paul@arrakis.example")

	require.NoError(t, env.wishlist.Add(ctx, user.ID, book.ID))
	// Adding twice is a no-op.
	require.NoError(t, env.wishlist.Add(ctx, user.ID, book.ID))

	books, err := env.wishlist.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "dune", books[0].Slug)
	assert.Equal(t, "Frank Herbert", books[0].Author)

	err = env.wishlist.Add(ctx, user.ID, "bok-does-not-exist")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	require.NoError(t, env.wishlist.Remove(ctx, user.ID, book.ID))
	books, err = env.wishlist.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, books)

	// Removing again is a no-op.
	require.NoError(t, env.wishlist.Remove(ctx, user.ID, book.ID))
}
