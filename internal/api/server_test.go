package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jawed-lol/inkwell-sub000/internal/auth"
	"github.com/Jawed-lol/inkwell-sub000/internal/domain"
	"github.com/Jawed-lol/inkwell-sub000/internal/id"
	"github.com/Jawed-lol/inkwell-sub000/internal/mail"
	"github.com/Jawed-lol/inkwell-sub000/internal/ratelimit"
	"github.com/Jawed-lol/inkwell-sub000/internal/search"
	"github.com/Jawed-lol/inkwell-sub000/internal/service"
	"github.com/Jawed-lol/inkwell-sub000/internal/store"
)

// testServer bundles the server with the store behind it for seeding.
type testServer struct {
	*Server
	store *store.Store
}

// setupTestServer creates a test server with all dependencies.
func setupTestServer(t *testing.T) (*testServer, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "inkwell-api-test-*")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := store.New(filepath.Join(tmpDir, "db"), logger)
	require.NoError(t, err)

	idx, err := search.NewMemoryIndex()
	require.NoError(t, err)
	s.SetSearchIndexer(idx)

	// Test key (32 bytes as hex = 64 hex chars).
	testKeyHex := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute)
	require.NoError(t, err)

	mailer := mail.NewLogMailer(logger)

	server := NewServer(Options{
		TokenService:    tokenService,
		AuthService:     service.NewAuthService(s, tokenService, mailer, "http://localhost:3000", time.Hour, logger),
		CatalogService:  service.NewCatalogService(s, idx, logger),
		CartService:     service.NewCartService(s, logger),
		OrderService:    service.NewOrderService(s, logger),
		ReviewService:   service.NewReviewService(s, logger),
		WishlistService: service.NewWishlistService(s, logger),
		AuthLimiter:     ratelimit.New(1000, 1000),
		FrontendURL:     "http://localhost:3000",
		Logger:          logger,
	})

	cleanup := func() {
		_ = idx.Close()
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return &testServer{Server: server, store: s}, cleanup
}

// envelope mirrors the response envelope for assertions.
type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// listEnvelope is used when data is a JSON array.
type listEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    []map[string]any `json:"data"`
}

func doJSON(t *testing.T, ts *testServer, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.MarshalWrite(&buf, body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeListEnvelope(t *testing.T, rec *httptest.ResponseRecorder) listEnvelope {
	t.Helper()
	var env listEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// registerUser registers a user through the API and returns the bearer token.
func registerUser(t *testing.T, ts *testServer, name, email string) string {
	t.Helper()

	rec := doJSON(t, ts, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "testpassword123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec)
	token, _ := env.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// seedBook creates a book with an author directly in the store.
func seedBook(t *testing.T, ts *testServer, title, authorName string, price float64, stock int) *domain.Book {
	t.Helper()

	ctx := context.Background()
	authorID := id.MustGenerate(id.PrefixAuthor)
	require.NoError(t, ts.store.Authors.Create(ctx, authorID, &domain.Author{ID: authorID, Name: authorName}))

	book := &domain.Book{Title: title, AuthorID: authorID, Price: price, Stock: stock}
	require.NoError(t, ts.store.CreateBook(ctx, book))
	return book
}

func TestHealthCheck(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	rec := doJSON(t, ts, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "ok", env.Data["status"])
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/auth/profile"},
		{http.MethodGet, "/cart"},
		{http.MethodPut, "/cart"},
		{http.MethodPost, "/orders"},
		{http.MethodGet, "/orders"},
		{http.MethodPost, "/reviews"},
		{http.MethodGet, "/reviews/user"},
		{http.MethodGet, "/auth/wishlist"},
	}

	for _, p := range paths {
		rec := doJSON(t, ts, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}

	// Garbage tokens fail the same way.
	rec := doJSON(t, ts, http.MethodGet, "/auth/profile", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListBooks_PaginationCap(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	seedBook(t, ts, "Dune", "Frank Herbert", 12.99, 2)

	rec := doJSON(t, ts, http.MethodGet, "/books?page=1&limit=500", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, float64(50), env.Data["limit"], "limit is capped at 50")
}

func TestGetBook(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	seedBook(t, ts, "Dune", "Frank Herbert", 12.99, 2)

	rec := doJSON(t, ts, http.MethodGet, "/books/dune", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Dune", env.Data["title"])
	assert.Equal(t, "Frank Herbert", env.Data["author"])

	rec = doJSON(t, ts, http.MethodGet, "/books/no-such-book", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)
}

func TestSearchBooks(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	seedBook(t, ts, "Dune", "Frank Herbert", 12.99, 2)
	seedBook(t, ts, "Emma", "Jane Austen", 8.25, 3)

	rec := doJSON(t, ts, http.MethodGet, "/books/search?q=herbert", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeListEnvelope(t, rec)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "dune", env.Data[0]["slug"])

	rec = doJSON(t, ts, http.MethodGet, "/books/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartFlow(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	seedBook(t, ts, "Dune", "Frank Herbert", 12.99, 5)
	token := registerUser(t, ts, "Paul", "paul@arrakis.example")

	rec := doJSON(t, ts, http.MethodPut, "/cart", token, []map[string]any{
		{"slug": "dune", "quantity": 2},
		{"slug": "vanished", "quantity": 1},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeListEnvelope(t, rec)
	require.Len(t, env.Data, 2)
	assert.Equal(t, "Dune", env.Data[0]["title"])
	assert.Equal(t, "unknown", env.Data[1]["title"], "unresolvable line becomes a placeholder")

	// Reading the cart back reconciles to the same view.
	rec = doJSON(t, ts, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, env.Data, decodeListEnvelope(t, rec).Data)
}

func TestOrderFlow_ErrorMapping(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	seedBook(t, ts, "Dune", "Frank Herbert", 12.99, 2)
	token := registerUser(t, ts, "Paul", "paul@arrakis.example")

	// Tampered price → 400.
	rec := doJSON(t, ts, http.MethodPost, "/orders", token, map[string]any{
		"items": []map[string]any{{"book_slug": "dune", "quantity": 1, "price": 0.99}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown slug → 404.
	rec = doJSON(t, ts, http.MethodPost, "/orders", token, map[string]any{
		"items": []map[string]any{{"book_slug": "ghost", "quantity": 1, "price": 1.00}},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Valid order → 201 with totals.
	rec = doJSON(t, ts, http.MethodPost, "/orders", token, map[string]any{
		"items": []map[string]any{{"book_slug": "dune", "quantity": 2, "price": 12.99}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	assert.Equal(t, 25.98, env.Data["total"])

	// Shelf is empty now → 400.
	rec = doJSON(t, ts, http.MethodPost, "/orders", token, map[string]any{
		"items": []map[string]any{{"book_slug": "dune", "quantity": 2, "price": 12.99}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// History shows the order.
	rec = doJSON(t, ts, http.MethodGet, "/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decodeEnvelope(t, rec)
	items, ok := history.Data["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestReviewFlow(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	book := seedBook(t, ts, "Dune", "Frank Herbert", 12.99, 2)
	paul := registerUser(t, ts, "Paul", "paul@arrakis.example")
	feyd := registerUser(t, ts, "Feyd", "feyd@giedi.example")

	rec := doJSON(t, ts, http.MethodPost, "/reviews", paul, map[string]any{
		"book_slug": "dune", "rating": 4, "comment": "sandy",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 4.0, decodeEnvelope(t, rec).Data["rating"])

	// Public listing works without a token.
	rec = doJSON(t, ts, http.MethodGet, "/reviews/book/dune", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reviews := decodeListEnvelope(t, rec)
	require.Len(t, reviews.Data, 1)
	reviewID, _ := reviews.Data[0]["id"].(string)
	require.NotEmpty(t, reviewID)

	// Deleting someone else's review → 403.
	rec = doJSON(t, ts, http.MethodDelete, "/reviews/"+book.ID+"/"+reviewID, feyd, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The author can delete it.
	rec = doJSON(t, ts, http.MethodDelete, "/reviews/"+book.ID+"/"+reviewID, paul, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWishlistFlow(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	book := seedBook(t, ts, "Dune", "Frank Herbert", 12.99, 2)
	token := registerUser(t, ts, "Paul", "paul@arrakis.example")

	rec := doJSON(t, ts, http.MethodPost, "/auth/wishlist/"+book.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, ts, http.MethodGet, "/auth/wishlist", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeListEnvelope(t, rec)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "dune", env.Data[0]["slug"])

	rec = doJSON(t, ts, http.MethodDelete, "/auth/wishlist/"+book.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, ts, http.MethodGet, "/auth/wishlist", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeListEnvelope(t, rec).Data)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	registerUser(t, ts, "Paul", "paul@arrakis.example")

	rec := doJSON(t, ts, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Other Paul",
		"email":    "paul@arrakis.example",
		"password": "testpassword123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)
}

func TestAuthRateLimit(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	// Swap in a tiny limiter to trip it deterministically.
	ts.authLimiter = ratelimit.New(1, 2)

	var last int
	for range 5 {
		rec := doJSON(t, ts, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "paul@arrakis.example",
			"password": "whatever",
		})
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
