package service

import (
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Jawed-lol/inkwell-sub000/internal/auth"
	"github.com/Jawed-lol/inkwell-sub000/internal/domain"
	"github.com/Jawed-lol/inkwell-sub000/internal/id"
	"github.com/Jawed-lol/inkwell-sub000/internal/search"
	"github.com/Jawed-lol/inkwell-sub000/internal/store"
)

// recordingMailer captures outbound reset links instead of delivering them.
type recordingMailer struct {
	lastEmail string
	lastURL   string
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, email, resetURL string) error {
	m.lastEmail = email
	m.lastURL = resetURL
	return nil
}

// testEnv bundles the services under test over one temporary store.
type testEnv struct {
	store    *store.Store
	catalog  *CatalogService
	cart     *CartService
	orders   *OrderService
	reviews  *ReviewService
	auth     *AuthService
	wishlist *WishlistService
	mailer   *recordingMailer
	tokens   *auth.TokenService
}

// setupTestServices creates services with temporary storage for testing.
func setupTestServices(t *testing.T) (*testEnv, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "inkwell-service-test-*")
	require.NoError(t, err)

	s, err := store.New(tmpDir+"/db", nil)
	require.NoError(t, err)

	idx, err := search.NewMemoryIndex()
	require.NoError(t, err)
	s.SetSearchIndexer(idx)

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(hex.EncodeToString(authKey), time.Hour)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mailer := &recordingMailer{}

	env := &testEnv{
		store:    s,
		catalog:  NewCatalogService(s, idx, log),
		cart:     NewCartService(s, log),
		orders:   NewOrderService(s, log),
		reviews:  NewReviewService(s, log),
		auth:     NewAuthService(s, tokenService, mailer, "http://localhost:3000", time.Hour, log),
		wishlist: NewWishlistService(s, log),
		mailer:   mailer,
		tokens:   tokenService,
	}

	cleanup := func() {
		_ = idx.Close()
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return env, cleanup
}

// seedBook creates a book with an author record behind it.
func (env *testEnv) seedBook(t *testing.T, title, authorName string, price float64, stock int) *domain.Book {
	t.Helper()

	ctx := context.Background()
	authorID := id.MustGenerate(id.PrefixAuthor)
	require.NoError(t, env.store.Authors.Create(ctx, authorID, &domain.Author{
		ID:   authorID,
		Name: authorName,
	}))

	book := &domain.Book{
		Title:      title,
		AuthorID:   authorID,
		Price:      price,
		Stock:      stock,
		CoverImage: "/covers/" + title + ".jpg",
	}
	require.NoError(t, env.store.CreateBook(ctx, book))
	return book
}

// seedUser creates a user directly in the store.
func (env *testEnv) seedUser(t *testing.T, name, email string) *domain.User {
	t.Helper()

	user := &domain.User{Name: name, Email: email, PasswordHash: "x"}
	require.NoError(t, env.store.CreateUser(context.Background(), user))
	return user
}
