package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jawed-lol/inkwell-sub000/internal/domain"
	apperrors "github.com/Jawed-lol/inkwell-sub000/internal/errors"
	"github.com/Jawed-lol/inkwell-sub000/internal/store"
)

// Placeholder values for cart lines whose item key no longer resolves to a
// catalog entry. The line is kept so the user never sees their cart shrink
// silently.
const (
	unknownTitle     = "unknown"
	placeholderCover = "/images/book-placeholder.png"
)

// CartService reconciles client-held carts against the catalog.
type CartService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(st *store.Store, logger *slog.Logger) *CartService {
	return &CartService{
		store:  st,
		logger: logger,
	}
}

// CartLine is one display row of a reconciled cart.
type CartLine struct {
	Slug       string  `json:"slug"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Price      float64 `json:"price"`
	CoverImage string  `json:"cover_image"`
	Quantity   int     `json:"quantity"`
}

// CartItemRequest is one line of a client-submitted cart replacement.
type CartItemRequest struct {
	Slug     string `json:"slug" validate:"required"`
	Quantity int    `json:"quantity"`
}

// reconcile resolves each cart item against the catalog and produces the
// display view plus the validated list to persist. Items resolve by slug
// first, then by internal ID when the key has that shape (old clients cache
// IDs); keys that resolve neither way become placeholder lines rather than
// failing the cart. Lines with quantity <= 0 are dropped. Input order is
// preserved, and reconciling an already-reconciled cart is a no-op.
func (s *CartService) reconcile(ctx context.Context, items []domain.CartItem) ([]CartLine, []domain.CartItem, error) {
	view := make([]CartLine, 0, len(items))
	validated := make([]domain.CartItem, 0, len(items))

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}

		book, err := s.store.ResolveBook(ctx, item.Slug)
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrNotFound) {
				return nil, nil, fmt.Errorf("resolve cart item %q: %w", item.Slug, err)
			}

			// Keep the original key so the line survives future reconciles.
			view = append(view, CartLine{
				Slug:       item.Slug,
				Title:      unknownTitle,
				Author:     unknownAuthor,
				Price:      0,
				CoverImage: placeholderCover,
				Quantity:   item.Quantity,
			})
			validated = append(validated, item)
			continue
		}

		authorName := unknownAuthor
		if author, err := s.store.Authors.Get(ctx, book.AuthorID); err == nil {
			authorName = author.Name
		}

		view = append(view, CartLine{
			Slug:       book.Slug,
			Title:      book.Title,
			Author:     authorName,
			Price:      book.Price,
			CoverImage: book.CoverImage,
			Quantity:   item.Quantity,
		})
		// Persist the canonical slug, repairing ID-keyed lines from stale
		// clients in place.
		validated = append(validated, domain.CartItem{
			Slug:     book.Slug,
			Quantity: item.Quantity,
		})
	}

	return view, validated, nil
}

// Get returns the user's stored cart, reconciled for display.
func (s *CartService) Get(ctx context.Context, userID string) ([]CartLine, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view, _, err := s.reconcile(ctx, user.Cart)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Set replaces the user's cart with the submitted list. What gets persisted
// is the reconciled, validated list, not the raw client input. Concurrent
// writers from multiple devices are last-write-wins.
func (s *CartService) Set(ctx context.Context, userID string, items []CartItemRequest) ([]CartLine, error) {
	for _, item := range items {
		if err := validate.Struct(item); err != nil {
			return nil, formatValidationError(err)
		}
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	submitted := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		submitted = append(submitted, domain.CartItem{
			Slug:     item.Slug,
			Quantity: item.Quantity,
		})
	}

	view, validated, err := s.reconcile(ctx, submitted)
	if err != nil {
		return nil, err
	}

	user.Cart = validated
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("persist cart: %w", err)
	}

	return view, nil
}
