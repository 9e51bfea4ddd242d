package service

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/Jawed-lol/inkwell-sub000/internal/errors"
	"github.com/Jawed-lol/inkwell-sub000/internal/store"
)

// WishlistService manages the per-user wishlist of book references.
type WishlistService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(st *store.Store, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		store:  st,
		logger: logger,
	}
}

// List returns the user's wishlist enriched with book data. Books removed
// from the catalog silently drop out of the listing.
func (s *WishlistService) List(ctx context.Context, userID string) ([]BookSummary, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	books, err := s.store.GetBooksByIDs(ctx, user.Wishlist)
	if err != nil {
		return nil, fmt.Errorf("load wishlist books: %w", err)
	}

	names := make(map[string]string)
	result := make([]BookSummary, 0, len(books))
	for _, book := range books {
		name, ok := names[book.AuthorID]
		if !ok {
			name = unknownAuthor
			if author, err := s.store.Authors.Get(ctx, book.AuthorID); err == nil {
				name = author.Name
			}
			names[book.AuthorID] = name
		}
		result = append(result, newBookSummary(book, name))
	}

	return result, nil
}

// Add puts a book on the user's wishlist. Adding a book that is already
// there is a no-op.
func (s *WishlistService) Add(ctx context.Context, userID, bookID string) error {
	if _, err := s.store.Books.Get(ctx, bookID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("book not found")
		}
		return fmt.Errorf("get book: %w", err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if !user.AddToWishlist(bookID) {
		return nil
	}

	user.Touch()
	return s.store.UpdateUser(ctx, user)
}

// Remove takes a book off the user's wishlist. Removing a book that isn't
// there is a no-op.
func (s *WishlistService) Remove(ctx context.Context, userID, bookID string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if !user.RemoveFromWishlist(bookID) {
		return nil
	}

	user.Touch()
	return s.store.UpdateUser(ctx, user)
}
