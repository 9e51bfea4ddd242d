package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/Jawed-lol/inkwell-sub000/internal/domain"
	apperrors "github.com/Jawed-lol/inkwell-sub000/internal/errors"
	"github.com/Jawed-lol/inkwell-sub000/internal/id"
	"github.com/Jawed-lol/inkwell-sub000/internal/slug"
)

// conflictRetries bounds how often a checkout transaction is replayed after
// losing a Badger SSI conflict to a concurrent writer. Each replay re-reads
// fresh stock, so a genuinely oversold order fails validation instead of
// racing past it.
const conflictRetries = 3

// OrderLine is a client-submitted order line awaiting validation.
type OrderLine struct {
	BookSlug string
	Quantity int
	Price    float64
}

// updateWithRetry runs fn in a Badger update transaction, replaying it a
// bounded number of times when the commit loses a conflict check.
func (s *Store) updateWithRetry(fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// resolveBookIDTxn resolves an item key to a book ID inside a transaction.
// Slugs are authoritative; keys shaped like internal book IDs get a fallback
// lookup so carts cached by older clients still resolve.
func (s *Store) resolveBookIDTxn(txn *badger.Txn, key string) (string, error) {
	item, err := txn.Get([]byte(bookPrefix + "idx:slug:" + key))
	if err == nil {
		var bookID string
		if err := item.Value(func(val []byte) error {
			bookID = string(val)
			return nil
		}); err != nil {
			return "", err
		}
		return bookID, nil
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return "", err
	}

	if id.Is(key, id.PrefixBook) {
		if _, err := txn.Get([]byte(bookPrefix + key)); err == nil {
			return key, nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return "", err
		}
	}

	return "", apperrors.NotFoundf("book %q not found", key)
}

// getBookTxn loads a book document inside a transaction.
func (s *Store) getBookTxn(txn *badger.Txn, bookID string) (*domain.Book, error) {
	item, err := txn.Get([]byte(bookPrefix + bookID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, apperrors.NotFoundf("book %q not found", bookID)
	}
	if err != nil {
		return nil, err
	}

	var book domain.Book
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &book)
	}); err != nil {
		return nil, err
	}
	return &book, nil
}

// putBookTxn writes a book document inside a transaction.
// Index entries are untouched: callers must not change Slug or ISBN here.
func (s *Store) putBookTxn(txn *badger.Txn, book *domain.Book) error {
	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}
	return txn.Set([]byte(bookPrefix+book.ID), data)
}

// GetBookBySlug retrieves a book by its slug.
func (s *Store) GetBookBySlug(ctx context.Context, bookSlug string) (*domain.Book, error) {
	return s.Books.GetByIndex(ctx, "slug", bookSlug)
}

// ResolveBook resolves an item key (slug, or internal ID as a fallback for
// stale client caches) to a book.
func (s *Store) ResolveBook(ctx context.Context, key string) (*domain.Book, error) {
	book, err := s.GetBookBySlug(ctx, key)
	if err == nil {
		return book, nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if id.Is(key, id.PrefixBook) {
		book, err = s.Books.Get(ctx, key)
		if err == nil {
			return book, nil
		}
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	return nil, apperrors.NotFoundf("book %q not found", key)
}

// CreateBook assigns the book an ID and a unique slug derived from its title,
// then persists it and feeds the search index. A duplicate ISBN fails with a
// conflict before any slug is taken.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if book.ISBN != "" {
		if _, err := s.Books.GetByIndex(ctx, "isbn", book.ISBN); err == nil {
			return apperrors.Conflict("a book with this isbn already exists")
		} else if !apperrors.Is(err, apperrors.ErrNotFound) {
			return err
		}
	}

	if book.ID == "" {
		bookID, err := id.Generate(id.PrefixBook)
		if err != nil {
			return err
		}
		book.ID = bookID
	}

	// Slug is stable once assigned: first occupant keeps the bare form,
	// collisions get -2, -3, ...
	base := slug.Make(book.Title)
	candidate := base
	for n := 2; ; n++ {
		_, err := s.GetBookBySlug(ctx, candidate)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			break
		}
		if err != nil {
			return err
		}
		candidate = slug.WithSuffix(base, n)
	}
	book.Slug = candidate

	book.InitTimestamps()
	if book.Reviews == nil {
		book.Reviews = []domain.Review{}
	}

	if err := s.Books.Create(ctx, book.ID, book); err != nil {
		return err
	}

	s.indexForSearch(ctx, book)
	return nil
}

// UpdateBook persists catalog changes to the book and refreshes the search index.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	book.Touch()
	if err := s.Books.Update(ctx, book.ID, book); err != nil {
		return err
	}
	s.indexForSearch(ctx, book)
	return nil
}

// indexForSearch pushes the book into the search index, denormalizing the
// author name. Index failures are logged, not surfaced: search lagging a
// write is acceptable, a failed write is not.
func (s *Store) indexForSearch(ctx context.Context, book *domain.Book) {
	authorName := ""
	if book.AuthorID != "" {
		if author, err := s.Authors.Get(ctx, book.AuthorID); err == nil {
			authorName = author.Name
		}
	}
	if err := s.searchIndexer.IndexBook(ctx, book, authorName); err != nil && s.logger != nil {
		s.logger.Warn("failed to index book for search", "book_id", book.ID, "error", err)
	}
}

// GetBooksByIDs returns the books for the given IDs, skipping missing ones.
func (s *Store) GetBooksByIDs(ctx context.Context, ids []string) ([]*domain.Book, error) {
	books := make([]*domain.Book, 0, len(ids))
	for _, bookID := range ids {
		book, err := s.Books.Get(ctx, bookID)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

// ListBooksPage returns one page of the catalog, newest first.
func (s *Store) ListBooksPage(ctx context.Context, params PaginationParams) (*PaginatedResult[*domain.Book], error) {
	books, err := s.Books.All(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(books, func(i, j int) bool {
		if !books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].CreatedAt.After(books[j].CreatedAt)
		}
		return books[i].Title < books[j].Title
	})

	return Paginate(books, params), nil
}

// RandomBooks returns up to count randomly chosen books.
func (s *Store) RandomBooks(ctx context.Context, count int) ([]*domain.Book, error) {
	books, err := s.Books.All(ctx)
	if err != nil {
		return nil, err
	}

	rand.Shuffle(len(books), func(i, j int) {
		books[i], books[j] = books[j], books[i]
	})

	if count > len(books) {
		count = len(books)
	}
	return books[:count], nil
}

// ApplyOrderDecrement validates and commits the stock side of an order in a
// single transaction: every line must resolve, match the current catalog
// price exactly, and have sufficient stock, or the whole batch fails with no
// decrement anywhere. Repeated lines for the same book share one document, so
// their quantities accumulate against the same stock. On success the returned
// items carry the catalog-confirmed prices to snapshot into the order.
//
// Two concurrent checkouts racing for the last copies cannot both win: the
// losing transaction hits Badger's conflict detection at commit, is replayed
// against the decremented stock, and then fails the stock check honestly.
func (s *Store) ApplyOrderDecrement(ctx context.Context, lines []OrderLine) ([]domain.OrderItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var confirmed []domain.OrderItem
	err := s.updateWithRetry(func(txn *badger.Txn) error {
		confirmed = confirmed[:0]

		// Validate every line against the running stock before writing
		// anything. Stock is decremented on the in-memory document as each
		// line passes, so duplicate slugs see what earlier lines took.
		loaded := make(map[string]*domain.Book, len(lines))
		var bookIDs []string
		for _, line := range lines {
			bookID, err := s.resolveBookIDTxn(txn, line.BookSlug)
			if err != nil {
				return err
			}
			book, ok := loaded[bookID]
			if !ok {
				book, err = s.getBookTxn(txn, bookID)
				if err != nil {
					return err
				}
				loaded[bookID] = book
				bookIDs = append(bookIDs, bookID)
			}

			if book.Price != line.Price {
				return apperrors.PriceMismatchf("price for %q has changed", book.Slug)
			}
			if book.Stock < line.Quantity {
				return apperrors.InsufficientStockf("not enough stock for %q: %d available, %d requested", book.Slug, book.Stock, line.Quantity)
			}
			book.Stock -= line.Quantity

			confirmed = append(confirmed, domain.OrderItem{
				BookSlug: book.Slug,
				Quantity: line.Quantity,
				Price:    book.Price,
			})
		}

		for _, bookID := range bookIDs {
			book := loaded[bookID]
			book.Touch()
			if err := s.putBookTxn(txn, book); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return confirmed, nil
}

// RestoreStock increments stock back for the given order items. It is the
// compensating half of order placement: if appending the order to the user
// record fails after the decrement committed, the stock is returned.
func (s *Store) RestoreStock(ctx context.Context, items []domain.OrderItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.updateWithRetry(func(txn *badger.Txn) error {
		for _, item := range items {
			bookID, err := s.resolveBookIDTxn(txn, item.BookSlug)
			if err != nil {
				return err
			}
			book, err := s.getBookTxn(txn, bookID)
			if err != nil {
				return err
			}
			book.Stock += item.Quantity
			book.Touch()
			if err := s.putBookTxn(txn, book); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertReview applies one-review-per-user semantics on the book identified
// by key (slug or ID). The read-modify-write happens in one transaction so
// concurrent reviewers of the same book cannot lose each other's entries.
// Returns the updated book.
func (s *Store) UpsertReview(ctx context.Context, key string, review domain.Review) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var updated *domain.Book
	err := s.updateWithRetry(func(txn *badger.Txn) error {
		bookID, err := s.resolveBookIDTxn(txn, key)
		if err != nil {
			return err
		}
		book, err := s.getBookTxn(txn, bookID)
		if err != nil {
			return err
		}

		book.UpsertReview(review)
		book.Touch()
		if err := s.putBookTxn(txn, book); err != nil {
			return err
		}

		updated = book
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteReview removes a review from the book identified by key. Only the
// authoring user may delete their review; anyone else gets Forbidden and the
// review stays.
func (s *Store) DeleteReview(ctx context.Context, key, reviewID, userID string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var updated *domain.Book
	err := s.updateWithRetry(func(txn *badger.Txn) error {
		bookID, err := s.resolveBookIDTxn(txn, key)
		if err != nil {
			return err
		}
		book, err := s.getBookTxn(txn, bookID)
		if err != nil {
			return err
		}

		found := false
		for _, r := range book.Reviews {
			if r.ID == reviewID {
				if r.UserID != userID {
					return apperrors.Forbidden("you can only delete your own review")
				}
				found = true
				break
			}
		}
		if !found {
			return apperrors.NotFoundf("review %q not found", reviewID)
		}

		book.RemoveReview(reviewID)
		book.Touch()
		if err := s.putBookTxn(txn, book); err != nil {
			return err
		}

		updated = book
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
