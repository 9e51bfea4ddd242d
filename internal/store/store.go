// Package store implements the document storage port for the Inkwell catalog
// and user records, backed by Badger. Every record is a JSON document; slug,
// email, and isbn lookups go through secondary index keys maintained in the
// same transaction as the document itself.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/Jawed-lol/inkwell-sub000/internal/domain"
)

// Key prefixes for the document families.
const (
	bookPrefix   = "book:"
	authorPrefix = "author:"
	userPrefix   = "user:"
)

// SearchIndexer is the interface for keeping the search index in sync.
// Store uses this to publish catalog changes without depending on the
// search implementation.
type SearchIndexer interface {
	IndexBook(ctx context.Context, book *domain.Book, authorName string) error
	DeleteBook(ctx context.Context, bookID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexBook is a no-op.
func (NoopSearchIndexer) IndexBook(context.Context, *domain.Book, string) error { return nil }

// DeleteBook is a no-op.
func (NoopSearchIndexer) DeleteBook(context.Context, string) error { return nil }

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Search indexer for keeping search in sync with catalog changes.
	// Set via SetSearchIndexer after store creation to avoid circular dependencies.
	searchIndexer SearchIndexer

	// Generic entities
	Books   *Entity[domain.Book]
	Authors *Entity[domain.Author]
	Users   *Entity[domain.User]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:            db,
		logger:        logger,
		searchIndexer: NoopSearchIndexer{},
	}

	store.initBooks()
	store.initAuthors()
	store.initUsers()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// SetSearchIndexer sets the search indexer for keeping search in sync.
// Set after store creation: the store must exist before the search service
// can be built over it.
func (s *Store) SetSearchIndexer(indexer SearchIndexer) {
	if indexer == nil {
		indexer = NoopSearchIndexer{}
	}
	s.searchIndexer = indexer
}

// initBooks initializes the Books entity.
// slug and isbn are unique secondary indexes; books without an ISBN simply
// don't participate in the isbn index.
func (s *Store) initBooks() {
	s.Books = NewEntity[domain.Book](s, bookPrefix).
		WithIndex("slug", func(b *domain.Book) []string {
			if b.Slug == "" {
				return nil
			}
			return []string{b.Slug}
		}).
		WithIndex("isbn", func(b *domain.Book) []string {
			if b.ISBN == "" {
				return nil
			}
			return []string{b.ISBN}
		})
}

// initAuthors initializes the Authors entity.
func (s *Store) initAuthors() {
	s.Authors = NewEntity[domain.Author](s, authorPrefix)
}

// initUsers initializes the Users entity.
// Email is indexed case-insensitively; reset tokens are indexed only while set.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, userPrefix).
		WithIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail, // Transform lookups to be case-insensitive
		).
		WithIndex("reset_token", func(u *domain.User) []string {
			if u.ResetToken == "" {
				return nil
			}
			return []string{u.ResetToken}
		})
}

// normalizeEmail lowercases and trims an email address for index keys.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
