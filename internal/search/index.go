package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/Jawed-lol/inkwell-sub000/internal/domain"
)

// Index wraps a Bleve index with catalog-specific operations.
//
// Thread safety: all public methods are safe for concurrent use. The mutex
// protects against index corruption during rebuilds.
type Index struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Logger for operations (stderr text handler if nil)
}

// NewIndex creates or opens the catalog search index under DataPath.
// A corrupted index is removed and recreated; the catalog is the source of
// truth, the index is rebuildable.
func NewIndex(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	indexPath := filepath.Join(opts.DataPath, "catalog.bleve")

	index, err := bleve.Open(indexPath)
	if err != nil {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove unusable index: %w", removeErr)
		}
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		logger.Info("created new catalog search index", "path", indexPath)
	} else {
		logger.Info("opened existing catalog search index", "path", indexPath)
	}

	return &Index{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// NewMemoryIndex creates an in-memory index, used in tests.
func NewMemoryIndex() (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create memory index: %w", err)
	}
	return &Index{index: index}, nil
}

// buildIndexMapping builds the Bleve mapping for BookDocument.
// Keyword analysis keeps each field a single term, which is what makes
// wildcard substring matching work across whole titles and names.
func buildIndexMapping() mapping.IndexMapping {
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = keyword.Name
	textField.Store = false

	idField := bleve.NewTextFieldMapping()
	idField.Index = false

	bookMapping := bleve.NewDocumentMapping()
	bookMapping.AddFieldMappingsAt("id", idField)
	bookMapping.AddFieldMappingsAt("title", textField)
	bookMapping.AddFieldMappingsAt("author", textField)
	bookMapping.AddFieldMappingsAt("genre", textField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = bookMapping
	indexMapping.DefaultAnalyzer = keyword.Name
	return indexMapping
}

// IndexBook adds or updates a book in the index.
// Implements store.SearchIndexer.
func (s *Index) IndexBook(ctx context.Context, book *domain.Book, authorName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := NewBookDocument(book, authorName)
	return s.index.Index(book.ID, doc.ToMap())
}

// DeleteBook removes a book from the index.
// Implements store.SearchIndexer.
func (s *Index) DeleteBook(ctx context.Context, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.index.Delete(bookID)
}

// Rebuild reindexes the full catalog in one batch.
func (s *Index) Rebuild(ctx context.Context, docs []BookDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.index.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
			return fmt.Errorf("batch index %s: %w", doc.ID, err)
		}
	}
	return s.index.Batch(batch)
}

// Close closes the index and releases resources.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}
