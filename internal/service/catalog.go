package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jawed-lol/inkwell-sub000/internal/domain"
	apperrors "github.com/Jawed-lol/inkwell-sub000/internal/errors"
	"github.com/Jawed-lol/inkwell-sub000/internal/id"
	"github.com/Jawed-lol/inkwell-sub000/internal/search"
	"github.com/Jawed-lol/inkwell-sub000/internal/store"
)

// unknownAuthor is displayed when a book's author record cannot be resolved.
const unknownAuthor = "unknown"

// defaultRandomCount is the sample size for /books/random when the client
// doesn't ask for one.
const defaultRandomCount = 4

// maxRandomCount caps the sample size a client may request.
const maxRandomCount = 20

// CatalogService serves catalog browsing: listing, detail, search, random
// sampling, and (for seeding/admin use) book and author creation.
type CatalogService struct {
	store  *store.Store
	search *search.Index
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(st *store.Store, idx *search.Index, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:  st,
		search: idx,
		logger: logger,
	}
}

// BookSummary is the list/card representation of a book.
type BookSummary struct {
	Slug          string  `json:"slug"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Price         float64 `json:"price"`
	CoverImage    string  `json:"cover_image"`
	Genre         string  `json:"genre"`
	Rating        float64 `json:"rating"`
	ReviewsNumber int     `json:"reviews_number"`
}

// BookReview is a review row on the book detail page, with the reviewer's
// display name resolved.
type BookReview struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BookDetail is the full representation of a book.
type BookDetail struct {
	Slug          string       `json:"slug"`
	Title         string       `json:"title"`
	Author        string       `json:"author"`
	Price         float64      `json:"price"`
	Stock         int          `json:"stock"`
	Genre         string       `json:"genre"`
	Language      string       `json:"language,omitempty"`
	Publisher     string       `json:"publisher,omitempty"`
	ISBN          string       `json:"isbn,omitempty"`
	Description   string       `json:"description,omitempty"`
	CoverImage    string       `json:"cover_image"`
	PublishYear   int          `json:"publish_year,omitempty"`
	Rating        float64      `json:"rating"`
	ReviewsNumber int          `json:"reviews_number"`
	Reviews       []BookReview `json:"reviews"`
}

func newBookSummary(book *domain.Book, authorName string) BookSummary {
	return BookSummary{
		Slug:          book.Slug,
		Title:         book.Title,
		Author:        authorName,
		Price:         book.Price,
		CoverImage:    book.CoverImage,
		Genre:         book.Genre,
		Rating:        book.AverageRating(),
		ReviewsNumber: book.ReviewsNumber,
	}
}

// authorNames resolves the display names for the books' authors in one pass.
// Books whose author record is gone fall back to "unknown".
func (s *CatalogService) authorNames(ctx context.Context, books []*domain.Book) map[string]string {
	names := make(map[string]string)
	for _, book := range books {
		if book.AuthorID == "" {
			continue
		}
		if _, seen := names[book.AuthorID]; seen {
			continue
		}
		author, err := s.store.Authors.Get(ctx, book.AuthorID)
		if err != nil {
			names[book.AuthorID] = unknownAuthor
			continue
		}
		names[book.AuthorID] = author.Name
	}
	return names
}

func (s *CatalogService) authorName(ctx context.Context, authorID string) string {
	if authorID == "" {
		return unknownAuthor
	}
	author, err := s.store.Authors.Get(ctx, authorID)
	if err != nil {
		return unknownAuthor
	}
	return author.Name
}

func (s *CatalogService) summaries(ctx context.Context, books []*domain.Book) []BookSummary {
	names := s.authorNames(ctx, books)
	result := make([]BookSummary, 0, len(books))
	for _, book := range books {
		name, ok := names[book.AuthorID]
		if !ok {
			name = unknownAuthor
		}
		result = append(result, newBookSummary(book, name))
	}
	return result
}

// ListBooks returns a page of the catalog, newest first.
func (s *CatalogService) ListBooks(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[BookSummary], error) {
	page, err := s.store.ListBooksPage(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return &store.PaginatedResult[BookSummary]{
		Items:      s.summaries(ctx, page.Items),
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
		HasMore:    page.HasMore,
	}, nil
}

// GetBook returns a single book by slug with its reviews enriched with
// reviewer display names.
func (s *CatalogService) GetBook(ctx context.Context, bookSlug string) (*BookDetail, error) {
	book, err := s.store.GetBookBySlug(ctx, bookSlug)
	if err != nil {
		return nil, err
	}

	reviews := make([]BookReview, 0, len(book.Reviews))
	reviewerNames := make(map[string]string)
	for _, review := range book.Reviews {
		name, ok := reviewerNames[review.UserID]
		if !ok {
			if user, err := s.store.GetUser(ctx, review.UserID); err == nil {
				name = user.Name
			} else {
				name = "unknown"
			}
			reviewerNames[review.UserID] = name
		}
		reviews = append(reviews, BookReview{
			ID:        review.ID,
			UserID:    review.UserID,
			Name:      name,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		})
	}

	return &BookDetail{
		Slug:          book.Slug,
		Title:         book.Title,
		Author:        s.authorName(ctx, book.AuthorID),
		Price:         book.Price,
		Stock:         book.Stock,
		Genre:         book.Genre,
		Language:      book.Language,
		Publisher:     book.Publisher,
		ISBN:          book.ISBN,
		Description:   book.Description,
		CoverImage:    book.CoverImage,
		PublishYear:   book.PublishYear,
		Rating:        book.AverageRating(),
		ReviewsNumber: book.ReviewsNumber,
		Reviews:       reviews,
	}, nil
}

// SearchBooks matches the query case-insensitively against title, author,
// and genre.
func (s *CatalogService) SearchBooks(ctx context.Context, query string) ([]BookSummary, error) {
	if query == "" {
		return nil, apperrors.Validation("q is required")
	}

	ids, err := s.search.Search(ctx, query, 0)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}

	books, err := s.store.GetBooksByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load search results: %w", err)
	}

	return s.summaries(ctx, books), nil
}

// RandomBooks returns a random catalog sample for discovery sections.
func (s *CatalogService) RandomBooks(ctx context.Context, count int) ([]BookSummary, error) {
	if count <= 0 {
		count = defaultRandomCount
	}
	if count > maxRandomCount {
		count = maxRandomCount
	}

	books, err := s.store.RandomBooks(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("random books: %w", err)
	}

	return s.summaries(ctx, books), nil
}

// CreateAuthorRequest contains the data for a new author record.
type CreateAuthorRequest struct {
	Name string `json:"name" validate:"required"`
	Bio  string `json:"bio"`
}

// CreateAuthor adds an author to the catalog.
func (s *CatalogService) CreateAuthor(ctx context.Context, req CreateAuthorRequest) (*domain.Author, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	authorID, err := id.Generate(id.PrefixAuthor)
	if err != nil {
		return nil, fmt.Errorf("generate author ID: %w", err)
	}

	author := &domain.Author{
		ID:        authorID,
		Name:      req.Name,
		Bio:       req.Bio,
		CreatedAt: time.Now(),
	}

	if err := s.store.Authors.Create(ctx, authorID, author); err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}

	return author, nil
}

// CreateBookRequest contains the data for a new catalog entry.
type CreateBookRequest struct {
	Title       string  `json:"title" validate:"required"`
	AuthorID    string  `json:"author_id" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Genre       string  `json:"genre"`
	Language    string  `json:"language"`
	Publisher   string  `json:"publisher"`
	ISBN        string  `json:"isbn"`
	Description string  `json:"description"`
	CoverImage  string  `json:"cover_image"`
	PublishYear int     `json:"publish_year"`
}

// CreateBook adds a book to the catalog. The slug is derived from the title
// and disambiguated by the store on collision.
func (s *CatalogService) CreateBook(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	if _, err := s.store.Authors.Get(ctx, req.AuthorID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("author not found")
		}
		return nil, fmt.Errorf("get author: %w", err)
	}

	book := &domain.Book{
		Title:       req.Title,
		AuthorID:    req.AuthorID,
		Price:       req.Price,
		Stock:       req.Stock,
		Genre:       req.Genre,
		Language:    req.Language,
		Publisher:   req.Publisher,
		ISBN:        req.ISBN,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		PublishYear: req.PublishYear,
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	s.logger.Info("book created", "book_id", book.ID, "slug", book.Slug)
	return book, nil
}
