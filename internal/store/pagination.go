package store

// Pagination for the public API is page/limit based: the storefront renders
// numbered pages, not infinite scroll.

const (
	// DefaultPageSize is used when the client omits or zeroes the limit.
	DefaultPageSize = 10
	// MaxPageSize caps the per-page limit.
	MaxPageSize = 50
)

// PaginationParams contains pagination request parameters.
type PaginationParams struct {
	Page  int // 1-based page number
	Limit int // items per page (defaults to 10, capped at 50)
}

// DefaultPaginationParams returns sensible defaults.
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{Page: 1, Limit: DefaultPageSize}
}

// Validate checks and corrects pagination parameters.
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
}

// Offset returns the index of the first item on the requested page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PaginatedResult contains one page of data plus metadata.
type PaginatedResult[T any] struct {
	Items      []T  `json:"items"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// Paginate slices items according to params and fills in page metadata.
func Paginate[T any](items []T, params PaginationParams) *PaginatedResult[T] {
	params.Validate()

	total := len(items)
	totalPages := (total + params.Limit - 1) / params.Limit

	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	page := make([]T, end-start)
	copy(page, items[start:end])

	return &PaginatedResult[T]{
		Items:      page,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
		HasMore:    end < total,
	}
}
