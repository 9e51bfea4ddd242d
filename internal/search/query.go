package search

import (
	"context"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// maxSearchResults bounds how many book IDs a single query can return.
const maxSearchResults = 100

// wildcardEscaper escapes the characters bleve wildcard syntax treats specially.
var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// Search returns the IDs of books whose title, author, or genre contains the
// query as a case-insensitive substring. Results come back in index score
// order, which for keyword fields is effectively stable.
func (s *Index) Search(ctx context.Context, q string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil, nil
	}
	if limit <= 0 || limit > maxSearchResults {
		limit = maxSearchResults
	}

	pattern := "*" + wildcardEscaper.Replace(q) + "*"

	fields := []string{"title", "author", "genre"}
	subqueries := make([]query.Query, 0, len(fields))
	for _, field := range fields {
		wq := bleve.NewWildcardQuery(pattern)
		wq.SetField(field)
		subqueries = append(subqueries, wq)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(subqueries...), limit, 0, false)
	result, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
