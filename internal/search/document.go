// Package search provides catalog search over title, author, and genre using Bleve.
//
// The index stores lowercased keyword fields and queries them with wildcard
// terms, giving the case-insensitive substring semantics the storefront
// search box expects. No ranking tuning, facets, or fuzzy matching.
package search

import (
	"strings"

	"github.com/Jawed-lol/inkwell-sub000/internal/domain"
)

// BookDocument is the indexed representation of a book.
// The author name is denormalized in so a single query covers all three
// searchable fields.
type BookDocument struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

// NewBookDocument builds the index document for a book. Fields are lowercased
// at index time so wildcard terms match case-insensitively against the
// keyword-analyzed index.
func NewBookDocument(book *domain.Book, authorName string) BookDocument {
	return BookDocument{
		ID:     book.ID,
		Title:  strings.ToLower(book.Title),
		Author: strings.ToLower(authorName),
		Genre:  strings.ToLower(book.Genre),
	}
}

// ToMap converts the document to a map with lowercase field names so they
// match the index mapping.
func (d BookDocument) ToMap() map[string]any {
	return map[string]any{
		"id":     d.ID,
		"title":  d.Title,
		"author": d.Author,
		"genre":  d.Genre,
	}
}
