// Package slug derives URL-safe catalog slugs from book titles.
package slug

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Matches spaces, underscores, and slashes (for replacement with dashes).
	wordSeparatorRe = regexp.MustCompile(`[\s_/]+`)
	// Matches non-alphanumeric characters (except dashes).
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9-]`)
	// Matches multiple consecutive dashes.
	multipleDashRe = regexp.MustCompile(`-+`)
)

// Make converts a title to a canonical slug.
//
// Normalization rules:
//  1. Trim whitespace and lowercase
//  2. Replace spaces, underscores, and slashes with dashes
//  3. Remove non-alphanumeric characters (except dashes)
//  4. Collapse multiple dashes
//  5. Trim leading/trailing dashes
//
// Examples:
//
//	"Brave New World"  → "brave-new-world"
//	"Catch-22"         → "catch-22"
//	"  Dune  "         → "dune"
//	"L'Étranger!"      → "ltranger"
//
// A title that normalizes to nothing yields "book".
func Make(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = nonAlphanumericRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if s == "" {
		return "book"
	}
	return s
}

// WithSuffix returns the slug disambiguated with a numeric suffix.
// WithSuffix("dune", 2) → "dune-2". Suffixes start at 2: the first
// occupant of a slug keeps the bare form.
func WithSuffix(base string, n int) string {
	return base + "-" + strconv.Itoa(n)
}
