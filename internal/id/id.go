// Package id generates prefixed unique identifiers for domain entities.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Entity prefixes. The prefix makes an ID self-describing in logs and lets the
// cart layer recognize internal IDs handed back by stale clients.
const (
	PrefixBook   = "bok"
	PrefixAuthor = "aut"
	PrefixUser   = "usr"
	PrefixOrder  = "ord"
	PrefixReview = "rev"
)

// nanoidLength is the default NanoID length (21 characters, URL-safe alphabet).
const nanoidLength = 21

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "bok-V1StGXR8_Z5jdHi6B-myT").
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when failure should crash the program (e.g., during seeding).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Is reports whether s has the shape of an ID generated with the given prefix.
// Used by cart reconciliation to decide whether a non-resolving item key is
// worth a fallback lookup by internal ID.
func Is(s, prefix string) bool {
	if !strings.HasPrefix(s, prefix+"-") {
		return false
	}
	return len(s) == len(prefix)+1+nanoidLength
}
