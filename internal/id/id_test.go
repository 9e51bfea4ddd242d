package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	bookID, err := Generate(PrefixBook)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(bookID, "bok-"))
	assert.Len(t, bookID, len(PrefixBook)+1+nanoidLength)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		generated, err := Generate(PrefixOrder)
		require.NoError(t, err)
		assert.False(t, seen[generated], "duplicate ID generated: %s", generated)
		seen[generated] = true
	}
}

func TestIs(t *testing.T) {
	bookID := MustGenerate(PrefixBook)

	assert.True(t, Is(bookID, PrefixBook))
	assert.False(t, Is(bookID, PrefixUser))
	assert.False(t, Is("dune", PrefixBook))
	assert.False(t, Is("bok-tooshort", PrefixBook))
	assert.False(t, Is("", PrefixBook))
}
