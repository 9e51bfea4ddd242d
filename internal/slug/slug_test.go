package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Dune", "dune"},
		{"spaces", "The Name of the Wind", "the-name-of-the-wind"},
		{"punctuation", "Harry Potter & the Philosopher's Stone!", "harry-potter-the-philosophers-stone"},
		{"extra whitespace", "  Pride   and  Prejudice  ", "pride-and-prejudice"},
		{"underscores", "foo_bar_baz", "foo-bar-baz"},
		{"numbers", "1984", "1984"},
		{"mixed case", "The LEFT Hand of Darkness", "the-left-hand-of-darkness"},
		{"only punctuation", "!!!", "book"},
		{"empty", "", "book"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.title))
		})
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "dune-2", WithSuffix("dune", 2))
	assert.Equal(t, "dune-3", WithSuffix("dune", 3))
}
