package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"linked_to_parent", "LinkedToParent"},
		{"invoice", "Invoice"},
		{"order.state", "OrderState"},
		{"__x", "X"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToPascalCase(tt.in), tt.in)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 3, LevenshteinDistance("saturday", "sunday"))
	assert.Equal(t, 4, LevenshteinDistance("", "abcd"))
	assert.Equal(t, 0, LevenshteinDistance("same", "same"))
	assert.Equal(t, 2, LevenshteinDistance("größe", "grose"))
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"customer", "invoice", "invoiceline", "order"}

	assert.Equal(t, []string{"customer"}, FindSimilar("custmer", candidates, nil))
	assert.Equal(t, []string{"invoice"}, FindSimilar("INVOICE", candidates, nil))
	assert.Empty(t, FindSimilar("", candidates, nil))
	assert.Empty(t, FindSimilar("zzzzzzzzzz", candidates, nil))

	got := FindSimilar("INVOICE", candidates, &MatchOptions{CaseSensitive: true, MaxDistance: 2})
	assert.Empty(t, got)
}

func TestFindSimilarLimitsSuggestions(t *testing.T) {
	got := FindSimilar("ab", []string{"ad", "ac", "ab", "abc"}, &MatchOptions{MaxSuggestions: 2})
	assert.Equal(t, []string{"ab", "abc"}, got)
}
