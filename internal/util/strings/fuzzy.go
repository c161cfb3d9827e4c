package strings

import (
	"cmp"
	"slices"
	"strings"
)

const (
	// DefaultMaxDistance is the largest edit distance a suggestion may have
	DefaultMaxDistance = 3
	// DefaultMaxSuggestions caps the number of suggestions
	DefaultMaxSuggestions = 3
)

// MatchOptions tunes FindSimilar. Zero fields take the defaults.
type MatchOptions struct {
	MaxDistance    int
	MaxSuggestions int
	CaseSensitive  bool
}

// FindSimilar returns the candidates closest to target by edit distance,
// nearest first and alphabetical among equals.
//
//	FindSimilar("custmer", []string{"customer", "invoice"}, nil) // [customer]
func FindSimilar(target string, candidates []string, opts *MatchOptions) []string {
	if target == "" {
		return nil
	}
	var o MatchOptions
	if opts != nil {
		o = *opts
	}
	o.MaxDistance = cmp.Or(o.MaxDistance, DefaultMaxDistance)
	o.MaxSuggestions = cmp.Or(o.MaxSuggestions, DefaultMaxSuggestions)

	fold := func(s string) string { return s }
	if !o.CaseSensitive {
		fold = strings.ToLower
	}

	type scored struct {
		name string
		dist int
	}
	var near []scored
	want := fold(target)
	for _, c := range candidates {
		if d := LevenshteinDistance(want, fold(c)); d <= o.MaxDistance {
			near = append(near, scored{c, d})
		}
	}
	slices.SortFunc(near, func(a, b scored) int {
		return cmp.Or(cmp.Compare(a.dist, b.dist), cmp.Compare(a.name, b.name))
	})

	out := make([]string, 0, min(len(near), o.MaxSuggestions))
	for _, s := range near[:min(len(near), o.MaxSuggestions)] {
		out = append(out, s.name)
	}
	return out
}

// LevenshteinDistance counts the single rune insertions, deletions and
// substitutions that turn a into b
func LevenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			sub := diag
			if ra[i-1] != rb[j-1] {
				sub++
			}
			diag = row[j]
			row[j] = min(row[j]+1, row[j-1]+1, sub)
		}
	}
	return row[len(rb)]
}
