// Package strings provides name conversions and fuzzy matching used when
// deriving host names from design identifiers and when suggesting
// corrections for unresolved names.
package strings

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ToPascalCase joins the words of a design identifier, capitalizing each
// (linked_to_parent -> LinkedToParent, order.state -> OrderState)
func ToPascalCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})

	var b strings.Builder
	b.Grow(len(s))
	for _, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(w[size:])
	}
	return b.String()
}
