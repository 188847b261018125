package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/nodewee/fulltext/pkg/constants"
)

// Normalize collapses every whitespace run to one space, trims the ends,
// composes the text to NFC and cuts it to constants.MaxFulltextLength
// characters. The second result reports whether the text was cut.
func Normalize(s string) (string, bool) {
	return normalize(s, constants.MaxFulltextLength)
}

func normalize(s string, limit int) (string, bool) {
	s = strings.Join(strings.Fields(s), " ")
	s = norm.NFC.String(s)
	return truncate(s, limit)
}

// truncate cuts s after limit characters
func truncate(s string, limit int) (string, bool) {
	if len(s) <= limit {
		return s, false
	}

	n := 0
	for i := range s {
		if n == limit {
			return strings.TrimRightFunc(s[:i], unicode.IsSpace), true
		}
		n++
	}
	return s, false
}
