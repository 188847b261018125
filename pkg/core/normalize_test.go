package core

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/nodewee/fulltext/pkg/constants"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses runs", "lorem  \t ipsum\n\n\rfulltext", "lorem ipsum fulltext"},
		{"trims ends", "  \n find me! \t", "find me!"},
		{"only whitespace", " \n\t ", ""},
		{"empty", "", ""},
		{"unicode spaces", "a\u00a0 b\u3000c", "a b c"},
		{"composes to NFC", "cafe\u0301", "caf\u00e9"},
		{"already NFC", "Grüße", "Grüße"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if truncated {
				t.Errorf("Normalize(%q) reported truncation", tt.in)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"  lorem\tipsum \n fulltext  find me!  ",
		"cafe\u0301   de\u0301ja\u0300 vu",
		"ééééé ééééé",
		strings.Repeat("ab ", 10),
	}

	for _, in := range inputs {
		for _, limit := range []int{4, 7, 1000} {
			once, _ := normalize(in, limit)
			twice, truncated := normalize(once, limit)
			if once != twice {
				t.Errorf("normalize(normalize(%q, %d)) = %q, want %q", in, limit, twice, once)
			}
			if truncated {
				t.Errorf("second pass over %q truncated again", once)
			}
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		limit     int
		want      string
		truncated bool
	}{
		{"under limit", "abc", 5, "abc", false},
		{"at limit", "abcde", 5, "abcde", false},
		{"over limit", "abcdefg", 5, "abcde", true},
		{"counts characters not bytes", "ééééé", 5, "ééééé", false},
		{"cuts multibyte text on a character boundary", "éééééé", 3, "ééé", true},
		{"drops space left at the cut", "abcd efg", 5, "abcd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := truncate(tt.in, tt.limit)
			if got != tt.want || truncated != tt.truncated {
				t.Errorf("truncate(%q, %d) = %q, %v; want %q, %v", tt.in, tt.limit, got, truncated, tt.want, tt.truncated)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestNormalizeLengthCap(t *testing.T) {
	in := strings.Repeat("a", constants.MaxFulltextLength+100)

	got, truncated := Normalize(in)
	if !truncated {
		t.Error("Normalize() did not report truncation")
	}
	if n := utf8.RuneCountInString(got); n != constants.MaxFulltextLength {
		t.Errorf("Normalize() returned %d characters, want %d", n, constants.MaxFulltextLength)
	}
}
