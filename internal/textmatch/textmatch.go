// Package textmatch holds the case-insensitive matching rule shared by the
// text-layer, table-list and recognized-text searches: both sides are NFC
// normalized and lowercased, then compared as substrings.
package textmatch

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Lower normalizes s to NFC and lowercases it.
func Lower(s string) string {
	// A Caser keeps state, so each call gets its own.
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

// Contains reports whether query occurs in text, ignoring case.
// An empty query never matches.
func Contains(text, query string) bool {
	if query == "" {
		return false
	}
	return strings.Contains(Lower(text), Lower(query))
}

// ContainsAny reports whether any of the needles occurs in text, ignoring case.
func ContainsAny(text string, needles ...string) bool {
	lowered := Lower(text)
	for _, n := range needles {
		if n != "" && strings.Contains(lowered, Lower(n)) {
			return true
		}
	}
	return false
}

// Index returns the byte offsets [start, end) of the first occurrence of query
// in Lower(text), or -1, -1. The offsets index the lowered text.
func Index(text, query string) (int, int) {
	if query == "" {
		return -1, -1
	}
	needle := Lower(query)
	i := strings.Index(Lower(text), needle)
	if i < 0 {
		return -1, -1
	}
	return i, i + len(needle)
}
