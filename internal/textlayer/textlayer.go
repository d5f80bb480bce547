// Package textlayer classifies documents as text-bearing or scanned and
// searches their embedded text.
package textlayer

import (
	"log/slog"
	"strings"

	"github.com/itsmostafa/yearbook/internal/document"
	"github.com/itsmostafa/yearbook/internal/textmatch"
)

// DefaultProbePages is how many leading pages HasTextLayer inspects.
const DefaultProbePages = 30

// HasTextLayer reports whether the first maxPages pages of doc carry any
// embedded text. Unreadable pages count as empty.
func HasTextLayer(doc document.Document, maxPages int) bool {
	if maxPages <= 0 {
		maxPages = DefaultProbePages
	}
	n := min(maxPages, doc.NumPages())
	for i := range n {
		if strings.TrimSpace(pageText(doc, i)) != "" {
			return true
		}
	}
	return false
}

// FindPages returns the indices of pages whose embedded text contains query,
// ignoring case.
func FindPages(doc document.Document, query string) document.MatchSet {
	var matches document.MatchSet
	for i := range doc.NumPages() {
		if textmatch.Contains(pageText(doc, i), query) {
			matches = append(matches, i)
		}
	}
	return matches
}

func pageText(doc document.Document, i int) string {
	text, err := doc.PageText(i)
	if err != nil {
		slog.Warn("reading text layer", "path", doc.Path(), "page", i, "error", err)
		return ""
	}
	return text
}
