// Package tablelist estimates where a topic lives in a scanned yearbook by
// reading its printed list of tables.
//
// The list is expected in the two-column layout of statistical yearbooks:
// entries in the right column, each ending with a logical page number, and
// the pages of the list marked with the sentinel "XX" until the last one.
package tablelist

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/itsmostafa/yearbook/internal/ocr"
	"github.com/itsmostafa/yearbook/internal/render"
	"github.com/itsmostafa/yearbook/internal/textmatch"
)

// ErrNotFound means no table-list page was seen within the start limit.
var ErrNotFound = errors.New("table list not found")

// Config holds the tuning of the table-list heuristic.
type Config struct {
	// ScanPages is how many leading pages are rendered for the search
	ScanPages int

	// StartLimit is the last page index examined for a start marker
	StartLimit int

	// Markers identify the first page of the list (matched case-insensitively)
	Markers []string

	// Sentinel marks pages of the index region (matched case-sensitively)
	Sentinel string
}

// DefaultConfig returns the tuning for the Korean statistical yearbook layout.
func DefaultConfig() *Config {
	return &Config{
		ScanPages:  25,
		StartLimit: 11,
		Markers:    []string{"table list", "list of tables"},
		Sentinel:   "XX",
	}
}

// Entry is the right-column text of one page of the index region.
type Entry struct {
	Text string
	// End marks the page that terminated the region.
	End bool
}

// Result is the outcome of a table-list search. Resolved is false when the
// list was found but no page number could be read for the query.
type Result struct {
	Start     int
	Entries   []Entry
	Reference int
	Page      int
	Resolved  bool
}

// Locator runs the table-list search over rendered pages.
type Locator struct {
	renderer   render.Renderer
	recognizer ocr.Recognizer
	config     *Config
}

// NewLocator creates a Locator. A nil config uses DefaultConfig.
func NewLocator(renderer render.Renderer, recognizer ocr.Recognizer, config *Config) *Locator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Locator{renderer: renderer, recognizer: recognizer, config: config}
}

// Search finds the list of tables among the first pages of the numPages-page
// PDF at path and maps the query's entry to a physical page index.
func (l *Locator) Search(ctx context.Context, path string, numPages int, query string) (Result, error) {
	log := slog.With("path", path)

	n := min(l.config.ScanPages, numPages)
	if n <= 0 {
		return Result{}, ErrNotFound
	}

	images, err := l.renderer.Render(ctx, path, 1, n)
	if err != nil {
		return Result{}, fmt.Errorf("rendering first %d pages: %w", n, err)
	}

	start, err := l.startPage(ctx, log, images)
	if err != nil {
		return Result{}, err
	}
	log.Debug("table list found", "page", start)

	entries, err := l.collectEntries(ctx, log, images, start)
	if err != nil {
		return Result{}, err
	}

	res := Result{Start: start, Entries: entries}
	ref, ok := FindReference(entries, query)
	if !ok {
		log.Debug("no page reference in table list", "query", query, "entries", len(entries))
		return res, nil
	}

	res.Reference = ref
	res.Page = PhysicalPage(start, len(entries), ref)
	res.Resolved = true
	log.Debug("table list reference", "query", query, "reference", ref, "page", res.Page)
	return res, nil
}

// startPage returns the index of the first page whose text carries one of the
// markers, looking no further than StartLimit.
func (l *Locator) startPage(ctx context.Context, log *slog.Logger, images []image.Image) (int, error) {
	for i, img := range images {
		if i > l.config.StartLimit {
			break
		}
		if err := ctx.Err(); err != nil {
			return -1, err
		}

		text, err := l.recognizer.Text(ctx, img)
		if err != nil {
			if ctx.Err() != nil {
				return -1, ctx.Err()
			}
			if errors.Is(err, ocr.ErrEngineUnavailable) {
				return -1, err
			}
			log.Warn("recognizing page", "page", i, "error", err)
			continue
		}
		if textmatch.ContainsAny(text, l.config.Markers...) {
			return i, nil
		}
	}
	return -1, ErrNotFound
}

// collectEntries reads the right column of each page from start. Once the
// sentinel has been seen, the next page without it is appended as the final
// entry.
func (l *Locator) collectEntries(ctx context.Context, log *slog.Logger, images []image.Image, start int) ([]Entry, error) {
	var entries []Entry
	nearEnd := false

	for i := start; i < len(images); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img := images[i]
		text, err := l.recognizer.RegionText(ctx, img, ocr.RightHalf(img.Bounds()))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, ocr.ErrEngineUnavailable) {
				return nil, err
			}
			log.Warn("recognizing right column", "page", i, "error", err)
			text = ""
		}

		marked := strings.Contains(text, l.config.Sentinel)
		if nearEnd && !marked {
			entries = append(entries, Entry{Text: text, End: true})
			break
		}
		entries = append(entries, Entry{Text: text})
		if marked {
			nearEnd = true
		}
	}
	return entries, nil
}

var referencePattern = regexp.MustCompile(`(?m)(\d+)\s*$`)

// FindReference reads the logical page number for query from the first entry
// that mentions it: the first line-ending number after the mention, or else the
// last one before it.
func FindReference(entries []Entry, query string) (int, bool) {
	for _, e := range entries {
		text := textmatch.Lower(e.Text)
		start, end := textmatch.Index(text, query)
		if start < 0 {
			continue
		}

		if m := referencePattern.FindStringSubmatch(text[end:]); m != nil {
			return atoi(m[1])
		}
		if all := referencePattern.FindAllStringSubmatch(text[:start], -1); len(all) > 0 {
			return atoi(all[len(all)-1][1])
		}
		return 0, false
	}
	return 0, false
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PhysicalPage maps a logical page reference to a zero-based page index. The
// book's logical page 1 follows the list of tables, which spans entryCount
// pages from start.
func PhysicalPage(start, entryCount, reference int) int {
	return start + entryCount + (reference - 1)
}
