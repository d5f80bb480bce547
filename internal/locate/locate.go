// Package locate decides, for one PDF, which pages mention a query.
//
// Text-bearing documents are searched through their text layer. Scanned
// documents are narrowed with the printed list of tables and then searched by
// recognizing a window of pages around the estimate. When no list of tables
// exists the caller is asked whether the whole document should be scanned.
package locate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/itsmostafa/yearbook/internal/document"
	"github.com/itsmostafa/yearbook/internal/tablelist"
	"github.com/itsmostafa/yearbook/internal/textlayer"
)

// TableSearcher estimates the page of a query from a document's list of tables.
type TableSearcher interface {
	Search(ctx context.Context, path string, numPages int, query string) (tablelist.Result, error)
}

// PageScanner searches a window of pages by recognition.
type PageScanner interface {
	FindPages(ctx context.Context, path, query string, w document.Window) (document.MatchSet, error)
}

// Opener opens the document at path.
type Opener func(path string) (document.Document, error)

// ConfirmFunc asks whether a document without a list of tables should be
// scanned page by page.
type ConfirmFunc func(ctx context.Context, path string) bool

// AlwaysConfirm accepts every full scan.
func AlwaysConfirm(context.Context, string) bool { return true }

// NeverConfirm declines every full scan.
func NeverConfirm(context.Context, string) bool { return false }

// Serialize wraps confirm so that concurrent callers are asked one at a time.
func Serialize(confirm ConfirmFunc) ConfirmFunc {
	var mu sync.Mutex
	return func(ctx context.Context, path string) bool {
		mu.Lock()
		defer mu.Unlock()
		return confirm(ctx, path)
	}
}

// Config holds the orchestration settings.
type Config struct {
	// ProbePages is how many leading pages decide whether a text layer exists
	ProbePages int

	// Radius is the number of pages searched on each side of the estimate
	Radius int

	Policy MatchPolicy
}

// DefaultConfig returns a Config with the standard settings.
func DefaultConfig() Config {
	return Config{
		ProbePages: textlayer.DefaultProbePages,
		Radius:     5,
		Policy:     PolicyAll,
	}
}

// Locator runs the per-document search.
type Locator struct {
	open    Opener
	tables  TableSearcher
	scanner PageScanner
	confirm ConfirmFunc
	config  Config
}

// Option configures a Locator.
type Option func(*Locator)

// WithOpener replaces document.Open.
func WithOpener(open Opener) Option {
	return func(l *Locator) { l.open = open }
}

// WithConfirm sets the full-scan confirmation. The default declines.
func WithConfirm(confirm ConfirmFunc) Option {
	return func(l *Locator) { l.confirm = confirm }
}

func New(tables TableSearcher, scanner PageScanner, config Config, opts ...Option) *Locator {
	l := &Locator{
		open: func(path string) (document.Document, error) {
			return document.Open(path)
		},
		tables:  tables,
		scanner: scanner,
		confirm: NeverConfirm,
		config:  config,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate finds the pages of the PDF at path that mention query.
func (l *Locator) Locate(ctx context.Context, path, query string) (Outcome, error) {
	out := Outcome{Path: path}

	doc, err := l.open(path)
	if err != nil {
		return out, fmt.Errorf("opening %s: %w", path, err)
	}
	defer doc.Close()

	n := doc.NumPages()
	log := slog.With("path", path, "pages", n)

	if textlayer.HasTextLayer(doc, l.config.ProbePages) {
		log.Debug("searching text layer")
		out.Method = MethodTextLayer
		out.Window = document.FullWindow(n)
		return l.classify(out, textlayer.FindPages(doc, query)), nil
	}

	out.Method = MethodTableList
	res, err := l.tables.Search(ctx, path, n, query)
	switch {
	case errors.Is(err, tablelist.ErrNotFound):
		log.Info("no list of tables")
		if !l.confirm(ctx, path) {
			out.Kind = Declined
			return out, nil
		}
		out.Method = MethodFullScan
		out.Window = document.FullWindow(n)
	case err != nil:
		return out, fmt.Errorf("searching list of tables of %s: %w", path, err)
	case !res.Resolved:
		out.TableList = &res
		out.Kind = Undetermined
		return out, nil
	default:
		out.TableList = &res
		out.Window = document.NewWindow(res.Page, l.config.Radius, n)
		log.Debug("searching around estimate", "estimate", res.Page, "window", out.Window)
	}

	matches, err := l.scanner.FindPages(ctx, path, query, out.Window)
	if err != nil {
		return out, fmt.Errorf("scanning pages %v of %s: %w", out.Window, path, err)
	}
	return l.classify(out, matches), nil
}

func (l *Locator) classify(out Outcome, matches document.MatchSet) Outcome {
	out.Matches = len(matches)
	out.Kind, out.Pages = l.config.Policy.Apply(matches)
	return out
}
