// Package scraper runs a query over a directory of yearbook PDFs and merges
// every matching page, each document introduced by a label page, into one
// output PDF.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/itsmostafa/yearbook/internal/locate"
	"github.com/itsmostafa/yearbook/internal/pages"
	"github.com/itsmostafa/yearbook/internal/report"
	"golang.org/x/sync/errgroup"
)

// DocumentLocator finds the pages of one PDF that mention a query.
type DocumentLocator interface {
	Locate(ctx context.Context, path, query string) (locate.Outcome, error)
}

// Config holds the run settings.
type Config struct {
	// Jobs is the number of documents searched at once
	Jobs int

	// WorkDir stages intermediate PDFs; empty uses a temporary directory
	WorkDir string

	Policy locate.MatchPolicy
}

// Result is the outcome for one document.
type Result struct {
	Path    string
	Outcome locate.Outcome
	Err     error
}

// Name returns the file name without its extension.
func (r Result) Name() string {
	base := filepath.Base(r.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Summary describes a finished run.
type Summary struct {
	// Output is the written PDF, empty when nothing was written
	Output  string
	Results []Result
}

// Skipped returns the documents that contributed no pages.
func (s *Summary) Skipped() []Result {
	var skipped []Result
	for _, r := range s.Results {
		if r.Err != nil || !r.Outcome.Contributes() {
			skipped = append(skipped, r)
		}
	}
	return skipped
}

// Scraper searches documents and assembles the output PDF.
type Scraper struct {
	locator DocumentLocator
	config  Config
	out     io.Writer
	mu      sync.Mutex
}

func New(locator DocumentLocator, config Config, out io.Writer) *Scraper {
	if config.Jobs <= 0 {
		config.Jobs = 1
	}
	if out == nil {
		out = io.Discard
	}
	return &Scraper{locator: locator, config: config, out: out}
}

// Files returns the PDF files directly inside dir, sorted by name.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	slices.Sort(files)
	return files, nil
}

var separators = strings.NewReplacer("/", "_", `\`, "_")

// OutputName returns the merged output file name for a directory run. Path
// separators in the query are replaced so the name stays in the output
// directory.
func OutputName(query, inputDir string) string {
	dir := inputDir
	if abs, err := filepath.Abs(inputDir); err == nil {
		dir = abs
	}
	return fmt.Sprintf("%s-scraped-%s.pdf", separators.Replace(query), filepath.Base(dir))
}

// FileOutputName returns the output file name for a single-document run.
func FileOutputName(path string) string {
	return fmt.Sprintf("scraped-%s.pdf", Result{Path: path}.Name())
}

// Run searches every PDF in inputDir for query and writes the merged output
// into outputDir. Documents that fail are recorded in the summary and do not
// stop the run.
func (s *Scraper) Run(ctx context.Context, query, inputDir, outputDir string) (*Summary, error) {
	files, err := Files(inputDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no PDF files in %s", inputDir)
	}

	dst := filepath.Join(outputDir, OutputName(query, inputDir))
	report.FormatHeader(s.out, report.Header{
		Query:  query,
		Input:  inputDir,
		Output: dst,
		Policy: s.config.Policy,
		Jobs:   s.config.Jobs,
	})

	results, err := s.locateAll(ctx, query, files)
	if err != nil {
		return nil, err
	}

	out, err := pages.NewOutput(s.config.WorkDir)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	for i := range results {
		r := &results[i]
		if err := out.AddLabel(pages.Label(r.Name(), query)); err != nil {
			return nil, err
		}
		if r.Err != nil || !r.Outcome.Contributes() {
			continue
		}

		c, err := pages.Extract(r.Path, r.Outcome.Pages)
		if err == nil {
			err = out.AddCollection(c)
		}
		if err != nil {
			slog.Error("extracting pages", "path", r.Path, "error", err)
			r.Err = err
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if err := out.WriteFile(dst); err != nil {
		return nil, err
	}

	summary := &Summary{Output: dst, Results: results}
	report.FormatSummary(s.out, dst, len(results), rows(summary.Skipped()))
	return summary, nil
}

// RunFile searches one PDF and, when pages are found, writes them into
// outputDir.
func (s *Scraper) RunFile(ctx context.Context, query, path, outputDir string) (*Summary, error) {
	report.FormatHeader(s.out, report.Header{
		Query:  query,
		Input:  path,
		Output: filepath.Join(outputDir, FileOutputName(path)),
		Policy: s.config.Policy,
		Jobs:   1,
	})

	r := s.locateOne(ctx, query, path, 1, 1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &Summary{Results: []Result{r}}
	if r.Err == nil && r.Outcome.Contributes() {
		dst := filepath.Join(outputDir, FileOutputName(path))
		if err := writeCollection(r, dst); err != nil {
			summary.Results[0].Err = err
		} else {
			summary.Output = dst
		}
	}

	report.FormatSummary(s.out, summary.Output, len(summary.Results), rows(summary.Skipped()))
	return summary, nil
}

func writeCollection(r Result, dst string) error {
	c, err := pages.Extract(r.Path, r.Outcome.Pages)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return c.WriteFile(dst)
}

// locateAll searches files with up to Jobs documents in flight. Results keep
// the order of files.
func (s *Scraper) locateAll(ctx context.Context, query string, files []string) ([]Result, error) {
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Jobs)
	for i, f := range files {
		g.Go(func() error {
			results[i] = s.locateOne(gctx, query, f, i+1, len(files))
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Scraper) locateOne(ctx context.Context, query, path string, index, total int) Result {
	r := Result{Path: path}
	if s.config.Jobs == 1 {
		s.print(func(w io.Writer) { report.FormatDocumentBanner(w, index, total, filepath.Base(path)) })
	}

	r.Outcome, r.Err = s.locator.Locate(ctx, path, query)
	if r.Err != nil {
		slog.Error("locating pages", "path", path, "error", r.Err)
	}

	s.print(func(w io.Writer) {
		if s.config.Jobs > 1 {
			report.FormatDocumentBanner(w, index, total, filepath.Base(path))
		}
		report.FormatOutcome(w, row(r))
	})
	return r
}

func (s *Scraper) print(f func(io.Writer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.out)
}

func row(r Result) report.Row {
	return report.Row{Name: filepath.Base(r.Path), Outcome: r.Outcome, Err: r.Err}
}

func rows(results []Result) []report.Row {
	out := make([]report.Row, len(results))
	for i, r := range results {
		out[i] = row(r)
	}
	return out
}
