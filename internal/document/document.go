// Package document models a PDF as an ordered sequence of pages addressed by
// zero-based index, and the page sets and windows the searches produce.
package document

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Document is an opened PDF whose pages can be queried for embedded text.
type Document interface {
	Path() string
	NumPages() int
	// PageText returns the embedded text of the page at index, or "" when the
	// page has no text layer.
	PageText(index int) (string, error)
	Close() error
}

// PDF reads page counts with pdfcpu and text layers with ledongthuc/pdf.
type PDF struct {
	path   string
	pages  int
	file   *os.File
	reader *pdf.Reader
}

var disableConfigDir sync.Once

// Open opens the PDF at path. The caller owns the returned document and must
// close it.
func Open(path string) (*PDF, error) {
	disableConfigDir.Do(api.DisableConfigDir)
	n, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("counting pages of %s: %w", path, err)
	}

	d := &PDF{path: path, pages: n}

	// A document that pdfcpu accepts but the text reader rejects is still
	// usable; it is handled as having no text layer.
	f, r, err := openReader(path)
	if err != nil {
		slog.Debug("text layer unavailable", "path", path, "error", err)
		return d, nil
	}
	d.file, d.reader = f, r
	return d, nil
}

func openReader(path string) (f *os.File, r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if f != nil {
				f.Close()
			}
			f, r, err = nil, nil, fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()
	return pdf.Open(path)
}

func (d *PDF) Path() string  { return d.path }
func (d *PDF) NumPages() int { return d.pages }

func (d *PDF) PageText(index int) (text string, err error) {
	if index < 0 || index >= d.pages {
		return "", fmt.Errorf("page %d out of range [0, %d)", index, d.pages)
	}
	if d.reader == nil {
		return "", nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("reading page %d: %v", index, rec)
		}
	}()

	if index+1 > d.reader.NumPage() {
		return "", nil
	}
	p := d.reader.Page(index + 1)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

func (d *PDF) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file, d.reader = nil, nil
	return err
}
