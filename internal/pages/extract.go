// Package pages builds output PDFs: page collections cut from a source
// document, label pages, and the merged result of a run.
package pages

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	ErrIndexOutOfRange = errors.New("page index out of range")
	ErrEmptyCollection = errors.New("page collection is empty")
)

// IndexError reports a requested page index outside the document.
type IndexError struct {
	Index    int
	NumPages int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("page index %d out of range [0, %d)", e.Index, e.NumPages)
}

func (e *IndexError) Is(target error) bool { return target == ErrIndexOutOfRange }

// Collection is an ordered selection of pages from one source PDF. Order and
// duplicates are kept as requested.
type Collection struct {
	Source string
	Pages  []int
}

// Extract validates indices against the page count of src and returns the
// collection of those pages.
func Extract(src string, indices []int) (*Collection, error) {
	disableConfigDir.Do(api.DisableConfigDir)
	n, err := api.PageCountFile(src)
	if err != nil {
		return nil, fmt.Errorf("counting pages of %s: %w", src, err)
	}
	for _, i := range indices {
		if i < 0 || i >= n {
			return nil, &IndexError{Index: i, NumPages: n}
		}
	}
	return &Collection{Source: src, Pages: slices.Clone(indices)}, nil
}

// Len returns the number of pages in the collection.
func (c *Collection) Len() int { return len(c.Pages) }

// WriteFile writes the collection to dst as a standalone PDF.
func (c *Collection) WriteFile(dst string) error {
	if len(c.Pages) == 0 {
		return ErrEmptyCollection
	}
	if err := api.CollectFile(c.Source, dst, selection(c.Pages), configuration()); err != nil {
		return fmt.Errorf("collecting pages %v of %s: %w", c.Pages, c.Source, err)
	}
	return nil
}

// selection converts zero-based indices to pdfcpu's 1-based page selectors.
func selection(indices []int) []string {
	sel := make([]string, len(indices))
	for i, idx := range indices {
		sel[i] = strconv.Itoa(idx + 1)
	}
	return sel
}

var disableConfigDir sync.Once

func configuration() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
