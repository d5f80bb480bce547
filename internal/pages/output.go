package pages

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

var ErrEmptyOutput = errors.New("nothing to write")

// Output accumulates label pages and page collections in a work directory and
// merges them into one PDF. It is not safe for concurrent use.
type Output struct {
	dir   string
	owned bool
	parts []string
}

// NewOutput creates an Output that stages its parts in dir. An empty dir
// stages in a fresh temporary directory removed by Close.
func NewOutput(dir string) (*Output, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating work directory: %w", err)
		}
		return &Output{dir: dir}, nil
	}

	tmp, err := os.MkdirTemp("", "yearbook-*")
	if err != nil {
		return nil, fmt.Errorf("creating work directory: %w", err)
	}
	return &Output{dir: tmp, owned: true}, nil
}

// AddLabel appends a label page carrying text.
func (o *Output) AddLabel(text string) error {
	path := o.nextPart("label")
	if err := WriteLabel(path, text); err != nil {
		return err
	}
	o.parts = append(o.parts, path)
	return nil
}

// AddCollection appends the pages of c. Empty collections are ignored.
func (o *Output) AddCollection(c *Collection) error {
	if c == nil || c.Len() == 0 {
		return nil
	}
	path := o.nextPart("pages")
	if err := c.WriteFile(path); err != nil {
		return err
	}
	o.parts = append(o.parts, path)
	return nil
}

// Len returns the number of parts added so far.
func (o *Output) Len() int { return len(o.parts) }

// WriteFile merges every part, in the order added, into dst.
func (o *Output) WriteFile(dst string) error {
	switch len(o.parts) {
	case 0:
		return ErrEmptyOutput
	case 1:
		data, err := os.ReadFile(o.parts[0])
		if err != nil {
			return err
		}
		return os.WriteFile(dst, data, 0o644)
	}

	if err := api.MergeCreateFile(o.parts, dst, false, configuration()); err != nil {
		return fmt.Errorf("merging %d parts into %s: %w", len(o.parts), dst, err)
	}
	return nil
}

// Close removes the staged parts.
func (o *Output) Close() error {
	if o.owned {
		return os.RemoveAll(o.dir)
	}
	var errs []error
	for _, p := range o.parts {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	o.parts = nil
	return errors.Join(errs...)
}

func (o *Output) nextPart(kind string) string {
	return filepath.Join(o.dir, fmt.Sprintf("%03d-%s-%s.pdf", len(o.parts), kind, uuid.NewString()))
}
