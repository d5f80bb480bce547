// Package render rasterizes PDF pages into images for text recognition.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// DefaultDPI is the rendering resolution used when none is configured.
const DefaultDPI = 200

// Renderer renders a page range of the PDF at path. Bounds are 1-based and
// inclusive. Fewer images than requested are returned when the range runs
// past the last page.
type Renderer interface {
	Render(ctx context.Context, path string, first, last int) ([]image.Image, error)
}

// Poppler renders pages with pdftoppm from poppler-utils.
type Poppler struct {
	DPI    int
	Binary string
}

func NewPoppler(dpi int) *Poppler {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Poppler{DPI: dpi, Binary: "pdftoppm"}
}

func (p *Poppler) Render(ctx context.Context, path string, first, last int) ([]image.Image, error) {
	if first < 1 || last < first {
		return nil, fmt.Errorf("invalid page range %d-%d", first, last)
	}

	bin := p.Binary
	if bin == "" {
		bin = "pdftoppm"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("%s not found: install poppler-utils (brew install poppler on macOS)", bin)
	}

	dir, err := os.MkdirTemp("", "yearbook-render-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	dpi := p.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	cmd := exec.CommandContext(ctx, bin,
		"-f", strconv.Itoa(first),
		"-l", strconv.Itoa(last),
		"-r", strconv.Itoa(dpi),
		"-png",
		path, filepath.Join(dir, "page"))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%s pages %d-%d of %s: %w: %s", bin, first, last, path, err, strings.TrimSpace(stderr.String()))
	}

	files, err := renderedPages(dir)
	if err != nil {
		return nil, err
	}

	images := make([]image.Image, 0, len(files))
	for _, f := range files {
		img, err := decodePNG(f)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// renderedPages lists the PNG files in dir ordered by page number. pdftoppm
// names them <prefix>-<page>.png with the page zero-padded to the width of the
// document's page count.
func renderedPages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type numbered struct {
		page int
		path string
	}
	var pages []numbered
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".png") {
			continue
		}
		stem := strings.TrimSuffix(name, ".png")
		i := strings.LastIndexByte(stem, '-')
		if i < 0 {
			continue
		}
		n, err := strconv.Atoi(stem[i+1:])
		if err != nil {
			continue
		}
		pages = append(pages, numbered{page: n, path: filepath.Join(dir, name)})
	}

	slices.SortFunc(pages, func(a, b numbered) int { return a.page - b.page })

	paths := make([]string, len(pages))
	for i, p := range pages {
		paths[i] = p.path
	}
	return paths, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
