// Package pagescan searches a page window of a scanned PDF by rendering and
// recognizing each page.
package pagescan

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"

	"github.com/itsmostafa/yearbook/internal/document"
	"github.com/itsmostafa/yearbook/internal/ocr"
	"github.com/itsmostafa/yearbook/internal/render"
	"github.com/itsmostafa/yearbook/internal/textmatch"
)

// DefaultBatchSize is how many pages are rendered per renderer call.
const DefaultBatchSize = 8

// Scanner renders and recognizes pages to find a query.
type Scanner struct {
	renderer   render.Renderer
	recognizer ocr.Recognizer
	batchSize  int
}

func NewScanner(renderer render.Renderer, recognizer ocr.Recognizer, batchSize int) *Scanner {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Scanner{renderer: renderer, recognizer: recognizer, batchSize: batchSize}
}

// FindPages returns the indices in w of pages whose recognized text contains
// query, ignoring case. Pages that cannot be rendered or recognized count as
// empty. Only cancellation of ctx and an unavailable recognition engine are
// returned as errors.
func (s *Scanner) FindPages(ctx context.Context, path, query string, w document.Window) (document.MatchSet, error) {
	log := slog.With("path", path)
	needle := textmatch.Lower(query)

	var matches document.MatchSet
	if w.Empty() || needle == "" {
		return matches, nil
	}

	for start := w.Start; start < w.End; start += s.batchSize {
		end := min(start+s.batchSize, w.End)

		images, err := s.render(ctx, log, path, start, end)
		if err != nil {
			return nil, err
		}

		for i, img := range images {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if img == nil {
				continue
			}
			page := start + i

			text, err := s.recognizer.Text(ctx, img)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				if errors.Is(err, ocr.ErrEngineUnavailable) {
					return nil, err
				}
				log.Warn("recognizing page", "page", page, "error", err)
				continue
			}
			if strings.Contains(textmatch.Lower(text), needle) {
				matches = append(matches, page)
			}
		}
	}
	return matches, nil
}

// render returns one slot per page in [start, end). When the batch fails it is
// retried page by page and pages that still fail are left nil.
func (s *Scanner) render(ctx context.Context, log *slog.Logger, path string, start, end int) ([]image.Image, error) {
	images, err := s.renderer.Render(ctx, path, start+1, end)
	if err == nil {
		return images[:min(len(images), end-start)], nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if end-start == 1 {
		log.Warn("rendering page", "page", start, "error", err)
		return make([]image.Image, 1), nil
	}

	log.Debug("batch render failed, retrying per page", "first", start, "last", end-1, "error", err)
	images = make([]image.Image, end-start)
	for p := start; p < end; p++ {
		page, err := s.renderer.Render(ctx, path, p+1, p+1)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("rendering page", "page", p, "error", err)
			continue
		}
		if len(page) > 0 {
			images[p-start] = page[0]
		}
	}
	return images, nil
}
