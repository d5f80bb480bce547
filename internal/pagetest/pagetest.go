// Package pagetest provides an in-memory book that renders and recognizes
// pages, for testing the page searches without poppler or Tesseract.
package pagetest

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"
)

var (
	ErrRender    = errors.New("render failed")
	ErrRecognize = errors.New("recognition failed")
)

// Book is a fake document whose pages are tiny images with scripted text. It
// implements render.Renderer and ocr.Recognizer.
type Book struct {
	Images []image.Image

	// PageText is the whole-page text by page index.
	PageText map[int]string
	// Region is the right-column text by page index.
	Region map[int]string

	FailRender    map[int]bool
	FailRecognize map[int]bool
	// RecognizeErr, when set, is returned by every recognition call.
	RecognizeErr error

	mu          sync.Mutex
	index       map[image.Image]int
	renders     [][2]int
	recognized  []int
	regionCalls []int
}

// NewBook creates a book of n blank pages.
func NewBook(n int) *Book {
	b := &Book{
		PageText:      map[int]string{},
		Region:        map[int]string{},
		FailRender:    map[int]bool{},
		FailRecognize: map[int]bool{},
		index:         map[image.Image]int{},
	}
	for i := range n {
		img := image.NewGray(image.Rect(0, 0, 4, 4))
		b.Images = append(b.Images, img)
		b.index[img] = i
	}
	return b
}

func (b *Book) Render(ctx context.Context, _ string, first, last int) ([]image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if first < 1 || last < first {
		return nil, fmt.Errorf("invalid page range %d-%d", first, last)
	}

	b.mu.Lock()
	b.renders = append(b.renders, [2]int{first, last})
	b.mu.Unlock()

	last = min(last, len(b.Images))
	for p := first; p <= last; p++ {
		if b.FailRender[p-1] {
			return nil, fmt.Errorf("page %d: %w", p, ErrRender)
		}
	}
	if first > last {
		return nil, nil
	}
	return append([]image.Image(nil), b.Images[first-1:last]...), nil
}

func (b *Book) Text(ctx context.Context, img image.Image) (string, error) {
	i, err := b.lookup(ctx, img)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	b.recognized = append(b.recognized, i)
	b.mu.Unlock()
	return strings.ToLower(b.PageText[i]), nil
}

func (b *Book) RegionText(ctx context.Context, img image.Image, _ image.Rectangle) (string, error) {
	i, err := b.lookup(ctx, img)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	b.regionCalls = append(b.regionCalls, i)
	b.mu.Unlock()
	return b.Region[i], nil
}

func (b *Book) lookup(ctx context.Context, img image.Image) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	i, ok := b.index[img]
	if !ok {
		return 0, errors.New("image does not belong to this book")
	}
	if b.RecognizeErr != nil {
		return i, b.RecognizeErr
	}
	if b.FailRecognize[i] {
		return i, fmt.Errorf("page %d: %w", i, ErrRecognize)
	}
	return i, nil
}

// Renders returns the 1-based ranges requested so far.
func (b *Book) Renders() [][2]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][2]int(nil), b.renders...)
}

// Recognized returns the page indices passed to Text so far.
func (b *Book) Recognized() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.recognized...)
}

// RegionCalls returns the page indices passed to RegionText so far.
func (b *Book) RegionCalls() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.regionCalls...)
}
