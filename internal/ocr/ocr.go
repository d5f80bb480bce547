// Package ocr turns rendered page images into text through a pluggable
// recognition engine.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/itsmostafa/yearbook/internal/textmatch"
	"golang.org/x/image/draw"
)

// ErrEngineUnavailable is wrapped by engines that cannot run at all in this
// build or environment. It fails the document rather than a single page.
var ErrEngineUnavailable = errors.New("recognition engine unavailable")

// Engine recognizes the text in an image.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img image.Image, languages []string) (string, error)
}

// Recognizer is what the page searches need from text recognition.
type Recognizer interface {
	// Text returns the lowercased text of the whole page image.
	Text(ctx context.Context, img image.Image) (string, error)
	// RegionText returns the text inside rect, case preserved.
	RegionText(ctx context.Context, img image.Image, rect image.Rectangle) (string, error)
}

// Extractor is the Recognizer backed by an Engine.
type Extractor struct {
	engine          Engine
	languages       []string
	regionLanguages []string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLanguages sets the languages used for whole-page recognition.
func WithLanguages(langs ...string) Option {
	return func(e *Extractor) { e.languages = langs }
}

// WithRegionLanguages sets the languages used for region recognition.
func WithRegionLanguages(langs ...string) Option {
	return func(e *Extractor) { e.regionLanguages = langs }
}

func NewExtractor(engine Engine, opts ...Option) *Extractor {
	e := &Extractor{
		engine:          engine,
		languages:       []string{"eng"},
		regionLanguages: []string{"kor", "eng"},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) Text(ctx context.Context, img image.Image) (string, error) {
	text, err := e.engine.Recognize(ctx, img, e.languages)
	if err != nil {
		return "", fmt.Errorf("%s: %w", e.engine.Name(), err)
	}
	return textmatch.Lower(text), nil
}

func (e *Extractor) RegionText(ctx context.Context, img image.Image, rect image.Rectangle) (string, error) {
	cropped, err := Crop(img, rect)
	if err != nil {
		return "", err
	}
	text, err := e.engine.Recognize(ctx, cropped, e.regionLanguages)
	if err != nil {
		return "", fmt.Errorf("%s: %w", e.engine.Name(), err)
	}
	return text, nil
}

// RightHalf returns the right column of bounds.
func RightHalf(bounds image.Rectangle) image.Rectangle {
	mid := bounds.Min.X + bounds.Dx()/2
	return image.Rect(mid, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
}

// Crop copies the part of img inside rect into a new image anchored at the
// origin.
func Crop(img image.Image, rect image.Rectangle) (image.Image, error) {
	r := rect.Intersect(img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", rect, img.Bounds())
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Copy(dst, image.Point{}, img, r, draw.Src, nil)
	return dst, nil
}
