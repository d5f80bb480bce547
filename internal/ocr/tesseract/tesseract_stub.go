//go:build !cgo

package tesseract

import (
	"context"
	"image"
)

// Engine is a placeholder that fails every recognition.
type Engine struct{}

func New() *Engine { return &Engine{} }

func (e *Engine) Name() string { return "tesseract" }

func (e *Engine) Recognize(ctx context.Context, _ image.Image, _ []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", ErrUnavailable
}
