//go:build cgo

// Package tesseract provides the Tesseract OCR engine via gosseract.
//
// Tesseract and the trained data for every configured language must be
// installed on the system. On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-kor
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Engine implements ocr.Engine with a fresh gosseract client per image.
type Engine struct {
	clientFactory func() *gosseract.Client
	pageSegMode   gosseract.PageSegMode
}

func New() *Engine {
	return &Engine{clientFactory: gosseract.NewClient, pageSegMode: gosseract.PSM_AUTO}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on img using languages, in order of preference.
func (e *Engine) Recognize(ctx context.Context, img image.Image, languages []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if len(languages) > 0 {
		if err := c.SetLanguage(languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetPageSegMode(e.pageSegMode); err != nil {
		return "", fmt.Errorf("set page segmentation mode: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
