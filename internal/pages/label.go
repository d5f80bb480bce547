package pages

import (
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Label returns the cover text placed before a document's pages in a merged
// output.
func Label(stem, query string) string {
	return fmt.Sprintf("File: %s\nQuery: %s", stem, query)
}

// WriteLabel writes a single-page PDF carrying text.
func WriteLabel(dst, text string) error {
	return WriteText(dst, text)
}

// WriteText writes a PDF with one page per entry of texts.
func WriteText(dst string, texts ...string) error {
	if len(texts) == 0 {
		return errors.New("no page text given")
	}

	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetFont("Times", "", 12)
	for _, text := range texts {
		doc.AddPage()
		doc.MultiCell(0, 10, tr(text), "", "", false)
	}

	if err := doc.OutputFileAndClose(dst); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
