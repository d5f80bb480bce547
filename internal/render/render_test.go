package render

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/itsmostafa/yearbook/internal/pages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderedPages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"page-10.png", "page-09.png", "page-11.png", "notes.txt", "page-x.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	got, err := renderedPages(dir)
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "page-09.png"),
		filepath.Join(dir, "page-10.png"),
		filepath.Join(dir, "page-11.png"),
	}
	assert.Equal(t, want, got)
}

func TestRenderInvalidRange(t *testing.T) {
	p := NewPoppler(0)
	if p.DPI != DefaultDPI {
		t.Errorf("expected DPI=%d, got %d", DefaultDPI, p.DPI)
	}

	tests := []struct {
		name        string
		first, last int
	}{
		{"zero first", 0, 1},
		{"reversed", 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Render(context.Background(), "unused.pdf", tt.first, tt.last)
			assert.Error(t, err)
		})
	}
}

func TestRenderMissingBinary(t *testing.T) {
	p := &Poppler{DPI: 72, Binary: "pdftoppm-does-not-exist"}
	_, err := p.Render(context.Background(), "unused.pdf", 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPopplerRender(t *testing.T) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		t.Skip("pdftoppm not installed")
	}

	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, pages.WriteText(path, "one", "two", "three"))

	images, err := NewPoppler(36).Render(context.Background(), path, 2, 3)
	require.NoError(t, err)
	require.Len(t, images, 2)
	for _, img := range images {
		assert.False(t, img.Bounds().Empty())
	}
}
