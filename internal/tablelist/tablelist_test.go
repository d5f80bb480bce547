package tablelist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/itsmostafa/yearbook/internal/ocr"
	"github.com/itsmostafa/yearbook/internal/pagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// yearbook builds a 40-page book whose list of tables starts on page 2 and
// spans pages 2-5.
func yearbook() *pagetest.Book {
	b := pagetest.NewBook(40)
	b.PageText[2] = "LIST OF TABLES"
	b.Region[2] = "List of Tables\nTable 1.1 Population by Province ..... 3\nTable 1.2 Households ..... 5"
	b.Region[3] = "XX\nTable 2.1 Gross Domestic Product ..... 7"
	b.Region[4] = "XX\nTable 3.1 Trade\n(Exports and Imports) ..... 12"
	b.Region[5] = "Table 4.1 Notes ..... 20"
	b.Region[6] = "Chapter 1"
	return b
}

func TestSearchResolved(t *testing.T) {
	tests := []struct {
		name  string
		query string
		ref   int
		page  int
	}{
		{"first entry page", "population", 3, 8},
		{"case insensitive", "GROSS DOMESTIC", 7, 12},
		{"number on a later line", "Trade", 12, 17},
		{"terminating page entry", "notes", 20, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := yearbook()
			l := NewLocator(b, b, nil)

			res, err := l.Search(context.Background(), "book.pdf", 40, tt.query)
			require.NoError(t, err)
			require.True(t, res.Resolved)
			assert.Equal(t, 2, res.Start)
			assert.Len(t, res.Entries, 4)
			assert.Equal(t, tt.ref, res.Reference)
			assert.Equal(t, tt.page, res.Page)
		})
	}
}

func TestSearchRendersLeadingPages(t *testing.T) {
	b := yearbook()
	_, err := NewLocator(b, b, nil).Search(context.Background(), "book.pdf", 40, "population")
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 25}}, b.Renders())

	small := pagetest.NewBook(3)
	small.PageText[0] = "table list"
	_, err = NewLocator(small, small, nil).Search(context.Background(), "small.pdf", 3, "x")
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}}, small.Renders())
}

func TestSearchUnresolved(t *testing.T) {
	b := yearbook()
	res, err := NewLocator(b, b, nil).Search(context.Background(), "book.pdf", 40, "fisheries")
	require.NoError(t, err)
	assert.False(t, res.Resolved)
	assert.Equal(t, 2, res.Start)
	assert.Len(t, res.Entries, 4)
}

func TestSearchNotFound(t *testing.T) {
	b := pagetest.NewBook(30)
	b.PageText[12] = "list of tables"

	_, err := NewLocator(b, b, nil).Search(context.Background(), "book.pdf", 30, "population")
	require.ErrorIs(t, err, ErrNotFound)

	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	assert.Equal(t, want, b.Recognized(), "pages past the start limit are not examined")
}

func TestStartPage(t *testing.T) {
	tests := []struct {
		name   string
		pages  int
		marker int
		want   int
		err    error
	}{
		{"first page", 25, 0, 0, nil},
		{"last examined page", 25, 11, 11, nil},
		{"past the limit", 25, 12, -1, ErrNotFound},
		{"short document without marker", 7, -1, -1, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := pagetest.NewBook(tt.pages)
			if tt.marker >= 0 {
				b.PageText[tt.marker] = "Table List"
			}
			l := NewLocator(b, b, nil)

			got, err := l.startPage(context.Background(), slog.Default(), b.Images)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStartPageRecognitionFailure(t *testing.T) {
	b := pagetest.NewBook(5)
	b.PageText[1] = "list of tables"
	b.PageText[3] = "list of tables"
	b.FailRecognize[1] = true

	got, err := NewLocator(b, b, nil).startPage(context.Background(), slog.Default(), b.Images)
	require.NoError(t, err)
	assert.Equal(t, 3, got, "a failed page reads as empty")
}

func TestEngineUnavailable(t *testing.T) {
	unavailable := fmt.Errorf("%w: no cgo", ocr.ErrEngineUnavailable)

	t.Run("search", func(t *testing.T) {
		b := yearbook()
		b.RecognizeErr = unavailable

		_, err := NewLocator(b, b, nil).Search(context.Background(), "book.pdf", 40, "Households")
		assert.ErrorIs(t, err, ocr.ErrEngineUnavailable)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.Len(t, b.Renders(), 1)
	})

	t.Run("start page", func(t *testing.T) {
		b := pagetest.NewBook(4)
		b.RecognizeErr = unavailable

		_, err := NewLocator(b, b, nil).startPage(context.Background(), slog.Default(), b.Images)
		assert.ErrorIs(t, err, ocr.ErrEngineUnavailable)
	})

	t.Run("entries", func(t *testing.T) {
		b := pagetest.NewBook(4)
		b.RecognizeErr = unavailable

		_, err := NewLocator(b, b, nil).collectEntries(context.Background(), slog.Default(), b.Images, 0)
		assert.ErrorIs(t, err, ocr.ErrEngineUnavailable)
	})
}

func TestCollectEntries(t *testing.T) {
	tests := []struct {
		name    string
		regions map[int]string
		pages   int
		want    []Entry
	}{
		{
			name:    "stops after first unmarked page",
			regions: map[int]string{0: "a", 1: "b XX", 2: "c XX", 3: "d", 4: "e"},
			pages:   5,
			want:    []Entry{{Text: "a"}, {Text: "b XX"}, {Text: "c XX"}, {Text: "d", End: true}},
		},
		{
			name:    "runs to the last page without sentinel",
			regions: map[int]string{0: "a", 1: "b", 2: "c"},
			pages:   3,
			want:    []Entry{{Text: "a"}, {Text: "b"}, {Text: "c"}},
		},
		{
			name:    "sentinel is case sensitive",
			regions: map[int]string{0: "a xx", 1: "b", 2: "c"},
			pages:   3,
			want:    []Entry{{Text: "a xx"}, {Text: "b"}, {Text: "c"}},
		},
		{
			name:    "sentinel on last page",
			regions: map[int]string{0: "a", 1: "b XX"},
			pages:   2,
			want:    []Entry{{Text: "a"}, {Text: "b XX"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := pagetest.NewBook(tt.pages)
			for i, text := range tt.regions {
				b.Region[i] = text
			}

			got, err := NewLocator(b, b, nil).collectEntries(context.Background(), slog.Default(), b.Images, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollectEntriesFromStart(t *testing.T) {
	b := pagetest.NewBook(6)
	b.Region[3] = "XX"
	b.FailRecognize[4] = true

	got, err := NewLocator(b, b, nil).collectEntries(context.Background(), slog.Default(), b.Images, 2)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Text: ""}, {Text: "XX"}, {Text: "", End: true}}, got)
	assert.Equal(t, []int{2, 3}, b.RegionCalls())
}

func TestFindReference(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		query   string
		want    int
		ok      bool
	}{
		{
			name:    "number after query",
			entries: []Entry{{Text: "Table 1.1 Population ..... 23\nTable 1.2 GDP ..... 31"}},
			query:   "population",
			want:    23,
			ok:      true,
		},
		{
			name:    "trailing whitespace",
			entries: []Entry{{Text: "GDP 45   \n"}},
			query:   "gdp",
			want:    45,
			ok:      true,
		},
		{
			name:    "first matching entry wins",
			entries: []Entry{{Text: "Index"}, {Text: "Trade ..... 9"}, {Text: "Trade ..... 99"}},
			query:   "trade",
			want:    9,
			ok:      true,
		},
		{
			name:    "falls back to last number before query",
			entries: []Entry{{Text: "Housing 14\nTable 5.2 15\nRent index (%)"}},
			query:   "rent index",
			want:    15,
			ok:      true,
		},
		{
			name:    "no number anywhere",
			entries: []Entry{{Text: "Population by Province"}},
			query:   "population",
			ok:      false,
		},
		{
			name:    "first mention has no number",
			entries: []Entry{{Text: "Population"}, {Text: "Population 12"}},
			query:   "population",
			ok:      false,
		},
		{
			name:    "query absent",
			entries: []Entry{{Text: "Trade 9"}},
			query:   "population",
			ok:      false,
		},
		{
			name:    "no entries",
			entries: nil,
			query:   "population",
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindReference(tt.entries, tt.query)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPhysicalPage(t *testing.T) {
	tests := []struct {
		start, entries, ref int
		want                int
	}{
		{2, 4, 1, 6},
		{2, 4, 3, 8},
		{0, 1, 10, 10},
		{5, 2, 0, 6},
	}

	for _, tt := range tests {
		if got := PhysicalPage(tt.start, tt.entries, tt.ref); got != tt.want {
			t.Errorf("PhysicalPage(%d, %d, %d) = %d, want %d", tt.start, tt.entries, tt.ref, got, tt.want)
		}
	}
}

func TestSearchErrors(t *testing.T) {
	t.Run("render failure", func(t *testing.T) {
		b := yearbook()
		b.FailRender[0] = true
		_, err := NewLocator(b, b, nil).Search(context.Background(), "book.pdf", 40, "population")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrNotFound))
		assert.ErrorIs(t, err, pagetest.ErrRender)
	})

	t.Run("empty document", func(t *testing.T) {
		b := pagetest.NewBook(0)
		_, err := NewLocator(b, b, nil).Search(context.Background(), "empty.pdf", 0, "population")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		b := yearbook()
		_, err := NewLocator(b, b, nil).Search(ctx, "book.pdf", 40, "population")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
