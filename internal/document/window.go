package document

import "fmt"

// MatchSet holds page indices in strictly increasing order without duplicates.
type MatchSet []int

// Window is the half-open page range [Start, End) to search.
type Window struct {
	Start int
	End   int
}

// FullWindow covers every page of an n-page document.
func FullWindow(n int) Window {
	return Window{Start: 0, End: n}.clamp(n)
}

// NewWindow returns [center-radius, center+radius+1) clamped to [0, n].
// A window lying entirely past the last page is empty.
func NewWindow(center, radius, n int) Window {
	return Window{Start: center - radius, End: center + radius + 1}.clamp(n)
}

func (w Window) clamp(n int) Window {
	if n < 0 {
		n = 0
	}
	w.Start = min(max(w.Start, 0), n)
	w.End = max(min(w.End, n), w.Start)
	return w
}

// Len returns the number of pages in the window.
func (w Window) Len() int { return w.End - w.Start }

// Empty reports whether the window covers no pages.
func (w Window) Empty() bool { return w.Len() <= 0 }

func (w Window) String() string {
	return fmt.Sprintf("[%d, %d)", w.Start, w.End)
}
