package document

import "testing"

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name                  string
		center, radius, pages int
		want                  Window
	}{
		{"interior", 10, 5, 100, Window{5, 16}},
		{"clamped at start", 2, 5, 100, Window{0, 8}},
		{"clamped at end", 97, 5, 100, Window{92, 100}},
		{"single page document", 0, 5, 1, Window{0, 1}},
		{"partly past the end", 102, 5, 100, Window{97, 100}},
		{"entirely past the end", 120, 5, 100, Window{100, 100}},
		{"negative center", -20, 5, 100, Window{0, 0}},
		{"empty document", 0, 5, 0, Window{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewWindow(tt.center, tt.radius, tt.pages)
			if got != tt.want {
				t.Errorf("NewWindow(%d, %d, %d) = %v, want %v", tt.center, tt.radius, tt.pages, got, tt.want)
			}
			if got.Start < 0 || got.End > max(tt.pages, 0) || got.Start > got.End {
				t.Errorf("window %v violates bounds for %d pages", got, tt.pages)
			}
		})
	}
}

func TestFullWindow(t *testing.T) {
	w := FullWindow(7)
	if w.Start != 0 || w.End != 7 {
		t.Errorf("got %v, want [0, 7)", w)
	}
	if w.Len() != 7 {
		t.Errorf("expected Len=7, got %d", w.Len())
	}
	if !FullWindow(0).Empty() {
		t.Error("expected empty window for empty document")
	}
}
