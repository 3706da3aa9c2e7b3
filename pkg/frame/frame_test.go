package frame

import (
	"testing"

	"github.com/matzehuels/gridslot/pkg/grid"
	"github.com/matzehuels/gridslot/pkg/slot"
)

func mustLayout(t *testing.T, m slot.Matrix, opts Options) Layout {
	t.Helper()
	p, err := grid.Pack(m)
	if err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	l, err := Compute(p, slot.Builtin(), opts)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return l
}

func TestCompute(t *testing.T) {
	m := slot.Matrix{
		{slot.New("chart", 2, 1, nil)},
		{slot.New("sky", 1, 1, nil), slot.New("custom", 1, 1, nil)},
	}
	l := mustLayout(t, m, Options{Width: 200, Height: 100, Padding: 5})

	if l.CellW != 100 || l.CellH != 50 {
		t.Fatalf("cell = %gx%g, want 100x50", l.CellW, l.CellH)
	}

	tests := []struct {
		id    grid.ID
		rect  Rect
		label string
	}{
		{grid.ID{Row: 0, Item: 0}, Rect{X: 5, Y: 5, W: 190, H: 40}, "Chart"},
		{grid.ID{Row: 1, Item: 0}, Rect{X: 5, Y: 55, W: 90, H: 40}, "Sky"},
		{grid.ID{Row: 1, Item: 1}, Rect{X: 105, Y: 55, W: 90, H: 40}, "custom"},
	}
	for _, tt := range tests {
		f, ok := l.Frame(tt.id)
		if !ok {
			t.Fatalf("Frame(%s) missing", tt.id)
		}
		if f.Rect != tt.rect {
			t.Errorf("Frame(%s).Rect = %+v, want %+v", tt.id, f.Rect, tt.rect)
		}
		if f.Label != tt.label {
			t.Errorf("Frame(%s).Label = %q, want %q", tt.id, f.Label, tt.label)
		}
	}
}

func TestComputeDefaults(t *testing.T) {
	l := mustLayout(t, slot.Matrix{{slot.New("sky", 1, 1, nil)}}, Options{})
	if l.Width != DefaultWidth || l.Height != DefaultHeight || l.Padding != DefaultPadding {
		t.Errorf("defaults = %g/%g/%g", l.Width, l.Height, l.Padding)
	}
}

func TestComputeEmpty(t *testing.T) {
	l := mustLayout(t, slot.Matrix{{}}, Options{Width: 10, Height: 10})
	if l.Columns != 0 || l.CellW != 0 || len(l.Frames) != 0 {
		t.Errorf("empty layout = %+v", l)
	}
}

func TestComputeRejectsNegative(t *testing.T) {
	p, _ := grid.Pack(slot.Matrix{{slot.New("sky", 1, 1, nil)}})
	if _, err := Compute(p, nil, Options{Width: -1}); err == nil {
		t.Error("Compute() with negative width: want error")
	}
}

func TestAt(t *testing.T) {
	m := slot.Matrix{
		{slot.New("chart", 2, 1, nil)},
		{slot.New("sky", 1, 1, nil), slot.New("sky", 1, 1, nil)},
	}
	l := mustLayout(t, m, Options{Width: 200, Height: 100, Padding: 5})

	tests := []struct {
		x, y float64
		want grid.ID
		ok   bool
	}{
		{10, 10, grid.ID{Row: 0, Item: 0}, true},
		{150, 70, grid.ID{Row: 1, Item: 1}, true},
		{2, 2, grid.ID{}, false},
		{100, 70, grid.ID{}, false},
		{500, 500, grid.ID{}, false},
	}
	for _, tt := range tests {
		got, ok := l.At(tt.x, tt.y)
		if ok != tt.ok || got != tt.want {
			t.Errorf("At(%g,%g) = %v,%v, want %v,%v", tt.x, tt.y, got, ok, tt.want, tt.ok)
		}
	}

	within := l.Within(Rect{X: 0, Y: 50, W: 100, H: 50})
	if len(within) != 1 || within[0] != (grid.ID{Row: 1, Item: 0}) {
		t.Errorf("Within() = %v, want [1:0]", within)
	}
}

func TestInset(t *testing.T) {
	tests := []struct {
		r    Rect
		d    float64
		want Rect
	}{
		{Rect{0, 0, 10, 10}, 2, Rect{2, 2, 6, 6}},
		{Rect{0, 0, 3, 10}, 2, Rect{1.5, 2, 0, 6}},
		{Rect{5, 5, 4, 4}, 0, Rect{5, 5, 4, 4}},
	}
	for _, tt := range tests {
		if got := tt.r.Inset(tt.d); got != tt.want {
			t.Errorf("%+v.Inset(%g) = %+v, want %+v", tt.r, tt.d, got, tt.want)
		}
	}
}
