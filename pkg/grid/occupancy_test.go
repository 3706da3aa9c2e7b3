package grid

import "testing"

func TestOccupancyStartsEmpty(t *testing.T) {
	o := NewOccupancy()
	if o.Rows() != 0 || o.Columns() != 0 {
		t.Fatalf("NewOccupancy() = %dx%d, want 0x0", o.Rows(), o.Columns())
	}
	if o.IsOccupied(0, 0) {
		t.Error("IsOccupied(0,0) on empty grid = true")
	}
}

func TestOccupancyGrowPreservesCells(t *testing.T) {
	o := NewOccupancy()
	o.GrowWidth(3)
	o.GrowHeight(2)
	o.Mark(SpanOf(0, 2), SpanOf(1, 2))

	o.GrowWidth(9)
	o.GrowHeight(5)
	if o.Rows() != 7 || o.Columns() != 12 {
		t.Fatalf("size = %dx%d, want 7x12", o.Rows(), o.Columns())
	}

	tests := []struct {
		row, col int
		want     bool
	}{
		{0, 0, false},
		{0, 1, true},
		{0, 2, true},
		{1, 1, true},
		{1, 2, true},
		{1, 3, false},
		{2, 1, false},
		{6, 11, false},
		{7, 0, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		if got := o.IsOccupied(tt.row, tt.col); got != tt.want {
			t.Errorf("IsOccupied(%d,%d) = %v, want %v", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestOccupancyIsFree(t *testing.T) {
	o := NewOccupancy()
	o.GrowWidth(4)
	o.GrowHeight(4)
	o.Mark(SpanOf(2, 1), SpanOf(2, 1))

	if !o.IsFree(SpanOf(0, 2), SpanOf(0, 4)) {
		t.Error("IsFree(top half) = false, want true")
	}
	if o.IsFree(SpanOf(1, 2), SpanOf(1, 2)) {
		t.Error("IsFree(covering 2,2) = true, want false")
	}
	if !o.IsFree(SpanOf(3, 3), SpanOf(3, 3)) {
		t.Error("IsFree(partly outside) = false, want true")
	}
}

func TestOccupancyGrowNonPositive(t *testing.T) {
	o := NewOccupancy()
	o.GrowWidth(0)
	o.GrowHeight(-2)
	if o.Rows() != 0 || o.Columns() != 0 {
		t.Errorf("size = %dx%d, want 0x0", o.Rows(), o.Columns())
	}
}

func TestOccupancyMarkOutsidePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Mark outside bounds did not panic")
		}
	}()
	o := NewOccupancy()
	o.GrowWidth(1)
	o.GrowHeight(1)
	o.Mark(SpanOf(0, 1), SpanOf(0, 2))
}

func TestSpan(t *testing.T) {
	s := SpanOf(2, 3)
	if s.First != 2 || s.Last != 4 || s.Len() != 3 {
		t.Fatalf("SpanOf(2,3) = %+v", s)
	}
	if !s.Contains(4) || s.Contains(5) {
		t.Error("Contains boundary wrong")
	}
	if !s.Intersects(Span{4, 9}) || s.Intersects(Span{5, 9}) || s.Intersects(Span{0, 1}) {
		t.Error("Intersects boundary wrong")
	}
	if got := s.Hull(Span{7, 8}); got != (Span{2, 8}) {
		t.Errorf("Hull = %v, want 2...8", got)
	}
	if got := (Span{3, 3}).String(); got != "3" {
		t.Errorf("String = %q, want 3", got)
	}
}
