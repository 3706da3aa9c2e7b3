package grid

import "fmt"

// Occupancy is a growable 2-D boolean grid recording claimed cells.
//
// The logical size grows by exactly the requested amount; the backing store
// doubles so repeated single-column growth stays amortised O(1) per cell.
// Cells outside the logical size read as free, but Mark requires callers to
// grow first.
type Occupancy struct {
	cells      []bool
	rows, cols int
	stride     int // allocated columns per row
	capRows    int
}

// NewOccupancy returns an empty occupancy grid with a 1x1 backing store.
func NewOccupancy() *Occupancy {
	return &Occupancy{cells: make([]bool, 1), stride: 1, capRows: 1}
}

// Rows returns the logical height.
func (o *Occupancy) Rows() int { return o.rows }

// Columns returns the logical width.
func (o *Occupancy) Columns() int { return o.cols }

// IsOccupied reports whether (row, col) is claimed. Out-of-bounds cells are free.
func (o *Occupancy) IsOccupied(row, col int) bool {
	if row < 0 || col < 0 || row >= o.rows || col >= o.cols {
		return false
	}
	return o.cells[row*o.stride+col]
}

// IsFree reports whether every cell in rows × cols is unclaimed.
func (o *Occupancy) IsFree(rows, cols Span) bool {
	for r := rows.First; r <= rows.Last; r++ {
		for c := cols.First; c <= cols.Last; c++ {
			if o.IsOccupied(r, c) {
				return false
			}
		}
	}
	return true
}

// Mark claims every cell in rows × cols.
// It panics if the rectangle leaves the logical bounds.
func (o *Occupancy) Mark(rows, cols Span) {
	if rows.First < 0 || cols.First < 0 || rows.Last >= o.rows || cols.Last >= o.cols {
		panic(fmt.Sprintf("grid: mark %v×%v outside %dx%d occupancy", rows, cols, o.rows, o.cols))
	}
	for r := rows.First; r <= rows.Last; r++ {
		base := r * o.stride
		for c := cols.First; c <= cols.Last; c++ {
			o.cells[base+c] = true
		}
	}
}

// GrowWidth adds n free columns on the right. Non-positive n is a no-op.
func (o *Occupancy) GrowWidth(n int) {
	if n <= 0 {
		return
	}
	want := o.cols + n
	if want > o.stride {
		stride := max(o.stride*2, want)
		cells := make([]bool, o.capRows*stride)
		for r := 0; r < o.rows; r++ {
			copy(cells[r*stride:r*stride+o.cols], o.cells[r*o.stride:r*o.stride+o.cols])
		}
		o.cells, o.stride = cells, stride
	}
	o.cols = want
}

// GrowHeight adds n free rows at the bottom. Non-positive n is a no-op.
func (o *Occupancy) GrowHeight(n int) {
	if n <= 0 {
		return
	}
	want := o.rows + n
	if want > o.capRows {
		capRows := max(o.capRows*2, want)
		cells := make([]bool, capRows*o.stride)
		copy(cells, o.cells[:o.rows*o.stride])
		o.cells, o.capRows = cells, capRows
	}
	o.rows = want
}
