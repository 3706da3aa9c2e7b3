package grid

import (
	"cmp"
	"slices"

	"github.com/matzehuels/gridslot/pkg/errors"
	"github.com/matzehuels/gridslot/pkg/slot"
)

// Packed is the immutable result of one [Pack] call.
type Packed struct {
	slots  slot.Matrix
	trace  []Step
	placed []Placed // trace order
	byID   map[ID]int
	rows   int
	cols   int
	index  Index
}

func newPacked(m slot.Matrix, trace []Step, placed []Placed, rows, cols int) *Packed {
	p := &Packed{
		slots:  m,
		trace:  trace,
		placed: placed,
		byID:   make(map[ID]int, len(placed)),
		rows:   rows,
		cols:   cols,
	}
	for i, pl := range placed {
		p.byID[pl.ID] = i
	}
	p.index = buildIndex(placed, rows, cols)
	return p
}

// Rows returns the grid height in grid units.
func (p *Packed) Rows() int { return p.rows }

// Columns returns the grid width in grid units.
func (p *Packed) Columns() int { return p.cols }

// Len returns the number of placed slots.
func (p *Packed) Len() int { return len(p.placed) }

// Slots returns a copy of the source matrix.
func (p *Packed) Slots() slot.Matrix { return p.slots.Clone() }

// Trace returns a copy of the parse trace.
func (p *Packed) Trace() []Step { return slices.Clone(p.trace) }

// Placements returns every placement in trace order.
func (p *Packed) Placements() []Placed { return slices.Clone(p.placed) }

// Index returns the spatial index.
func (p *Packed) Index() Index { return p.index }

// Lookup returns the placement of id.
func (p *Packed) Lookup(id ID) (Placed, bool) {
	i, ok := p.byID[id]
	if !ok {
		return Placed{}, false
	}
	return p.placed[i], true
}

// Placement is Lookup with an ErrCodeIndexOutOfRange error for unknown ids.
func (p *Packed) Placement(id ID) (Placed, error) {
	pl, ok := p.Lookup(id)
	if !ok {
		return Placed{}, errors.New(errors.ErrCodeIndexOutOfRange, "no slot %s in %dx%d grid", id, p.rows, p.cols)
	}
	return pl, nil
}

// Position returns the trace position of id, or -1.
func (p *Packed) Position(id ID) int {
	if i, ok := p.byID[id]; ok {
		return i
	}
	return -1
}

// Slot returns the descriptor placed under id.
func (p *Packed) Slot(id ID) (slot.Slot, bool) {
	return p.slots.At(id.Row, id.Item)
}

// CellsInRow returns the slots touching grid row r.
func (p *Packed) CellsInRow(r int) []ID { return p.index.Row(r) }

// CellsInColumn returns the slots touching grid column c.
func (p *Packed) CellsInColumn(c int) []ID { return p.index.Column(c) }

// CellAt returns the slot covering (row, col), if any.
func (p *Packed) CellAt(row, col int) (ID, bool) {
	for _, id := range p.index.Row(row) {
		if p.placed[p.byID[id]].Cols.Contains(col) {
			return id, true
		}
	}
	return ID{}, false
}

// Matrix rebuilds a source matrix from the placements: one row per row break,
// each holding the slots whose top row is that row, ordered left to right.
// Packing the result reproduces this grid.
func (p *Packed) Matrix() slot.Matrix {
	n := 0
	for _, s := range p.trace {
		if s.Kind == StepRowBreak {
			n++
		}
	}
	groups := make([][]Placed, n)
	for _, pl := range p.placed {
		if pl.Rows.First < n {
			groups[pl.Rows.First] = append(groups[pl.Rows.First], pl)
		}
	}
	m := make(slot.Matrix, n)
	for r, g := range groups {
		slices.SortStableFunc(g, func(a, b Placed) int { return cmp.Compare(a.Cols.First, b.Cols.First) })
		m[r] = make([]slot.Slot, 0, len(g))
		for _, pl := range g {
			s, _ := p.Slot(pl.ID)
			m[r] = append(m[r], slot.New(s.Kind, s.Width, s.Height, s.Params))
		}
	}
	return m
}

// Equal reports whether two packs have the same dimensions, placements and trace.
func (p *Packed) Equal(o *Packed) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.rows == o.rows && p.cols == o.cols &&
		slices.Equal(p.placed, o.placed) && slices.Equal(p.trace, o.trace)
}
