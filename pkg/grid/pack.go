package grid

import (
	"github.com/matzehuels/gridslot/pkg/slot"
)

// Pack places every slot of m into a fresh grid.
//
// The whole matrix is validated before any placement happens, so an invalid
// slot (non-positive footprint) fails the call with ErrCodeInvalidSlot and no
// partial result.
func Pack(m slot.Matrix) (*Packed, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	occ := NewOccupancy()
	trace := make([]Step, 0, m.Count()+len(m))
	placed := make([]Placed, 0, m.Count())

	for r, row := range m {
		if r >= occ.Rows() {
			occ.GrowHeight(r + 1 - occ.Rows())
		}
		if len(row) == 0 {
			// An empty source row still consumes one grid row.
			trace = append(trace, RowBreak())
			continue
		}

		c := 0
		for occ.IsOccupied(r, c) {
			c++
		}

		for i, s := range row {
			rows := SpanOf(r, s.Height)
			for !occ.IsFree(rows, SpanOf(c, s.Width)) {
				c++
			}
			cols := SpanOf(c, s.Width)

			occ.GrowWidth(cols.Last + 1 - occ.Columns())
			occ.GrowHeight(rows.Last + 1 - occ.Rows())
			occ.Mark(rows, cols)

			placed = append(placed, Placed{ID: ID{Row: r, Item: i}, Rows: rows, Cols: cols})
			trace = append(trace, Cell(r, c))
			c += s.Width
		}
		trace = append(trace, RowBreak())
	}

	return newPacked(m.Clone(), trace, placed, occ.Rows(), occ.Columns()), nil
}
