package grid

import "slices"

// Index maps grid rows and columns to the slots touching them.
//
// Lookups outside the grid return nil rather than failing: a caller holding
// row or column numbers from a stale grid gets "nothing here".
type Index struct {
	rows [][]ID
	cols [][]ID
}

func buildIndex(placed []Placed, rows, cols int) Index {
	idx := Index{rows: make([][]ID, rows), cols: make([][]ID, cols)}
	for _, pl := range placed {
		for r := pl.Rows.First; r <= pl.Rows.Last; r++ {
			idx.rows[r] = append(idx.rows[r], pl.ID)
		}
		for c := pl.Cols.First; c <= pl.Cols.Last; c++ {
			idx.cols[c] = append(idx.cols[c], pl.ID)
		}
	}
	return idx
}

// Row returns the slots whose row span contains r, in packing order.
func (x Index) Row(r int) []ID {
	if r < 0 || r >= len(x.rows) {
		return nil
	}
	return slices.Clone(x.rows[r])
}

// Column returns the slots whose column span contains c, in packing order.
func (x Index) Column(c int) []ID {
	if c < 0 || c >= len(x.cols) {
		return nil
	}
	return slices.Clone(x.cols[c])
}
