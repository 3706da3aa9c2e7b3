package rearrange

import (
	"cmp"
	"slices"

	"github.com/matzehuels/gridslot/pkg/errors"
	"github.com/matzehuels/gridslot/pkg/grid"
	"github.com/matzehuels/gridslot/pkg/slot"
)

// Result is the outcome of a successful move.
type Result struct {
	Target    grid.ID
	Direction grid.Direction

	// Matrix is the regrouped source matrix and Packed its packing.
	Matrix slot.Matrix
	Packed *grid.Packed

	// Mapping sends every identity of the old grid to its identity in Packed.
	Mapping map[grid.ID]grid.ID
	// Order lists old identities in the new grid's trace order.
	Order []grid.ID
	// Displaced lists the old identities that swapped with the target.
	Displaced []grid.ID
}

// tie-break priorities for equal keys
const (
	prioBefore = -1
	prioLow    = 0
	prioMid    = 1
	prioHigh   = 2
)

type entry struct {
	id   grid.ID
	pl   grid.Placed
	row  int // new source row
	key  int // main-axis ordering key within the row
	prio int
	pos  int // trace position in the old grid
}

// Move moves target one step in dir. It returns ErrCodeIndexOutOfRange for
// an unknown target and ErrCodeMoveRejected when nothing lies in dir or when
// the repacked grid would not carry the target any further along dir (a
// neighbour from another source row cannot swap places horizontally). The
// given grid is never modified.
func Move(p *grid.Packed, target grid.ID, dir grid.Direction) (*Result, error) {
	t, err := p.Placement(target)
	if err != nil {
		return nil, err
	}
	side, err := p.Side(target, dir)
	if err != nil {
		return nil, err
	}
	if len(side) == 0 {
		return nil, errors.New(errors.ErrCodeMoveRejected, "slot %s has no neighbour %s", target, dir)
	}

	main, cross := grid.Axes(t, dir)
	length := main.Len()
	sign := dir.Sign()

	ext, band := 0, cross
	for _, id := range side {
		pl, _ := p.Lookup(id)
		m, c := grid.Axes(pl, dir)
		ext = max(ext, m.Len())
		band = band.Hull(c)
	}

	var zone grid.Span
	if sign > 0 {
		zone = grid.Span{First: main.Last + 1, Last: main.Last + ext}
	} else {
		zone = grid.Span{First: main.First - ext, Last: main.First - 1}
	}

	placements := p.Placements()
	entries := make([]entry, 0, len(placements))
	var displaced []grid.ID
	for pos, pl := range placements {
		m, c := grid.Axes(pl, dir)
		e := entry{id: pl.ID, pl: pl, key: m.First, pos: pos}

		switch {
		case pl.ID == target:
			e.key = main.First + sign*ext
			e.prio = prioHigh
			if sign < 0 {
				e.prio = prioBefore
			}
		case c.Intersects(band) && leads(m, sign, zone):
			e.key = m.First - sign*length
			e.prio = prioLow
			if sign < 0 {
				e.prio = prioMid
			}
			displaced = append(displaced, pl.ID)
		default:
			e.prio = prioMid
			if sign < 0 {
				e.prio = prioLow
			}
		}

		if dir.IsX() {
			e.row = pl.Rows.First
		} else {
			e.row = e.key
		}
		entries = append(entries, e)
	}

	matrix, order := regroup(p, entries, dir)
	packed, err := grid.Pack(matrix)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "repack after moving %s %s", target, dir)
	}

	mapping := make(map[grid.ID]grid.ID, len(order))
	for newRow, ids := range order {
		for item, old := range ids {
			mapping[old] = grid.ID{Row: newRow, Item: item}
		}
	}
	if !advanced(packed, mapping[target], main, dir) {
		return nil, errors.New(errors.ErrCodeMoveRejected, "slot %s cannot advance %s", target, dir)
	}
	flat := make([]grid.ID, 0, len(mapping))
	for _, pl := range packed.Placements() {
		flat = append(flat, order[pl.ID.Row][pl.ID.Item])
	}

	return &Result{
		Target:    target,
		Direction: dir,
		Matrix:    matrix,
		Packed:    packed,
		Mapping:   mapping,
		Order:     flat,
		Displaced: displaced,
	}, nil
}

// advanced reports whether the slot now at id starts further along dir than
// the old main-axis span did.
func advanced(p *grid.Packed, id grid.ID, old grid.Span, dir grid.Direction) bool {
	pl, ok := p.Lookup(id)
	if !ok {
		return false
	}
	m, _ := grid.Axes(pl, dir)
	return (m.First-old.First)*dir.Sign() > 0
}

// leads reports whether a span's leading edge, seen from the moving target,
// falls inside zone.
func leads(m grid.Span, sign int, zone grid.Span) bool {
	if sign > 0 {
		return zone.Contains(m.First)
	}
	return zone.Contains(m.Last)
}

// regroup builds the new source matrix from keyed entries. order[r][i] is the
// old identity of the slot that ends up at new position r:i.
func regroup(p *grid.Packed, entries []entry, dir grid.Direction) (slot.Matrix, [][]grid.ID) {
	rows := len(p.Matrix())
	for _, e := range entries {
		rows = max(rows, e.row+1)
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(a.row, b.row); c != 0 {
			return c
		}
		// within a row slots are laid out left to right
		ak, bk := a.key, b.key
		if dir.IsY() {
			ak, bk = a.pl.Cols.First, b.pl.Cols.First
		}
		if c := cmp.Compare(ak, bk); c != 0 {
			return c
		}
		if c := cmp.Compare(a.prio, b.prio); c != 0 {
			return c
		}
		return cmp.Compare(a.pos, b.pos)
	})

	m := make(slot.Matrix, rows)
	order := make([][]grid.ID, rows)
	for r := range m {
		m[r] = []slot.Slot{}
	}
	for _, e := range entries {
		s, _ := p.Slot(e.id)
		m[e.row] = append(m[e.row], slot.New(s.Kind, s.Width, s.Height, s.Params))
		order[e.row] = append(order[e.row], e.id)
	}
	return m, order
}

// CanMove reports whether Move would succeed. It runs the full move, so
// Available pays one repack per direction.
func CanMove(p *grid.Packed, target grid.ID, dir grid.Direction) bool {
	_, err := Move(p, target, dir)
	return err == nil
}

// Available lists the directions target can move in.
func Available(p *grid.Packed, target grid.ID) []grid.Direction {
	var out []grid.Direction
	for _, d := range grid.Directions {
		if CanMove(p, target, d) {
			out = append(out, d)
		}
	}
	return out
}
