package grid

import (
	"github.com/matzehuels/gridslot/pkg/errors"
	"github.com/matzehuels/gridslot/pkg/slot"
)

// Snapshot is the serialisable form of a Packed grid. The spatial index is
// not stored; FromSnapshot rebuilds it.
type Snapshot struct {
	Slots   slot.Matrix `json:"slots" msgpack:"slots"`
	Trace   []Step      `json:"trace" msgpack:"trace"`
	Placed  []Placed    `json:"placed" msgpack:"placed"`
	Rows    int         `json:"rows" msgpack:"rows"`
	Columns int         `json:"columns" msgpack:"columns"`
}

// Snapshot returns a detached copy of p's state.
func (p *Packed) Snapshot() Snapshot {
	return Snapshot{
		Slots:   p.Slots(),
		Trace:   p.Trace(),
		Placed:  p.Placements(),
		Rows:    p.rows,
		Columns: p.cols,
	}
}

// FromSnapshot restores a Packed grid, checking that the placements cover
// every slot exactly once and stay inside the recorded bounds.
func FromSnapshot(s Snapshot) (*Packed, error) {
	if len(s.Placed) != s.Slots.Count() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"snapshot has %d placements for %d slots", len(s.Placed), s.Slots.Count())
	}
	seen := make(map[ID]bool, len(s.Placed))
	for _, pl := range s.Placed {
		if _, ok := s.Slots.At(pl.ID.Row, pl.ID.Item); !ok || seen[pl.ID] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "snapshot placement %s is unknown or repeated", pl.ID)
		}
		seen[pl.ID] = true
		if pl.Rows.First < 0 || pl.Cols.First < 0 || pl.Rows.Last >= s.Rows || pl.Cols.Last >= s.Columns {
			return nil, errors.New(errors.ErrCodeInvalidInput, "snapshot placement %s outside %dx%d grid", pl.ID, s.Rows, s.Columns)
		}
	}
	return newPacked(s.Slots.Clone(), append([]Step(nil), s.Trace...), append([]Placed(nil), s.Placed...), s.Rows, s.Columns), nil
}
