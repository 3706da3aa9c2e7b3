package slot

import (
	"maps"

	"github.com/matzehuels/gridslot/pkg/errors"
)

// Params is the string-keyed parameter mapping attached to a slot.
type Params map[string]any

// Slot describes one cell before placement.
type Slot struct {
	Kind   string `json:"kind" toml:"kind" msgpack:"kind"`
	Width  int    `json:"width" toml:"width" msgpack:"width"`
	Height int    `json:"height" toml:"height" msgpack:"height"`
	Params Params `json:"params,omitempty" toml:"params,omitempty" msgpack:"params,omitempty"`
}

// New returns a slot with the given footprint. The params map is copied.
func New(kind string, width, height int, params Params) Slot {
	return Slot{Kind: kind, Width: width, Height: height, Params: cloneParams(params)}
}

// Validate reports a non-positive footprint as ErrCodeInvalidSlot.
func (s Slot) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidSlot,
			"slot %q has non-positive footprint %dx%d", s.Kind, s.Width, s.Height)
	}
	return nil
}

// Param returns the named parameter, if set.
func (s Slot) Param(key string) (any, bool) {
	v, ok := s.Params[key]
	return v, ok
}

// Matrix is an ordered sequence of rows of slots.
type Matrix [][]Slot

// Count returns the total number of slots across all rows.
func (m Matrix) Count() int {
	n := 0
	for _, row := range m {
		n += len(row)
	}
	return n
}

// At returns the slot at the given source position.
func (m Matrix) At(row, item int) (Slot, bool) {
	if row < 0 || row >= len(m) || item < 0 || item >= len(m[row]) {
		return Slot{}, false
	}
	return m[row][item], true
}

// Validate checks every slot and reports the first invalid one with its
// source position.
func (m Matrix) Validate() error {
	for r, row := range m {
		for i, s := range row {
			if err := s.Validate(); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidSlot, err, "slot %d:%d", r, i)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the matrix. Empty rows stay empty (non-nil).
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	out := make(Matrix, len(m))
	for r, row := range m {
		out[r] = make([]Slot, len(row))
		for i, s := range row {
			s.Params = cloneParams(s.Params)
			out[r][i] = s
		}
	}
	return out
}

func cloneParams(p Params) Params {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}
