package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/gridslot/pkg/errors"
)

// ID identifies a slot by its source position: source row and index within
// that row.
type ID struct {
	Row  int `json:"row" msgpack:"row"`
	Item int `json:"item" msgpack:"item"`
}

// String renders the ID as "row:item".
func (id ID) String() string { return fmt.Sprintf("%d:%d", id.Row, id.Item) }

// MarshalText implements encoding.TextMarshaler so IDs can key JSON maps.
func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	v, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// ParseID parses "row:item".
func ParseID(s string) (ID, error) {
	r, i, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return ID{}, errors.New(errors.ErrCodeInvalidInput, "slot id %q: want row:item", s)
	}
	row, err := strconv.Atoi(r)
	if err != nil || row < 0 {
		return ID{}, errors.New(errors.ErrCodeInvalidInput, "slot id %q: bad row", s)
	}
	item, err := strconv.Atoi(i)
	if err != nil || item < 0 {
		return ID{}, errors.New(errors.ErrCodeInvalidInput, "slot id %q: bad item", s)
	}
	return ID{Row: row, Item: item}, nil
}

// Placed is one slot's position in the packed grid.
type Placed struct {
	ID   ID   `json:"id" msgpack:"id"`
	Rows Span `json:"rows" msgpack:"rows"`
	Cols Span `json:"cols" msgpack:"cols"`
}

// StepKind distinguishes trace entries.
type StepKind uint8

const (
	// StepCell records a slot's top-left cell.
	StepCell StepKind = iota
	// StepRowBreak marks the end of a source row.
	StepRowBreak
)

// Step is one entry of the parse trace.
type Step struct {
	Kind StepKind `json:"kind" msgpack:"kind"`
	Row  int      `json:"row,omitempty" msgpack:"row,omitempty"`
	Col  int      `json:"col,omitempty" msgpack:"col,omitempty"`
}

// Cell returns a StepCell entry.
func Cell(row, col int) Step { return Step{Kind: StepCell, Row: row, Col: col} }

// RowBreak returns a StepRowBreak entry.
func RowBreak() Step { return Step{Kind: StepRowBreak} }

func (s Step) String() string {
	if s.Kind == StepRowBreak {
		return "newRow"
	}
	return fmt.Sprintf("cell(%d,%d)", s.Row, s.Col)
}
