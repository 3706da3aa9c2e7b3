package grid

import (
	"strings"

	"github.com/matzehuels/gridslot/pkg/errors"
)

// Direction is a rearrangement direction.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in declaration order.
var Directions = []Direction{Up, Down, Left, Right}

// IsX reports whether d moves along columns.
func (d Direction) IsX() bool { return d == Left || d == Right }

// IsY reports whether d moves along rows.
func (d Direction) IsY() bool { return d == Up || d == Down }

// Sign is +1 for Right and Down, -1 for Left and Up.
func (d Direction) Sign() int {
	if d == Right || d == Down {
		return 1
	}
	return -1
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDirection accepts up/down/left/right and their first letters.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown direction %q (want up, down, left or right)", s)
}

// Axes splits a placement into the span along d (main) and across it (cross).
func Axes(pl Placed, d Direction) (main, cross Span) {
	if d.IsX() {
		return pl.Cols, pl.Rows
	}
	return pl.Rows, pl.Cols
}

// Side returns the slots immediately adjacent to id in direction d: those
// covering the first row or column past id's edge and sharing at least one
// row or column with it. An unknown id yields ErrCodeIndexOutOfRange.
func (p *Packed) Side(id ID, d Direction) ([]ID, error) {
	t, err := p.Placement(id)
	if err != nil {
		return nil, err
	}
	main, cross := Axes(t, d)
	edge := main.Last + 1
	if d.Sign() < 0 {
		edge = main.First - 1
	}

	var line []ID
	if d.IsX() {
		line = p.index.Column(edge)
	} else {
		line = p.index.Row(edge)
	}

	var out []ID
	for _, nid := range line {
		pl, _ := p.Lookup(nid)
		_, nc := Axes(pl, d)
		if nc.Intersects(cross) {
			out = append(out, nid)
		}
	}
	return out, nil
}
