// Package frame turns a packed grid into pixel rectangles.
//
// The content area is divided into equal columns and rows; a slot's frame is
// the union of the cells it covers, inset on every side by the padding.
//
//	l, err := frame.Compute(p, reg, frame.Options{Width: 800, Height: 600})
//	id, ok := l.At(120, 40) // hit-test
package frame

import (
	"github.com/matzehuels/gridslot/pkg/errors"
	"github.com/matzehuels/gridslot/pkg/grid"
	"github.com/matzehuels/gridslot/pkg/slot"
)

// Defaults for Options.
const (
	DefaultWidth   = 960.0
	DefaultHeight  = 640.0
	DefaultPadding = 6.0
)

// Options sizes the content area.
type Options struct {
	Width   float64 `json:"width" toml:"width"`
	Height  float64 `json:"height" toml:"height"`
	Padding float64 `json:"padding" toml:"padding"`
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
}

// Validate rejects negative sizes.
func (o Options) Validate() error {
	if o.Width < 0 || o.Height < 0 || o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "frame size %gx%g padding %g must not be negative", o.Width, o.Height, o.Padding)
	}
	return nil
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Inset shrinks r by d on every side, never below zero size.
func (r Rect) Inset(d float64) Rect {
	w, h := max(r.W-2*d, 0), max(r.H-2*d, 0)
	return Rect{X: r.X + (r.W-w)/2, Y: r.Y + (r.H-h)/2, W: w, H: h}
}

// Contains reports whether (x, y) lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersects reports whether two rectangles overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Center returns the midpoint.
func (r Rect) Center() (float64, float64) { return r.X + r.W/2, r.Y + r.H/2 }

// Frame is one slot's pixel placement.
type Frame struct {
	ID     grid.ID     `json:"id" bson:"id"`
	Kind   string      `json:"kind" bson:"kind"`
	Label  string      `json:"label,omitempty" bson:"label,omitempty"`
	Color  string      `json:"color,omitempty" bson:"color,omitempty"`
	Rect   Rect        `json:"rect" bson:"rect"`
	Rows   grid.Span   `json:"rows" bson:"rows"`
	Cols   grid.Span   `json:"cols" bson:"cols"`
	Params slot.Params `json:"params,omitempty" bson:"params,omitempty"`
}

// Layout is the frame set for a whole grid.
type Layout struct {
	Width   float64 `json:"width" bson:"width"`
	Height  float64 `json:"height" bson:"height"`
	Padding float64 `json:"padding" bson:"padding"`
	Rows    int     `json:"rows" bson:"rows"`
	Columns int     `json:"columns" bson:"columns"`
	CellW   float64 `json:"cell_w" bson:"cell_w"`
	CellH   float64 `json:"cell_h" bson:"cell_h"`
	Frames  []Frame `json:"frames" bson:"frames"`
}

// Compute lays out every placement of p. reg supplies labels and colours and
// may be nil.
func Compute(p *grid.Packed, reg *slot.Registry, opts Options) (Layout, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return Layout{}, err
	}

	l := Layout{
		Width:   opts.Width,
		Height:  opts.Height,
		Padding: opts.Padding,
		Rows:    p.Rows(),
		Columns: p.Columns(),
	}
	if l.Columns > 0 {
		l.CellW = opts.Width / float64(l.Columns)
	}
	if l.Rows > 0 {
		l.CellH = opts.Height / float64(l.Rows)
	}

	l.Frames = make([]Frame, 0, p.Len())
	for _, pl := range p.Placements() {
		s, _ := p.Slot(pl.ID)
		f := Frame{
			ID:     pl.ID,
			Kind:   s.Kind,
			Label:  s.Kind,
			Rows:   pl.Rows,
			Cols:   pl.Cols,
			Params: s.Params,
			Rect: Rect{
				X: float64(pl.Cols.First) * l.CellW,
				Y: float64(pl.Rows.First) * l.CellH,
				W: float64(pl.Cols.Len()) * l.CellW,
				H: float64(pl.Rows.Len()) * l.CellH,
			}.Inset(opts.Padding),
		}
		if reg != nil {
			if k, ok := reg.Lookup(s.Kind); ok {
				f.Label, f.Color = k.DisplayLabel(), k.Color
			}
		}
		l.Frames = append(l.Frames, f)
	}
	return l, nil
}

// At returns the slot whose frame contains (x, y). Padding gaps hit nothing.
func (l Layout) At(x, y float64) (grid.ID, bool) {
	for _, f := range l.Frames {
		if f.Rect.Contains(x, y) {
			return f.ID, true
		}
	}
	return grid.ID{}, false
}

// Within returns every slot whose frame intersects r.
func (l Layout) Within(r Rect) []grid.ID {
	var out []grid.ID
	for _, f := range l.Frames {
		if f.Rect.Intersects(r) {
			out = append(out, f.ID)
		}
	}
	return out
}

// Frame returns the frame of id.
func (l Layout) Frame(id grid.ID) (Frame, bool) {
	for _, f := range l.Frames {
		if f.ID == id {
			return f, true
		}
	}
	return Frame{}, false
}
