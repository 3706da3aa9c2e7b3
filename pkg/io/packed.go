package io

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/matzehuels/gridslot/pkg/grid"
	"github.com/matzehuels/gridslot/pkg/slot"
)

// PackedJSON is the exported view of a packed grid.
type PackedJSON struct {
	Rows       int             `json:"rows"`
	Columns    int             `json:"columns"`
	Trace      []string        `json:"trace"`
	Placements []PlacementJSON `json:"placements"`
}

// PlacementJSON is one exported placement.
type PlacementJSON struct {
	ID     string      `json:"id"`
	Kind   string      `json:"kind"`
	Rows   grid.Span   `json:"rows"`
	Cols   grid.Span   `json:"cols"`
	Params slot.Params `json:"params,omitempty"`
}

// ExportPacked converts p into its exported view.
func ExportPacked(p *grid.Packed) PackedJSON {
	out := PackedJSON{
		Rows:       p.Rows(),
		Columns:    p.Columns(),
		Trace:      make([]string, 0, len(p.Trace())),
		Placements: make([]PlacementJSON, 0, p.Len()),
	}
	for _, s := range p.Trace() {
		out.Trace = append(out.Trace, s.String())
	}
	for _, pl := range p.Placements() {
		s, _ := p.Slot(pl.ID)
		out.Placements = append(out.Placements, PlacementJSON{
			ID:     pl.ID.String(),
			Kind:   s.Kind,
			Rows:   pl.Rows,
			Cols:   pl.Cols,
			Params: s.Params,
		})
	}
	return out
}

// WritePacked writes p as indented JSON.
func WritePacked(p *grid.Packed, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ExportPacked(p)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
