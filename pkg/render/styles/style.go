// Package styles draws individual grid cells as SVG.
package styles

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/gridslot/pkg/errors"
)

// Style defines how cells are drawn.
type Style interface {
	// Name is the identifier used on the command line and in config.
	Name() string
	// RenderDefs writes SVG <defs> content (filters, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderCell writes the shape for one cell.
	RenderCell(buf *bytes.Buffer, c Cell)
	// RenderText writes the cell's label.
	RenderText(buf *bytes.Buffer, c Cell)
}

// Cell contains all data needed to render one slot.
type Cell struct {
	ID         string  // Slot identity, "row:item"
	Kind       string  // Kind name
	Label      string  // Display text
	Color      string  // Fill colour, empty for the style default
	X, Y, W, H float64 // Frame
	CX, CY     float64 // Center coordinates (for text)
	Highlight  bool    // Draw as selected
}

// CornerRadius is the rounding applied to every cell.
const CornerRadius = 10.0

const (
	StyleSimple  = "simple"
	StyleOutline = "outline"
)

// Names lists every built-in style.
var Names = []string{StyleSimple, StyleOutline}

// Lookup returns the style with the given name. An empty name means simple.
func Lookup(name string) (Style, error) {
	switch name {
	case "", StyleSimple:
		return Simple{}, nil
	case StyleOutline:
		return Outline{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want simple or outline)", name)
}

// Simple fills each cell with its kind colour.
type Simple struct{}

func (Simple) Name() string { return StyleSimple }

func (Simple) RenderDefs(*bytes.Buffer) {}

func (Simple) RenderCell(buf *bytes.Buffer, c Cell) {
	fill := c.Color
	if fill == "" {
		fill = "#dddddd"
	}
	stroke, width := "#333", 1.0
	if c.Highlight {
		stroke, width = "#e63946", 4.0
	}
	fmt.Fprintf(buf, `  <rect id="cell-%s" class="cell" data-kind="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.0f" ry="%.0f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		EscapeXML(c.ID), EscapeXML(c.Kind), c.X, c.Y, c.W, c.H, CornerRadius, CornerRadius, EscapeXML(fill), stroke, width)
}

func (Simple) RenderText(buf *bytes.Buffer, c Cell) {
	renderText(buf, c, "#111")
}

// Outline draws only cell borders, in the kind colour.
type Outline struct{}

func (Outline) Name() string { return StyleOutline }

func (Outline) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs><pattern id="dots" width="8" height="8" patternUnits="userSpaceOnUse"><circle cx="1" cy="1" r="1" fill="#ccc"/></pattern></defs>` + "\n")
}

func (Outline) RenderCell(buf *bytes.Buffer, c Cell) {
	stroke := c.Color
	if stroke == "" {
		stroke = "#333"
	}
	width := 2.0
	if c.Highlight {
		width = 5.0
	}
	fmt.Fprintf(buf, `  <rect id="cell-%s" class="cell" data-kind="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.0f" ry="%.0f" fill="url(#dots)" stroke="%s" stroke-width="%.1f"/>`+"\n",
		EscapeXML(c.ID), EscapeXML(c.Kind), c.X, c.Y, c.W, c.H, CornerRadius, CornerRadius, EscapeXML(stroke), width)
}

func (Outline) RenderText(buf *bytes.Buffer, c Cell) {
	color := c.Color
	if color == "" {
		color = "#333"
	}
	renderText(buf, c, color)
}

func renderText(buf *bytes.Buffer, c Cell, color string) {
	size := FontSize(c)
	fmt.Fprintf(buf, `  <text class="cell-text" data-cell="%s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="Helvetica, Arial, sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
		EscapeXML(c.ID), c.CX, c.CY, size, EscapeXML(color), EscapeXML(TruncateLabel(c)))
}
