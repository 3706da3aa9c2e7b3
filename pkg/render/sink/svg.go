package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/gridslot/pkg/frame"
	"github.com/matzehuels/gridslot/pkg/grid"
	"github.com/matzehuels/gridslot/pkg/render/styles"
)

const cellInteractionCSS = `
    .cell { transition: stroke-width 0.2s ease; }
    .cell:hover { stroke-width: 4; }
    .cell-text { pointer-events: none; }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style     styles.Style
	gridLines bool
	highlight *grid.ID
	labels    bool
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithGridLines() SVGOption           { return func(r *svgRenderer) { r.gridLines = true } }
func WithoutLabels() SVGOption           { return func(r *svgRenderer) { r.labels = false } }
func WithHighlight(id grid.ID) SVGOption {
	return func(r *svgRenderer) { r.highlight = &id }
}

// RenderSVG draws l as a standalone SVG document.
func RenderSVG(l frame.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{style: styles.Simple{}, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)

	r.style.RenderDefs(&buf)
	if r.gridLines {
		renderGridLines(&buf, l)
	}

	cells := buildCells(l, r.highlight)
	for _, c := range cells {
		r.style.RenderCell(&buf, c)
	}
	if r.labels {
		for _, c := range cells {
			r.style.RenderText(&buf, c)
		}
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", cellInteractionCSS)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func buildCells(l frame.Layout, highlight *grid.ID) []styles.Cell {
	cells := make([]styles.Cell, 0, len(l.Frames))
	for _, f := range l.Frames {
		cx, cy := f.Rect.Center()
		cells = append(cells, styles.Cell{
			ID:        f.ID.String(),
			Kind:      f.Kind,
			Label:     f.Label,
			Color:     f.Color,
			X:         f.Rect.X,
			Y:         f.Rect.Y,
			W:         f.Rect.W,
			H:         f.Rect.H,
			CX:        cx,
			CY:        cy,
			Highlight: highlight != nil && *highlight == f.ID,
		})
	}
	return cells
}

func renderGridLines(buf *bytes.Buffer, l frame.Layout) {
	buf.WriteString(`  <g class="grid" stroke="#eee" stroke-width="1">` + "\n")
	for c := 1; c < l.Columns; c++ {
		x := float64(c) * l.CellW
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="0" x2="%.2f" y2="%.2f"/>`+"\n", x, x, l.Height)
	}
	for r := 1; r < l.Rows; r++ {
		y := float64(r) * l.CellH
		fmt.Fprintf(buf, `    <line x1="0" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", y, l.Width, y)
	}
	buf.WriteString("  </g>\n")
}
