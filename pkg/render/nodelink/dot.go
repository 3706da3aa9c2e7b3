package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gridslot/pkg/grid"
	"github.com/matzehuels/gridslot/pkg/render"
	"github.com/matzehuels/gridslot/pkg/slot"
)

// Options configures adjacency diagram rendering.
type Options struct {
	// Detailed includes spans and parameters in node labels.
	// When false, only the kind label and slot id are shown.
	Detailed bool
}

// ToDOT converts a packed grid to Graphviz DOT. reg supplies labels and
// colours and may be nil.
func ToDOT(p *grid.Packed, reg *slot.Registry, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	byRow := make(map[int][]string)
	for _, pl := range p.Placements() {
		s, _ := p.Slot(pl.ID)
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(pl, s, reg, opts.Detailed))}
		if reg != nil {
			if k, ok := reg.Lookup(s.Kind); ok && k.Color != "" {
				attrs = append(attrs, fmt.Sprintf("fillcolor=%q", k.Color))
			}
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", pl.ID.String(), strings.Join(attrs, ", "))
		byRow[pl.Rows.First] = append(byRow[pl.Rows.First], strconv.Quote(pl.ID.String()))
	}

	for _, r := range slices.Sorted(maps.Keys(byRow)) {
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(byRow[r], "; "))
	}

	buf.WriteString("\n")
	for _, pl := range p.Placements() {
		right, _ := p.Side(pl.ID, grid.Right)
		for _, n := range right {
			fmt.Fprintf(&buf, "  %q -> %q;\n", pl.ID.String(), n.String())
		}
		down, _ := p.Side(pl.ID, grid.Down)
		for _, n := range down {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", pl.ID.String(), n.String())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(pl grid.Placed, s slot.Slot, reg *slot.Registry, detailed bool) string {
	name := s.Kind
	if reg != nil {
		if k, ok := reg.Lookup(s.Kind); ok {
			name = k.DisplayLabel()
		}
	}
	label := fmt.Sprintf("%s (%s)", name, pl.ID)
	if !detailed {
		return label
	}

	parts := []string{fmt.Sprintf("rows: %s", pl.Rows), fmt.Sprintf("cols: %s", pl.Cols)}
	for _, k := range slices.Sorted(maps.Keys(s.Params)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, s.Params[k]))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
