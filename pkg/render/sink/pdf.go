package sink

import (
	"github.com/matzehuels/gridslot/pkg/frame"
	"github.com/matzehuels/gridslot/pkg/render"
)

// RenderPDF renders the layout as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(l frame.Layout, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(RenderSVG(l, opts...))
}

// RenderPNG renders the layout as PNG via SVG conversion at the given scale
// (2.0 when non-positive).
func RenderPNG(l frame.Layout, scale float64, opts ...SVGOption) ([]byte, error) {
	if scale <= 0 {
		scale = 2.0
	}
	return render.ToPNG(RenderSVG(l, opts...), scale)
}
