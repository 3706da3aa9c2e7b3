// Package render turns frame layouts into artifacts.
//
// # Overview
//
//   - Generic format conversion (SVG to PDF/PNG), this package
//   - Grid drawings in SVG and JSON, in [sink]
//   - Cell styles (simple, outline), in [styles]
//   - Slot adjacency diagrams through Graphviz, in [nodelink]
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderSVG(layout, sink.WithStyle(styles.Simple{}))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Adjacency Diagrams
//
// The [nodelink] subpackage draws each slot as a node and connects it to its
// right and lower neighbours, which is handy for checking which moves a grid
// allows.
//
//	dot := nodelink.ToDOT(packed, reg, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package render
