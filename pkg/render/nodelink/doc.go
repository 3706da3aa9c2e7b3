// Package nodelink draws slot adjacency as a Graphviz diagram.
//
// Every placed slot becomes a node; an edge a -> b means b is one of a's side
// cells to the right (solid) or below (dashed), so each edge is a move that
// [rearrange.Move] accepts. Nodes are ranked by their top grid row.
//
//	dot := nodelink.ToDOT(packed, reg, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// Options.Detailed adds spans and parameters to the node labels.
//
// [rearrange.Move]: github.com/matzehuels/gridslot/pkg/rearrange.Move
package nodelink
