// Package sink renders a frame layout to SVG, JSON, PDF or PNG.
//
// SVG output draws every frame with a [styles.Style], optionally over the grid
// lines and with one slot highlighted. PDF and PNG are produced from the SVG
// via rsvg-convert.
//
//	svg := sink.RenderSVG(l, sink.WithStyle(styles.Outline{}), sink.WithGridLines())
package sink
