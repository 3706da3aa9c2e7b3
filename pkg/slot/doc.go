// Package slot defines the descriptors a grid is built from.
//
// A [Slot] is an immutable value carrying a kind name, a fixed footprint in
// grid units (width × height) and an arbitrary parameter mapping handed to
// whatever renders the cell. A [Matrix] is an ordered sequence of rows of
// slots; the order inside a row is the placement priority and an empty row
// means "skip a row".
//
// Footprints are never computed at runtime: they come from a [Registry] that
// maps a kind name to its [Kind]. The registry is the host-side capability
// lookup; the packer only ever reads the resulting widths and heights.
//
//	reg := slot.Builtin()
//	m, err := reg.Build([][]slot.Ref{
//	    {{Kind: "map"}, {Kind: "chart"}},
//	    {{Kind: "logs"}},
//	})
package slot
