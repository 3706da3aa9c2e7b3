// Package grid packs a slot matrix into a row/column grid.
//
// [Pack] is a greedy, single-pass, first-fit packer: it walks the source rows
// top to bottom and the slots of each row left to right, placing every slot
// at the first column of its source row where the whole footprint is free.
// A slot never looks ahead for a better row, so slots of source row r always
// start at grid row r. An empty source row places nothing but still consumes
// one grid row.
//
// The result, [Packed], is immutable. It records each placement ([Placed]),
// the parse trace ([Step]) and a spatial [Index] that answers "which slots
// touch this row/column". A new pack always produces a new Packed value;
// callers replace the old one wholesale.
//
//	m := slot.Matrix{
//	    {slot.New("wide", 2, 1, nil)},
//	    {slot.New("a", 1, 1, nil), slot.New("b", 1, 1, nil)},
//	}
//	p, err := grid.Pack(m)
//	// p.Rows() == 2, p.Columns() == 2
//
// Identities are source positions ([ID]{Row, Item}); they are stable for the
// lifetime of a Packed value and are what the rearrangement engine maps
// between configurations.
package grid
