// Package rearrange moves one packed slot past its neighbour.
//
// A move swaps the target with the block of slots adjacent to it in the
// requested direction and shifts that block back by exactly the target's
// length along the move axis. The engine never mutates the packed grid it is
// given: it derives a new slot matrix, re-packs it and reports how every old
// identity maps into the new grid, so a host can retarget rendering handles
// instead of recreating them.
//
// # Algorithm
//
// Let T be the target with main-axis span [a, b] and length L (columns for
// left/right, rows for up/down).
//
//  1. The side cells are the slots covering the line just past T's edge (b+1
//     or a-1) that share a cross-axis line with T. None means ErrCodeMoveRejected.
//  2. ext is the longest side cell along the main axis; the band is the
//     cross-axis hull of T and its side cells.
//  3. Displaced cells are slots in the band whose leading edge lies within
//     ext lines past T's edge.
//  4. T's new main-axis key is a ± ext; each displaced cell's key moves back
//     by L; every other slot keeps its key.
//  5. Rows are regrouped from the keys (left/right keep source rows, up/down
//     take the new row key) and ordered by position, and the result is packed.
//
// Shifting displaced cells by the target's exact length closes the gap the
// target leaves, whatever the displaced cells' own widths.
package rearrange
