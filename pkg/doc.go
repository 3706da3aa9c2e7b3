// Package pkg provides the core libraries for gridslot, a slot-packing and
// rearrangement engine for grid dashboards.
//
// # Overview
//
// A dashboard is a list of rows, each row an ordered list of slots with a
// width and height in grid units. gridslot packs those slots into a
// two-dimensional grid, moves a slot one step at a time while keeping the
// packing valid, and maps the result onto pixel frames that can be rendered
// or served. The pkg directory is organized into four areas:
//
//  1. Domain - [slot], [grid], [rearrange], [controller], [frame]
//  2. Serialization - [io]
//  3. Output - [render] and its subpackages
//  4. Infrastructure - [pipeline], [cache], [store], [server], [observability]
//
// # Architecture
//
// The typical data flow through gridslot:
//
//	TOML/JSON document
//	         ↓
//	    [io] package (document → slot.Matrix)
//	         ↓
//	    [grid] package (pack rows into occupied cells)
//	         ↓
//	    [rearrange] package (directional moves)
//	         ↓
//	    [frame] package (pixel frames)
//	         ↓
//	    SVG/PDF/PNG/JSON/DOT output
//
// # Quick Start
//
// Pack a document, move a slot and compute frames:
//
//	import (
//	    "github.com/matzehuels/gridslot/pkg/frame"
//	    "github.com/matzehuels/gridslot/pkg/grid"
//	    gridio "github.com/matzehuels/gridslot/pkg/io"
//	    "github.com/matzehuels/gridslot/pkg/rearrange"
//	)
//
//	doc, _ := gridio.Import("dashboard.toml")
//	reg, _ := doc.Registry(nil)
//	m, _ := doc.Matrix(nil)
//
//	p, _ := grid.Pack(m)
//	res, _ := rearrange.Move(p, grid.ID{Row: 0, Item: 1}, grid.Left)
//
//	l, _ := frame.Compute(res.Packed, reg, frame.Options{Width: 1200})
//
// # Main Packages
//
// [slot] - Slot kinds, the kind registry with the built-in catalogue, and the
// row-major [slot.Matrix].
//
// [grid] - Packing. [grid.Pack] places each row left to right into the first
// free cells and records every slot's span in an index keyed by [grid.ID].
//
// [rearrange] - [rearrange.Move] shifts one slot one step in a direction,
// displaces neighbours and repacks, reporting the old to new ID mapping.
//
// [controller] - A concurrency-safe [controller.Grid] that serializes moves and
// tracks stable handles across rearrangements.
//
// [frame] - Converts a packed grid into pixel rectangles with padding and
// hit testing.
//
// [io] - Document import and export in TOML and JSON.
//
// [render] - SVG output ([render/sink]), visual styles ([render/styles]),
// Graphviz adjacency diagrams ([render/nodelink]) and SVG to PDF/PNG
// conversion.
//
// [pipeline] - Pack, move, layout and render with caching, shared by the CLI
// and the HTTP server.
//
// [cache] - Content-addressed cache with file, Redis and null backends.
//
// [store] - Named layout storage backed by files, SQLite or MongoDB.
//
// [server] - HTTP API over the pipeline and store.
//
// [slot]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/slot
// [slot.Matrix]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/slot#Matrix
// [grid]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/grid
// [grid.Pack]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/grid#Pack
// [grid.ID]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/grid#ID
// [rearrange]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/rearrange
// [rearrange.Move]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/rearrange#Move
// [controller]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/controller
// [controller.Grid]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/controller#Grid
// [frame]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/frame
// [io]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/render/sink
// [render/styles]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/render/styles
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/gridslot/pkg/observability
package pkg
