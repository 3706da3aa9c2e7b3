// Package io reads and writes slot documents and exports packed grids.
//
// # Document Format
//
// A document names its rows of slots by kind. Kinds not in the built-in
// registry can be declared inline with their footprint. TOML:
//
//	name = "dashboard"
//
//	[[kinds]]
//	name = "radar"
//	width = 2
//	height = 2
//
//	[[rows]]
//	slots = [{ kind = "map" }, { kind = "chart", params = { series = "cpu" } }]
//
//	[[rows]]
//	slots = []
//
//	[[rows]]
//	slots = [{ kind = "radar" }, { kind = "sky" }]
//
// and the same document as JSON:
//
//	{
//	  "name": "dashboard",
//	  "kinds": [{"name": "radar", "width": 2, "height": 2}],
//	  "rows": [
//	    {"slots": [{"kind": "map"}, {"kind": "chart", "params": {"series": "cpu"}}]},
//	    {"slots": []},
//	    {"slots": [{"kind": "radar"}, {"kind": "sky"}]}
//	  ]
//	}
//
// An empty row is kept: it still consumes one grid row when packed.
//
// # Packed Export
//
// [WritePacked] writes the result of packing as JSON: dimensions, the parse
// trace ("cell(r,c)" / "newRow") and every placement with its spans.
//
// # Format Detection
//
// [Import] and [Export] pick the codec from the file extension (.toml, .json).
package io
