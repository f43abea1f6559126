// Package flowio provides JSON and CSV import and export for flow graphs.
//
// # JSON Format
//
// The JSON format has an "edges" array and an optional "nodes" array for
// isolated nodes:
//
//	{
//	  "nodes": [{"id": "plant"}],
//	  "edges": [
//	    {"from": "fuel", "to": "plant", "value": 10},
//	    {"from": "plant", "to": "grid", "value": 7, "color": "electricity"}
//	  ]
//	}
//
// Edge endpoints are created implicitly, so listing a node is only needed
// when it has no edges. The optional "color" field classifies the flow for
// palette assignment.
//
// # CSV Format
//
// The CSV format is one edge per record with columns
//
//	source,target,value[,color]
//
// A header row is detected and skipped when the value column of the first
// record is not numeric.
//
// # Round Trips
//
// Both formats survive a round trip: export a graph, re-import it, and the
// node set, edge set, values and color keys are identical. Layout results
// (layers, positions, coordinates) are not part of either format; for
// computed geometry use [render/sankey].
//
// [render/sankey]: github.com/matzehuels/flowline/pkg/render/sankey
package flowio
