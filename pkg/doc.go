// Package pkg provides the core libraries for Flowline Sankey layout.
//
// # Overview
//
// Flowline turns weighted flow graphs into Sankey diagrams: nodes become
// bars, edges become value-proportional bands, and the layout works to keep
// band crossings low. The pkg directory is organized into five main areas:
//
//  1. [flow] - The flow graph model and structural transformations
//  2. [layout] - Vertical positioning (barycenter sweeps, LP, MILP)
//  3. [solve] - The linear and mixed-integer programming boundary
//  4. [geometry] - Band and node outline construction
//  5. [pipeline] - Orchestration (validate → layer → order → draw)
//
// # Architecture
//
// The typical data flow through Flowline:
//
//	CSV / JSON edge list
//	         ↓
//	    [flowio] package (decode into a flow graph)
//	         ↓
//	    [flow] + [flow/transform] (cycles, layers, dummy nodes)
//	         ↓
//	    [layout] package (ordering + coordinates, via [solve])
//	         ↓
//	    [geometry] package (splines, outlines, labels, palette)
//	         ↓
//	    [render] package (SVG / JSON / PDF / PNG / DOT output)
//
// # Quick Start
//
//	g, err := flowio.ImportCSV("flows.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := pipeline.NewRunner(nil).Execute(ctx, g, pipeline.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg, err := sankey.RenderSVG(res.Diagram)
//
// [flow]: github.com/matzehuels/flowline/pkg/flow
// [flow/transform]: github.com/matzehuels/flowline/pkg/flow/transform
// [flowio]: github.com/matzehuels/flowline/pkg/flowio
// [layout]: github.com/matzehuels/flowline/pkg/layout
// [solve]: github.com/matzehuels/flowline/pkg/solve
// [geometry]: github.com/matzehuels/flowline/pkg/geometry
// [pipeline]: github.com/matzehuels/flowline/pkg/pipeline
// [render]: github.com/matzehuels/flowline/pkg/render
package pkg
