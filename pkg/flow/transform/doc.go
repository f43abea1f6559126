// Package transform provides graph transformations that prepare a flow
// graph for Sankey layout.
//
// # Overview
//
// Raw flow data rarely arrives in a form suitable for layered layout. This
// package restructures an arbitrary flow graph into a canonical form where:
//
//   - The graph is acyclic while layers are assigned
//   - Every node has an integer layer
//   - Every edge spans exactly one layer step
//   - Every layer carries a dense 0..k-1 vertical ordering
//
// # Cycle Resolution
//
// [BreakCycles] makes the graph acyclic by repeatedly removing the cheapest
// edge of a remaining simple cycle, recording each removal. Once layers are
// assigned, [Reinsert] restores the removed edges with their original
// attributes; they become backward edges and are drawn as loops.
//
// # Layer Assignment
//
// [AssignLayers] peels boundary nodes off a working copy round by round:
// sinks first for right-alignment (layers count down from 0), sources first
// for left-alignment (layers count up). The justify flag additionally pulls
// terminal nodes out to the outermost layer reached.
//
// # Edge Subdivision
//
// [InsertDummies] breaks edges spanning multiple layers into chains of
// single-step edges joined by synthetic pass-through nodes:
//
//	Before: coal (layer -3) → losses (layer 0)
//	After:  coal → dummy → dummy → losses
//
// Dummies carry the edge's value as their height so the flow band keeps a
// constant thickness through intermediate layers.
//
// # Ordering Seed
//
// [InitPositions] assigns each layer a dense initial vertical ordering by
// node identity, the seed refined later by crossing minimization.
//
// # Usage
//
//	removed, err := transform.BreakCycles(g)
//	if err != nil { ... }
//	transform.AssignLayers(g, transform.AlignRight, true)
//	if err := transform.Reinsert(g, removed); err != nil { ... }
//	g.RecomputeValues(0.05)
//	transform.InsertDummies(g)
//	transform.InitPositions(g)
package transform
