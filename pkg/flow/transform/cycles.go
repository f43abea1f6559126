package transform

import (
	"slices"

	"github.com/matzehuels/flowline/pkg/errors"
	"github.com/matzehuels/flowline/pkg/flow"
)

// CycleEdge records an edge removed during cycle resolution together with
// its original attributes. Removed edges are reinserted by [Reinsert] once
// layer assignment is complete; the record's lifetime spans exactly one
// layout run.
type CycleEdge struct {
	Edge flow.Edge
}

// BreakCycles makes the graph acyclic by temporarily removing edges.
//
// While the graph contains a simple cycle, the cycle's cheapest edge (the
// one with the minimum flow value) is removed and recorded; a self-loop
// counts as the single edge (node,node). The removal order is returned so
// [Reinsert] can restore the edges after layering.
//
// The loop is capped at the graph's edge count. Pathological overlapping
// cycle topologies that exceed the cap fail with CYCLE_RESOLUTION_ERROR
// rather than spinning.
func BreakCycles(g *flow.Graph) ([]CycleEdge, error) {
	var removed []CycleEdge
	maxRounds := g.EdgeCount()
	for round := 0; ; round++ {
		cycle := findCycle(g)
		if cycle == nil {
			return removed, nil
		}
		if round >= maxRounds {
			return removed, errors.New(errors.ErrCodeCycleResolution,
				"cycle resolution exceeded %d rounds", maxRounds)
		}

		cheapest, ok := minValueEdge(g, cycle)
		if !ok {
			return removed, errors.New(errors.ErrCodeCycleResolution,
				"cycle %v has no removable edge", cycle)
		}
		e, _ := g.RemoveEdge(cheapest.From, cheapest.To)
		removed = append(removed, CycleEdge{Edge: e})
	}
}

// Reinsert restores edges removed by [BreakCycles] with their original
// attributes, in removal order. Callers must recompute node values
// afterwards so band thicknesses reflect the complete edge set.
func Reinsert(g *flow.Graph, removed []CycleEdge) error {
	for _, ce := range removed {
		if err := g.AddEdge(ce.Edge); err != nil {
			return errors.Wrap(errors.ErrCodeCycleResolution, err,
				"reinsert cycle edge %s->%s", ce.Edge.From, ce.Edge.To)
		}
	}
	return nil
}

// minValueEdge returns the cheapest edge along the cycle's node sequence.
// A single-node cycle maps to the self-loop edge (node,node).
func minValueEdge(g *flow.Graph, cycle []string) (flow.Edge, bool) {
	var best flow.Edge
	found := false
	for i := range cycle {
		from, to := cycle[i], cycle[(i+1)%len(cycle)]
		e, ok := g.Edge(from, to)
		if !ok {
			continue
		}
		if !found || e.Value < best.Value {
			best = e
			found = true
		}
	}
	return best, found
}

// findCycle returns the node sequence of one simple cycle, or nil if the
// graph is acyclic. The traversal is an explicit iterative DFS with an
// on-stack marker, so deep graphs cannot overflow the call stack.
func findCycle(g *flow.Graph) []string {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		id   string
		next int
	}

	color := make(map[string]int, g.NodeCount())
	for _, start := range g.NodeIDs() {
		if color[start] != white {
			continue
		}

		stack := []frame{{id: start}}
		color[start] = gray
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			succs := g.Successors(top.id)
			if top.next >= len(succs) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := succs[top.next]
			top.next++

			switch color[child] {
			case gray:
				// The cycle runs from child's frame to the top of the stack.
				at := slices.IndexFunc(stack, func(f frame) bool { return f.id == child })
				cycle := make([]string, 0, len(stack)-at)
				for _, f := range stack[at:] {
					cycle = append(cycle, f.id)
				}
				return cycle
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child})
			}
		}
	}
	return nil
}
