package transform

import (
	"github.com/matzehuels/flowline/pkg/flow"
)

// Align selects which boundary the layer assignment peels from.
type Align string

const (
	// AlignLeft peels sources first: nodes with no parents get layer 0 and
	// layer numbers increase towards the sinks.
	AlignLeft Align = "left"
	// AlignRight peels sinks first: nodes with no children get layer 0 and
	// layer numbers decrease towards the sources.
	AlignRight Align = "right"
)

// Valid reports whether a is a known alignment mode.
func (a Align) Valid() bool { return a == AlignLeft || a == AlignRight }

// AssignLayers assigns an integer layer to every node by iterative
// topological peeling of a working copy.
//
// Each round collects the current boundary nodes (sinks for AlignRight,
// sources for AlignLeft), assigns them the current layer counter, removes
// them and steps the counter (decrementing for right-alignment,
// incrementing for left). Disconnected nodes are boundary nodes in the
// first round and trivially receive layer 0.
//
// With justify set, terminal nodes of the original graph (in-degree 0 for
// right-alignment, out-degree 0 for left) are pulled out to the final value
// of the layer counter, stretching their edges across the full breadth of
// the diagram. Layer values are ordering keys only; right-aligned layouts
// produce negative layers.
//
// AssignLayers assumes the graph is acyclic; run [BreakCycles] first.
func AssignLayers(g *flow.Graph, align Align, justify bool) {
	boundary := func(work *flow.Graph, id string) bool { return work.OutDegree(id) == 0 }
	step := -1
	if align == AlignLeft {
		boundary = func(work *flow.Graph, id string) bool { return work.InDegree(id) == 0 }
		step = 1
	}

	work := g.Clone()
	layer := 0
	for work.NodeCount() > 0 {
		var peel []string
		for _, id := range work.NodeIDs() {
			if boundary(work, id) {
				peel = append(peel, id)
			}
		}
		if len(peel) == 0 {
			// Residual cycle; remaining nodes keep their current layer.
			break
		}
		for _, id := range peel {
			n, _ := g.Node(id)
			n.Layer = layer
			work.RemoveNode(id)
		}
		layer += step
	}

	if !justify {
		return
	}
	for _, n := range g.Nodes() {
		switch {
		case align == AlignRight && g.InDegree(n.ID) == 0:
			n.Layer = layer
		case align == AlignLeft && g.OutDegree(n.ID) == 0:
			n.Layer = layer
		}
	}
}
