// Package flowtest builds small flow graphs with known structure for tests.
//
// The families mirror classic crossing-minimization fixtures: balanced
// trees (layerable with zero crossings), a tree with an extra cross edge,
// a mirrored "hourglass" tree, and trees with cycles. Edge values are
// derived bottom-up so every transit node is balanced.
package flowtest

import (
	"strconv"

	"github.com/matzehuels/flowline/pkg/flow"
)

// BalancedTree returns a rooted tree with the given branching factor and
// height. Nodes are numbered breadth-first from "0"; each leaf contributes
// its own index as flow value and every edge carries the value of the
// subtree below it.
func BalancedTree(branching, height int) *flow.Graph {
	g := flow.New()

	total := 1
	width := 1
	for i := 0; i < height; i++ {
		width *= branching
		total += width
	}

	for i := 0; i < total; i++ {
		if err := g.AddNode(flow.Node{ID: strconv.Itoa(i)}); err != nil {
			panic(err)
		}
	}

	// Subtree values bottom-up: children of i are i*b+1 .. i*b+b.
	values := make([]float64, total)
	for i := total - 1; i >= 0; i-- {
		firstChild := i*branching + 1
		if firstChild >= total {
			values[i] = float64(i)
			continue
		}
		for c := firstChild; c < firstChild+branching; c++ {
			values[i] += values[c]
		}
	}

	for i := 0; i < total; i++ {
		firstChild := i*branching + 1
		if firstChild >= total {
			continue
		}
		for c := firstChild; c < firstChild+branching; c++ {
			if err := g.AddEdge(flow.Edge{From: strconv.Itoa(i), To: strconv.Itoa(c), Value: values[c]}); err != nil {
				panic(err)
			}
		}
	}
	return g
}

// TreeWithCrossEdge returns a binary BalancedTree plus one extra edge
// "2"→"4" of value 20. The added flow is propagated forward along first
// successors and backward along first predecessors so the graph stays
// balanced. Height must be at least 2.
func TreeWithCrossEdge(height int) *flow.Graph {
	g := BalancedTree(2, height)
	if err := g.AddEdge(flow.Edge{From: "2", To: "4", Value: 20}); err != nil {
		panic(err)
	}

	right := "4"
	for len(g.Successors(right)) > 0 {
		next := g.Successors(right)[0]
		bump(g, right, next, 20)
		right = next
	}
	left := "2"
	for len(g.Predecessors(left)) > 0 {
		prev := g.Predecessors(left)[0]
		bump(g, prev, left, 20)
		left = prev
	}
	return g
}

// MirroredTree returns a BalancedTree mirrored over its leaves: every
// non-leaf node gains a "mirror_" twin and every edge a reversed twin, so
// flow fans out from the root and back into the mirrored root.
func MirroredTree(branching, height int) *flow.Graph {
	g := BalancedTree(branching, height)

	mirror := func(id string) string {
		if len(g.Successors(id)) == 0 {
			return id
		}
		return "mirror_" + id
	}

	for _, id := range g.NodeIDs() {
		if len(g.Successors(id)) == 0 {
			continue
		}
		if err := g.AddNode(flow.Node{ID: "mirror_" + id}); err != nil {
			panic(err)
		}
	}
	for _, e := range g.Edges() {
		if err := g.AddEdge(flow.Edge{From: mirror(e.To), To: mirror(e.From), Value: e.Value}); err != nil {
			panic(err)
		}
	}
	return g
}

// TreeWithSimpleCycle returns a binary BalancedTree of height 3 plus a
// backward edge "4"→"1" of value 5, with the forward path values reduced
// to compensate. The result contains exactly one simple cycle.
func TreeWithSimpleCycle() *flow.Graph {
	g := BalancedTree(2, 3)
	if err := g.AddEdge(flow.Edge{From: "4", To: "1", Value: 5}); err != nil {
		panic(err)
	}
	bump(g, "0", "1", -5)
	bump(g, "4", "10", -5)
	return g
}

// TreeWithSelfLoop returns a binary BalancedTree of height 3 plus a
// self-loop "4"→"4" of value 2.
func TreeWithSelfLoop() *flow.Graph {
	g := BalancedTree(2, 3)
	if err := g.AddEdge(flow.Edge{From: "4", To: "4", Value: 2}); err != nil {
		panic(err)
	}
	return g
}

func bump(g *flow.Graph, from, to string, delta float64) {
	e, ok := g.RemoveEdge(from, to)
	if !ok {
		panic("flowtest: missing edge " + from + "->" + to)
	}
	e.Value += delta
	if err := g.AddEdge(e); err != nil {
		panic(err)
	}
}
