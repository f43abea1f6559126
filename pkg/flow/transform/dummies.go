package transform

import (
	"fmt"

	"github.com/matzehuels/flowline/pkg/flow"
)

// InsertDummies subdivides every edge spanning more than one layer into a
// chain of single-step edges joined by synthetic pass-through nodes.
//
// Each dummy inherits the edge's value as its inflow, outflow and height, so
// the flow band keeps a constant thickness through intermediate layers. The
// chain's direction follows the sign of the layer difference, which makes
// reversed (cycle-reinserted) edges subdivide symmetrically. Every chain
// edge carries the original edge's value and color key.
//
// Postcondition: every edge spans exactly one layer step (self-loops
// excepted, they are drawn as loop curves).
func InsertDummies(g *flow.Graph) {
	gen := newIDGen(g)

	var toBreak []flow.Edge
	for _, e := range g.Edges() {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		diff := dst.Layer - src.Layer
		if diff > 1 || diff < -1 {
			toBreak = append(toBreak, e)
		}
	}

	for _, e := range toBreak {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		diff := dst.Layer - src.Layer
		sign := 1
		if diff < 0 {
			sign = -1
			diff = -diff
		}

		g.RemoveEdge(e.From, e.To)
		prev := e.From
		for i := 1; i < diff; i++ {
			id := gen.next(e.From, e.To, i)
			if err := g.AddNode(flow.Node{
				ID:       id,
				Layer:    src.Layer + sign*i,
				Kind:     flow.NodeKindDummy,
				InValue:  e.Value,
				OutValue: e.Value,
				MaxValue: e.Value,
			}); err != nil {
				panic(err)
			}
			if err := g.AddEdge(flow.Edge{From: prev, To: id, Value: e.Value, ColorKey: e.ColorKey}); err != nil {
				panic(err)
			}
			prev = id
		}
		if err := g.AddEdge(flow.Edge{From: prev, To: dst.ID, Value: e.Value, ColorKey: e.ColorKey}); err != nil {
			panic(err)
		}
	}
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(g *flow.Graph) *idGen {
	m := make(map[string]struct{}, g.NodeCount()*2)
	for _, id := range g.NodeIDs() {
		m[id] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(from, to string, i int) string {
	prefix := fmt.Sprintf("%s_%s_dummy_%d", from, to, i)
	id := prefix
	for n := 1; ; n++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, n)
	}
}
