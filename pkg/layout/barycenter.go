// Package layout turns a layered, position-seeded graph into vertical
// coordinates. It offers three strategies: a barycenter sweep heuristic for
// the within-layer ordering, an LP refinement of absolute coordinates on
// top of that ordering, and a MILP that decides ordering and coordinates
// jointly.
package layout

import (
	"math"
	"slices"

	"github.com/matzehuels/flowline/pkg/errors"
	"github.com/matzehuels/flowline/pkg/flow"
)

// SweepStats summarizes one run of ReduceCrossings.
type SweepStats struct {
	Sweeps          int
	CrossingsBefore int
	CrossingsAfter  int
}

// ReduceCrossings runs barycenter sweeps in alternating directions, starting
// from the left, until the crossing count stops improving. At least minSweeps
// sweeps run before the early stop is considered and at most maxSweeps run in
// total. A failing sweep is retried once; a second failure aborts the run.
func ReduceCrossings(g *flow.Graph, minSweeps, maxSweeps int) (SweepStats, error) {
	stats := SweepStats{CrossingsBefore: flow.CountCrossings(g)}
	current := stats.CrossingsBefore
	stats.CrossingsAfter = current

	for i := 0; i < maxSweeps; i++ {
		fromLeft := i%2 == 0
		if err := Sweep(g, fromLeft); err != nil {
			if err = Sweep(g, fromLeft); err != nil {
				return stats, errors.Wrap(errors.ErrCodeLayout, err,
					"barycenter sweep %d failed", i)
			}
		}
		stats.Sweeps++

		after := flow.CountCrossings(g)
		stats.CrossingsAfter = after
		if after >= current && i >= minSweeps {
			break
		}
		current = after
	}
	return stats, nil
}

// Sweep reorders every layer once, driven by neighbor positions in the
// preceding layer (fromLeft) or the following layer (!fromLeft). Each node's
// sort key is the mean position of its neighbors in the driving layer, plus
// a small multiple of its own position so that equal means keep their
// current order. Nodes without neighbors in the driving layer keep their
// position.
func Sweep(g *flow.Graph, fromLeft bool) error {
	layers := g.Layers()
	if !fromLeft {
		slices.Reverse(layers)
	}

	for i := 1; i < len(layers); i++ {
		lay, driving := layers[i], layers[i-1]
		if err := sweepLayer(g, lay, driving, fromLeft); err != nil {
			return err
		}
	}
	return nil
}

func sweepLayer(g *flow.Graph, lay, driving int, fromLeft bool) error {
	nodes := g.LayerNodes(lay)
	for i, n := range nodes {
		if n.Position != i {
			return errors.New(errors.ErrCodeLayout,
				"layer %d positions are not dense: node %q at position %d, index %d",
				lay, n.ID, n.Position, i)
		}
	}

	var arcs []flow.Edge
	if fromLeft {
		arcs = g.LayerEdges(driving, lay)
	} else {
		arcs = g.LayerEdges(lay, driving)
	}

	// NaN marks nodes with no neighbor in the driving layer; they stay put.
	keys := make([]float64, len(nodes))
	eps := 0.1 / float64(len(nodes))
	for i, n := range nodes {
		sum, count := 0.0, 0
		for _, e := range arcs {
			var neighbor string
			if fromLeft {
				if e.To != n.ID {
					continue
				}
				neighbor = e.From
			} else {
				if e.From != n.ID {
					continue
				}
				neighbor = e.To
			}
			other, ok := g.Node(neighbor)
			if !ok {
				return errors.New(errors.ErrCodeLayout,
					"edge endpoint %q is not in the graph", neighbor)
			}
			sum += float64(other.Position)
			count++
		}
		if count == 0 {
			keys[i] = math.NaN()
			continue
		}
		keys[i] = sum/float64(count) + eps*float64(i)
	}

	// Anchored nodes keep their slot; the rest permute among the remaining
	// slots in key order.
	var movable []int
	for i, k := range keys {
		if !math.IsNaN(k) {
			movable = append(movable, i)
		}
	}
	ranked := slices.Clone(movable)
	slices.SortStableFunc(ranked, func(a, b int) int {
		switch {
		case keys[a] < keys[b]:
			return -1
		case keys[a] > keys[b]:
			return 1
		}
		return 0
	})
	for rank, idx := range ranked {
		nodes[idx].Position = movable[rank]
	}
	return nil
}
