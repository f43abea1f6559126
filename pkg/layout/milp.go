package layout

import (
	"context"
	"math"

	"github.com/matzehuels/flowline/pkg/errors"
	"github.com/matzehuels/flowline/pkg/flow"
	"github.com/matzehuels/flowline/pkg/solve"
)

const (
	lambdaCrossings = 200.0
	minNodeDistance = 5.0

	// bigM deactivates the spacing constraint for the unchosen branch of
	// each ordering disjunction. It must exceed any realistic coordinate
	// span, which caps the usable total flow magnitude.
	bigM = 1000.0
)

// orderedPair keys the relative-order binaries. One binary is stored per
// unordered node pair: above[{a, b}] is 1 when a sits strictly higher than
// b, and the reverse relation is its complement 1 - above[{a, b}].
type orderedPair struct {
	hi, lo string
}

// aboveExpr returns the order indicator above(a, b) as the linear expression
// coef·v + c, resolving the complement when the pair is stored reversed.
func aboveExpr(above map[orderedPair]solve.Var, a, b string) (v solve.Var, coef, c float64) {
	if v, ok := above[orderedPair{a, b}]; ok {
		return v, 1, 0
	}
	return above[orderedPair{b, a}], -1, 1
}

// OptimizeMILP assigns within-layer ordering and absolute vertical
// coordinates in one mixed-integer program. On top of the LP objective it
// counts edge crossings through binary indicator variables and penalizes
// them with lambdaCrossings.
//
// The formulation carries a binary per node pair within each layer and a
// binary per potentially crossing edge pair, so solve time grows
// combinatorially with layer width. It is intended for small diagrams where
// the heuristic's residual crossings are worth eliminating.
func OptimizeMILP(ctx context.Context, g *flow.Graph) error {
	p := solve.NewProblem()
	p.Label = "milp"
	pos := make(map[string]solve.Var, g.NodeCount())
	above := make(map[orderedPair]solve.Var)
	span := positionSpan(g)

	layers := g.Layers()
	for _, lay := range layers {
		nodes := g.LayerNodes(lay)
		for _, n := range nodes {
			v := p.Bounded("y_"+n.ID, -span, span)
			pos[n.ID] = v
			addCenterDistance(p, v)
		}

		for i, n1 := range nodes {
			for _, n2 := range nodes[i+1:] {
				b := p.Binary(n1.ID + "_above_" + n2.ID)
				above[orderedPair{n1.ID, n2.ID}] = b
				gap := n1.MaxValue/2 + n2.MaxValue/2 + minNodeDistance

				// b = 1 forces y1 - y2 >= gap, b = 0 forces y2 - y1 >= gap,
				// so every pair is ordered one way or the other.
				p.AddConstraint([]solve.Term{
					{Var: pos[n1.ID], Coef: 1},
					{Var: pos[n2.ID], Coef: -1},
					{Var: b, Coef: -bigM},
				}, solve.GE, gap-bigM)
				p.AddConstraint([]solve.Term{
					{Var: pos[n2.ID], Coef: 1},
					{Var: pos[n1.ID], Coef: -1},
					{Var: b, Coef: bigM},
				}, solve.GE, gap)
			}
		}
	}

	addCrossingPenalty(p, g, layers, above)
	addBendiness(p, g, pos)

	res, err := p.Solve(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeOptimization, err, "solve vertical position MILP")
	}
	if res.Status != solve.StatusOptimal {
		return errors.New(errors.ErrCodeOptimization,
			"vertical position MILP is %s", res.Status)
	}

	for id, v := range pos {
		n, _ := g.Node(id)
		n.Y = res.Value(v)
		n.Position = 0
	}
	// A node's ordinal is the number of layer-mates it sits above.
	for pair, b := range above {
		up := int(math.Round(res.Value(b)))
		hi, _ := g.Node(pair.hi)
		lo, _ := g.Node(pair.lo)
		hi.Position += up
		lo.Position += 1 - up
	}
	return nil
}

// addCrossingPenalty introduces one binary per pair of edges between
// adjacent layers that could cross, forced to 1 whenever the orderings of
// their endpoints disagree.
func addCrossingPenalty(p *solve.Problem, g *flow.Graph, layers []int, above map[orderedPair]solve.Var) {
	for i := 1; i < len(layers); i++ {
		edges := g.LayerEdges(layers[i-1], layers[i])
		for j, e1 := range edges {
			for _, e2 := range edges[j+1:] {
				if e1.From == e2.From || e1.To == e2.To {
					continue
				}
				cross := p.Binary(e1.From + "_" + e1.To + "_crosses_" + e2.From + "_" + e2.To)
				addCrossLowerBound(p, cross, above, e1.From, e2.From, e2.To, e1.To)
				addCrossLowerBound(p, cross, above, e2.From, e1.From, e1.To, e2.To)
				p.ObjectiveCoef(cross, lambdaCrossings)
			}
		}
	}
}

// addCrossLowerBound adds cross >= above(a1, a2) + above(b1, b2) - 1, with
// both order indicators expanded through their stored pair or complement.
func addCrossLowerBound(p *solve.Problem, cross solve.Var, above map[orderedPair]solve.Var, a1, a2, b1, b2 string) {
	v1, c1, k1 := aboveExpr(above, a1, a2)
	v2, c2, k2 := aboveExpr(above, b1, b2)
	p.AddConstraint([]solve.Term{
		{Var: cross, Coef: 1},
		{Var: v1, Coef: -c1},
		{Var: v2, Coef: -c2},
	}, solve.GE, -1+k1+k2)
}
