package layout

import (
	"context"

	"github.com/matzehuels/flowline/pkg/errors"
	"github.com/matzehuels/flowline/pkg/flow"
	"github.com/matzehuels/flowline/pkg/solve"
)

const lambdaBendiness = 2.0

// OptimizeAbsoluteLP assigns absolute vertical coordinates by linear
// programming, keeping the within-layer ordering fixed. The objective pulls
// every node toward y=0 and penalizes the vertical offset along each edge,
// weighted by lambdaBendiness; ordering is enforced by minimum-spacing
// constraints between within-layer neighbors.
func OptimizeAbsoluteLP(ctx context.Context, g *flow.Graph) error {
	p := solve.NewProblem()
	p.Label = "lp"
	pos := make(map[string]solve.Var, g.NodeCount())
	span := positionSpan(g)

	for _, lay := range g.Layers() {
		nodes := g.LayerNodes(lay)
		for i, n := range nodes {
			v := p.Bounded("y_"+n.ID, -span, span)
			pos[n.ID] = v
			addCenterDistance(p, v)

			if i > 0 {
				prev := nodes[i-1]
				// pos[prev] + h_prev <= pos[n] - h_n/2
				p.AddConstraint([]solve.Term{{Var: pos[prev.ID], Coef: 1}, {Var: v, Coef: -1}},
					solve.LE, -prev.MaxValue-n.MaxValue/2)
			}
		}
	}

	addBendiness(p, g, pos)

	res, err := p.Solve(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeOptimization, err, "solve vertical position LP")
	}
	if res.Status != solve.StatusOptimal {
		return errors.New(errors.ErrCodeOptimization,
			"vertical position LP is %s", res.Status)
	}

	for id, v := range pos {
		n, _ := g.Node(id)
		n.Y = res.Value(v)
	}
	return nil
}

// positionSpan returns a coordinate bound no layout can exceed: stacking
// every node into one layer with full spacing still keeps each center within
// this distance of zero, since the objective anchors the diagram there.
func positionSpan(g *flow.Graph) float64 {
	span := 1.0
	for _, n := range g.Nodes() {
		span += 2*n.MaxValue + minNodeDistance
	}
	return span
}

// addCenterDistance adds an auxiliary variable bounding |y| from above and
// puts it in the objective.
func addCenterDistance(p *solve.Problem, y solve.Var) {
	a := p.NonNegative("abs_" + p.Name(y))
	p.AddConstraint([]solve.Term{{Var: y, Coef: 1}, {Var: a, Coef: -1}}, solve.LE, 0)
	p.AddConstraint([]solve.Term{{Var: y, Coef: -1}, {Var: a, Coef: -1}}, solve.LE, 0)
	p.ObjectiveCoef(a, 1)
}

// addBendiness adds one slack variable per edge bounding the absolute
// vertical offset between its endpoints, weighted into the objective.
func addBendiness(p *solve.Problem, g *flow.Graph, pos map[string]solve.Var) {
	for _, e := range g.Edges() {
		b := p.NonNegative("bend_" + e.From + "_" + e.To)
		from, to := pos[e.From], pos[e.To]
		p.AddConstraint([]solve.Term{{Var: from, Coef: 1}, {Var: to, Coef: -1}, {Var: b, Coef: -1}},
			solve.LE, 0)
		p.AddConstraint([]solve.Term{{Var: to, Coef: 1}, {Var: from, Coef: -1}, {Var: b, Coef: -1}},
			solve.LE, 0)
		p.ObjectiveCoef(b, lambdaBendiness)
	}
}
