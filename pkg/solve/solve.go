// Package solve is the boundary to the numeric optimization collaborator.
//
// A [Problem] collects named continuous and binary variables, linear
// constraints and a linear minimization objective. Variables are identified
// by integer indices handed out by the problem, so callers never build
// solver-specific identifier strings. [Problem.Solve] returns a [Status] of
// optimal, infeasible or unbounded and, when optimal, one value per
// variable.
//
// The continuous relaxation is delegated to the simplex implementation in
// gonum (optimize/convex/lp); binary variables are resolved by
// branch-and-bound over that relaxation. Solving blocks until done or until
// the context is cancelled; callers needing bounded latency wrap the call
// with a deadline.
package solve

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/matzehuels/flowline/pkg/observability"
)

// Status is the outcome class of a solve.
type Status int

const (
	// StatusOptimal means an optimal assignment was found.
	StatusOptimal Status = iota
	// StatusInfeasible means no assignment satisfies the constraints.
	StatusInfeasible
	// StatusUnbounded means the objective can decrease without bound.
	StatusUnbounded
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Var is the index of a variable within its problem.
type Var int

// Term is one coefficient·variable product of a linear expression.
type Term struct {
	Var  Var
	Coef float64
}

// Sense is the comparison direction of a constraint.
type Sense int

const (
	// LE constrains the expression to be at most the right-hand side.
	LE Sense = iota
	// GE constrains the expression to be at least the right-hand side.
	GE
	// EQ constrains the expression to equal the right-hand side.
	EQ
)

// Constraint is a linear (in)equality over problem variables.
type Constraint struct {
	Terms []Term
	Sense Sense
	RHS   float64
}

// Problem accumulates variables, constraints and the objective of one
// linear or mixed-integer program. The zero value is ready to use.
//
// Continuous variables are free (unbounded in both directions); bounded and
// non-negative variables carry box constraints handled by the standard-form
// conversion; binary variables take values in {0,1}.
type Problem struct {
	// Label identifies the program in solver hooks and diagnostics.
	Label string

	names     []string
	binary    []bool
	lower     []float64
	upper     []float64
	objective map[Var]float64
	cons      []Constraint
}

// NewProblem returns an empty problem.
func NewProblem() *Problem {
	return &Problem{objective: make(map[Var]float64)}
}

func (p *Problem) addVar(name string, lo, hi float64, bin bool) Var {
	p.names = append(p.names, name)
	p.binary = append(p.binary, bin)
	p.lower = append(p.lower, lo)
	p.upper = append(p.upper, hi)
	return Var(len(p.names) - 1)
}

// Continuous adds a free continuous variable and returns its index.
// The name is used in diagnostics only.
//
// Free variables are split into two columns in standard form, which degrades
// the simplex basis on larger programs. Prefer [Problem.Bounded] or
// [Problem.NonNegative] whenever the variable has a structural range.
func (p *Problem) Continuous(name string) Var {
	return p.addVar(name, math.Inf(-1), math.Inf(1), false)
}

// NonNegative adds a continuous variable constrained to values >= 0.
func (p *Problem) NonNegative(name string) Var {
	return p.addVar(name, 0, math.Inf(1), false)
}

// Bounded adds a continuous variable constrained to [lo, hi].
func (p *Problem) Bounded(name string, lo, hi float64) Var {
	return p.addVar(name, lo, hi, false)
}

// Binary adds a {0,1} variable and returns its index.
func (p *Problem) Binary(name string) Var {
	return p.addVar(name, 0, 1, true)
}

// NumVars returns the number of variables added so far.
func (p *Problem) NumVars() int { return len(p.names) }

// Name returns the diagnostic name of a variable.
func (p *Problem) Name(v Var) string { return p.names[v] }

// AddConstraint appends a linear constraint.
func (p *Problem) AddConstraint(terms []Term, sense Sense, rhs float64) {
	p.cons = append(p.cons, Constraint{Terms: terms, Sense: sense, RHS: rhs})
}

// ObjectiveCoef adds c to the objective coefficient of v. The objective is
// always minimized.
func (p *Problem) ObjectiveCoef(v Var, c float64) {
	p.objective[v] += c
}

// Result is the outcome of a solve. Values holds one entry per variable
// and is only meaningful when Status is StatusOptimal.
type Result struct {
	Status    Status
	Values    []float64
	Objective float64
}

// Value returns the solved value of v.
func (r Result) Value(v Var) float64 { return r.Values[v] }

const intTol = 1e-6

// Solve runs the program to completion. Infeasible and unbounded outcomes
// are reported through Result.Status with a nil error; the error return is
// reserved for cancellation and numeric failures inside the simplex.
func (p *Problem) Solve(ctx context.Context) (Result, error) {
	hooks := observability.Solver()
	hooks.OnSolveStart(ctx, p.Label, p.NumVars(), len(p.cons))
	start := time.Now()
	res, err := p.solve(ctx)
	hooks.OnSolveComplete(ctx, p.Label, res.Status.String(), time.Since(start), err)
	return res, err
}

func (p *Problem) solve(ctx context.Context) (Result, error) {
	var binaries []Var
	for v, isBin := range p.binary {
		if isBin {
			binaries = append(binaries, Var(v))
		}
	}

	root, err := p.solveRelaxation(nil)
	if err != nil {
		return Result{}, err
	}
	if root.Status != StatusOptimal || len(binaries) == 0 {
		return root, nil
	}

	return p.branchAndBound(ctx, binaries, root)
}

// fixing pins one binary variable to a value during branch-and-bound.
type fixing struct {
	v   Var
	val float64
}

// branchAndBound resolves the binary variables by depth-first search over
// LP relaxations, pruning nodes that cannot beat the incumbent. The search
// is exhaustive, so the result is a global optimum; runtime grows
// combinatorially with the number of fractional binaries.
func (p *Problem) branchAndBound(ctx context.Context, binaries []Var, root Result) (Result, error) {
	best := Result{Status: StatusInfeasible}
	haveBest := false

	type node struct {
		fixed []fixing
	}
	stack := []node{{}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		relax, err := p.solveRelaxation(cur.fixed)
		if err != nil {
			return Result{}, err
		}
		if relax.Status == StatusUnbounded {
			// A bounded root cannot become unbounded by fixing variables,
			// but surface it rather than mask a numeric failure.
			return relax, nil
		}
		if relax.Status == StatusInfeasible {
			continue
		}
		if haveBest && relax.Objective >= best.Objective-intTol {
			continue
		}

		branch, fractional := mostFractional(relax, binaries)
		if !fractional {
			rounded := relax
			rounded.Values = append([]float64(nil), relax.Values...)
			for _, v := range binaries {
				rounded.Values[v] = math.Round(rounded.Values[v])
			}
			best = rounded
			haveBest = true
			continue
		}

		// Explore the 1-branch first: crossing and ordering binaries tend
		// to sit at 1 in tight layouts, which finds incumbents early.
		stack = append(stack,
			node{fixed: append(append([]fixing(nil), cur.fixed...), fixing{branch, 0})},
			node{fixed: append(append([]fixing(nil), cur.fixed...), fixing{branch, 1})},
		)
	}

	if !haveBest {
		return Result{Status: StatusInfeasible}, nil
	}
	return best, nil
}

func mostFractional(r Result, binaries []Var) (Var, bool) {
	bestVar := Var(-1)
	bestDist := intTol
	for _, v := range binaries {
		dist := math.Abs(r.Values[v] - math.Round(r.Values[v]))
		if dist > bestDist {
			bestDist = dist
			bestVar = v
		}
	}
	return bestVar, bestVar >= 0
}

// solveRelaxation solves the continuous relaxation under the given binary
// fixings by converting to simplex standard form (minimize cᵀx subject to
// Ax = b, x ≥ 0):
//
//   - variables with a finite lower bound become one shifted non-negative
//     column; a finite upper bound adds an inequality row
//   - free variables are split into a positive and a negative part
//   - inequality rows gain a slack or surplus column
//
// The split colPos/colNeg column pairs are exactly anti-parallel, which can
// make the phase-1 basis singular on larger programs. That is why the layout
// formulations declare bounded variables throughout.
func (p *Problem) solveRelaxation(fixed []fixing) (Result, error) {
	nv := len(p.names)

	colPos := make([]int, nv)
	colNeg := make([]int, nv)
	cols := 0
	for v := 0; v < nv; v++ {
		if math.IsInf(p.lower[v], -1) {
			colPos[v] = cols
			colNeg[v] = cols + 1
			cols += 2
		} else {
			colPos[v] = cols
			colNeg[v] = -1
			cols++
		}
	}

	fixedVal := make(map[Var]float64, len(fixed))
	for _, f := range fixed {
		fixedVal[f.v] = f.val
	}

	type row struct {
		coefs map[int]float64
		rhs   float64
		sense Sense
	}
	var rows []row

	addRow := func(terms []Term, sense Sense, rhs float64) {
		r := row{coefs: make(map[int]float64, len(terms)), rhs: rhs, sense: sense}
		for _, t := range terms {
			r.coefs[colPos[t.Var]] += t.Coef
			if colNeg[t.Var] >= 0 {
				r.coefs[colNeg[t.Var]] -= t.Coef
			} else {
				// Shifted column: x = lower + x'.
				r.rhs -= t.Coef * p.lower[t.Var]
			}
		}
		rows = append(rows, r)
	}

	for _, c := range p.cons {
		addRow(c.Terms, c.Sense, c.RHS)
	}
	for v := 0; v < nv; v++ {
		if val, ok := fixedVal[Var(v)]; ok {
			addRow([]Term{{Var(v), 1}}, EQ, val)
			continue
		}
		if !math.IsInf(p.upper[v], 1) {
			addRow([]Term{{Var(v), 1}}, LE, p.upper[v])
		}
	}

	// Slack / surplus columns for inequality rows.
	slackCol := make([]int, len(rows))
	for i := range rows {
		switch rows[i].sense {
		case LE, GE:
			slackCol[i] = cols
			cols++
		default:
			slackCol[i] = -1
		}
	}

	a := mat.NewDense(len(rows), cols, nil)
	b := make([]float64, len(rows))
	for i, r := range rows {
		for col, coef := range r.coefs {
			a.Set(i, col, coef)
		}
		switch r.sense {
		case LE:
			a.Set(i, slackCol[i], 1)
		case GE:
			a.Set(i, slackCol[i], -1)
		}
		b[i] = r.rhs
	}

	c := make([]float64, cols)
	objOffset := 0.0
	for v, coef := range p.objective {
		c[colPos[v]] += coef
		if colNeg[v] >= 0 {
			c[colNeg[v]] -= coef
		} else {
			objOffset += coef * p.lower[v]
		}
	}

	opt, x, err := lp.Simplex(c, a, b, 0, nil)
	switch {
	case err == nil:
	case isInfeasible(err):
		return Result{Status: StatusInfeasible}, nil
	case isUnbounded(err):
		return Result{Status: StatusUnbounded}, nil
	default:
		return Result{}, fmt.Errorf("simplex: %w", err)
	}

	values := make([]float64, nv)
	for v := 0; v < nv; v++ {
		if colNeg[v] >= 0 {
			values[v] = x[colPos[v]] - x[colNeg[v]]
		} else {
			values[v] = p.lower[v] + x[colPos[v]]
		}
	}
	return Result{Status: StatusOptimal, Values: values, Objective: opt + objOffset}, nil
}

func isInfeasible(err error) bool {
	return err == lp.ErrInfeasible
}

func isUnbounded(err error) bool {
	return err == lp.ErrUnbounded
}
