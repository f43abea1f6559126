package solve

import (
	"context"
	"math"
	"testing"
)

func TestSolveSimpleLP(t *testing.T) {
	p := NewProblem()
	x := p.Continuous("x")
	p.AddConstraint([]Term{{x, 1}}, GE, 3)
	p.ObjectiveCoef(x, 1)

	res, err := p.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("Status = %v, want optimal", res.Status)
	}
	if math.Abs(res.Value(x)-3) > 1e-6 {
		t.Errorf("x = %v, want 3", res.Value(x))
	}
}

func TestSolveFreeVariableGoesNegative(t *testing.T) {
	p := NewProblem()
	x := p.Continuous("x")
	p.AddConstraint([]Term{{x, 1}}, GE, -5)
	p.ObjectiveCoef(x, 1)

	res, err := p.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if math.Abs(res.Value(x)-(-5)) > 1e-6 {
		t.Errorf("x = %v, want -5", res.Value(x))
	}
}

func TestSolveNonNegativeVariable(t *testing.T) {
	// Without the implicit lower bound this objective has no minimum.
	p := NewProblem()
	x := p.NonNegative("x")
	p.AddConstraint([]Term{{x, 1}}, LE, 10)
	p.ObjectiveCoef(x, 1)

	res, err := p.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("Status = %v, want optimal", res.Status)
	}
	if res.Value(x) != 0 {
		t.Errorf("x = %v, want 0", res.Value(x))
	}
}

func TestSolveBoundedVariable(t *testing.T) {
	p := NewProblem()
	x := p.Bounded("x", -8, 8)
	p.ObjectiveCoef(x, 1)

	res, err := p.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("Status = %v, want optimal", res.Status)
	}
	if math.Abs(res.Value(x)-(-8)) > 1e-6 {
		t.Errorf("x = %v, want -8", res.Value(x))
	}
	if math.Abs(res.Objective-(-8)) > 1e-6 {
		t.Errorf("Objective = %v, want -8", res.Objective)
	}
}

func TestSolveOrderingDisjunctions(t *testing.T) {
	// Three bounded positions ordered pairwise through big-M disjunctions,
	// the same structure the vertical positioning programs emit. The
	// objective pulls every position toward zero via non-negative
	// magnitude variables.
	const (
		bigM = 1000.0
		gap  = 10.0
	)
	p := NewProblem()
	var ys, abs [3]Var
	for i := range ys {
		ys[i] = p.Bounded("y", -100, 100)
		abs[i] = p.NonNegative("abs")
		p.AddConstraint([]Term{{ys[i], 1}, {abs[i], -1}}, LE, 0)
		p.AddConstraint([]Term{{ys[i], -1}, {abs[i], -1}}, LE, 0)
		p.ObjectiveCoef(abs[i], 1)
	}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			b := p.Binary("above")
			p.AddConstraint([]Term{{ys[i], 1}, {ys[j], -1}, {b, -bigM}}, GE, gap-bigM)
			p.AddConstraint([]Term{{ys[j], 1}, {ys[i], -1}, {b, bigM}}, GE, gap)
		}
	}

	res, err := p.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("Status = %v, want optimal", res.Status)
	}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if dist := math.Abs(res.Value(ys[i]) - res.Value(ys[j])); dist < gap-1e-6 {
				t.Errorf("|y%d - y%d| = %v, want >= %v", i, j, dist, gap)
			}
		}
	}
	if math.Abs(res.Objective-2*gap) > 1e-6 {
		t.Errorf("Objective = %v, want %v", res.Objective, 2*gap)
	}
}

func TestSolveInfeasible(t *testing.T) {
	p := NewProblem()
	x := p.Continuous("x")
	p.AddConstraint([]Term{{x, 1}}, GE, 3)
	p.AddConstraint([]Term{{x, 1}}, LE, 1)
	p.ObjectiveCoef(x, 1)

	res, err := p.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if res.Status != StatusInfeasible {
		t.Errorf("Status = %v, want infeasible", res.Status)
	}
}

func TestSolveUnbounded(t *testing.T) {
	p := NewProblem()
	x := p.Continuous("x")
	p.AddConstraint([]Term{{x, 1}}, LE, 10)
	p.ObjectiveCoef(x, 1)

	res, err := p.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if res.Status != StatusUnbounded {
		t.Errorf("Status = %v, want unbounded", res.Status)
	}
}

func TestSolveBinaryCover(t *testing.T) {
	// Pick the cheapest subset of binaries covering the single constraint.
	p := NewProblem()
	a := p.Binary("a")
	b := p.Binary("b")
	p.AddConstraint([]Term{{a, 1}, {b, 1}}, GE, 1)
	p.ObjectiveCoef(a, 1)
	p.ObjectiveCoef(b, 3)

	res, err := p.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("Status = %v, want optimal", res.Status)
	}
	if res.Value(a) != 1 || res.Value(b) != 0 {
		t.Errorf("(a, b) = (%v, %v), want (1, 0)", res.Value(a), res.Value(b))
	}
	if math.Abs(res.Objective-1) > 1e-6 {
		t.Errorf("Objective = %v, want 1", res.Objective)
	}
}

func TestSolveMixedIntegerCoupling(t *testing.T) {
	// y must reach 4 whenever the binary is switched on, and the constraint
	// y >= 4b with b forced to 1 makes the relaxation integral only at b=1.
	p := NewProblem()
	b := p.Binary("b")
	y := p.Continuous("y")
	p.AddConstraint([]Term{{y, 1}, {b, -4}}, GE, 0)
	p.AddConstraint([]Term{{b, 1}}, GE, 1)
	p.ObjectiveCoef(y, 1)

	res, err := p.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("Status = %v, want optimal", res.Status)
	}
	if res.Value(b) != 1 {
		t.Errorf("b = %v, want 1", res.Value(b))
	}
	if math.Abs(res.Value(y)-4) > 1e-6 {
		t.Errorf("y = %v, want 4", res.Value(y))
	}
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProblem()
	a := p.Binary("a")
	b := p.Binary("b")
	p.AddConstraint([]Term{{a, 1}, {b, 1}}, GE, 1)
	p.ObjectiveCoef(a, 1)
	p.ObjectiveCoef(b, 1)

	if _, err := p.Solve(ctx); err == nil {
		t.Error("Solve() with cancelled context should fail")
	}
}
