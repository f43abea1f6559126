package pipeline

import (
	"context"
	"math"
	"testing"

	"github.com/matzehuels/flowline/pkg/errors"
	"github.com/matzehuels/flowline/pkg/flow"
	"github.com/matzehuels/flowline/pkg/flow/flowtest"
	"github.com/matzehuels/flowline/pkg/flow/transform"
)

func mustNode(t *testing.T, g *flow.Graph, id string) {
	t.Helper()
	if err := g.AddNode(flow.Node{ID: id}); err != nil {
		t.Fatalf("AddNode(%q): %v", id, err)
	}
}

func mustEdge(t *testing.T, g *flow.Graph, from, to string, value float64) {
	t.Helper()
	if err := g.AddEdge(flow.Edge{From: from, To: to, Value: value}); err != nil {
		t.Fatalf("AddEdge(%q, %q): %v", from, to, err)
	}
}

func node(t *testing.T, g *flow.Graph, id string) *flow.Node {
	t.Helper()
	n, ok := g.Node(id)
	if !ok {
		t.Fatalf("node %q missing", id)
	}
	return n
}

func TestExecuteBalancedTree(t *testing.T) {
	input := flowtest.BalancedTree(2, 3)
	r := NewRunner(nil)

	res, err := r.Execute(context.Background(), input, DefaultConfig())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Diagram == nil {
		t.Fatal("expected a diagram")
	}
	if res.Stats.NodeCount != input.NodeCount() {
		t.Errorf("NodeCount = %d, want %d", res.Stats.NodeCount, input.NodeCount())
	}
	if res.Stats.EdgeCount != input.EdgeCount() {
		t.Errorf("EdgeCount = %d, want %d", res.Stats.EdgeCount, input.EdgeCount())
	}
	if got := len(res.Stats.StageDurations); got != 5 {
		t.Errorf("stage durations = %d, want 5", got)
	}
	if res.Stats.Sweeps < DefaultSweepMin {
		t.Errorf("Sweeps = %d, want at least %d", res.Stats.Sweeps, DefaultSweepMin)
	}

	// The input is never mutated; layout happens on a clone.
	for _, n := range input.Nodes() {
		if n.Layer != 0 || n.Y != 0 {
			t.Errorf("input node %q mutated: layer %d, y %v", n.ID, n.Layer, n.Y)
		}
	}
}

func TestExecuteMaxValueInvariant(t *testing.T) {
	res, err := NewRunner(nil).Execute(context.Background(), flowtest.TreeWithCrossEdge(3), DefaultConfig())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, n := range res.Graph.Nodes() {
		want := math.Max(n.InValue, n.OutValue)
		if n.MaxValue != want {
			t.Errorf("node %q: MaxValue = %v, want %v", n.ID, n.MaxValue, want)
		}
	}
}

func TestExecuteReportsImbalance(t *testing.T) {
	g := flow.New()
	mustNode(t, g, "a")
	mustNode(t, g, "b")
	mustNode(t, g, "c")
	mustEdge(t, g, "a", "b", 10)
	mustEdge(t, g, "b", "c", 4)

	res, err := NewRunner(nil).Execute(context.Background(), g, DefaultConfig())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Stats.Imbalanced) != 1 || res.Stats.Imbalanced[0] != "b" {
		t.Errorf("Imbalanced = %v, want [b]", res.Stats.Imbalanced)
	}
}

func TestExecuteCycleRoundTrip(t *testing.T) {
	input := flowtest.TreeWithSimpleCycle()
	res, err := NewRunner(nil).Execute(context.Background(), input, DefaultConfig())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.CyclesBroken != 1 {
		t.Errorf("CyclesBroken = %d, want 1", res.Stats.CyclesBroken)
	}

	// Edges removed during cycle resolution come back, so every input edge
	// is present in the output (dummy chains may split some of them).
	for _, e := range input.Edges() {
		from := node(t, res.Graph, e.From)
		to := node(t, res.Graph, e.To)
		if from.OutValue == 0 {
			t.Errorf("node %q lost its outgoing flow", e.From)
		}
		if to.InValue == 0 {
			t.Errorf("node %q lost its incoming flow", e.To)
		}
	}
}

func TestExecuteJustifyPullsSourcesOut(t *testing.T) {
	g := flow.New()
	for _, id := range []string{"a", "b", "c", "d"} {
		mustNode(t, g, id)
	}
	mustEdge(t, g, "a", "b", 1)
	mustEdge(t, g, "b", "c", 1)
	mustEdge(t, g, "d", "c", 1)

	cfg := DefaultConfig()
	cfg.Align = transform.AlignRight
	cfg.Justify = true

	res, err := NewRunner(nil).Execute(context.Background(), g, cfg)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	a := node(t, res.Graph, "a")
	d := node(t, res.Graph, "d")
	if a.Layer != d.Layer {
		t.Errorf("justified sources differ: a at %d, d at %d", a.Layer, d.Layer)
	}
}

func TestExecuteSelfLoop(t *testing.T) {
	res, err := NewRunner(nil).Execute(context.Background(), flowtest.TreeWithSelfLoop(), DefaultConfig())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Diagram == nil {
		t.Fatal("expected a diagram")
	}
}

func TestExecuteLPMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Positioning = ModeLP

	res, err := NewRunner(nil).Execute(context.Background(), flowtest.BalancedTree(2, 2), cfg)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Diagram == nil {
		t.Fatal("expected a diagram")
	}
	if res.Stats.Sweeps == 0 {
		t.Error("lp mode should run crossing reduction first")
	}
}

func TestExecuteMILPMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Positioning = ModeMILP

	res, err := NewRunner(nil).Execute(context.Background(), flowtest.TreeWithCrossEdge(2), cfg)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.CrossingsAfter != 0 {
		t.Errorf("CrossingsAfter = %d, want 0", res.Stats.CrossingsAfter)
	}
}

func TestExecuteUnknownMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Positioning = Mode("newton")

	_, err := NewRunner(nil).Execute(context.Background(), flowtest.BalancedTree(2, 2), cfg)
	if !errors.Is(err, errors.ErrCodeLayout) {
		t.Fatalf("expected LAYOUT_ERROR, got %v", err)
	}
}

func TestExecuteEmptyGraph(t *testing.T) {
	_, err := NewRunner(nil).Execute(context.Background(), flow.New(), DefaultConfig())
	if !errors.Is(err, errors.ErrCodeGeometry) {
		t.Fatalf("expected GEOMETRY_ERROR, got %v", err)
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil).Execute(ctx, flowtest.BalancedTree(2, 2), DefaultConfig())
	if err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := Config{SweepMin: 5, SweepMax: 2}
	if err := cfg.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeLayout) {
		t.Errorf("inverted sweep bounds: got %v, want LAYOUT_ERROR", err)
	}

	cfg = Config{}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero config: %v", err)
	}
	if cfg.Positioning != ModeBarycenter {
		t.Errorf("Positioning = %q, want %q", cfg.Positioning, ModeBarycenter)
	}
	if cfg.Align != transform.AlignRight {
		t.Errorf("Align = %q, want %q", cfg.Align, transform.AlignRight)
	}
}
