package transform

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/flowline/pkg/errors"
	"github.com/matzehuels/flowline/pkg/flow"
	"github.com/matzehuels/flowline/pkg/flow/flowtest"
)

func chain(t *testing.T, ids ...string) *flow.Graph {
	t.Helper()
	g := flow.New()
	for _, id := range ids {
		if err := g.AddNode(flow.Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 1; i < len(ids); i++ {
		if err := g.AddEdge(flow.Edge{From: ids[i-1], To: ids[i], Value: 1}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestBreakCyclesAcyclicIsNoop(t *testing.T) {
	g := flowtest.BalancedTree(2, 2)
	edgesBefore := g.EdgeCount()

	removed, err := BreakCycles(g)
	if err != nil {
		t.Fatalf("BreakCycles() error = %v", err)
	}
	if len(removed) != 0 {
		t.Errorf("removed %d edges from acyclic graph, want 0", len(removed))
	}
	if g.EdgeCount() != edgesBefore {
		t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), edgesBefore)
	}
}

func TestBreakCyclesRemovesCheapestEdge(t *testing.T) {
	g := flowtest.TreeWithSimpleCycle()
	edgesBefore := g.EdgeCount()

	removed, err := BreakCycles(g)
	if err != nil {
		t.Fatalf("BreakCycles() error = %v", err)
	}
	if len(removed) != 1 {
		t.Fatalf("removed %d edges, want 1", len(removed))
	}
	// The backward edge 4->1 (value 5) is the cheapest edge of the cycle.
	if e := removed[0].Edge; e.From != "4" || e.To != "1" || e.Value != 5 {
		t.Errorf("removed edge = %+v, want 4->1 with value 5", removed[0].Edge)
	}

	if err := Reinsert(g, removed); err != nil {
		t.Fatalf("Reinsert() error = %v", err)
	}
	if g.EdgeCount() != edgesBefore {
		t.Errorf("EdgeCount() after round trip = %d, want %d", g.EdgeCount(), edgesBefore)
	}
	if _, ok := g.Edge("4", "1"); !ok {
		t.Error("edge 4->1 missing after Reinsert")
	}
}

func TestBreakCyclesSelfLoop(t *testing.T) {
	g := flowtest.TreeWithSelfLoop()

	removed, err := BreakCycles(g)
	if err != nil {
		t.Fatalf("BreakCycles() error = %v", err)
	}
	if len(removed) != 1 {
		t.Fatalf("removed %d edges, want 1", len(removed))
	}
	if e := removed[0].Edge; e.From != "4" || e.To != "4" {
		t.Errorf("removed edge = %+v, want self-loop on 4", removed[0].Edge)
	}
}

func TestBreakCyclesErrorCode(t *testing.T) {
	// Reinsert into a graph that already has the edge forces the failure
	// path and its error code.
	g := chain(t, "a", "b")
	err := Reinsert(g, []CycleEdge{{Edge: flow.Edge{From: "a", To: "b", Value: 1}}})
	if err == nil {
		t.Fatal("Reinsert() of existing edge should fail")
	}
	if !errors.Is(err, errors.ErrCodeCycleResolution) {
		t.Errorf("error code = %v, want CYCLE_RESOLUTION_ERROR", errors.GetCode(err))
	}
}

func TestAssignLayersRight(t *testing.T) {
	g := chain(t, "a", "b", "c")
	AssignLayers(g, AlignRight, false)

	want := map[string]int{"a": -2, "b": -1, "c": 0}
	for id, lay := range want {
		n, _ := g.Node(id)
		if n.Layer != lay {
			t.Errorf("layer(%s) = %d, want %d", id, n.Layer, lay)
		}
	}
}

func TestAssignLayersLeft(t *testing.T) {
	g := chain(t, "a", "b", "c")
	AssignLayers(g, AlignLeft, false)

	want := map[string]int{"a": 0, "b": 1, "c": 2}
	for id, lay := range want {
		n, _ := g.Node(id)
		if n.Layer != lay {
			t.Errorf("layer(%s) = %d, want %d", id, n.Layer, lay)
		}
	}
}

func TestAssignLayersJustifyPullsSourcesOut(t *testing.T) {
	// a feeds b which feeds c; d feeds c directly. Right-aligned, d sits
	// next to b; justified, d is pulled out past a to the final counter.
	g := chain(t, "a", "b", "c")
	if err := g.AddNode(flow.Node{ID: "d"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(flow.Edge{From: "d", To: "c", Value: 1}); err != nil {
		t.Fatal(err)
	}

	AssignLayers(g, AlignRight, true)

	// Peeling alone puts d next to b at layer -1 and a at -2; the final
	// counter value after the last round is -3, and both sources join it.
	a, _ := g.Node("a")
	b, _ := g.Node("b")
	d, _ := g.Node("d")
	if b.Layer != -1 {
		t.Errorf("layer(b) = %d, want -1", b.Layer)
	}
	if a.Layer != -3 || d.Layer != -3 {
		t.Errorf("source layers = a %d, d %d, want both -3", a.Layer, d.Layer)
	}
}

func TestAssignLayersDisconnectedNode(t *testing.T) {
	g := chain(t, "a", "b")
	if err := g.AddNode(flow.Node{ID: "island"}); err != nil {
		t.Fatal(err)
	}

	AssignLayers(g, AlignRight, false)

	n, _ := g.Node("island")
	if n.Layer != 0 {
		t.Errorf("layer(island) = %d, want 0", n.Layer)
	}
}

func TestInsertDummiesForwardChain(t *testing.T) {
	g := chain(t, "a", "b")
	a, _ := g.Node("a")
	b, _ := g.Node("b")
	a.Layer = 0
	b.Layer = 3
	e, _ := g.RemoveEdge("a", "b")
	e.Value = 7
	e.ColorKey = "heat"
	if err := g.AddEdge(e); err != nil {
		t.Fatal(err)
	}

	InsertDummies(g)

	if err := g.ValidateLayered(); err != nil {
		t.Fatalf("ValidateLayered() after InsertDummies error = %v", err)
	}
	if g.NodeCount() != 4 {
		t.Fatalf("NodeCount() = %d, want 4", g.NodeCount())
	}
	for _, n := range g.Nodes() {
		if n.ID == "a" || n.ID == "b" {
			continue
		}
		if !n.IsDummy() {
			t.Errorf("inserted node %q is not a dummy", n.ID)
		}
		if n.MaxValue != 7 {
			t.Errorf("dummy %q MaxValue = %v, want 7", n.ID, n.MaxValue)
		}
	}
	for _, e := range g.Edges() {
		if e.Value != 7 || e.ColorKey != "heat" {
			t.Errorf("chain edge %s->%s = value %v color %q, want 7/heat", e.From, e.To, e.Value, e.ColorKey)
		}
	}
}

func TestInsertDummiesBackwardChain(t *testing.T) {
	g := chain(t, "a", "b")
	a, _ := g.Node("a")
	b, _ := g.Node("b")
	a.Layer = 2
	b.Layer = 0

	InsertDummies(g)

	if err := g.ValidateLayered(); err != nil {
		t.Fatalf("ValidateLayered() after InsertDummies error = %v", err)
	}
	var dummy *flow.Node
	for _, n := range g.Nodes() {
		if n.IsDummy() {
			dummy = n
		}
	}
	if dummy == nil {
		t.Fatal("no dummy inserted for backward edge")
	}
	if dummy.Layer != 1 {
		t.Errorf("dummy layer = %d, want 1", dummy.Layer)
	}
}

func TestInsertDummiesAvoidsIDCollision(t *testing.T) {
	g := chain(t, "a", "b")
	a, _ := g.Node("a")
	b, _ := g.Node("b")
	a.Layer = 0
	b.Layer = 2
	if err := g.AddNode(flow.Node{ID: "a_b_dummy_1", Layer: 0}); err != nil {
		t.Fatal(err)
	}

	InsertDummies(g)

	found := false
	for _, id := range g.NodeIDs() {
		if strings.HasPrefix(id, "a_b_dummy_1__") {
			found = true
		}
	}
	if !found {
		t.Error("colliding dummy ID was not suffixed")
	}
}

func TestInitPositionsDense(t *testing.T) {
	g := flowtest.BalancedTree(2, 2)
	AssignLayers(g, AlignRight, false)
	InitPositions(g)

	for _, lay := range g.Layers() {
		var got []int
		for _, n := range g.LayerNodes(lay) {
			got = append(got, n.Position)
		}
		want := make([]int, len(got))
		for i := range want {
			want[i] = i
		}
		if !slices.Equal(got, want) {
			t.Errorf("layer %d positions = %v, want %v", lay, got, want)
		}
	}
}
