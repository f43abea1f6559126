package flow

import (
	"errors"
	"slices"
	"testing"
)

func mustNode(t *testing.T, g *Graph, n Node) {
	t.Helper()
	if err := g.AddNode(n); err != nil {
		t.Fatalf("AddNode(%q) error = %v", n.ID, err)
	}
}

func mustEdge(t *testing.T, g *Graph, e Edge) {
	t.Helper()
	if err := g.AddEdge(e); err != nil {
		t.Fatalf("AddEdge(%s->%s) error = %v", e.From, e.To, err)
	}
}

func TestAddNodeErrors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) error = %v, want ErrInvalidNodeID", err)
	}
	mustNode(t, g, Node{ID: "a"})
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(duplicate) error = %v, want ErrDuplicateNodeID", err)
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := New()
	mustNode(t, g, Node{ID: "a"})
	mustNode(t, g, Node{ID: "b"})

	cases := []struct {
		name string
		edge Edge
		want error
	}{
		{"unknown source", Edge{From: "x", To: "b", Value: 1}, ErrUnknownSourceNode},
		{"unknown target", Edge{From: "a", To: "x", Value: 1}, ErrUnknownTargetNode},
		{"zero value", Edge{From: "a", To: "b"}, ErrMissingEdgeValue},
		{"negative value", Edge{From: "a", To: "b", Value: -2}, ErrMissingEdgeValue},
	}
	for _, tc := range cases {
		if err := g.AddEdge(tc.edge); !errors.Is(err, tc.want) {
			t.Errorf("%s: AddEdge() error = %v, want %v", tc.name, err, tc.want)
		}
	}

	mustEdge(t, g, Edge{From: "a", To: "b", Value: 1})
	if err := g.AddEdge(Edge{From: "a", To: "b", Value: 2}); !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("AddEdge(parallel) error = %v, want ErrDuplicateEdge", err)
	}
}

func TestRemoveEdgeReturnsAttributes(t *testing.T) {
	g := New()
	mustNode(t, g, Node{ID: "a"})
	mustNode(t, g, Node{ID: "b"})
	mustEdge(t, g, Edge{From: "a", To: "b", Value: 3, ColorKey: "steel"})

	e, ok := g.RemoveEdge("a", "b")
	if !ok {
		t.Fatal("RemoveEdge() did not find the edge")
	}
	if e.Value != 3 || e.ColorKey != "steel" {
		t.Errorf("removed edge = %+v, want value 3 and color key steel", e)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d after removal, want 0", g.EdgeCount())
	}
	if g.OutDegree("a") != 0 || g.InDegree("b") != 0 {
		t.Error("adjacency not cleaned up after RemoveEdge")
	}
	if _, ok := g.RemoveEdge("a", "b"); ok {
		t.Error("RemoveEdge() on missing edge reported true")
	}
}

func TestRemoveNodeDropsIncidentEdges(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		mustNode(t, g, Node{ID: id})
	}
	mustEdge(t, g, Edge{From: "a", To: "b", Value: 1})
	mustEdge(t, g, Edge{From: "b", To: "c", Value: 1})

	g.RemoveNode("b")

	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
	if g.OutDegree("a") != 0 {
		t.Errorf("OutDegree(a) = %d, want 0", g.OutDegree("a"))
	}
	if g.InDegree("c") != 0 {
		t.Errorf("InDegree(c) = %d, want 0", g.InDegree("c"))
	}
}

func TestSourcesAndSinks(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		mustNode(t, g, Node{ID: id})
	}
	mustEdge(t, g, Edge{From: "a", To: "b", Value: 1})
	mustEdge(t, g, Edge{From: "b", To: "c", Value: 1})

	sources := g.Sources()
	if len(sources) != 1 || sources[0].ID != "a" {
		t.Errorf("Sources() = %v, want [a]", ids(sources))
	}
	sinks := g.Sinks()
	if len(sinks) != 1 || sinks[0].ID != "c" {
		t.Errorf("Sinks() = %v, want [c]", ids(sinks))
	}
}

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestCloneIsIndependent(t *testing.T) {
	g := New()
	mustNode(t, g, Node{ID: "a", Layer: 2})
	mustNode(t, g, Node{ID: "b"})
	mustEdge(t, g, Edge{From: "a", To: "b", Value: 1})

	c := g.Clone()
	cn, _ := c.Node("a")
	cn.Layer = 7
	c.RemoveNode("b")

	if n, _ := g.Node("a"); n.Layer != 2 {
		t.Errorf("original layer = %d after clone mutation, want 2", n.Layer)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("original EdgeCount() = %d after clone mutation, want 1", g.EdgeCount())
	}
}

func TestLayerNodesOrder(t *testing.T) {
	g := New()
	mustNode(t, g, Node{ID: "b", Layer: 1, Position: 0})
	mustNode(t, g, Node{ID: "a", Layer: 1, Position: 2})
	mustNode(t, g, Node{ID: "c", Layer: 1, Position: 1})
	mustNode(t, g, Node{ID: "d", Layer: 3})

	got := ids(g.LayerNodes(1))
	want := []string{"b", "c", "a"}
	if !slices.Equal(got, want) {
		t.Errorf("LayerNodes(1) = %v, want %v", got, want)
	}
	if layers := g.Layers(); !slices.Equal(layers, []int{1, 3}) {
		t.Errorf("Layers() = %v, want [1 3]", layers)
	}
}

func TestRecomputeValues(t *testing.T) {
	g := New()
	for _, id := range []string{"src", "mid", "dst"} {
		mustNode(t, g, Node{ID: id})
	}
	mustEdge(t, g, Edge{From: "src", To: "mid", Value: 10})
	mustEdge(t, g, Edge{From: "mid", To: "dst", Value: 4})

	imbalanced := g.RecomputeValues(0.05)

	mid, _ := g.Node("mid")
	if mid.InValue != 10 || mid.OutValue != 4 || mid.MaxValue != 10 {
		t.Errorf("mid values = in %v out %v max %v, want 10/4/10",
			mid.InValue, mid.OutValue, mid.MaxValue)
	}
	if !slices.Equal(imbalanced, []string{"mid"}) {
		t.Errorf("imbalanced = %v, want [mid]", imbalanced)
	}

	// Terminal nodes have one zero side and are never flagged.
	src, _ := g.Node("src")
	if src.MaxValue != 10 {
		t.Errorf("src MaxValue = %v, want 10", src.MaxValue)
	}
	for _, id := range imbalanced {
		if id == "src" || id == "dst" {
			t.Errorf("terminal node %q flagged as imbalanced", id)
		}
	}
}

func TestValidateLayered(t *testing.T) {
	g := New()
	mustNode(t, g, Node{ID: "a", Layer: 0})
	mustNode(t, g, Node{ID: "b", Layer: 2})
	mustEdge(t, g, Edge{From: "a", To: "b", Value: 1})

	if err := g.ValidateLayered(); !errors.Is(err, ErrNonAdjacentLayers) {
		t.Errorf("ValidateLayered() error = %v, want ErrNonAdjacentLayers", err)
	}

	// Self-loops are exempt from the adjacency rule.
	h := New()
	mustNode(t, h, Node{ID: "a", Layer: 0})
	mustEdge(t, h, Edge{From: "a", To: "a", Value: 1})
	if err := h.ValidateLayered(); err != nil {
		t.Errorf("ValidateLayered() with self-loop error = %v", err)
	}
}
