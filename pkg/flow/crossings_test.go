package flow

import "testing"

// ladder builds two adjacent layers with the given arcs, where positions
// within each layer follow the node order given.
func ladder(t *testing.T, upper, lower []string, arcs [][2]string) *Graph {
	t.Helper()
	g := New()
	for i, id := range upper {
		mustNode(t, g, Node{ID: id, Layer: 0, Position: i})
	}
	for i, id := range lower {
		mustNode(t, g, Node{ID: id, Layer: 1, Position: i})
	}
	for _, a := range arcs {
		mustEdge(t, g, Edge{From: a[0], To: a[1], Value: 1})
	}
	return g
}

func TestCountCrossings(t *testing.T) {
	cases := []struct {
		name  string
		upper []string
		lower []string
		arcs  [][2]string
		want  int
	}{
		{
			name:  "parallel edges",
			upper: []string{"u1", "u2"},
			lower: []string{"l1", "l2"},
			arcs:  [][2]string{{"u1", "l1"}, {"u2", "l2"}},
			want:  0,
		},
		{
			name:  "single cross",
			upper: []string{"u1", "u2"},
			lower: []string{"l1", "l2"},
			arcs:  [][2]string{{"u1", "l2"}, {"u2", "l1"}},
			want:  1,
		},
		{
			name:  "shared source never crosses",
			upper: []string{"u1"},
			lower: []string{"l1", "l2"},
			arcs:  [][2]string{{"u1", "l1"}, {"u1", "l2"}},
			want:  0,
		},
		{
			name:  "shared target never crosses",
			upper: []string{"u1", "u2"},
			lower: []string{"l1"},
			arcs:  [][2]string{{"u1", "l1"}, {"u2", "l1"}},
			want:  0,
		},
		{
			name:  "full bipartite three by two",
			upper: []string{"u1", "u2", "u3"},
			lower: []string{"l1", "l2"},
			arcs: [][2]string{
				{"u1", "l1"}, {"u1", "l2"},
				{"u2", "l1"}, {"u2", "l2"},
				{"u3", "l1"}, {"u3", "l2"},
			},
			want: 3,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := ladder(t, tc.upper, tc.lower, tc.arcs)
			if got := CountCrossings(g); got != tc.want {
				t.Errorf("CountCrossings() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCountCrossingsAcrossMultipleLayerPairs(t *testing.T) {
	g := New()
	for i, id := range []string{"a1", "a2"} {
		mustNode(t, g, Node{ID: id, Layer: 0, Position: i})
	}
	for i, id := range []string{"b1", "b2"} {
		mustNode(t, g, Node{ID: id, Layer: 1, Position: i})
	}
	for i, id := range []string{"c1", "c2"} {
		mustNode(t, g, Node{ID: id, Layer: 2, Position: i})
	}
	// One crossing in each gap.
	mustEdge(t, g, Edge{From: "a1", To: "b2", Value: 1})
	mustEdge(t, g, Edge{From: "a2", To: "b1", Value: 1})
	mustEdge(t, g, Edge{From: "b1", To: "c2", Value: 1})
	mustEdge(t, g, Edge{From: "b2", To: "c1", Value: 1})

	if got := CountCrossings(g); got != 2 {
		t.Errorf("CountCrossings() = %d, want 2", got)
	}
}
