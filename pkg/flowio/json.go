package flowio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/flowline/pkg/flow"
)

type graph struct {
	Nodes []node `json:"nodes,omitempty"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID string `json:"id"`
}

type edge struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// ReadJSON decodes a JSON graph from r.
//
// Edge endpoints that are not listed under "nodes" are created implicitly.
// ReadJSON returns an error if the JSON is malformed, a node ID is
// duplicated, or an edge is invalid (missing value, duplicate pair).
//
// The returned graph is independent of r and can be modified safely after
// ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*flow.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := flow.New()
	for _, n := range data.Nodes {
		if err := g.AddNode(flow.Node{ID: n.ID}); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := addEdge(g, e.From, e.To, e.Value, e.Color); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// addEdge inserts an edge, creating missing endpoints first.
func addEdge(g *flow.Graph, from, to string, value float64, color string) error {
	for _, id := range []string{from, to} {
		if _, ok := g.Node(id); ok {
			continue
		}
		if err := g.AddNode(flow.Node{ID: id}); err != nil {
			return fmt.Errorf("node %s: %w", id, err)
		}
	}
	if err := g.AddEdge(flow.Edge{From: from, To: to, Value: value, ColorKey: color}); err != nil {
		return fmt.Errorf("edge %s->%s: %w", from, to, err)
	}
	return nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*flow.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return g, nil
}

// WriteJSON encodes a graph as JSON and writes it to w. Only nodes without
// edges appear in the "nodes" array; everything else is implied by "edges".
// The output can be re-imported with [ReadJSON].
func WriteJSON(g *flow.Graph, w io.Writer) error {
	out := graph{Edges: make([]edge, 0, g.EdgeCount())}

	for _, id := range g.NodeIDs() {
		if g.InDegree(id) == 0 && g.OutDegree(id) == 0 {
			out.Nodes = append(out.Nodes, node{ID: id})
		}
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To, Value: e.Value, Color: e.ColorKey})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *flow.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
