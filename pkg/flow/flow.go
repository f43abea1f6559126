package flow

import (
	"cmp"
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when an edge between
	// the same pair of nodes already exists. Flow graphs are multigraph-free;
	// parallel flows must be summed before insertion.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrMissingEdgeValue is returned by [Graph.AddEdge] and [Graph.Validate]
	// for edges without a positive flow value. Every edge carries the flow
	// quantity it transports.
	ErrMissingEdgeValue = errors.New("edge has no value")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrNonAdjacentLayers is returned by [Graph.Validate] when an edge spans
	// more than one layer step. [transform.InsertDummies] establishes the
	// single-step property before geometry is built.
	ErrNonAdjacentLayers = errors.New("edges must connect adjacent layers")
)

// NodeKind distinguishes original flow nodes from synthetic nodes created
// during edge subdivision.
type NodeKind int

const (
	// NodeKindRegular represents an original node from flow data.
	NodeKindRegular NodeKind = iota
	// NodeKindDummy represents a synthetic pass-through node inserted to
	// subdivide an edge spanning more than one layer. Dummies have zero
	// drawn width and carry no label.
	NodeKindDummy
)

// Node is a vertex of the flow graph together with the attributes the layout
// pipeline computes for it.
//
// Layer is an ordering key only: it may be negative (right-aligned layer
// assignment counts downward) and must never be assumed to start at zero.
// Position is the dense ordinal of the node within its layer; it is unique
// per layer once [transform.InitPositions] has run. Y is the continuous
// vertical coordinate produced by positioning, and YIn is a cursor consumed
// by the geometry pass only.
type Node struct {
	ID    string
	Layer int
	Kind  NodeKind

	Position int     // dense ordinal within the layer
	Y        float64 // continuous vertical coordinate
	YIn      float64 // absorption cursor, geometry pass only

	InValue  float64
	OutValue float64
	MaxValue float64
}

// IsDummy reports whether the node was inserted to subdivide a long edge.
func (n *Node) IsDummy() bool { return n.Kind == NodeKindDummy }

// Height returns the drawn height of the node, which equals the larger of
// its inflow and outflow totals.
func (n *Node) Height() float64 { return n.MaxValue }

// Edge is a directed flow between two nodes. Value is the flow quantity and
// determines the drawn band thickness. ColorKey optionally classifies the
// flow for color resolution; the empty string means unclassified.
type Edge struct {
	From     string
	To       string
	Value    float64
	ColorKey string
}

// Graph is a directed, edge-weighted flow graph indexed for layered layout.
// Nodes are identified by opaque string keys and bucketed by layer.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// use; the pipeline owns its working graph exclusively for one layout run.
type Graph struct {
	nodes    map[string]*Node
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty flow graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node to the graph. Returns ErrInvalidNodeID if the ID is
// empty, or ErrDuplicateNodeID if a node with the same ID already exists.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	g.nodes[node.ID] = node
	return nil
}

// AddEdge adds a directed edge between two existing nodes. The edge must
// carry a positive value; see ErrMissingEdgeValue. At most one edge may
// exist per ordered node pair.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.Value <= 0 {
		return ErrMissingEdgeValue
	}
	if slices.Contains(g.outgoing[e.From], e.To) {
		return ErrDuplicateEdge
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the edge from→to if it exists and returns it.
// The second return value reports whether an edge was removed.
func (g *Graph) RemoveEdge(from, to string) (Edge, bool) {
	idx := slices.IndexFunc(g.edges, func(e Edge) bool { return e.From == from && e.To == to })
	if idx < 0 {
		return Edge{}, false
	}
	removed := g.edges[idx]
	g.edges = slices.Delete(g.edges, idx, idx+1)
	g.outgoing[from] = slices.DeleteFunc(g.outgoing[from], func(s string) bool { return s == to })
	g.incoming[to] = slices.DeleteFunc(g.incoming[to], func(s string) bool { return s == from })
	return removed, true
}

// RemoveNode removes a node and all edges incident to it.
// Removing a missing node is a no-op.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return e.From == id || e.To == id })
	for _, to := range g.outgoing[id] {
		g.incoming[to] = slices.DeleteFunc(g.incoming[to], func(s string) bool { return s == id })
	}
	for _, from := range g.incoming[id] {
		g.outgoing[from] = slices.DeleteFunc(g.outgoing[from], func(s string) bool { return s == id })
	}
	delete(g.outgoing, id)
	delete(g.incoming, id)
	delete(g.nodes, id)
}

// Node returns the node with the given ID and true, or nil and false.
// The pointer refers to the node stored in the graph, so attribute updates
// made by pipeline stages are visible through it.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns the edge from→to and true, or a zero edge and false.
func (g *Graph) Edge(from, to string) (Edge, bool) {
	for _, e := range g.edges {
		if e.From == from && e.To == to {
			return e, true
		}
	}
	return Edge{}, false
}

// Nodes returns all nodes in the graph. The order is not guaranteed.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	return nodes
}

// NodeIDs returns all node identifiers in lexicographic order.
func (g *Graph) NodeIDs() []string {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Successors returns the IDs of nodes this node has edges to.
// The returned slice is a read-only view.
func (g *Graph) Successors(id string) []string { return g.outgoing[id] }

// Predecessors returns the IDs of nodes with edges to this node.
// The returned slice is a read-only view.
func (g *Graph) Predecessors(id string) []string { return g.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Sources returns all nodes with no incoming edges, in unspecified order.
func (g *Graph) Sources() []*Node {
	var sources []*Node
	for _, n := range g.nodes {
		if len(g.incoming[n.ID]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Sinks returns all nodes with no outgoing edges, in unspecified order.
func (g *Graph) Sinks() []*Node {
	var sinks []*Node
	for _, n := range g.nodes {
		if len(g.outgoing[n.ID]) == 0 {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// Clone returns a deep copy of the graph. Node attribute updates on the
// clone do not affect the original.
func (g *Graph) Clone() *Graph {
	c := New()
	for id, n := range g.nodes {
		cp := *n
		c.nodes[id] = &cp
	}
	c.edges = slices.Clone(g.edges)
	for id, out := range g.outgoing {
		c.outgoing[id] = slices.Clone(out)
	}
	for id, in := range g.incoming {
		c.incoming[id] = slices.Clone(in)
	}
	return c
}

// Layers returns the distinct layer values present in the graph, ascending.
// Layer values may be negative; only their relative order matters.
func (g *Graph) Layers() []int {
	seen := make(map[int]struct{})
	for _, n := range g.nodes {
		seen[n.Layer] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// LayerNodes returns the nodes of one layer sorted by vertical position,
// breaking ties by ID. Before positions are initialized all nodes share
// position zero and the result is ID-ordered.
func (g *Graph) LayerNodes(layer int) []*Node {
	var nodes []*Node
	for _, n := range g.nodes {
		if n.Layer == layer {
			nodes = append(nodes, n)
		}
	}
	slices.SortFunc(nodes, func(a, b *Node) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return nodes
}

// LayerEdges returns the edges running from layer `from` to layer `to`,
// in insertion order.
func (g *Graph) LayerEdges(from, to int) []Edge {
	var out []Edge
	for _, e := range g.edges {
		src, dst := g.nodes[e.From], g.nodes[e.To]
		if src != nil && dst != nil && src.Layer == from && dst.Layer == to {
			out = append(out, e)
		}
	}
	return out
}

// RecomputeValues recalculates every node's inflow, outflow and height from
// the current edge set. The pipeline calls this after cycle edges are
// reinserted so that band thicknesses reflect the complete flow.
//
// It returns the IDs of imbalanced transit nodes: nodes with both inflow and
// outflow whose relative imbalance exceeds maxImbalance. Imbalance is
// diagnostic only and never fails the run.
func (g *Graph) RecomputeValues(maxImbalance float64) []string {
	for _, n := range g.nodes {
		n.InValue = 0
		n.OutValue = 0
	}
	for _, e := range g.edges {
		g.nodes[e.To].InValue += e.Value
		g.nodes[e.From].OutValue += e.Value
	}

	var imbalanced []string
	for _, id := range g.NodeIDs() {
		n := g.nodes[id]
		n.MaxValue = max(n.InValue, n.OutValue)
		imbalance := (n.MaxValue - min(n.InValue, n.OutValue)) / (n.MaxValue + 1e-6)
		if n.InValue > 0 && n.OutValue > 0 && imbalance > maxImbalance {
			imbalanced = append(imbalanced, id)
		}
	}
	return imbalanced
}

// Validate checks graph integrity before processing. Every edge must
// reference existing endpoints and carry a positive value.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.nodes[e.From]; !ok {
			return ErrInvalidEdgeEndpoint
		}
		if _, ok := g.nodes[e.To]; !ok {
			return ErrInvalidEdgeEndpoint
		}
		if e.Value <= 0 {
			return ErrMissingEdgeValue
		}
	}
	return nil
}

// ValidateLayered additionally checks that every edge spans exactly one
// layer step, the postcondition of [transform.InsertDummies].
func (g *Graph) ValidateLayered() error {
	if err := g.Validate(); err != nil {
		return err
	}
	for _, e := range g.edges {
		if e.From == e.To {
			// Reinserted self-loop, drawn as a loop curve.
			continue
		}
		src, dst := g.nodes[e.From], g.nodes[e.To]
		if diff := dst.Layer - src.Layer; diff != 1 && diff != -1 {
			return ErrNonAdjacentLayers
		}
	}
	return nil
}
