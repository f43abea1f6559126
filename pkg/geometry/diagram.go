package geometry

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/flowline/pkg/errors"
	"github.com/matzehuels/flowline/pkg/flow"
)

// ColorKeyMixed marks a node whose incident edges carry two or more
// distinct color keys. Renderers draw it in a neutral style.
const ColorKeyMixed = "node"

// palette holds the display colors assigned to color keys, in the order the
// sorted distinct keys receive them.
var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// BuildDiagram turns a fully positioned flow graph into a Diagram.
//
// Nodes are visited layer by layer from the highest layer down, ordered
// within each layer by vertical position. For every node its outgoing links
// are emitted first, in ascending target position, each advancing the
// source's emission cursor and the target's absorption cursor by the edge
// value so bands stack without overlap at both ends. The node outline
// follows its links.
//
// The graph's Y, InValue and MaxValue attributes must be final; YIn is
// overwritten.
func BuildDiagram(g *flow.Graph, cfg Config) (*Diagram, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if g.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeGeometry, "graph has no nodes")
	}

	nodes := g.Nodes()
	for _, n := range nodes {
		n.YIn = n.Y - n.InValue/2
	}
	slices.SortFunc(nodes, func(a, b *flow.Node) int {
		if c := cmp.Compare(b.Layer, a.Layer); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	d := &Diagram{}
	colorKeys := make(map[string]struct{})
	for _, n := range nodes {
		cursor := n.Y - n.MaxValue/2

		succs := make([]*flow.Node, 0, g.OutDegree(n.ID))
		for _, id := range g.Successors(n.ID) {
			succ, _ := g.Node(id)
			succs = append(succs, succ)
		}
		slices.SortFunc(succs, func(a, b *flow.Node) int {
			if c := cmp.Compare(a.Position, b.Position); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})

		incident := make(map[string]struct{})
		for _, succ := range succs {
			e, ok := g.Edge(n.ID, succ.ID)
			if !ok {
				return nil, errors.New(errors.ErrCodeGeometry,
					"missing edge %s->%s", n.ID, succ.ID)
			}
			link, err := buildLinkGeometry(n, succ, e, cursor, cfg)
			if err != nil {
				return nil, err
			}
			cursor += link.value

			d.Lines = append(d.Lines, link.lines...)
			d.Filled = append(d.Filled, link.polygon)
			if link.label != nil {
				d.Labels = append(d.Labels, *link.label)
			}
			if e.ColorKey != "" {
				colorKeys[e.ColorKey] = struct{}{}
				incident[e.ColorKey] = struct{}{}
			}
		}
		for _, pred := range g.Predecessors(n.ID) {
			if e, ok := g.Edge(pred, n.ID); ok && e.ColorKey != "" {
				incident[e.ColorKey] = struct{}{}
			}
		}

		node := buildNodeGeometry(g, n, cfg, resolveNodeColor(g, n, incident))
		d.Lines = append(d.Lines, node.lines...)
		if node.polygon != nil {
			d.Filled = append(d.Filled, *node.polygon)
		}
		if node.label != nil {
			d.Labels = append(d.Labels, *node.label)
		}
	}

	if len(colorKeys) > 0 {
		d.Colors = make(map[string]string, len(colorKeys))
		for i, key := range slices.Sorted(maps.Keys(colorKeys)) {
			d.Colors[key] = palette[i%len(palette)]
		}
	}
	return d, nil
}

// resolveNodeColor picks a node's color key from its incident edges: a
// single shared key colors the node, two or more distinct keys mark it
// mixed, and a terminal node without a uniform key stays uncolored so it
// melts into its bands.
func resolveNodeColor(g *flow.Graph, n *flow.Node, incident map[string]struct{}) string {
	switch {
	case len(incident) == 1:
		for key := range incident {
			return key
		}
		return ""
	case g.OutDegree(n.ID) > 0 && g.InDegree(n.ID) > 0:
		return ColorKeyMixed
	default:
		return ""
	}
}
