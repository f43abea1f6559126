package geometry

import (
	"github.com/matzehuels/flowline/pkg/flow"
)

// nodeWidth returns the drawn half-width of a node. Synthetic pass-through
// nodes are invisible, so the flow band runs straight through them.
func nodeWidth(n *flow.Node, cfg Config) float64 {
	if n.IsDummy() {
		return 0
	}
	return cfg.NodeHalfWidth
}

// nodeGeometry is the outline, fill and label of one node.
type nodeGeometry struct {
	lines   []Polyline
	polygon *Polyline
	label   *Label
}

// buildNodeGeometry assembles the outline of one node: a bottom line, an
// out-arrow notch when the node has no successors, a top line, and an
// in-arrow notch when it has no predecessors. Consecutive pieces sharing an
// endpoint are concatenated; the full chain also forms the fill polygon.
// Zero-width or zero-height nodes produce no geometry.
func buildNodeGeometry(g *flow.Graph, n *flow.Node, cfg Config, colorKey string) nodeGeometry {
	dx := nodeWidth(n, cfg)
	if dx <= 0 || n.MaxValue <= 0 {
		return nodeGeometry{}
	}

	x := float64(n.Layer)
	bottom := n.Y - n.MaxValue/2
	top := bottom + n.MaxValue

	bottomLine := Polyline{
		X:    []float64{x - dx, x + dx},
		Y:    []float64{bottom, bottom},
		Name: "bottom line",
	}
	topLine := Polyline{
		X:    []float64{x + dx, x - dx},
		Y:    []float64{top, top},
		Name: "top line",
	}

	var outArrow, inArrow Polyline
	if cfg.ArrowLength > 0 && g.OutDegree(n.ID) == 0 {
		outArrow = Polyline{
			X:    []float64{x + dx, x + dx + cfg.ArrowLength, x + dx},
			Y:    []float64{bottom, bottom + n.MaxValue/2, top},
			Name: "outflow arrow",
		}
	}
	if cfg.ArrowLength > 0 && g.InDegree(n.ID) == 0 {
		inArrow = Polyline{
			X:    []float64{x - dx, x - dx + cfg.ArrowLength, x - dx},
			Y:    []float64{top, bottom + n.MaxValue/2, bottom},
			Name: "inflow arrow",
		}
	}

	lines := Concatenate([]Polyline{bottomLine, outArrow, topLine, inArrow})
	polygon := Polygon(lines)
	polygon.Name = n.ID

	if colorKey != "" {
		for i := range lines {
			lines[i].ColorKey = colorKey
		}
		polygon.ColorKey = colorKey
	}

	geo := nodeGeometry{lines: lines, polygon: &polygon}
	if cfg.NodeLabels {
		geo.label = &Label{
			X:        x,
			Y:        n.Y + n.MaxValue*cfg.NodeLabelOffsetFrac,
			Text:     n.ID,
			Category: LabelCategoryNode,
		}
	}
	return geo
}
