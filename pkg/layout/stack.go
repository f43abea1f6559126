package layout

import "github.com/matzehuels/flowline/pkg/flow"

// AssignStackedPositions derives absolute vertical coordinates from the
// within-layer ordering by stacking nodes bottom to top. The first node of a
// layer is centered at half its height; each following node is offset by the
// full height of its predecessor plus its own, leaving a gap equal to half
// of each neighbor's height between band centers.
func AssignStackedPositions(g *flow.Graph) {
	for _, lay := range g.Layers() {
		nodes := g.LayerNodes(lay)
		y := 0.0
		for i, n := range nodes {
			if i == 0 {
				y = n.MaxValue / 2
			} else {
				y += nodes[i-1].MaxValue + n.MaxValue
			}
			n.Y = y
		}
	}
}
