package transform

import "github.com/matzehuels/flowline/pkg/flow"

// InitPositions seeds a dense ordinal vertical position (0..k-1) within each
// layer. The default ordering key is node identity, which makes the seed
// deterministic; the barycenter sweeps and MILP mode refine it afterwards.
func InitPositions(g *flow.Graph) {
	for _, layer := range g.Layers() {
		for i, n := range g.LayerNodes(layer) {
			n.Position = i
		}
	}
}
