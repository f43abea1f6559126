package geometry

import (
	"fmt"
	"slices"

	"github.com/matzehuels/flowline/pkg/flow"
)

// linkGeometry is the two boundary curves, fill band and label of one edge.
type linkGeometry struct {
	lines   []Polyline
	polygon Polyline
	label   *Label
	value   float64
}

// buildLinkGeometry builds the band for one edge. The lower boundary runs
// from the source's emission cursor yFrom to the target's absorption cursor,
// the upper boundary is the lower one offset by the edge value. A target
// that does not lie strictly to the source's right gets a loop curve
// instead. The target's absorption cursor is advanced by the edge value; the
// caller advances the source's emission cursor.
func buildLinkGeometry(src, dst *flow.Node, e flow.Edge, yFrom float64, cfg Config) (linkGeometry, error) {
	xFrom := float64(src.Layer) + nodeWidth(src, cfg)
	xTo := float64(dst.Layer) - nodeWidth(dst, cfg)
	yTo := dst.YIn

	var lowerX, lowerY, upperX, upperY []float64
	var err error
	switch {
	case xTo < xFrom:
		lowerX, lowerY, err = LoopCurve(xFrom, yFrom, xTo, yTo, e.Value, true, cfg.Segments)
		if err != nil {
			return linkGeometry{}, err
		}
		upperX, upperY, err = LoopCurve(xFrom, yFrom, xTo, yTo, e.Value, false, cfg.Segments)
		if err != nil {
			return linkGeometry{}, err
		}
	case cfg.LinkShape == LinkShapeLine:
		lowerX = []float64{xFrom, xTo}
		lowerY = []float64{yFrom, yTo}
		upperX = slices.Clone(lowerX)
		upperY = offset(lowerY, e.Value)
	default:
		lowerX, lowerY, err = CubicSpline(xFrom, yFrom, xTo, yTo, cfg.Segments)
		if err != nil {
			return linkGeometry{}, err
		}
		upperX = slices.Clone(lowerX)
		upperY = offset(lowerY, e.Value)
	}

	dst.YIn += e.Value

	// Fill band: lower boundary followed by the reversed upper boundary.
	fillX := make([]float64, 0, len(lowerX)+len(upperX))
	fillY := make([]float64, 0, len(lowerY)+len(upperY))
	fillX = append(fillX, lowerX...)
	fillY = append(fillY, lowerY...)
	for i := len(upperX) - 1; i >= 0; i-- {
		fillX = append(fillX, upperX[i])
		fillY = append(fillY, upperY[i])
	}

	geo := linkGeometry{
		lines: []Polyline{
			{X: lowerX, Y: lowerY, ColorKey: e.ColorKey},
			{X: upperX, Y: upperY, ColorKey: e.ColorKey},
		},
		polygon: Polyline{
			X:        fillX,
			Y:        fillY,
			Name:     e.From + " -> " + e.To,
			ColorKey: e.ColorKey,
		},
		value: e.Value,
	}

	if cfg.EdgeLabels {
		cx, cy := geo.polygon.Center()
		geo.label = &Label{
			X:        cx,
			Y:        cy,
			Text:     fmt.Sprintf(cfg.EdgeLabelFormat, e.Value),
			Category: LabelCategoryEdge,
		}
	}
	return geo, nil
}

func offset(ys []float64, by float64) []float64 {
	out := make([]float64, len(ys))
	for i, y := range ys {
		out[i] = y + by
	}
	return out
}
