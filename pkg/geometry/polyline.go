// Package geometry builds the backend-agnostic drawing primitives of a
// Sankey diagram: polylines, fill polygons and labels, assembled into a
// [Diagram] from a fully positioned flow graph.
package geometry

import (
	"github.com/matzehuels/flowline/pkg/errors"
)

// Polyline is an ordered sequence of 2D points with a display name and an
// optional color key. X and Y must have equal length; a polyline with no
// points is empty.
type Polyline struct {
	X        []float64
	Y        []float64
	Name     string
	ColorKey string
}

// Validate checks the equal-length invariant.
func (p Polyline) Validate() error {
	if len(p.X) != len(p.Y) {
		return errors.New(errors.ErrCodeGeometry,
			"polyline %q has %d x-coordinates but %d y-coordinates",
			p.Name, len(p.X), len(p.Y))
	}
	return nil
}

// Points returns the number of points.
func (p Polyline) Points() int { return len(p.X) }

// IsEmpty reports whether the polyline has no points.
func (p Polyline) IsEmpty() bool { return len(p.X) == 0 }

// StartTouchesEnd reports whether this polyline starts exactly where other
// ends. Exact coordinate equality is intended: node outline pieces share
// endpoints by construction, never by numeric coincidence.
func (p Polyline) StartTouchesEnd(other Polyline) bool {
	if p.IsEmpty() || other.IsEmpty() {
		return false
	}
	return p.X[0] == other.X[len(other.X)-1] && p.Y[0] == other.Y[len(other.Y)-1]
}

// AppendTo returns a new polyline holding other's points followed by p's.
// No point is deduplicated, so the result's point count is the sum of the
// inputs' counts.
func (p Polyline) AppendTo(other Polyline) Polyline {
	out := Polyline{
		X:        make([]float64, 0, len(other.X)+len(p.X)),
		Y:        make([]float64, 0, len(other.Y)+len(p.Y)),
		Name:     other.Name + " + " + p.Name,
		ColorKey: other.ColorKey,
	}
	out.X = append(append(out.X, other.X...), p.X...)
	out.Y = append(append(out.Y, other.Y...), p.Y...)
	return out
}

// Center returns the mean of the polyline's points.
func (p Polyline) Center() (x, y float64) {
	for i := range p.X {
		x += p.X[i]
		y += p.Y[i]
	}
	n := float64(len(p.X))
	return x / n, y / n
}

// Range returns the bounding interval of the x- and y-coordinates.
func (p Polyline) Range() (xMin, xMax, yMin, yMax float64) {
	xMin, xMax = p.X[0], p.X[0]
	yMin, yMax = p.Y[0], p.Y[0]
	for i := 1; i < len(p.X); i++ {
		xMin = min(xMin, p.X[i])
		xMax = max(xMax, p.X[i])
		yMin = min(yMin, p.Y[i])
		yMax = max(yMax, p.Y[i])
	}
	return xMin, xMax, yMin, yMax
}

// Concatenate merges consecutive polylines whose endpoints touch exactly,
// preserving order. Empty polylines are dropped first.
func Concatenate(polylines []Polyline) []Polyline {
	var out []Polyline
	var current *Polyline
	for _, p := range polylines {
		if p.IsEmpty() {
			continue
		}
		switch {
		case current == nil:
			c := p
			current = &c
		case p.StartTouchesEnd(*current):
			c := p.AppendTo(*current)
			current = &c
		default:
			out = append(out, *current)
			c := p
			current = &c
		}
	}
	if current != nil {
		out = append(out, *current)
	}
	return out
}

// Polygon chains all polylines into a single closed outline for filling,
// regardless of whether their endpoints touch.
func Polygon(polylines []Polyline) Polyline {
	if len(polylines) == 0 {
		return Polyline{}
	}
	polygon := polylines[0]
	for _, p := range polylines[1:] {
		polygon = p.AppendTo(polygon)
	}
	return polygon
}

// Label categories.
const (
	LabelCategoryNode = "node_label"
	LabelCategoryEdge = "edge_label"
)

// Label is a positioned text element.
type Label struct {
	X        float64
	Y        float64
	Text     string
	Category string
}

// Diagram is the exported geometry artifact: stroke-only polylines, fillable
// polygons, labels and the resolved color-key palette. It is built fresh per
// layout run and not mutated afterwards.
type Diagram struct {
	Lines  []Polyline
	Filled []Polyline
	Labels []Label

	// Colors maps each color key present in the diagram to a display color.
	// Empty when no edge carries a color key.
	Colors map[string]string
}

// Bounds returns the bounding box of all stroke polylines.
func (d *Diagram) Bounds() (xMin, xMax, yMin, yMax float64, err error) {
	first := true
	for _, p := range d.Lines {
		if p.IsEmpty() {
			continue
		}
		pxMin, pxMax, pyMin, pyMax := p.Range()
		if first {
			xMin, xMax, yMin, yMax = pxMin, pxMax, pyMin, pyMax
			first = false
			continue
		}
		xMin = min(xMin, pxMin)
		xMax = max(xMax, pxMax)
		yMin = min(yMin, pyMin)
		yMax = max(yMax, pyMax)
	}
	if first {
		return 0, 0, 0, 0, errors.New(errors.ErrCodeGeometry, "diagram has no lines")
	}
	return xMin, xMax, yMin, yMax, nil
}
