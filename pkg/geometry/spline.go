package geometry

import (
	"math"

	"github.com/matzehuels/flowline/pkg/errors"
)

// CubicSpline samples a horizontally oriented smoothstep curve between two
// points over the given number of straight segments. The curve has zero
// slope at both endpoints: x is linear in the parameter t while
// y = y0 + (y1-y0)·(3t²-2t³).
func CubicSpline(x0, y0, x1, y1 float64, segments int) (xs, ys []float64, err error) {
	if segments < 1 {
		return nil, nil, errors.New(errors.ErrCodeGeometry,
			"spline needs at least one segment, got %d", segments)
	}
	xs = make([]float64, segments+1)
	ys = make([]float64, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		xs[i] = x0 + (x1-x0)*t
		ys[i] = y0 + (y1-y0)*(t*t*(3-2*t))
	}
	return xs, ys, nil
}

// LoopCurve builds one boundary of a backward link: a quarter-ellipse
// turning out of the source, a smoothstep bridge and a quarter-ellipse
// turning back into the target. Backward links arise from reinserted cycle
// edges and self-loops, where the target does not lie to the source's right.
//
// The lower boundary uses radii (0.4, 2·value) and the upper boundary
// (0.2, 1·value); the upper curve is additionally shifted up by value so
// the band keeps its thickness around the turn.
func LoopCurve(x0, y0, x1, y1, value float64, lower bool, segments int) (xs, ys []float64, err error) {
	if segments < 1 {
		return nil, nil, errors.New(errors.ErrCodeGeometry,
			"loop curve needs at least one segment, got %d", segments)
	}
	if value <= 0 {
		return nil, nil, errors.New(errors.ErrCodeGeometry,
			"loop curve needs a positive band value, got %g", value)
	}

	xRadius, yRadius := 0.4, 2*value
	if !lower {
		xRadius, yRadius = 0.2, value
	}

	// Out-turn: angle sweeps -pi/2 .. pi/2 around the source.
	outX := make([]float64, segments)
	outY := make([]float64, segments)
	for i := 0; i < segments; i++ {
		a := angleAt(i, segments)
		outX[i] = x0 + xRadius*math.Cos(a)
		outY[i] = y0 + yRadius*(1+math.Sin(a))
	}
	// In-turn: the same sweep mirrored around the target, traversed top
	// down so the curve ends at the target.
	inX := make([]float64, segments)
	inY := make([]float64, segments)
	for i := 0; i < segments; i++ {
		a := angleAt(i, segments)
		rev := angleAt(segments-1-i, segments)
		inX[i] = x1 - xRadius*math.Cos(a)
		inY[i] = y1 + yRadius*(1+math.Sin(rev))
	}

	bridgeX, bridgeY, err := CubicSpline(outX[segments-1], outY[segments-1], inX[0], inY[0], segments)
	if err != nil {
		return nil, nil, err
	}

	xs = make([]float64, 0, 3*segments+1)
	ys = make([]float64, 0, 3*segments+1)
	xs = append(append(append(xs, outX...), bridgeX...), inX...)
	ys = append(append(append(ys, outY...), bridgeY...), inY...)

	if !lower {
		for i := range ys {
			ys[i] += value
		}
	}
	return xs, ys, nil
}

// angleAt returns the i-th of n evenly spaced angles in [-pi/2, pi/2].
func angleAt(i, n int) float64 {
	if n == 1 {
		return -math.Pi / 2
	}
	return -math.Pi/2 + math.Pi*float64(i)/float64(n-1)
}
