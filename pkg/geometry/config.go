package geometry

import (
	"github.com/matzehuels/flowline/pkg/errors"
)

// LinkShape selects the curve family for forward link boundaries.
type LinkShape string

const (
	// LinkShapeLine draws links as straight segments.
	LinkShapeLine LinkShape = "line"
	// LinkShapeCubicSpline draws links as smoothstep curves with zero slope
	// at both ends.
	LinkShapeCubicSpline LinkShape = "cubic_spline"
)

// Valid reports whether s is a known link shape.
func (s LinkShape) Valid() bool { return s == LinkShapeLine || s == LinkShapeCubicSpline }

// Config holds the drawing parameters consumed while building a diagram.
// The zero value is completed by ValidateAndSetDefaults.
type Config struct {
	// Segments is the number of straight segments per spline, at least 1.
	Segments int `toml:"segments"`
	// LinkShape selects the forward-link curve family.
	LinkShape LinkShape `toml:"link_shape"`
	// NodeHalfWidth is half the drawn width of a regular node. Synthetic
	// pass-through nodes always have zero width.
	NodeHalfWidth float64 `toml:"node_half_width"`
	// ArrowLength is the length of terminal arrow notches; 0 disables them.
	ArrowLength float64 `toml:"arrow_length"`

	// NodeLabels and EdgeLabels toggle label emission.
	NodeLabels bool `toml:"node_labels"`
	EdgeLabels bool `toml:"edge_labels"`
	// EdgeLabelFormat is the fmt verb applied to edge values.
	EdgeLabelFormat string `toml:"edge_label_format"`
	// NodeLabelOffsetFrac offsets node labels from the node center by this
	// fraction of the node height.
	NodeLabelOffsetFrac float64 `toml:"node_label_offset_frac"`
}

// DefaultConfig returns the drawing defaults.
func DefaultConfig() Config {
	return Config{
		Segments:            100,
		LinkShape:           LinkShapeCubicSpline,
		NodeHalfWidth:       0.2,
		ArrowLength:         0.1,
		NodeLabels:          true,
		EdgeLabels:          true,
		EdgeLabelFormat:     "%g",
		NodeLabelOffsetFrac: 0.1,
	}
}

// ValidateAndSetDefaults fills zero values with defaults and rejects
// degenerate parameters.
func (c *Config) ValidateAndSetDefaults() error {
	def := DefaultConfig()
	if c.Segments == 0 {
		c.Segments = def.Segments
	}
	if c.LinkShape == "" {
		c.LinkShape = def.LinkShape
	}
	if c.NodeHalfWidth == 0 {
		c.NodeHalfWidth = def.NodeHalfWidth
	}
	if c.EdgeLabelFormat == "" {
		c.EdgeLabelFormat = def.EdgeLabelFormat
	}
	if c.NodeLabelOffsetFrac == 0 {
		c.NodeLabelOffsetFrac = def.NodeLabelOffsetFrac
	}

	if c.Segments < 1 {
		return errors.New(errors.ErrCodeGeometry, "segments must be at least 1, got %d", c.Segments)
	}
	if !c.LinkShape.Valid() {
		return errors.New(errors.ErrCodeGeometry, "unknown link shape %q", c.LinkShape)
	}
	if c.NodeHalfWidth < 0 {
		return errors.New(errors.ErrCodeGeometry, "node half-width must not be negative, got %g", c.NodeHalfWidth)
	}
	if c.ArrowLength < 0 {
		return errors.New(errors.ErrCodeGeometry, "arrow length must not be negative, got %g", c.ArrowLength)
	}
	return nil
}
