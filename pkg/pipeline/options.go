package pipeline

import (
	"time"

	"github.com/matzehuels/flowline/pkg/errors"
	"github.com/matzehuels/flowline/pkg/flow/transform"
	"github.com/matzehuels/flowline/pkg/geometry"
)

// Mode selects the vertical positioning strategy.
type Mode string

const (
	// ModeBarycenter orders layers with barycenter sweeps and stacks nodes
	// bottom-up. Fast, good enough for most diagrams.
	ModeBarycenter Mode = "barycenter_heuristic"
	// ModeLP keeps the barycenter ordering and refines absolute coordinates
	// with a linear program.
	ModeLP Mode = "lp"
	// ModeMILP decides ordering and coordinates jointly with a mixed-integer
	// program. Only viable for small diagrams.
	ModeMILP Mode = "milp"
)

// Valid reports whether m is a known positioning mode.
func (m Mode) Valid() bool {
	return m == ModeBarycenter || m == ModeLP || m == ModeMILP
}

// Defaults applied by ValidateAndSetDefaults.
const (
	DefaultSweepMin     = 2
	DefaultSweepMax     = 6
	DefaultMaxImbalance = 0.05
)

// Config holds all options of one layout run. This struct supports TOML
// decoding for config files. Start from DefaultConfig and override; note
// that the zero value disables justification.
type Config struct {
	// Align selects the layer assignment direction.
	Align transform.Align `toml:"align"`
	// Justify pulls terminal nodes out to the far boundary layer.
	Justify bool `toml:"justify"`
	// Positioning selects the vertical positioning strategy.
	Positioning Mode `toml:"positioning"`

	// SweepMin and SweepMax bound the barycenter sweep loop.
	SweepMin int `toml:"sweep_min"`
	SweepMax int `toml:"sweep_max"`

	// MaxImbalance is the relative in/out imbalance above which a transit
	// node is reported in the log.
	MaxImbalance float64 `toml:"max_imbalance"`

	// SolveTimeout bounds LP/MILP solves; 0 means no deadline.
	SolveTimeout time.Duration `toml:"solve_timeout"`

	// Draw holds the geometry parameters.
	Draw geometry.Config `toml:"draw"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() Config {
	return Config{
		Align:        transform.AlignRight,
		Justify:      true,
		Positioning:  ModeBarycenter,
		SweepMin:     DefaultSweepMin,
		SweepMax:     DefaultSweepMax,
		MaxImbalance: DefaultMaxImbalance,
		Draw:         geometry.DefaultConfig(),
	}
}

// ValidateAndSetDefaults checks the configuration and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once. Unknown alignment or positioning values fail here,
// before any graph is touched.
func (c *Config) ValidateAndSetDefaults() error {
	if c.validated {
		return nil
	}

	if c.Align == "" {
		c.Align = transform.AlignRight
	}
	if !c.Align.Valid() {
		return errors.New(errors.ErrCodeLayout, "unknown alignment %q", c.Align)
	}

	if c.Positioning == "" {
		c.Positioning = ModeBarycenter
	}
	if !c.Positioning.Valid() {
		return errors.New(errors.ErrCodeLayout, "unknown positioning mode %q", c.Positioning)
	}

	if c.SweepMin == 0 {
		c.SweepMin = DefaultSweepMin
	}
	if c.SweepMax == 0 {
		c.SweepMax = DefaultSweepMax
	}
	if c.SweepMin < 0 || c.SweepMax < 1 || c.SweepMin > c.SweepMax {
		return errors.New(errors.ErrCodeLayout,
			"sweep bounds %d..%d are not sensible", c.SweepMin, c.SweepMax)
	}

	if c.MaxImbalance == 0 {
		c.MaxImbalance = DefaultMaxImbalance
	}
	if c.SolveTimeout < 0 {
		return errors.New(errors.ErrCodeLayout, "solve timeout must not be negative")
	}

	if err := c.Draw.ValidateAndSetDefaults(); err != nil {
		return err
	}

	c.validated = true
	return nil
}
