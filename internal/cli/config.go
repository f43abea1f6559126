package cli

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowline/pkg/flow/transform"
	"github.com/matzehuels/flowline/pkg/pipeline"
)

// layoutFlags holds the command-line overrides shared by layout and render.
type layoutFlags struct {
	config   string
	align    string
	justify  bool
	mode     string
	timeout  int // seconds
	segments int
	noLabels bool
}

// register adds the shared layout flags to cmd, using defaults from the
// pipeline configuration.
func (f *layoutFlags) register(cmd *cobra.Command) {
	def := pipeline.DefaultConfig()
	cmd.Flags().StringVar(&f.config, "config", "", "TOML config file with layout options")
	cmd.Flags().StringVar(&f.align, "align", string(def.Align), "layer alignment: right (default), left")
	cmd.Flags().BoolVar(&f.justify, "justify", def.Justify, "pull terminal nodes out to the boundary layer")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", string(def.Positioning), "positioning mode: barycenter_heuristic (default), lp, milp")
	cmd.Flags().IntVar(&f.timeout, "timeout", 0, "solver timeout in seconds for lp/milp (0 = none)")
	cmd.Flags().IntVar(&f.segments, "segments", def.Draw.Segments, "straight segments per spline")
	cmd.Flags().BoolVar(&f.noLabels, "no-labels", false, "omit node and edge labels")
}

// resolve builds the pipeline configuration from the config file and the
// flag overrides. Flags that were changed from their defaults win over the
// config file.
func (f *layoutFlags) resolve(cmd *cobra.Command) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if f.config != "" {
		if _, err := toml.DecodeFile(f.config, &cfg); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", f.config, err)
		}
	}

	apply := func(name string, fn func()) {
		if cmd.Flags().Changed(name) {
			fn()
		}
	}
	apply("align", func() { cfg.Align = transform.Align(f.align) })
	apply("justify", func() { cfg.Justify = f.justify })
	apply("mode", func() { cfg.Positioning = pipeline.Mode(f.mode) })
	apply("timeout", func() { cfg.SolveTimeout = time.Duration(f.timeout) * time.Second })
	apply("segments", func() { cfg.Draw.Segments = f.segments })
	apply("no-labels", func() {
		cfg.Draw.NodeLabels = !f.noLabels
		cfg.Draw.EdgeLabels = !f.noLabels
	})

	err := cfg.ValidateAndSetDefaults()
	return cfg, err
}
