package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowline/pkg/pipeline"
	"github.com/matzehuels/flowline/pkg/render"
	"github.com/matzehuels/flowline/pkg/render/nodelink"
	"github.com/matzehuels/flowline/pkg/render/sankey"
)

const (
	vizSankey   = "sankey"   // value-proportional band diagram
	vizNodelink = "nodelink" // box-and-arrow debug view

	formatSVG  = "svg"
	formatJSON = "json"
	formatPDF  = "pdf"
	formatPNG  = "png"
	formatDOT  = "dot"

	defaultPNGScale = 2.0
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple outputs)
	vizTypes   []string // visualization types: "sankey", "nodelink"
	formats    []string // output formats: svg, json, pdf, png, dot
	detailed   bool     // show layer/position/value details in nodelink labels
	scale      float64  // flow-units-to-pixels factor for sankey SVG
	margin     float64  // sankey SVG margin in flow units
	background string   // sankey SVG background color
	flags      layoutFlags
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var vizTypesStr, formatsStr string
	opts := renderOpts{scale: 10, margin: 1}

	cmd := &cobra.Command{
		Use:   "render [graph.(csv|json)]",
		Short: "Render a flow graph as a Sankey diagram",
		Long: `Render a flow graph as a Sankey diagram.

The render command reads a flow graph (CSV or JSON edge list), runs the
layout pipeline and writes one output file per requested type and format.
The sankey type draws the band diagram; the nodelink type draws the layered
graph as boxes and arrows via Graphviz, useful for debugging layer
assignment and dummy chains.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.vizTypes = splitList(vizTypesStr, vizSankey)
			opts.formats = splitList(formatsStr, formatSVG)
			if err := validateTargets(opts.vizTypes, opts.formats); err != nil {
				return err
			}
			cfg, err := opts.flags.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single type/format) or base path (multiple)")
	cmd.Flags().StringVarP(&vizTypesStr, "type", "t", "", "visualization type(s): sankey (default), nodelink (comma-separated)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, pdf, png, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show layer and value details (nodelink)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "flow units to pixels (sankey)")
	cmd.Flags().Float64Var(&opts.margin, "margin", opts.margin, "margin around the drawing in flow units (sankey)")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color (sankey, default transparent)")
	opts.flags.register(cmd)

	return cmd
}

// validTargets maps each visualization type to its supported formats.
var validTargets = map[string]map[string]bool{
	vizSankey:   {formatSVG: true, formatJSON: true, formatPDF: true, formatPNG: true},
	vizNodelink: {formatSVG: true, formatPDF: true, formatPNG: true, formatDOT: true},
}

func splitList(s, fallback string) []string {
	if s == "" {
		return []string{fallback}
	}
	return strings.Split(s, ",")
}

func validateTargets(vizTypes, formats []string) error {
	for _, t := range vizTypes {
		supported, ok := validTargets[t]
		if !ok {
			return fmt.Errorf("unknown visualization type %q: want %s or %s", t, vizSankey, vizNodelink)
		}
		for _, f := range formats {
			if !supported[f] {
				return fmt.Errorf("format %q is not supported for type %q", f, t)
			}
		}
	}
	return nil
}

// runRender loads the graph, runs the pipeline once, and writes every
// requested type/format combination.
func (c *CLI) runRender(ctx context.Context, input string, cfg pipeline.Config, opts *renderOpts) error {
	g, err := readGraph(input)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	res, err := pipeline.NewRunner(c.Logger).Execute(ctx, g, cfg)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	single := len(opts.vizTypes) == 1 && len(opts.formats) == 1
	for _, t := range opts.vizTypes {
		for _, f := range opts.formats {
			data, err := c.renderTarget(res, t, f, opts)
			if err != nil {
				return fmt.Errorf("render %s %s: %w", t, f, err)
			}
			path := outputPath(input, opts.output, t, f, single)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", path, err)
			}
			printFile(path)
		}
	}

	printSuccess("Render complete")
	for _, id := range res.Stats.Imbalanced {
		printWarning("flow through node %q is imbalanced", id)
	}
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.CrossingsAfter)

	return nil
}

// renderTarget produces the bytes for one type/format combination.
func (c *CLI) renderTarget(res *pipeline.Result, vizType, format string, opts *renderOpts) ([]byte, error) {
	switch vizType {
	case vizSankey:
		if format == formatJSON {
			return sankey.RenderJSON(res.Diagram)
		}
		svgOpts := []sankey.SVGOption{sankey.WithScale(opts.scale), sankey.WithMargin(opts.margin)}
		if opts.background != "" {
			svgOpts = append(svgOpts, sankey.WithBackground(opts.background))
		}
		svg, err := sankey.RenderSVG(res.Diagram, svgOpts...)
		if err != nil {
			return nil, err
		}
		return convertSVG(svg, format)
	case vizNodelink:
		dot := nodelink.ToDOT(res.Graph, nodelink.Options{Detailed: opts.detailed})
		switch format {
		case formatDOT:
			return []byte(dot), nil
		case formatPDF:
			return nodelink.RenderPDF(dot)
		case formatPNG:
			return nodelink.RenderPNG(dot, defaultPNGScale)
		}
		return nodelink.RenderSVG(dot)
	}
	return nil, fmt.Errorf("unknown visualization type %q", vizType)
}

func convertSVG(svg []byte, format string) ([]byte, error) {
	switch format {
	case formatSVG:
		return svg, nil
	case formatPDF:
		return render.ToPDF(svg)
	case formatPNG:
		return render.ToPNG(svg, defaultPNGScale)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// outputPath picks the path for one output file. With a single target the
// --output flag is used verbatim; with multiple targets it becomes a base
// path and the type and format are appended.
func outputPath(input, output, vizType, format string, single bool) string {
	if output != "" && single {
		return output
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	if vizType != vizSankey {
		base += "." + vizType
	}
	return base + "." + format
}
