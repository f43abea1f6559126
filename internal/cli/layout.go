package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowline/pkg/pipeline"
	"github.com/matzehuels/flowline/pkg/render/sankey"
)

// layoutCommand creates the layout command for computing diagram geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.(csv|json)]",
		Short: "Compute Sankey diagram geometry from a flow graph",
		Long: `Compute Sankey diagram geometry from a flow graph.

The layout command reads a flow graph (CSV or JSON edge list), runs the
layout pipeline and writes the computed geometry as a JSON document: band
polygons, node outlines, labels and the color palette. The output is the
same format as 'render -f json' and can be consumed by external renderers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], cfg, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the graph, runs the pipeline, and writes the geometry.
func (c *CLI) runLayout(ctx context.Context, input string, cfg pipeline.Config, output string) error {
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

	out, err := sankey.RenderJSON(res.Diagram)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	for _, id := range res.Stats.Imbalanced {
		printWarning("flow through node %q is imbalanced", id)
	}
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.CrossingsAfter)
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}
