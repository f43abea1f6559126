// Package cli implements the flowline command-line interface.
//
// This package provides commands for laying out flow graphs as Sankey
// diagrams, rendering them to SVG, PDF, PNG or JSON, and converting between
// the supported graph formats. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute diagram geometry and export it as JSON
//   - render: Generate SVG, PDF, PNG or JSON visualizations
//   - convert: Convert flow graphs between CSV and JSON
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowline/pkg/buildinfo"
	"github.com/matzehuels/flowline/pkg/flow"
	"github.com/matzehuels/flowline/pkg/flowio"
)

// appName is the application name used for display.
const appName = "flowline"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Flowline lays out flow graphs as Sankey diagrams",
		Long:         `Flowline is a CLI tool for turning weighted flow graphs into Sankey diagrams: it resolves cycles, assigns layers, reduces crossings and draws value-proportional bands.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// readGraph loads a flow graph from path, dispatching on the file extension.
func readGraph(path string) (*flow.Graph, error) {
	switch {
	case strings.HasSuffix(path, ".csv"):
		return flowio.ImportCSV(path)
	case strings.HasSuffix(path, ".json"):
		return flowio.ImportJSON(path)
	default:
		return nil, fmt.Errorf("unsupported input %s: want .csv or .json", path)
	}
}
