package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowline/pkg/flow"
	"github.com/matzehuels/flowline/pkg/flowio"
)

// convertCommand creates the convert command for translating between the
// supported graph formats.
func (c *CLI) convertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [input.(csv|json)] [output.(csv|json)]",
		Short: "Convert a flow graph between CSV and JSON",
		Long: `Convert a flow graph between CSV and JSON.

Both directions are supported; the formats are chosen from the file
extensions. Note that isolated nodes are dropped when converting to CSV,
since the CSV format is a pure edge list.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(args[0], args[1])
		},
	}
	return cmd
}

func (c *CLI) runConvert(input, output string) error {
	g, err := readGraph(input)
	if err != nil {
		return err
	}

	if err := writeGraph(g, output); err != nil {
		return err
	}

	printSuccess("Converted %s", input)
	printFile(output)
	return nil
}

// writeGraph stores a flow graph at path, dispatching on the file extension.
func writeGraph(g *flow.Graph, path string) error {
	switch {
	case strings.HasSuffix(path, ".csv"):
		return flowio.ExportCSV(g, path)
	case strings.HasSuffix(path, ".json"):
		return flowio.ExportJSON(g, path)
	default:
		return fmt.Errorf("unsupported output %s: want .csv or .json", path)
	}
}
