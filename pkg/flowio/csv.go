package flowio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/flowline/pkg/flow"
)

// ReadCSV decodes a graph from CSV records of the form
// source,target,value[,color]. A header row is skipped when the value
// column of the first record is not numeric.
func ReadCSV(r io.Reader) (*flow.Graph, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return flow.New(), nil
	}

	g := flow.New()
	for i, rec := range records {
		if len(rec) < 3 {
			return nil, fmt.Errorf("record %d: want at least 3 columns, got %d", i+1, len(rec))
		}
		value, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("record %d: value %q is not numeric", i+1, rec[2])
		}
		color := ""
		if len(rec) > 3 {
			color = rec[3]
		}
		if err := addEdge(g, rec[0], rec[1], value, color); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ImportCSV reads a CSV file at path and returns the decoded graph.
func ImportCSV(path string) (*flow.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return g, nil
}

// WriteCSV encodes the graph edges as CSV with a header row. The color
// column is only emitted when at least one edge carries a color key.
// Isolated nodes have no CSV representation; use the JSON format when they
// must survive a round trip.
func WriteCSV(g *flow.Graph, w io.Writer) error {
	edges := g.Edges()
	withColor := false
	for _, e := range edges {
		if e.ColorKey != "" {
			withColor = true
			break
		}
	}

	cw := csv.NewWriter(w)
	header := []string{"source", "target", "value"}
	if withColor {
		header = append(header, "color")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, e := range edges {
		rec := []string{e.From, e.To, strconv.FormatFloat(e.Value, 'g', -1, 64)}
		if withColor {
			rec = append(rec, e.ColorKey)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the graph edges to a CSV file at path.
// This is a convenience wrapper around [WriteCSV] for file-based output.
func ExportCSV(g *flow.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteCSV(g, f)
}
