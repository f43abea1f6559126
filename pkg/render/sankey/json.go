package sankey

import (
	"encoding/json"

	"github.com/matzehuels/flowline/pkg/geometry"
)

type jsonOutput struct {
	XMin   float64           `json:"x_min"`
	XMax   float64           `json:"x_max"`
	YMin   float64           `json:"y_min"`
	YMax   float64           `json:"y_max"`
	Lines  []jsonPolyline    `json:"lines"`
	Filled []jsonPolyline    `json:"filled"`
	Labels []jsonLabel       `json:"labels,omitempty"`
	Colors map[string]string `json:"colors,omitempty"`
}

type jsonPolyline struct {
	Name     string    `json:"name,omitempty"`
	ColorKey string    `json:"color_key,omitempty"`
	X        []float64 `json:"x"`
	Y        []float64 `json:"y"`
}

type jsonLabel struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	Category string  `json:"category"`
}

// RenderJSON exports the diagram geometry as a pretty-printed JSON document
// for external tooling: custom renderers, plotting libraries, regression
// comparison of layouts. Coordinates are in flow units with y growing
// upward, exactly as computed.
func RenderJSON(d *geometry.Diagram) ([]byte, error) {
	xMin, xMax, yMin, yMax, err := d.Bounds()
	if err != nil {
		return nil, err
	}

	out := jsonOutput{
		XMin:   xMin,
		XMax:   xMax,
		YMin:   yMin,
		YMax:   yMax,
		Lines:  buildJSONPolylines(d.Lines),
		Filled: buildJSONPolylines(d.Filled),
		Colors: d.Colors,
	}
	for _, l := range d.Labels {
		out.Labels = append(out.Labels, jsonLabel{X: l.X, Y: l.Y, Text: l.Text, Category: l.Category})
	}

	return json.MarshalIndent(out, "", "  ")
}

func buildJSONPolylines(polylines []geometry.Polyline) []jsonPolyline {
	result := make([]jsonPolyline, len(polylines))
	for i, p := range polylines {
		result[i] = jsonPolyline{Name: p.Name, ColorKey: p.ColorKey, X: p.X, Y: p.Y}
	}
	return result
}
