// Package render turns computed diagrams into output formats.
//
// # Overview
//
// Rendering is split by output family:
//
//   - [sankey]: the primary Sankey output, drawing the band and node
//     geometry as SVG or exporting it as JSON
//   - [nodelink]: a debugging view that draws the layered graph as a
//     conventional box-and-arrow diagram via Graphviz
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg). Both renderers share these.
//
//	svg, err := sankey.RenderSVG(diagram)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [sankey]: github.com/matzehuels/flowline/pkg/render/sankey
// [nodelink]: github.com/matzehuels/flowline/pkg/render/nodelink
package render
