// Package sankey renders diagram geometry as SVG or JSON.
//
// The geometry coordinate system has y growing upward; SVG has y growing
// downward, so rendering flips the vertical axis. Band polygons are drawn
// first, node outlines on top, labels last.
package sankey

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/flowline/pkg/geometry"
)

// defaultFill is used for polygons whose color key has no palette entry.
const defaultFill = "#d0d0d0"

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale      float64
	margin     float64
	background string
	opacity    float64
}

// WithScale sets the flow-units-to-pixels factor. The default is 10.
func WithScale(s float64) SVGOption { return func(r *svgRenderer) { r.scale = s } }

// WithMargin sets the margin around the drawing in flow units. The default
// is 1.
func WithMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// WithBackground fills the canvas with the given color. Without this the
// background is transparent.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithOpacity sets the band fill opacity in [0, 1]. The default is 0.6.
func WithOpacity(o float64) SVGOption { return func(r *svgRenderer) { r.opacity = o } }

// RenderSVG draws the diagram as a standalone SVG document.
func RenderSVG(d *geometry.Diagram, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{scale: 10, margin: 1, opacity: 0.6}
	for _, opt := range opts {
		opt(&r)
	}

	xMin, xMax, yMin, yMax, err := d.Bounds()
	if err != nil {
		return nil, err
	}

	width := (xMax - xMin + 2*r.margin) * r.scale
	height := (yMax - yMin + 2*r.margin) * r.scale
	toX := func(x float64) float64 { return (x - xMin + r.margin) * r.scale }
	toY := func(y float64) float64 { return (yMax - y + r.margin) * r.scale }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill=%q/>`+"\n", r.background)
	}

	for _, p := range d.Filled {
		fmt.Fprintf(&buf, `  <path d=%q fill=%q fill-opacity="%.2f" stroke="none"/>`+"\n",
			pathData(p, toX, toY, true), fillColor(d, p.ColorKey), r.opacity)
	}
	for _, p := range d.Lines {
		fmt.Fprintf(&buf, `  <path d=%q fill="none" stroke="black" stroke-width="1"/>`+"\n",
			pathData(p, toX, toY, false))
	}
	for _, l := range d.Labels {
		renderLabel(&buf, l, toX, toY, r.scale)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func pathData(p geometry.Polyline, toX, toY func(float64) float64, closed bool) string {
	var sb strings.Builder
	for i := range p.X {
		if i == 0 {
			sb.WriteByte('M')
		} else {
			sb.WriteByte('L')
		}
		fmt.Fprintf(&sb, "%.2f,%.2f ", toX(p.X[i]), toY(p.Y[i]))
	}
	s := strings.TrimRight(sb.String(), " ")
	if closed {
		s += " Z"
	}
	return s
}

func renderLabel(buf *bytes.Buffer, l geometry.Label, toX, toY func(float64) float64, scale float64) {
	anchor := "middle"
	if l.Category == geometry.LabelCategoryNode {
		anchor = "start"
	}
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-size="%.1f" font-family="sans-serif" text-anchor=%q>%s</text>`+"\n",
		toX(l.X), toY(l.Y), scale*1.2, anchor, escapeText(l.Text))
}

func fillColor(d *geometry.Diagram, key string) string {
	if c, ok := d.Colors[key]; ok {
		return c
	}
	return defaultFill
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string { return textEscaper.Replace(s) }
