// Package render encodes settled layouts and timeline projections as SVG.
//
// This is a developer-facing output encoder for the CLI, not the product
// rendering layer; it draws nodes, edges, the time axis, and the undated
// strip with a fixed category palette.
package render

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/relmap/relmap/internal/models"
)

// categoryPalette is cycled through in first-seen category order.
var categoryPalette = []string{
	"#4285f4", "#ea4335", "#fbbc04", "#34a853", "#ff6d01",
	"#46bdc6", "#7b61ff", "#f25cb1", "#9aa0a6", "#185abc",
}

const (
	backgroundColor = "#ffffff"
	edgeColor       = "#999999"
	axisColor       = "#333333"
	stripColor      = "#666666"
	labelFontSize   = 10
	axisFontSize    = 11
)

// palette assigns stable colors to categories by sorted name order.
func palette(categories map[string]bool) map[string]string {
	names := make([]string, 0, len(categories))
	for c := range categories {
		names = append(names, c)
	}
	sort.Strings(names)
	colors := make(map[string]string, len(names))
	for i, c := range names {
		colors[c] = categoryPalette[i%len(categoryPalette)]
	}
	return colors
}

// Graph renders a settled layout as a standalone SVG document. Positions are
// translated so the layout center maps to the canvas center.
func Graph(points []*models.LayoutPoint, edges []*models.Edge, width, height float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&b, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", backgroundColor)

	pos := make(map[string]*models.LayoutPoint, len(points))
	categories := map[string]bool{}
	var cx, cy float64
	for _, p := range points {
		pos[p.Node.ID] = p
		categories[p.Node.Category] = true
		cx += p.X
		cy += p.Y
	}
	if len(points) > 0 {
		cx /= float64(len(points))
		cy /= float64(len(points))
	}
	// Shift so the layout centroid lands mid-canvas.
	dx := width/2 - cx
	dy := height/2 - cy

	colors := palette(categories)

	b.WriteString("  <g class=\"edges\">\n")
	for _, e := range edges {
		s, t := pos[e.Source], pos[e.Target]
		if s == nil || t == nil {
			continue
		}
		opacity := 0.25 + e.Similarity*0.5
		if opacity > 1 {
			opacity = 1
		}
		fmt.Fprintf(&b, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.2f"/>`+"\n",
			s.X+dx, s.Y+dy, t.X+dx, t.Y+dy, edgeColor, opacity)
	}
	b.WriteString("  </g>\n")

	b.WriteString("  <g class=\"nodes\">\n")
	for _, p := range points {
		fmt.Fprintf(&b, `    <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="#ffffff" stroke-width="1.5"/>`+"\n",
			p.X+dx, p.Y+dy, p.Node.Radius, colors[p.Node.Category])
		fmt.Fprintf(&b, `    <text x="%.1f" y="%.1f" font-size="%d" text-anchor="middle">%s</text>`+"\n",
			p.X+dx, p.Y+dy+p.Node.Radius+labelFontSize, labelFontSize, html.EscapeString(p.Node.Name))
	}
	b.WriteString("  </g>\n</svg>\n")
	return b.String()
}

// Timeline renders a timeline projection as a standalone SVG document using
// the same plot size the projection was computed for.
func Timeline(projection *models.TimelineProjection, width, height float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&b, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", backgroundColor)

	categories := map[string]bool{}
	for _, p := range projection.Dated {
		categories[p.Category] = true
	}
	for _, p := range projection.Undated {
		categories[p.Category] = true
	}
	colors := palette(categories)

	if len(projection.Ticks) > 0 {
		axisY := height - 40
		b.WriteString("  <g class=\"axis\">\n")
		fmt.Fprintf(&b, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
			projection.Ticks[0].X, axisY, projection.Ticks[len(projection.Ticks)-1].X, axisY, axisColor)
		for _, tick := range projection.Ticks {
			fmt.Fprintf(&b, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
				tick.X, axisY, tick.X, axisY+5, axisColor)
			fmt.Fprintf(&b, `    <text x="%.1f" y="%.1f" font-size="%d" text-anchor="middle">%s</text>`+"\n",
				tick.X, axisY+18, axisFontSize, html.EscapeString(tick.Label))
		}
		b.WriteString("  </g>\n")
	}

	if len(projection.Undated) > 0 {
		stripY := height - 30
		fmt.Fprintf(&b, `  <line x1="0" y1="%.1f" x2="%.0f" y2="%.1f" stroke="%s" stroke-dasharray="4 3"/>`+"\n",
			stripY, width, stripY, stripColor)
	}

	b.WriteString("  <g class=\"points\">\n")
	for _, p := range append(append([]*models.TimelinePoint{}, projection.Dated...), projection.Undated...) {
		fmt.Fprintf(&b, `    <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="0.85" stroke="#ffffff"/>`+"\n",
			p.X, p.Y, p.Radius, colors[p.Category])
	}
	b.WriteString("  </g>\n</svg>\n")
	return b.String()
}
