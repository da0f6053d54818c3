// Package cli provides CLI output utilities for relmap.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/relmap/relmap/internal/models"
	"github.com/relmap/relmap/internal/render"
)

// OutputFormat is the format for projection output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
	// OutputSVG is a standalone SVG document.
	OutputSVG OutputFormat = "svg"
)

// ParseFormat maps a flag value onto an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON, OutputSVG:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, json, or svg", s)
	}
}

// WriteGraph writes a settled graph to w in the given format.
func WriteGraph(w io.Writer, resp *models.GraphResponse, format OutputFormat, width, height float64) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case OutputSVG:
		_, err := io.WriteString(w, render.Graph(resp.Points, resp.Edges, width, height))
		return err
	default:
		writeGraphText(w, resp)
		return nil
	}
}

func writeGraphText(w io.Writer, resp *models.GraphResponse) {
	fmt.Fprintf(w, "\n%d nodes, %d edges (settled in %d ticks)\n\n",
		len(resp.Points), len(resp.Edges), resp.Ticks)
	for _, p := range resp.Points {
		pin := ""
		if p.Pinned {
			pin = " [anchor]"
		}
		fmt.Fprintf(w, "  %-30s %-16s score %.2f at (%7.1f, %7.1f)%s\n",
			Truncate(p.Node.Name, 30), p.Node.Category, p.Node.Score, p.X, p.Y, pin)
	}
	if len(resp.Edges) > 0 {
		fmt.Fprintln(w)
		for _, e := range resp.Edges {
			fmt.Fprintf(w, "  %s -- %s (similarity %.2f)\n", e.Source, e.Target, e.Similarity)
		}
	}
}

// WriteTimeline writes a timeline projection to w in the given format.
func WriteTimeline(w io.Writer, proj *models.TimelineProjection, format OutputFormat, width, height float64) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(proj)
	case OutputSVG:
		_, err := io.WriteString(w, render.Timeline(proj, width, height))
		return err
	default:
		writeTimelineText(w, proj)
		return nil
	}
}

func writeTimelineText(w io.Writer, proj *models.TimelineProjection) {
	fmt.Fprintf(w, "\n%d dated, %d undated\n", len(proj.Dated), len(proj.Undated))
	if proj.XDomain != nil {
		fmt.Fprintf(w, "domain: %s .. %s\n",
			proj.XDomain.Start.Format("2006-01-02"), proj.XDomain.End.Format("2006-01-02"))
	}
	fmt.Fprintln(w)
	for _, p := range proj.Dated {
		fmt.Fprintf(w, "  %-30s %s score %.2f at (%7.1f, %7.1f)\n",
			Truncate(p.Name, 30), p.Date.Format("2006-01-02"), p.Score, p.X, p.Y)
	}
	for _, p := range proj.Undated {
		fmt.Fprintf(w, "  %-30s %-10s score %.2f at (%7.1f, %7.1f)\n",
			Truncate(p.Name, 30), "undated", p.Score, p.X, p.Y)
	}
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
