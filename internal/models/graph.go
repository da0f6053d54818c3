package models

import "time"

// Node is a projected visual unit for the relationship graph. Nodes are built
// fresh on every projection pass and never mutated afterwards.
type Node struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Radius   float64 `json:"radius"`
	Category string  `json:"category"`

	// Record is the source record the node was projected from.
	Record *ResultRecord `json:"-"`
}

// Edge connects two nodes whose pairwise similarity exceeded the inclusion
// threshold. Undirected in meaning; Source always holds the lower-index node
// of the pair so edge identity is stable across passes.
type Edge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Similarity float64 `json:"similarity"`
}

// Graph is the projector output consumed by the force layout engine.
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
}

// LayoutPoint is a node with its simulated position. Pinned marks the anchor
// node held at the layout center.
type LayoutPoint struct {
	Node   *Node   `json:"node"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Pinned bool    `json:"pinned,omitempty"`
}

// TimelinePoint is a record positioned on the timeline. Date is nil for
// undated points, which sit in the bottom strip.
type TimelinePoint struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Category string     `json:"category"`
	Score    float64    `json:"score"`
	Date     *time.Time `json:"date,omitempty"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Radius   float64    `json:"radius"`

	Record *ResultRecord `json:"-"`
}

// TimeRange is the [Start, End] domain of the time axis.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AxisTick is a labelled tick mark on the time axis.
type AxisTick struct {
	Time  time.Time `json:"time"`
	X     float64   `json:"x"`
	Label string    `json:"label"`
}

// TimelineProjection is the timeline projector output. Every input record
// appears in exactly one of Dated or Undated. XDomain is nil and Ticks empty
// when no record carries a parseable date (or the input was degenerate).
type TimelineProjection struct {
	Dated   []*TimelinePoint `json:"dated"`
	Undated []*TimelinePoint `json:"undated"`
	XDomain *TimeRange       `json:"x_domain,omitempty"`
	Ticks   []AxisTick       `json:"ticks"`
}
