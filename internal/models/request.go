package models

import "fmt"

// GraphRequest asks for a projected and settled relationship graph.
type GraphRequest struct {
	// Dimension selects the category key attribute (document_type, matter_type,
	// file_type, organization). Empty means document_type.
	Dimension string `json:"dimension,omitempty"`
	// MinScore is the display threshold expressed 0-100.
	MinScore float64 `json:"min_score,omitempty"`
	// AnchorID optionally pins one node at the layout center.
	AnchorID string `json:"anchor_id,omitempty"`

	// Layout tuning overrides; zero values fall back to configured defaults.
	DistanceMultiplier float64 `json:"distance_multiplier,omitempty"`
	ChargeStrength     float64 `json:"charge_strength,omitempty"`
	CollisionRadius    float64 `json:"collision_radius,omitempty"`
	CenterX            float64 `json:"center_x,omitempty"`
	CenterY            float64 `json:"center_y,omitempty"`
}

// Validate normalizes the request in place.
func (q *GraphRequest) Validate() error {
	if q.MinScore < 0 || q.MinScore > 100 {
		return fmt.Errorf("min_score must be between 0 and 100, got %v", q.MinScore)
	}
	return nil
}

// TimelineRequest asks for a timeline projection of a dataset.
type TimelineRequest struct {
	DateField string  `json:"date_field,omitempty"`
	Dimension string  `json:"dimension,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
}

// Validate normalizes the request in place, defaulting the plot size.
func (q *TimelineRequest) Validate() error {
	if q.Width < 0 || q.Height < 0 {
		return fmt.Errorf("width and height must be non-negative")
	}
	if q.Width == 0 {
		q.Width = 1000
	}
	if q.Height == 0 {
		q.Height = 400
	}
	return nil
}

// GraphResponse is the settled layout returned to rendering clients.
type GraphResponse struct {
	Points  []*LayoutPoint `json:"points"`
	Edges   []*Edge        `json:"edges"`
	Settled bool           `json:"settled"`
	Ticks   int            `json:"ticks"`
	Cached  bool           `json:"cached,omitempty"`
}
