package timeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/relmap/relmap/internal/models"
)

func TestProject_DegenerateGuards(t *testing.T) {
	records := []*models.ResultRecord{{ID: "a", Score: 0.5, CreatedDate: "2024-01-01"}}
	tests := []struct {
		name    string
		records []*models.ResultRecord
		opts    Options
	}{
		{"zero width", records, Options{Width: 0, Height: 300}},
		{"zero height", records, Options{Width: 500, Height: 0}},
		{"negative width", records, Options{Width: -10, Height: 300}},
		{"no records", nil, Options{Width: 500, Height: 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(tt.records, tt.opts)
			if len(got.Dated) != 0 || len(got.Undated) != 0 {
				t.Errorf("points = %d dated, %d undated; want none", len(got.Dated), len(got.Undated))
			}
			if got.XDomain != nil {
				t.Error("XDomain must be nil for degenerate input")
			}
			if len(got.Ticks) != 0 {
				t.Errorf("ticks = %d, want 0", len(got.Ticks))
			}
		})
	}
}

func TestProject_Coverage(t *testing.T) {
	mixed := []*models.ResultRecord{
		{ID: "1", Score: 0.1, CreatedDate: "2024-01-01"},
		{ID: "2", Score: 0.2},
		{ID: "3", Score: 0.3, CreatedDate: "not a date"},
		{ID: "4", Score: 0.4, CreatedDate: "2024-03-15T10:30:00Z"},
		{ID: "5", Score: 0.5, CreatedDate: "03/20/2024"},
	}
	allDated := []*models.ResultRecord{
		{ID: "1", Score: 0.1, CreatedDate: "2024-01-01"},
		{ID: "2", Score: 0.2, CreatedDate: "2024-02-01"},
	}
	allUndated := []*models.ResultRecord{
		{ID: "1", Score: 0.1},
		{ID: "2", Score: 0.2, CreatedDate: "garbage"},
		{ID: "3", Score: 0.3},
	}

	tests := []struct {
		name        string
		records     []*models.ResultRecord
		wantDated   int
		wantUndated int
	}{
		{"mixed", mixed, 3, 2},
		{"all dated", allDated, 2, 0},
		{"all undated", allUndated, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(tt.records, Options{Width: 800, Height: 400})
			if len(got.Dated) != tt.wantDated || len(got.Undated) != tt.wantUndated {
				t.Fatalf("got %d dated, %d undated; want %d, %d",
					len(got.Dated), len(got.Undated), tt.wantDated, tt.wantUndated)
			}
			if len(got.Dated)+len(got.Undated) != len(tt.records) {
				t.Errorf("coverage broken: %d+%d != %d", len(got.Dated), len(got.Undated), len(tt.records))
			}
			seen := map[string]bool{}
			for _, p := range append(append([]*models.TimelinePoint{}, got.Dated...), got.Undated...) {
				if seen[p.ID] {
					t.Errorf("duplicate point %s", p.ID)
				}
				seen[p.ID] = true
			}
		})
	}
}

func TestProject_AllUndatedSpreadsEvenly(t *testing.T) {
	records := []*models.ResultRecord{
		{ID: "1", Score: 0.5},
		{ID: "2", Score: 0.5},
		{ID: "3", Score: 0.5},
	}
	got := Project(records, Options{Width: 500, Height: 300})
	if got.XDomain != nil || len(got.Ticks) != 0 {
		t.Error("all-undated projection must not produce an axis")
	}
	if len(got.Undated) != 3 {
		t.Fatalf("undated = %d, want 3", len(got.Undated))
	}
	// First at left margin, last at right margin, evenly spaced.
	if got.Undated[0].X != MarginLeft {
		t.Errorf("first x = %v, want %v", got.Undated[0].X, MarginLeft)
	}
	if got.Undated[2].X != 500-MarginRight {
		t.Errorf("last x = %v, want %v", got.Undated[2].X, 500-MarginRight)
	}
	mid := (MarginLeft + 500 - MarginRight) / 2
	if got.Undated[1].X != mid {
		t.Errorf("middle x = %v, want %v", got.Undated[1].X, mid)
	}
	for _, p := range got.Undated {
		if p.Y != 300-15 {
			t.Errorf("undated y = %v, want %v", p.Y, 300-15)
		}
	}
}

func TestProject_MixedExample(t *testing.T) {
	records := []*models.ResultRecord{
		{ID: "jan", Score: 0.2, CreatedDate: "2024-01-01"},
		{ID: "jun", Score: 0.5, CreatedDate: "2024-06-01"},
		{ID: "bad", Score: 0.9, CreatedDate: "invalid-date"},
	}
	got := Project(records, Options{Width: 500, Height: 300})

	if len(got.Dated) != 2 || len(got.Undated) != 1 {
		t.Fatalf("got %d dated, %d undated; want 2, 1", len(got.Dated), len(got.Undated))
	}

	// Single undated record is centered at width/2.
	if got.Undated[0].X != 250 {
		t.Errorf("undated x = %v, want 250", got.Undated[0].X)
	}

	if got.XDomain == nil {
		t.Fatal("expected a time domain")
	}
	wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.XDomain.Start.Equal(wantStart) || !got.XDomain.End.Equal(wantEnd) {
		t.Errorf("XDomain = [%v, %v], want [%v, %v]", got.XDomain.Start, got.XDomain.End, wantStart, wantEnd)
	}

	// Dated points are ordered along the time scale: jan at left edge, jun at right.
	var jan, jun *models.TimelinePoint
	for _, p := range got.Dated {
		switch p.ID {
		case "jan":
			jan = p
		case "jun":
			jun = p
		}
	}
	if jan.X != MarginLeft {
		t.Errorf("jan x = %v, want %v", jan.X, MarginLeft)
	}
	if jun.X != 500-MarginRight {
		t.Errorf("jun x = %v, want %v", jun.X, 500-MarginRight)
	}
	if jan.X >= jun.X {
		t.Error("dated points not ordered by the time scale")
	}

	if len(got.Ticks) == 0 {
		t.Error("expected axis ticks")
	}
	for _, tick := range got.Ticks {
		if tick.X < MarginLeft || tick.X > 500-MarginRight {
			t.Errorf("tick %q at x=%v outside plot area", tick.Label, tick.X)
		}
	}

	// Radius formula: 5 + score*18.
	if jun.Radius != 5+0.5*18 {
		t.Errorf("radius = %v, want 14", jun.Radius)
	}
}

func TestProject_ScoreAxis(t *testing.T) {
	records := []*models.ResultRecord{
		{ID: "hi", Score: 1, CreatedDate: "2024-01-01"},
		{ID: "lo", Score: 0, CreatedDate: "2024-06-01"},
	}
	got := Project(records, Options{Width: 500, Height: 300})
	var hi, lo *models.TimelinePoint
	for _, p := range got.Dated {
		if p.ID == "hi" {
			hi = p
		} else {
			lo = p
		}
	}
	if hi.Y != MarginTop {
		t.Errorf("score 1 y = %v, want top margin %v", hi.Y, MarginTop)
	}
	wantBottom := 300 - MarginBottom - UndatedStripHeight
	if lo.Y != wantBottom {
		t.Errorf("score 0 y = %v, want plot bottom %v", lo.Y, wantBottom)
	}
}

func TestProject_SameDateDomain(t *testing.T) {
	records := []*models.ResultRecord{
		{ID: "1", Score: 0.5, CreatedDate: "2024-04-01"},
		{ID: "2", Score: 0.6, CreatedDate: "2024-04-01"},
	}
	got := Project(records, Options{Width: 500, Height: 300})
	if len(got.Dated) != 2 {
		t.Fatalf("dated = %d, want 2", len(got.Dated))
	}
	center := (MarginLeft + 500 - MarginRight) / 2
	for _, p := range got.Dated {
		if p.X != center {
			t.Errorf("zero-span domain x = %v, want centered %v", p.X, center)
		}
	}
	if len(got.Ticks) != 1 {
		t.Errorf("ticks = %d, want single centered tick", len(got.Ticks))
	}
}

func TestProject_LargeInputCoverage(t *testing.T) {
	var records []*models.ResultRecord
	for i := 0; i < 200; i++ {
		r := &models.ResultRecord{ID: fmt.Sprintf("r%d", i), Score: float64(i%10) / 10}
		if i%3 == 0 {
			r.CreatedDate = fmt.Sprintf("2024-%02d-01", i%12+1)
		}
		records = append(records, r)
	}
	got := Project(records, Options{Width: 1200, Height: 600})
	if len(got.Dated)+len(got.Undated) != len(records) {
		t.Errorf("coverage broken: %d+%d != %d", len(got.Dated), len(got.Undated), len(records))
	}
}
