// Package timeline maps result records onto a time/score plot.
//
// Records whose configured date field parses are positioned by a linear time
// scale; the rest land in a fixed strip along the bottom. Every input record
// appears in exactly one of the two sets.
package timeline

import (
	"time"

	"github.com/relmap/relmap/internal/models"
	"github.com/relmap/relmap/internal/similarity"
	"github.com/relmap/relmap/pkg/utils"
)

// Plot geometry. The undated strip is reserved at the bottom of the plot area.
const (
	MarginTop    = 20.0
	MarginRight  = 20.0
	MarginBottom = 40.0
	MarginLeft   = 50.0

	UndatedStripHeight = 30.0
	undatedYInset      = 15.0

	tickCount = 6

	minRadius   = 5.0
	radiusRange = 18.0
)

// Options configures a timeline projection.
type Options struct {
	// DateField selects which record date attribute drives the time axis.
	DateField models.DateField
	// Dimension selects the category key attribute for point coloring.
	Dimension similarity.Dimension
	// Width, Height are the plot size in pixels.
	Width  float64
	Height float64
}

// Project maps records onto the time axis. Non-positive dimensions or an
// empty record set yield an empty projection. When no record carries a
// parseable date, all records are spread evenly along the bottom strip and no
// axis is produced; that is a valid degraded output, not an error.
func Project(records []*models.ResultRecord, opts Options) *models.TimelineProjection {
	projection := &models.TimelineProjection{
		Dated:   []*models.TimelinePoint{},
		Undated: []*models.TimelinePoint{},
		Ticks:   []models.AxisTick{},
	}
	if opts.Width <= 0 || opts.Height <= 0 || len(records) == 0 {
		return projection
	}

	type bucketed struct {
		record *models.ResultRecord
		date   *time.Time
	}
	items := make([]bucketed, 0, len(records))
	var undatedCount int
	for _, r := range records {
		if r == nil {
			continue
		}
		item := bucketed{record: r}
		if d, ok := parseDate(r.DateValue(opts.DateField)); ok {
			item.date = &d
		} else {
			undatedCount++
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return projection
	}

	undatedX := stripPositions(undatedCount, opts.Width)
	undatedY := opts.Height - undatedYInset

	// Time scale exists only when at least one record is dated.
	var scale *timeScale
	if undatedCount < len(items) {
		var lo, hi time.Time
		first := true
		for _, item := range items {
			if item.date == nil {
				continue
			}
			if first {
				lo, hi = *item.date, *item.date
				first = false
				continue
			}
			if item.date.Before(lo) {
				lo = *item.date
			}
			if item.date.After(hi) {
				hi = *item.date
			}
		}
		scale = newTimeScale(lo, hi, MarginLeft, opts.Width-MarginRight)
		projection.XDomain = &models.TimeRange{Start: lo, End: hi}
		projection.Ticks = scale.Ticks(tickCount)
	}

	// Score scale maps [0,1] onto the plot area above the undated strip.
	plotBottom := opts.Height - MarginBottom - UndatedStripHeight
	if plotBottom < MarginTop {
		plotBottom = MarginTop
	}

	undatedIdx := 0
	for _, item := range items {
		r := item.record
		point := &models.TimelinePoint{
			ID:       r.ID,
			Name:     r.Name,
			Category: similarity.CategoryKey(r, opts.Dimension),
			Score:    r.Score,
			Radius:   minRadius + r.Score*radiusRange,
			Record:   r,
		}
		if item.date != nil {
			point.Date = item.date
			point.X = scale.X(*item.date)
			point.Y = MarginTop + (1-utils.Clamp01(r.Score))*(plotBottom-MarginTop)
			projection.Dated = append(projection.Dated, point)
		} else {
			point.X = undatedX[undatedIdx]
			point.Y = undatedY
			undatedIdx++
			projection.Undated = append(projection.Undated, point)
		}
	}
	return projection
}

// stripPositions spreads n points along the x axis: first at the left margin,
// last at the right margin, a single point centered.
func stripPositions(n int, width float64) []float64 {
	xs := make([]float64, n)
	if n == 0 {
		return xs
	}
	if n == 1 {
		xs[0] = width / 2
		return xs
	}
	span := width - MarginLeft - MarginRight
	step := span / float64(n-1)
	for i := range xs {
		xs[i] = MarginLeft + float64(i)*step
	}
	return xs
}
