package timeline

import (
	"time"

	"github.com/relmap/relmap/internal/models"
)

// dateLayouts are tried in order when parsing a record date field.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// parseDate parses a record date string. Empty or malformed values report
// false: the record is undated, never an error.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// timeScale is a linear time-to-pixel mapping over [lo, hi] -> [left, right].
type timeScale struct {
	lo, hi      time.Time
	left, right float64
}

func newTimeScale(lo, hi time.Time, left, right float64) *timeScale {
	return &timeScale{lo: lo, hi: hi, left: left, right: right}
}

// X maps t into pixel space. A zero-span domain maps everything to the middle
// of the range.
func (s *timeScale) X(t time.Time) float64 {
	span := s.hi.Sub(s.lo)
	if span <= 0 {
		return (s.left + s.right) / 2
	}
	frac := float64(t.Sub(s.lo)) / float64(span)
	return s.left + frac*(s.right-s.left)
}

// tickSteps are candidate tick intervals from minutes up to years.
var tickSteps = []time.Duration{
	time.Minute,
	5 * time.Minute,
	15 * time.Minute,
	30 * time.Minute,
	time.Hour,
	3 * time.Hour,
	6 * time.Hour,
	12 * time.Hour,
	24 * time.Hour,
	7 * 24 * time.Hour,
	30 * 24 * time.Hour,
	90 * 24 * time.Hour,
	365 * 24 * time.Hour,
}

// Ticks generates approximately count labelled tick marks across the domain.
// A zero-span domain yields a single centered tick.
func (s *timeScale) Ticks(count int) []models.AxisTick {
	span := s.hi.Sub(s.lo)
	if span <= 0 {
		return []models.AxisTick{{
			Time:  s.lo,
			X:     s.X(s.lo),
			Label: s.lo.Format(labelLayout(0)),
		}}
	}

	target := span / time.Duration(count)
	step := tickSteps[len(tickSteps)-1]
	for _, candidate := range tickSteps {
		if candidate >= target {
			step = candidate
			break
		}
	}

	layout := labelLayout(step)
	ticks := []models.AxisTick{}
	for t := s.lo.Truncate(step); !t.After(s.hi); t = t.Add(step) {
		if t.Before(s.lo) {
			continue
		}
		ticks = append(ticks, models.AxisTick{
			Time:  t,
			X:     s.X(t),
			Label: t.Format(layout),
		})
	}
	if len(ticks) == 0 {
		ticks = append(ticks, models.AxisTick{
			Time:  s.lo,
			X:     s.X(s.lo),
			Label: s.lo.Format(layout),
		})
	}
	return ticks
}

// labelLayout picks a tick label format appropriate for the step size.
func labelLayout(step time.Duration) string {
	switch {
	case step == 0:
		return "2006-01-02"
	case step < 24*time.Hour:
		return "Jan 2 15:04"
	case step < 90*24*time.Hour:
		return "Jan 2 2006"
	default:
		return "Jan 2006"
	}
}
