package domain

import "time"

const DefaultProgressWindow = 7

type ProgressPoint struct {
	Date      Day     `json:"date"`
	Value     float64 `json:"value"`
	MetTarget bool    `json:"met_target"`
}

// BuildSeries returns one point per calendar day for the windowDays days
// ending at ref (inclusive), oldest first. A completed day counts as the
// full target. Habits without a positive goal target get nil.
func BuildSeries(h *Habit, windowDays int, ref time.Time) []ProgressPoint {
	target, ok := h.Goal.Target()
	if !ok || windowDays <= 0 {
		return nil
	}

	done := h.completionSet()
	end := DayOf(ref)
	series := make([]ProgressPoint, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		day := end.AddDays(-i)
		value := 0.0
		if done[day] {
			value = target
		}
		series = append(series, ProgressPoint{
			Date:      day,
			Value:     value,
			MetTarget: value >= target,
		})
	}

	return series
}
