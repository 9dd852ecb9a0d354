package domain

import "time"

// MaxStreakLookback bounds every backward walk over a habit's history.
const MaxStreakLookback = 3650

// CurrentStreak counts consecutive due-and-completed days ending at today.
// Today must itself be completed. Days the habit is not due are skipped
// without breaking or extending the streak.
func CurrentStreak(h *Habit, today time.Time) int {
	start := DayOf(today)
	if !h.completedOnDay(start) {
		return 0
	}

	done := h.completionSet()
	earliest := h.CompletionDates[0]
	for _, d := range h.CompletionDates {
		if d.Before(earliest) {
			earliest = d
		}
	}

	streak := 1
	day := start
	// Before the earliest completion every due day is a miss, so the walk
	// can stop there without changing the result.
	for steps := 0; steps < MaxStreakLookback; steps++ {
		day = day.AddDays(-1)
		if day.Before(earliest) {
			break
		}
		if !h.Recurrence.IsDueOn(day, h.ActiveWeekdays) {
			continue
		}
		if !done[day] {
			break
		}
		streak++
	}

	return streak
}

// LongestStreak is the best CurrentStreak any completed day in the history
// would report. Due-and-completed days form the run and a completed day
// that is not due still counts when the run ends on it, so the result is
// never below CurrentStreak for the same habit.
func LongestStreak(h *Habit) int {
	if len(h.CompletionDates) == 0 {
		return 0
	}

	done := h.completionSet()
	first, last := h.CompletionDates[0], h.CompletionDates[0]
	for _, d := range h.CompletionDates {
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	if first.DaysUntil(last) > MaxStreakLookback {
		first = last.AddDays(-MaxStreakLookback)
	}

	longest, run := 0, 0
	for day := first; !day.After(last); day = day.AddDays(1) {
		due := h.Recurrence.IsDueOn(day, h.ActiveWeekdays)
		switch {
		case due && done[day]:
			run++
			longest = max(longest, run)
		case due:
			run = 0
		case done[day]:
			// Ending here, as CurrentStreak does on an off day.
			longest = max(longest, run+1)
		}
	}

	return longest
}
