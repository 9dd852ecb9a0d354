package domain

import (
	"sort"
	"time"
)

// IsCompletedOn reports whether the habit was marked done on the calendar
// day of date (in date's location).
func IsCompletedOn(h *Habit, date time.Time) bool {
	return h.completedOnDay(DayOf(date))
}

func (h *Habit) IsCompletedOnDay(day Day) bool {
	return h.completedOnDay(day)
}

func (h *Habit) completedOnDay(day Day) bool {
	for _, d := range h.CompletionDates {
		if d == day {
			return true
		}
	}
	return false
}

// Toggle flips completion for the calendar day of date and returns the new
// state. Completion dates stay sorted and never hold the same day twice.
func Toggle(h *Habit, date time.Time) bool {
	return h.ToggleDay(DayOf(date))
}

func (h *Habit) ToggleDay(day Day) bool {
	if h.completedOnDay(day) {
		kept := h.CompletionDates[:0]
		for _, d := range h.CompletionDates {
			if d != day {
				kept = append(kept, d)
			}
		}
		h.CompletionDates = kept
		return false
	}

	h.CompletionDates = append(h.CompletionDates, day)
	sortDays(h.CompletionDates)
	return true
}

// NormalizeCompletions sorts and de-duplicates completion days, e.g. after
// loading data written by another tool.
func (h *Habit) NormalizeCompletions() {
	if len(h.CompletionDates) == 0 {
		h.CompletionDates = []Day{}
		return
	}

	sortDays(h.CompletionDates)
	unique := h.CompletionDates[:1]
	for _, d := range h.CompletionDates[1:] {
		if d != unique[len(unique)-1] {
			unique = append(unique, d)
		}
	}
	h.CompletionDates = unique
}

func (h *Habit) completionSet() map[Day]bool {
	set := make(map[Day]bool, len(h.CompletionDates))
	for _, d := range h.CompletionDates {
		set[d] = true
	}
	return set
}

func sortDays(days []Day) {
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
}
