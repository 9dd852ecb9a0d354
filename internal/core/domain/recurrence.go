package domain

import (
	"errors"
	"time"
)

var ErrInvalidRecurrence = errors.New("invalid recurrence (must be daily, weekdays, weekends, or weekly)")

type Recurrence string

const (
	RecurrenceDaily    Recurrence = "daily"
	RecurrenceWeekdays Recurrence = "weekdays"
	RecurrenceWeekends Recurrence = "weekends"
	RecurrenceWeekly   Recurrence = "weekly"
)

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekdays, RecurrenceWeekends, RecurrenceWeekly:
		return true
	default:
		return false
	}
}

// IsDue reports whether a habit with the given recurrence is due on the
// calendar day of date. weeklyDays is only consulted for RecurrenceWeekly.
func IsDue(r Recurrence, date time.Time, weeklyDays []Weekday) bool {
	return r.IsDueOn(DayOf(date), weeklyDays)
}

func (r Recurrence) IsDueOn(day Day, weeklyDays []Weekday) bool {
	wd := day.Weekday()

	switch r {
	case RecurrenceDaily:
		return true
	case RecurrenceWeekdays:
		return wd >= Monday && wd <= Friday
	case RecurrenceWeekends:
		return wd == Saturday || wd == Sunday
	case RecurrenceWeekly:
		return containsWeekday(weeklyDays, wd)
	default:
		return false
	}
}

// ActiveWeekdays lists the weekdays on which r is due.
func (r Recurrence) ActiveWeekdays(weeklyDays []Weekday) []Weekday {
	switch r {
	case RecurrenceDaily:
		return []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
	case RecurrenceWeekdays:
		return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}
	case RecurrenceWeekends:
		return []Weekday{Sunday, Saturday}
	case RecurrenceWeekly:
		days, err := normalizeWeekdays(weeklyDays)
		if err != nil {
			return nil
		}
		return days
	default:
		return nil
	}
}
