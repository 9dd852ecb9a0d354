package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const DayLayout = "2006-01-02"

var (
	ErrInvalidDay      = errors.New("invalid day (must be YYYY-MM-DD)")
	ErrInvalidWeekdays = errors.New("invalid weekdays (must be 1-7, 1 = Sunday)")
)

// Day is a calendar date without time of day or zone.
type Day struct {
	year  int
	month time.Month
	day   int
}

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

func NewDay(year int, month time.Month, day int) Day {
	return DayOf(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return DayOf(t), nil
}

func (d Day) Year() int { return d.year }
func (d Day) Month() time.Month { return d.month }
func (d Day) DayOfMonth() int { return d.day }
func (d Day) IsZero() bool { return d == Day{} }
func (d Day) String() string { return d.noon().Format(DayLayout) }
func (d Day) Weekday() Weekday { return WeekdayOf(d.noon().Weekday()) }
func (d Day) Before(o Day) bool { return d.Compare(o) < 0 }
func (d Day) After(o Day) bool { return d.Compare(o) > 0 }
func (d Day) AddDays(n int) Day { return DayOf(d.noon().AddDate(0, 0, n)) }

// noon anchors the day in UTC; there is no DST shift at 12:00 UTC so
// AddDate always lands on the neighbouring civil date.
func (d Day) noon() time.Time {
	return time.Date(d.year, d.month, d.day, 12, 0, 0, 0, time.UTC)
}

func (d Day) Compare(o Day) int {
	switch {
	case d.year != o.year:
		return cmpInt(d.year, o.year)
	case d.month != o.month:
		return cmpInt(int(d.month), int(o.month))
	default:
		return cmpInt(d.day, o.day)
	}
}

// In returns midnight of d in loc.
func (d Day) In(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// DaysUntil returns the number of calendar days from d to o.
func (d Day) DaysUntil(o Day) int {
	return int(o.noon().Sub(d.noon()).Hours() / 24)
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Weekday numbers days of the week 1 (Sunday) through 7 (Saturday).
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

func WeekdayOf(w time.Weekday) Weekday {
	return Weekday(w) + 1
}

func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return time.Weekday(w - 1).String()
}

// normalizeWeekdays de-duplicates and sorts days, rejecting values outside 1..7.
func normalizeWeekdays(days []Weekday) ([]Weekday, error) {
	if len(days) == 0 {
		return nil, nil
	}

	seen := make(map[Weekday]bool, len(days))
	unique := make([]Weekday, 0, len(days))
	for _, d := range days {
		if !d.Valid() {
			return nil, ErrInvalidWeekdays
		}
		if !seen[d] {
			seen[d] = true
			unique = append(unique, d)
		}
	}

	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })
	return unique, nil
}

func containsWeekday(days []Weekday, w Weekday) bool {
	for _, d := range days {
		if d == w {
			return true
		}
	}
	return false
}
