package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidColor    = errors.New("invalid color format (must be #RRGGBB)")
	ErrInvalidTarget   = errors.New("target cannot be negative")
	ErrInvalidGoalType = errors.New("invalid goal type (must be none, count, or duration)")
	ErrInvalidReminder = errors.New("invalid reminder format (must be HH:MM 24h)")
	ErrReminderNoTime  = errors.New("an enabled reminder needs a time of day")
	ErrHabitNameEmpty  = errors.New("habit name cannot be empty")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
var reminderRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):([0-5][0-9])$`)

type GoalType string

const (
	GoalNone     GoalType = "none"
	GoalCount    GoalType = "count"
	GoalDuration GoalType = "duration"
)

// TimeOfDay is a wall-clock reminder time, serialized as "HH:MM".
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := reminderRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return TimeOfDay{}, ErrInvalidReminder
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Reminder struct {
	Enabled   bool       `json:"enabled"`
	TimeOfDay *TimeOfDay `json:"time_of_day,omitempty"`
	Weekdays  []Weekday  `json:"weekdays,omitempty"`
}

type Goal struct {
	Type        GoalType `json:"type"`
	TargetValue *float64 `json:"target_value,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
}

// Target returns the goal's target when the goal is usable for progress.
func (g Goal) Target() (float64, bool) {
	if g.Type == GoalNone || g.Type == "" || g.TargetValue == nil || *g.TargetValue <= 0 {
		return 0, false
	}
	return *g.TargetValue, true
}

// Icon is presentation-only and opaque to the engine.
type Icon struct {
	SymbolID *string `json:"symbol_id,omitempty"`
	ColorHex *string `json:"color_hex,omitempty"`
}

type Habit struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Recurrence      Recurrence `json:"recurrence"`
	ActiveWeekdays  []Weekday  `json:"active_weekdays,omitempty"`
	CompletionDates []Day      `json:"completion_dates"`
	Reminder        Reminder   `json:"reminder"`
	Goal            Goal       `json:"goal"`
	Icon            Icon       `json:"icon"`
	SortOrder       int        `json:"sort_order"`
	Version         int        `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// HabitParams carries the user-editable fields of a habit.
// ReminderWeekdays == nil on creation means "same as ActiveWeekdays".
type HabitParams struct {
	Name             string
	Recurrence       Recurrence
	ActiveWeekdays   []Weekday
	ReminderEnabled  bool
	ReminderTime     *TimeOfDay
	ReminderWeekdays []Weekday
	GoalType         GoalType
	TargetValue      *float64
	Unit             *string
	SymbolID         *string
	ColorHex         *string
}

type normalizedParams struct {
	recurrence       Recurrence
	activeWeekdays   []Weekday
	reminderWeekdays []Weekday
	goal             Goal
}

func validateAndNormalize(p HabitParams) (normalizedParams, error) {
	rec := p.Recurrence
	if rec == "" {
		rec = RecurrenceDaily
	}
	if !rec.Valid() {
		return normalizedParams{}, ErrInvalidRecurrence
	}

	active, err := normalizeWeekdays(p.ActiveWeekdays)
	if err != nil {
		return normalizedParams{}, err
	}
	reminderDays, err := normalizeWeekdays(p.ReminderWeekdays)
	if err != nil {
		return normalizedParams{}, err
	}

	if p.ReminderEnabled && p.ReminderTime == nil {
		return normalizedParams{}, ErrReminderNoTime
	}
	if t := p.ReminderTime; t != nil && (t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59) {
		return normalizedParams{}, ErrInvalidReminder
	}

	goalType := p.GoalType
	if goalType == "" {
		goalType = GoalNone
	}
	goal := Goal{Type: goalType}
	switch goalType {
	case GoalNone:
	case GoalCount, GoalDuration:
		if p.TargetValue != nil && *p.TargetValue < 0 {
			return normalizedParams{}, ErrInvalidTarget
		}
		goal.TargetValue = copyFloat(p.TargetValue)
		goal.Unit = copyString(p.Unit)
	default:
		return normalizedParams{}, ErrInvalidGoalType
	}

	if p.ColorHex != nil && *p.ColorHex != "" && !colorRegex.MatchString(*p.ColorHex) {
		return normalizedParams{}, ErrInvalidColor
	}

	return normalizedParams{
		recurrence:       rec,
		activeWeekdays:   active,
		reminderWeekdays: reminderDays,
		goal:             goal,
	}, nil
}

// NewHabit builds a habit with a fresh id. The name is stored as given; the
// form layer is responsible for rejecting empty names.
func NewHabit(p HabitParams, now time.Time) (*Habit, error) {
	n, err := validateAndNormalize(p)
	if err != nil {
		return nil, err
	}

	reminderDays := n.reminderWeekdays
	if p.ReminderWeekdays == nil && n.recurrence == RecurrenceWeekly {
		reminderDays = append([]Weekday(nil), n.activeWeekdays...)
	}

	now = now.UTC()

	return &Habit{
		ID:              uuid.New().String(),
		Name:            p.Name,
		Recurrence:      n.recurrence,
		ActiveWeekdays:  n.activeWeekdays,
		CompletionDates: []Day{},
		Reminder: Reminder{
			Enabled:   p.ReminderEnabled,
			TimeOfDay: copyTime(p.ReminderTime),
			Weekdays:  reminderDays,
		},
		Goal: n.goal,
		Icon: Icon{
			SymbolID: copyString(p.SymbolID),
			ColorHex: copyString(p.ColorHex),
		},
		SortOrder: 0,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update replaces the editable fields. Identity, creation time and
// completion history are untouched.
func (h *Habit) Update(p HabitParams, now time.Time) error {
	n, err := validateAndNormalize(p)
	if err != nil {
		return err
	}

	h.Name = p.Name
	h.Recurrence = n.recurrence
	h.ActiveWeekdays = n.activeWeekdays
	h.Reminder = Reminder{
		Enabled:   p.ReminderEnabled,
		TimeOfDay: copyTime(p.ReminderTime),
		Weekdays:  n.reminderWeekdays,
	}
	h.Goal = n.goal
	h.Icon = Icon{
		SymbolID: copyString(p.SymbolID),
		ColorHex: copyString(p.ColorHex),
	}
	h.UpdatedAt = now.UTC()

	return nil
}

// Params returns the editable fields, so callers can merge partial edits.
func (h *Habit) Params() HabitParams {
	return HabitParams{
		Name:             h.Name,
		Recurrence:       h.Recurrence,
		ActiveWeekdays:   append([]Weekday(nil), h.ActiveWeekdays...),
		ReminderEnabled:  h.Reminder.Enabled,
		ReminderTime:     copyTime(h.Reminder.TimeOfDay),
		ReminderWeekdays: append([]Weekday(nil), h.Reminder.Weekdays...),
		GoalType:         h.Goal.Type,
		TargetValue:      copyFloat(h.Goal.TargetValue),
		Unit:             copyString(h.Goal.Unit),
		SymbolID:         copyString(h.Icon.SymbolID),
		ColorHex:         copyString(h.Icon.ColorHex),
	}
}

func (h *Habit) ChangePosition(newOrder int, now time.Time) {
	h.SortOrder = newOrder
	h.UpdatedAt = now.UTC()
}

// IsDueOn applies the habit's recurrence to the calendar day of date.
func (h *Habit) IsDueOn(date time.Time) bool {
	return IsDue(h.Recurrence, date, h.ActiveWeekdays)
}

func (h *Habit) Clone() *Habit {
	if h == nil {
		return nil
	}
	c := *h
	c.ActiveWeekdays = append([]Weekday(nil), h.ActiveWeekdays...)
	c.CompletionDates = append([]Day{}, h.CompletionDates...)
	c.Reminder.TimeOfDay = copyTime(h.Reminder.TimeOfDay)
	c.Reminder.Weekdays = append([]Weekday(nil), h.Reminder.Weekdays...)
	c.Goal.TargetValue = copyFloat(h.Goal.TargetValue)
	c.Goal.Unit = copyString(h.Goal.Unit)
	c.Icon.SymbolID = copyString(h.Icon.SymbolID)
	c.Icon.ColorHex = copyString(h.Icon.ColorHex)
	return &c
}

// ParseTargetValue reads a goal value typed by the user. Anything that is not
// a positive number is "no value".
func ParseTargetValue(text string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func copyTime(t *TimeOfDay) *TimeOfDay {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
