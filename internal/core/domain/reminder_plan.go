package domain

import "fmt"

const ReminderTitle = "OneDo"

// TriggerSpec is one repeating notification the delivery side should hold.
// RepeatingWeekday nil means every day.
type TriggerSpec struct {
	TriggerID        string   `json:"trigger_id"`
	HabitID          string   `json:"habit_id"`
	Hour             int      `json:"hour"`
	Minute           int      `json:"minute"`
	RepeatingWeekday *Weekday `json:"repeating_weekday,omitempty"`
	Title            string   `json:"title"`
	Body             string   `json:"body"`
}

// BuildReminderPlan expands a habit's reminder into repeating triggers.
// Daily habits get a single trigger keyed by the habit id; the others get
// one trigger per active weekday keyed "<id>-<weekday>".
func BuildReminderPlan(h *Habit) []TriggerSpec {
	if !h.Reminder.Enabled || h.Reminder.TimeOfDay == nil {
		return nil
	}

	tod := *h.Reminder.TimeOfDay
	body := fmt.Sprintf("Time to do %s!", h.Name)

	if h.Recurrence == RecurrenceDaily {
		return []TriggerSpec{{
			TriggerID: h.ID,
			HabitID:   h.ID,
			Hour:      tod.Hour,
			Minute:    tod.Minute,
			Title:     ReminderTitle,
			Body:      body,
		}}
	}

	var days []Weekday
	if h.Recurrence == RecurrenceWeekly {
		days = h.Recurrence.ActiveWeekdays(h.Reminder.Weekdays)
	} else {
		days = h.Recurrence.ActiveWeekdays(nil)
	}

	plan := make([]TriggerSpec, 0, len(days))
	for _, wd := range days {
		wd := wd
		plan = append(plan, TriggerSpec{
			TriggerID:        weekdayTriggerID(h.ID, wd),
			HabitID:          h.ID,
			Hour:             tod.Hour,
			Minute:           tod.Minute,
			RepeatingWeekday: &wd,
			Title:            ReminderTitle,
			Body:             body,
		})
	}

	return plan
}

// ReminderTriggerIDs lists every trigger id a habit could have produced, for
// cancellation when it is edited or deleted.
func ReminderTriggerIDs(habitID string) []string {
	ids := make([]string, 0, 8)
	ids = append(ids, habitID)
	for wd := Sunday; wd <= Saturday; wd++ {
		ids = append(ids, weekdayTriggerID(habitID, wd))
	}
	return ids
}

func weekdayTriggerID(habitID string, wd Weekday) string {
	return fmt.Sprintf("%s-%d", habitID, int(wd))
}
