package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

func reminderHabit(t *testing.T, p domain.HabitParams) *domain.Habit {
	t.Helper()
	p.Name = "Meditate"
	p.ReminderEnabled = true
	p.ReminderTime = &domain.TimeOfDay{Hour: 7, Minute: 30}
	h, err := domain.NewHabit(p, created)
	require.NoError(t, err)
	return h
}

func TestBuildReminderPlan(t *testing.T) {
	t.Run("Daily gets one trigger keyed by the habit id", func(t *testing.T) {
		h := reminderHabit(t, domain.HabitParams{Recurrence: domain.RecurrenceDaily})

		plan := domain.BuildReminderPlan(h)

		require.Len(t, plan, 1)
		assert.Equal(t, h.ID, plan[0].TriggerID)
		assert.Equal(t, h.ID, plan[0].HabitID)
		assert.Nil(t, plan[0].RepeatingWeekday)
		assert.Equal(t, 7, plan[0].Hour)
		assert.Equal(t, 30, plan[0].Minute)
		assert.Equal(t, domain.ReminderTitle, plan[0].Title)
		assert.Contains(t, plan[0].Body, "Meditate")
	})

	t.Run("Weekdays get five weekday triggers", func(t *testing.T) {
		h := reminderHabit(t, domain.HabitParams{Recurrence: domain.RecurrenceWeekdays})

		plan := domain.BuildReminderPlan(h)

		require.Len(t, plan, 5)
		for i, spec := range plan {
			want := domain.Weekday(i + 2)
			require.NotNil(t, spec.RepeatingWeekday)
			assert.Equal(t, want, *spec.RepeatingWeekday)
			assert.Equal(t, h.ID+"-"+string(rune('0'+int(want))), spec.TriggerID)
		}
	})

	t.Run("Weekends get Sunday and Saturday", func(t *testing.T) {
		h := reminderHabit(t, domain.HabitParams{Recurrence: domain.RecurrenceWeekends})

		plan := domain.BuildReminderPlan(h)

		require.Len(t, plan, 2)
		assert.Equal(t, h.ID+"-1", plan[0].TriggerID)
		assert.Equal(t, h.ID+"-7", plan[1].TriggerID)
	})

	t.Run("Weekly follows the reminder days", func(t *testing.T) {
		h := reminderHabit(t, domain.HabitParams{
			Recurrence:       domain.RecurrenceWeekly,
			ActiveWeekdays:   []domain.Weekday{domain.Monday, domain.Wednesday},
			ReminderWeekdays: []domain.Weekday{domain.Friday},
		})

		plan := domain.BuildReminderPlan(h)

		require.Len(t, plan, 1)
		assert.Equal(t, h.ID+"-6", plan[0].TriggerID)
	})

	t.Run("Weekly without days has no triggers", func(t *testing.T) {
		h := reminderHabit(t, domain.HabitParams{Recurrence: domain.RecurrenceWeekly})
		assert.Empty(t, domain.BuildReminderPlan(h))
	})

	t.Run("Disabled reminder has no triggers", func(t *testing.T) {
		h := reminderHabit(t, domain.HabitParams{})
		h.Reminder.Enabled = false
		assert.Nil(t, domain.BuildReminderPlan(h))
	})
}

func TestReminderTriggerIDs(t *testing.T) {
	ids := domain.ReminderTriggerIDs("abc")

	assert.Equal(t, []string{"abc", "abc-1", "abc-2", "abc-3", "abc-4", "abc-5", "abc-6", "abc-7"}, ids)
}

func TestReminderTriggerIDs_CoverEveryPlan(t *testing.T) {
	for _, rec := range []domain.Recurrence{domain.RecurrenceDaily, domain.RecurrenceWeekdays, domain.RecurrenceWeekends} {
		h := reminderHabit(t, domain.HabitParams{Recurrence: rec})
		all := domain.ReminderTriggerIDs(h.ID)
		for _, spec := range domain.BuildReminderPlan(h) {
			assert.Contains(t, all, spec.TriggerID, string(rec))
		}
	}
}
