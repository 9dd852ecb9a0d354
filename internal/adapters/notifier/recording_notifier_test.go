package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

func TestRecordingNotifier(t *testing.T) {
	ctx := context.Background()
	n := NewRecordingNotifier()
	h, err := domain.NewHabit(domain.HabitParams{
		Name:            "Stretch",
		Recurrence:      domain.RecurrenceWeekdays,
		ReminderEnabled: true,
		ReminderTime:    &domain.TimeOfDay{Hour: 6, Minute: 45},
	}, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	plan := domain.BuildReminderPlan(h)
	require.Len(t, plan, 5)

	require.NoError(t, n.Schedule(ctx, plan[0].HabitID, plan))
	got := n.Triggers()
	require.Len(t, got, len(plan))
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, weekdayOrder(got[i-1].RepeatingWeekday), weekdayOrder(got[i].RepeatingWeekday))
	}

	t.Run("Success: Rescheduling replaces by id", func(t *testing.T) {
		require.NoError(t, n.Schedule(ctx, plan[0].HabitID, plan))
		assert.Len(t, n.Triggers(), len(plan))
	})

	t.Run("Success: Cancel removes only known triggers", func(t *testing.T) {
		ids := domain.ReminderTriggerIDs(plan[0].HabitID)
		require.NoError(t, n.Cancel(ctx, ids))

		assert.Empty(t, n.Triggers())
		assert.Equal(t, len(plan), n.Cancelled())
	})
}
