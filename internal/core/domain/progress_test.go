package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

func TestBuildSeries(t *testing.T) {
	ref := time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)

	goalHabit := func(t *testing.T, target *float64, goal domain.GoalType) *domain.Habit {
		h, err := domain.NewHabit(domain.HabitParams{
			Name:        "Pushups",
			GoalType:    goal,
			TargetValue: target,
			Unit:        ptr("reps"),
		}, created)
		require.NoError(t, err)
		return h
	}

	t.Run("Success: Completed days carry the full target", func(t *testing.T) {
		h := goalHabit(t, ptr(10.0), domain.GoalCount)
		domain.Toggle(h, ref.AddDate(0, 0, -1))
		domain.Toggle(h, ref.AddDate(0, 0, -3))

		series := domain.BuildSeries(h, domain.DefaultProgressWindow, ref)

		require.Len(t, series, 7)
		assert.Equal(t, domain.NewDay(2024, 1, 9), series[0].Date)
		assert.Equal(t, domain.NewDay(2024, 1, 15), series[6].Date)

		met := 0
		for i, p := range series {
			if i == 3 || i == 5 {
				assert.Equal(t, 10.0, p.Value, p.Date.String())
				assert.True(t, p.MetTarget, p.Date.String())
				met++
				continue
			}
			assert.Equal(t, 0.0, p.Value, p.Date.String())
			assert.False(t, p.MetTarget, p.Date.String())
		}
		assert.Equal(t, 2, met)
	})

	t.Run("Success: Dates are consecutive and ascending", func(t *testing.T) {
		series := domain.BuildSeries(goalHabit(t, ptr(30.0), domain.GoalDuration), 30, ref)

		require.Len(t, series, 30)
		for i := 1; i < len(series); i++ {
			assert.Equal(t, 1, series[i-1].Date.DaysUntil(series[i].Date))
		}
	})

	t.Run("Success: Completions outside the window are ignored", func(t *testing.T) {
		h := goalHabit(t, ptr(5.0), domain.GoalCount)
		domain.Toggle(h, ref.AddDate(0, 0, -7))
		domain.Toggle(h, ref.AddDate(0, 0, 1))

		for _, p := range domain.BuildSeries(h, 7, ref) {
			assert.Zero(t, p.Value)
		}
	})

	t.Run("Empty: No goal", func(t *testing.T) {
		assert.Nil(t, domain.BuildSeries(goalHabit(t, ptr(10.0), domain.GoalNone), 7, ref))
	})

	t.Run("Empty: Goal without a target", func(t *testing.T) {
		assert.Nil(t, domain.BuildSeries(goalHabit(t, nil, domain.GoalCount), 7, ref))
		assert.Nil(t, domain.BuildSeries(goalHabit(t, ptr(0.0), domain.GoalCount), 7, ref))
	})

	t.Run("Empty: Non-positive window", func(t *testing.T) {
		assert.Nil(t, domain.BuildSeries(goalHabit(t, ptr(10.0), domain.GoalCount), 0, ref))
	})
}
