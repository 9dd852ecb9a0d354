package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

func newDailyHabit(t *testing.T) *domain.Habit {
	t.Helper()
	h, err := domain.NewHabit(domain.HabitParams{Name: "Stretch"}, created)
	require.NoError(t, err)
	return h
}

func TestIsCompletedOn(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	h := newDailyHabit(t)
	lateNight := time.Date(2024, 3, 9, 23, 59, 59, 0, tokyo)
	domain.Toggle(h, lateNight)

	t.Run("Same calendar day at a different time counts", func(t *testing.T) {
		assert.True(t, domain.IsCompletedOn(h, time.Date(2024, 3, 9, 0, 0, 0, 1, tokyo)))
		assert.True(t, domain.IsCompletedOn(h, lateNight.Add(-time.Nanosecond)))
	})

	t.Run("One second across midnight does not count", func(t *testing.T) {
		assert.False(t, domain.IsCompletedOn(h, lateNight.Add(time.Second)))
	})

	t.Run("Calendar is taken from the location of the query", func(t *testing.T) {
		// 23:59 in Tokyo is 14:59 UTC on the same date.
		assert.True(t, domain.IsCompletedOn(h, lateNight.UTC()))
		// 16:00 UTC on the 9th is already the 10th in Tokyo.
		assert.False(t, domain.IsCompletedOn(h, time.Date(2024, 3, 9, 16, 0, 0, 0, time.UTC).In(tokyo)))
	})

	t.Run("Empty history", func(t *testing.T) {
		assert.False(t, domain.IsCompletedOn(newDailyHabit(t), lateNight))
	})
}

func TestToggle(t *testing.T) {
	day := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	t.Run("Toggle twice restores the completion set", func(t *testing.T) {
		h := newDailyHabit(t)
		domain.Toggle(h, day.AddDate(0, 0, -3))
		domain.Toggle(h, day.AddDate(0, 0, -1))
		before := append([]domain.Day(nil), h.CompletionDates...)

		assert.True(t, domain.Toggle(h, day))
		assert.False(t, domain.Toggle(h, day.Add(5*time.Hour)))

		assert.Equal(t, before, h.CompletionDates)
	})

	t.Run("Toggle twice on an already completed day restores it", func(t *testing.T) {
		h := newDailyHabit(t)
		domain.Toggle(h, day)

		assert.False(t, domain.Toggle(h, day))
		assert.True(t, domain.Toggle(h, day))
		assert.Equal(t, []domain.Day{domain.DayOf(day)}, h.CompletionDates)
	})

	t.Run("Never stores the same day twice", func(t *testing.T) {
		h := newDailyHabit(t)
		domain.Toggle(h, day)
		domain.Toggle(h, day.Add(time.Hour))
		domain.Toggle(h, day.Add(2*time.Hour))

		assert.Len(t, h.CompletionDates, 1)
	})

	t.Run("Keeps days sorted", func(t *testing.T) {
		h := newDailyHabit(t)
		domain.Toggle(h, day)
		domain.Toggle(h, day.AddDate(0, 0, -5))
		domain.Toggle(h, day.AddDate(0, 0, -2))

		assert.Equal(t, []domain.Day{
			domain.NewDay(2024, 1, 10),
			domain.NewDay(2024, 1, 13),
			domain.NewDay(2024, 1, 15),
		}, h.CompletionDates)
	})
}

func TestNormalizeCompletions(t *testing.T) {
	h := newDailyHabit(t)
	h.CompletionDates = []domain.Day{
		domain.NewDay(2024, 1, 3),
		domain.NewDay(2024, 1, 1),
		domain.NewDay(2024, 1, 3),
	}

	h.NormalizeCompletions()

	assert.Equal(t, []domain.Day{domain.NewDay(2024, 1, 1), domain.NewDay(2024, 1, 3)}, h.CompletionDates)

	h.CompletionDates = nil
	h.NormalizeCompletions()
	assert.NotNil(t, h.CompletionDates)
}
