package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

type stubReader struct {
	habits map[string]*domain.Habit
	err    error
}

func (s *stubReader) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	if s.err != nil {
		return nil, s.err
	}
	h, ok := s.habits[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return h, nil
}

type MockNotifier struct {
	mock.Mock
	mu sync.Mutex
}

func (m *MockNotifier) Schedule(ctx context.Context, habitID string, triggers []domain.TriggerSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Called(ctx, habitID, triggers).Error(0)
}

func (m *MockNotifier) Cancel(ctx context.Context, triggerIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Called(ctx, triggerIDs).Error(0)
}

func reminderHabit(t *testing.T, rec domain.Recurrence) *domain.Habit {
	t.Helper()
	h, err := domain.NewHabit(domain.HabitParams{
		Name:            "Meditate",
		Recurrence:      rec,
		ReminderEnabled: true,
		ReminderTime:    &domain.TimeOfDay{Hour: 7},
	}, time.Now())
	require.NoError(t, err)
	return h
}

func TestReminderWorker_Sync(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Cancels every id then schedules the plan", func(t *testing.T) {
		h := reminderHabit(t, domain.RecurrenceWeekends)
		notifier := new(MockNotifier)
		w := NewReminderWorker(&stubReader{habits: map[string]*domain.Habit{h.ID: h}}, notifier)

		notifier.On("Cancel", ctx, domain.ReminderTriggerIDs(h.ID)).Return(nil).Once()
		notifier.On("Schedule", ctx, h.ID, domain.BuildReminderPlan(h)).Return(nil).Once()

		require.NoError(t, w.Sync(ctx, h.ID))
		notifier.AssertExpectations(t)
	})

	t.Run("Success: Deleted habit is only cancelled", func(t *testing.T) {
		notifier := new(MockNotifier)
		w := NewReminderWorker(&stubReader{habits: map[string]*domain.Habit{}}, notifier)

		notifier.On("Cancel", ctx, domain.ReminderTriggerIDs("gone")).Return(nil).Once()

		require.NoError(t, w.Sync(ctx, "gone"))
		notifier.AssertExpectations(t)
		notifier.AssertNotCalled(t, "Schedule", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success: Disabled reminder schedules nothing", func(t *testing.T) {
		h := reminderHabit(t, domain.RecurrenceDaily)
		h.Reminder.Enabled = false
		notifier := new(MockNotifier)
		w := NewReminderWorker(&stubReader{habits: map[string]*domain.Habit{h.ID: h}}, notifier)

		notifier.On("Cancel", ctx, mock.Anything).Return(nil).Once()

		require.NoError(t, w.Sync(ctx, h.ID))
		notifier.AssertNotCalled(t, "Schedule", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Fail: Repository error", func(t *testing.T) {
		notifier := new(MockNotifier)
		w := NewReminderWorker(&stubReader{err: errors.New("db down")}, notifier)
		notifier.On("Cancel", ctx, mock.Anything).Return(nil)

		err := w.Sync(ctx, "h")

		assert.ErrorContains(t, err, "db down")
	})

	t.Run("Fail: Notifier error", func(t *testing.T) {
		notifier := new(MockNotifier)
		w := NewReminderWorker(&stubReader{}, notifier)
		notifier.On("Cancel", ctx, mock.Anything).Return(errors.New("relay offline"))

		err := w.Sync(ctx, "h")

		assert.ErrorContains(t, err, "relay offline")
	})
}

func TestReminderWorker_SyncAll(t *testing.T) {
	ctx := context.Background()
	a := reminderHabit(t, domain.RecurrenceDaily)
	b := reminderHabit(t, domain.RecurrenceDaily)
	notifier := new(MockNotifier)
	w := NewReminderWorker(&stubReader{habits: map[string]*domain.Habit{a.ID: a, b.ID: b}}, notifier)

	notifier.On("Cancel", ctx, mock.Anything).Return(nil)
	notifier.On("Schedule", ctx, a.ID, mock.Anything).Return(nil)
	notifier.On("Schedule", ctx, b.ID, mock.Anything).Return(errors.New("boom"))

	err := w.SyncAll(ctx, []*domain.Habit{a, b})

	require.Error(t, err)
	assert.Contains(t, err.Error(), b.ID)
	assert.NotContains(t, err.Error(), a.ID)
}

func TestReminderWorker_ProcessesQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := reminderHabit(t, domain.RecurrenceDaily)
	notifier := new(MockNotifier)
	w := NewReminderWorker(&stubReader{habits: map[string]*domain.Habit{h.ID: h}}, notifier)

	scheduled := make(chan struct{})
	notifier.On("Cancel", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Schedule", mock.Anything, h.ID, mock.Anything).Return(nil).Run(func(mock.Arguments) {
		close(scheduled)
	}).Once()

	w.Start(ctx)
	w.Enqueue(h.ID)

	select {
	case <-scheduled:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not process the job")
	}
}

func TestReminderWorker_EnqueueDropsWhenFull(t *testing.T) {
	w := NewReminderWorker(&stubReader{}, new(MockNotifier))

	for i := 0; i < defaultQueueSize+5; i++ {
		w.Enqueue("h")
	}

	assert.Len(t, w.jobs, defaultQueueSize)
}
