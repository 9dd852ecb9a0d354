package workers

import (
	"context"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
	"github.com/comitanigiacomo/onedo/internal/logger"
)

const defaultQueueSize = 100

type HabitReader interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
}

// Notifier is the delivery side of reminders. Schedule must replace any
// trigger with the same id.
type Notifier interface {
	Schedule(ctx context.Context, habitID string, triggers []domain.TriggerSpec) error
	Cancel(ctx context.Context, triggerIDs []string) error
}

type ReminderJob struct {
	HabitID string
}

// ReminderWorker keeps the notifier in sync with habit changes. Every job
// cancels all triggers a habit could own and, if the habit still exists,
// schedules its current plan.
type ReminderWorker struct {
	habits   HabitReader
	notifier Notifier
	jobs     chan ReminderJob
}

func NewReminderWorker(habits HabitReader, notifier Notifier) *ReminderWorker {
	return &ReminderWorker{
		habits:   habits,
		notifier: notifier,
		jobs:     make(chan ReminderJob, defaultQueueSize),
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	go func() {
		logger.Info("reminder worker started")
		for {
			select {
			case job := <-w.jobs:
				if err := w.Sync(ctx, job.HabitID); err != nil {
					logger.Error("reminder sync failed", "habit", job.HabitID, "err", err)
				}
			case <-ctx.Done():
				logger.Info("reminder worker shutting down")
				return
			}
		}
	}()
}

func (w *ReminderWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- ReminderJob{HabitID: habitID}:
	default:
		logger.Warn("reminder queue full, dropping job", "habit", habitID)
	}
}

// Sync re-derives the triggers of one habit immediately.
func (w *ReminderWorker) Sync(ctx context.Context, habitID string) error {
	if err := w.notifier.Cancel(ctx, domain.ReminderTriggerIDs(habitID)); err != nil {
		return fmt.Errorf("cancel triggers: %w", err)
	}

	habit, err := w.habits.GetByID(ctx, habitID)
	if errors.Is(err, domain.ErrHabitNotFound) {
		logger.Debug("habit gone, reminders cancelled", "habit", habitID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load habit: %w", err)
	}

	plan := domain.BuildReminderPlan(habit)
	if len(plan) == 0 {
		return nil
	}

	if err := w.notifier.Schedule(ctx, habitID, plan); err != nil {
		return fmt.Errorf("schedule triggers: %w", err)
	}

	logger.Debug("reminders scheduled", "habit", habitID, "triggers", len(plan))
	return nil
}

// SyncAll re-derives every habit's triggers, e.g. at startup.
func (w *ReminderWorker) SyncAll(ctx context.Context, habits []*domain.Habit) error {
	var errs []error
	for _, h := range habits {
		if err := w.Sync(ctx, h.ID); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.ID, err))
		}
	}
	return errors.Join(errs...)
}
