package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

type CompletionService struct {
	repo      domain.HabitRepository
	reminders ReminderQueue
}

func NewCompletionService(repo domain.HabitRepository, reminders ReminderQueue) *CompletionService {
	return &CompletionService{
		repo:      repo,
		reminders: reminders,
	}
}

type CompletionStatus struct {
	HabitID       string     `json:"habit_id"`
	Date          domain.Day `json:"date"`
	Due           bool       `json:"due"`
	Completed     bool       `json:"completed"`
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	Version       int        `json:"version"`
}

func statusOf(h *domain.Habit, date time.Time) *CompletionStatus {
	return &CompletionStatus{
		HabitID:       h.ID,
		Date:          domain.DayOf(date),
		Due:           h.IsDueOn(date),
		Completed:     domain.IsCompletedOn(h, date),
		CurrentStreak: domain.CurrentStreak(h, date),
		LongestStreak: domain.LongestStreak(h),
		Version:       h.Version,
	}
}

// Toggle flips completion for the calendar day of date and persists it.
// Habits that are not due on that day can still be toggled.
func (s *CompletionService) Toggle(ctx context.Context, habitID string, date time.Time) (*CompletionStatus, error) {
	habit, err := s.repo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	domain.Toggle(habit, date)
	habit.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	if s.reminders != nil {
		s.reminders.Enqueue(habit.ID)
	}

	return statusOf(habit, date), nil
}

func (s *CompletionService) Status(ctx context.Context, habitID string, date time.Time) (*CompletionStatus, error) {
	habit, err := s.repo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	return statusOf(habit, date), nil
}
