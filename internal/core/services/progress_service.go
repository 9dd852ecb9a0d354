package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

type ProgressService struct {
	habitRepo domain.HabitRepository
}

func NewProgressService(habitRepo domain.HabitRepository) *ProgressService {
	return &ProgressService{
		habitRepo: habitRepo,
	}
}

// Series returns the goal progress of one habit over the days ending at ref.
// A non-positive window falls back to the default week. Habits without a
// goal return an empty series.
func (s *ProgressService) Series(ctx context.Context, habitID string, days int, ref time.Time) ([]domain.ProgressPoint, error) {
	if days <= 0 {
		days = domain.DefaultProgressWindow
	}
	if days > domain.MaxStatsRange {
		return nil, fmt.Errorf("%w: at most %d days", domain.ErrInvalidDateRange, domain.MaxStatsRange)
	}

	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	series := domain.BuildSeries(habit, days, ref)
	if series == nil {
		series = []domain.ProgressPoint{}
	}
	return series, nil
}

// GetWeeklyStats summarizes every habit between two calendar days inclusive.
// Only days a habit is due count toward its completion rate. Daily progress
// holds the goal target for completed days, or 1 for habits without one.
func (s *ProgressService) GetWeeklyStats(ctx context.Context, input domain.StatsInput) (*domain.WeeklyStats, error) {
	startDate := domain.DayOf(input.StartDate)
	endDate := domain.DayOf(input.EndDate)

	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end before start", domain.ErrInvalidDateRange)
	}
	if startDate.DaysUntil(endDate) >= domain.MaxStatsRange {
		return nil, fmt.Errorf("%w: at most %d days", domain.ErrInvalidDateRange, domain.MaxStatsRange)
	}

	habits, err := s.habitRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.WeeklyStats{
		StartDate:   startDate.String(),
		EndDate:     endDate.String(),
		TotalHabits: len(habits),
		HabitStats:  make([]domain.HabitStat, 0, len(habits)),
	}

	totalDaysDue := 0
	totalDaysCompleted := 0

	for _, h := range habits {
		hStat := domain.HabitStat{
			HabitID:       h.ID,
			HabitName:     h.Name,
			Icon:          h.Icon,
			TargetValue:   h.Goal.TargetValue,
			Unit:          h.Goal.Unit,
			CurrentStreak: domain.CurrentStreak(h, endDate.In(time.UTC)),
			DailyProgress: make([]float64, 0, startDate.DaysUntil(endDate)+1),
		}

		unit := 1.0
		if target, ok := h.Goal.Target(); ok {
			unit = target
		}

		for day := startDate; !day.After(endDate); day = day.AddDays(1) {
			due := h.Recurrence.IsDueOn(day, h.ActiveWeekdays)
			done := h.IsCompletedOnDay(day)

			val := 0.0
			if done {
				val = unit
			}
			hStat.DailyProgress = append(hStat.DailyProgress, val)

			if !due {
				continue
			}
			hStat.DaysDue++
			totalDaysDue++
			if done {
				hStat.DaysCompleted++
				totalDaysCompleted++
			}
		}

		if hStat.DaysDue > 0 {
			hStat.CompletionRate = float64(hStat.DaysCompleted) / float64(hStat.DaysDue) * 100
		}

		stats.HabitStats = append(stats.HabitStats, hStat)
	}

	if totalDaysDue > 0 {
		stats.OverallRate = float64(totalDaysCompleted) / float64(totalDaysDue) * 100
	}

	return stats, nil
}
