package domain

import (
	"errors"
	"time"
)

// MaxStatsRange bounds the number of days a stats request may cover.
const MaxStatsRange = 366

var ErrInvalidDateRange = errors.New("invalid date range")

type WeeklyStats struct {
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	TotalHabits int         `json:"total_habits"`
	OverallRate float64     `json:"overall_completion_rate"`
	HabitStats  []HabitStat `json:"habits"`
}

type HabitStat struct {
	HabitID        string    `json:"habit_id"`
	HabitName      string    `json:"habit_name"`
	Icon           Icon      `json:"icon"`
	TargetValue    *float64  `json:"target_value,omitempty"`
	Unit           *string   `json:"unit,omitempty"`
	DaysDue        int       `json:"days_due"`
	DaysCompleted  int       `json:"days_completed"`
	CompletionRate float64   `json:"completion_rate"`
	CurrentStreak  int       `json:"current_streak"`
	DailyProgress  []float64 `json:"daily_progress"`
}

type StatsInput struct {
	StartDate time.Time
	EndDate   time.Time
}
