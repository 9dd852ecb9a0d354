package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

// ReminderQueue receives the ids of habits whose reminder triggers need to be
// re-derived after a change.
type ReminderQueue interface {
	Enqueue(habitID string)
}

type collectionReplacer interface {
	Replace(ctx context.Context, habits []*domain.Habit) error
}

type HabitService struct {
	repo      domain.HabitRepository
	reminders ReminderQueue
}

func NewHabitService(repo domain.HabitRepository, reminders ReminderQueue) *HabitService {
	return &HabitService{
		repo:      repo,
		reminders: reminders,
	}
}

type CreateHabitInput struct {
	Name             string
	Recurrence       string
	ActiveWeekdays   []int
	ReminderEnabled  bool
	ReminderTime     string
	ReminderWeekdays []int
	GoalType         string
	TargetValue      *float64
	Unit             *string
	SymbolID         *string
	ColorHex         *string
}

// UpdateHabitInput merges into the stored habit: nil fields keep the
// current value.
type UpdateHabitInput struct {
	ID               string
	Name             *string
	Recurrence       *string
	ActiveWeekdays   []int
	ReminderEnabled  *bool
	ReminderTime     *string
	ReminderWeekdays []int
	GoalType         *string
	TargetValue      *float64
	Unit             *string
	SymbolID         *string
	ColorHex         *string
	Version          int
}

type ViewInput struct {
	Date     time.Time
	Filter   domain.Filter
	Sort     domain.SortOrder
	EditMode bool
}

// HabitView is one row of the day list.
type HabitView struct {
	Habit         *domain.Habit `json:"habit"`
	Due           bool          `json:"due"`
	Completed     bool          `json:"completed"`
	CurrentStreak int           `json:"current_streak"`
	LongestStreak int           `json:"longest_streak"`
}

func toWeekdays(days []int) []domain.Weekday {
	if days == nil {
		return nil
	}
	out := make([]domain.Weekday, 0, len(days))
	for _, d := range days {
		out = append(out, domain.Weekday(d))
	}
	return out
}

func parseReminderTime(s string) (*domain.TimeOfDay, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	tod, err := domain.ParseTimeOfDay(s)
	if err != nil {
		return nil, err
	}
	return &tod, nil
}

func (s *HabitService) notify(habitID string) {
	if s.reminders != nil {
		s.reminders.Enqueue(habitID)
	}
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrHabitNameEmpty
	}

	reminderTime, err := parseReminderTime(input.ReminderTime)
	if err != nil {
		return nil, err
	}

	habit, err := domain.NewHabit(domain.HabitParams{
		Name:             name,
		Recurrence:       domain.Recurrence(input.Recurrence),
		ActiveWeekdays:   toWeekdays(input.ActiveWeekdays),
		ReminderEnabled:  input.ReminderEnabled,
		ReminderTime:     reminderTime,
		ReminderWeekdays: toWeekdays(input.ReminderWeekdays),
		GoalType:         domain.GoalType(input.GoalType),
		TargetValue:      input.TargetValue,
		Unit:             input.Unit,
		SymbolID:         input.SymbolID,
		ColorHex:         input.ColorHex,
	}, time.Now())
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, h := range existing {
		if h.SortOrder >= habit.SortOrder {
			habit.SortOrder = h.SortOrder + 1
		}
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	s.notify(habit.ID)

	return habit, nil
}

func (s *HabitService) Get(ctx context.Context, id string) (*domain.Habit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *HabitService) List(ctx context.Context) ([]*domain.Habit, error) {
	return s.repo.List(ctx)
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && habit.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs stored v%d", domain.ErrHabitConflict, input.Version, habit.Version)
	}

	p := habit.Params()
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.ErrHabitNameEmpty
		}
		p.Name = name
	}
	if input.Recurrence != nil {
		p.Recurrence = domain.Recurrence(*input.Recurrence)
	}
	if input.ActiveWeekdays != nil {
		p.ActiveWeekdays = toWeekdays(input.ActiveWeekdays)
	}
	if input.ReminderEnabled != nil {
		p.ReminderEnabled = *input.ReminderEnabled
	}
	if input.ReminderTime != nil {
		tod, err := parseReminderTime(*input.ReminderTime)
		if err != nil {
			return nil, err
		}
		p.ReminderTime = tod
	}
	if input.ReminderWeekdays != nil {
		p.ReminderWeekdays = toWeekdays(input.ReminderWeekdays)
	}
	if input.GoalType != nil {
		p.GoalType = domain.GoalType(*input.GoalType)
	}
	if input.TargetValue != nil {
		p.TargetValue = input.TargetValue
	}
	if input.Unit != nil {
		p.Unit = input.Unit
	}
	if input.SymbolID != nil {
		p.SymbolID = input.SymbolID
	}
	if input.ColorHex != nil {
		p.ColorHex = input.ColorHex
	}

	if err := habit.Update(p, time.Now()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	s.notify(habit.ID)

	return habit, nil
}

// Delete removes the habit and queues cancellation of its reminder triggers.
func (s *HabitService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.notify(id)

	return nil
}

// Reorder moves habits within the persisted order. Offsets refer to the
// order returned by List. Stores that can replace their whole collection get
// the new order in one write. Other stores get one Update per moved habit,
// so a failure part way leaves the earlier moves in place.
func (s *HabitService) Reorder(ctx context.Context, source []int, destination int) ([]*domain.Habit, error) {
	habits, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	ordered, changed, err := domain.MoveHabits(habits, source, destination, time.Now())
	if err != nil {
		return nil, err
	}

	if replacer, ok := s.repo.(collectionReplacer); ok {
		for _, h := range changed {
			h.Version++
		}
		if err := replacer.Replace(ctx, ordered); err != nil {
			return nil, fmt.Errorf("reorder: %w", err)
		}
		return ordered, nil
	}

	for _, h := range changed {
		if err := s.repo.Update(ctx, h); err != nil {
			return nil, fmt.Errorf("reorder %s: %w", h.ID, err)
		}
	}

	return ordered, nil
}

// DayView lists the habits shown for input.Date with their completion state
// and streaks on that day.
func (s *HabitService) DayView(ctx context.Context, input ViewInput) ([]HabitView, error) {
	habits, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	visible := domain.DeriveView(habits, input.Date, input.Filter, input.Sort, input.EditMode)

	views := make([]HabitView, 0, len(visible))
	for _, h := range visible {
		views = append(views, HabitView{
			Habit:         h,
			Due:           h.IsDueOn(input.Date),
			Completed:     domain.IsCompletedOn(h, input.Date),
			CurrentStreak: domain.CurrentStreak(h, input.Date),
			LongestStreak: domain.LongestStreak(h),
		})
	}

	return views, nil
}

func (s *HabitService) ReminderPlan(ctx context.Context, id string) ([]domain.TriggerSpec, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	plan := domain.BuildReminderPlan(habit)
	if plan == nil {
		plan = []domain.TriggerSpec{}
	}
	return plan, nil
}
