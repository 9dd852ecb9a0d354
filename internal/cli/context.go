// Package cli holds the onedo command implementations.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/comitanigiacomo/onedo/internal/bootstrap"
	"github.com/comitanigiacomo/onedo/internal/config"
	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

// Context is bound to every command. The store is opened on first use so
// commands that never touch habits do not need a reachable backend.
type Context struct {
	Ctx    context.Context
	Config *config.Config
	Out    io.Writer
	In     io.Reader
	// Now defaults to time.Now.
	Now func() time.Time

	app *bootstrap.App
}

// App opens the configured store once per invocation.
func (c *Context) App() (*bootstrap.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	app, err := bootstrap.New(c.Ctx, c.Config, bootstrap.Options{})
	if err != nil {
		return nil, err
	}
	c.app = app
	return app, nil
}

func (c *Context) Close() error {
	if c.app == nil {
		return nil
	}
	return c.app.Close()
}

func (c *Context) today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.Config.Location)
}

// date resolves an optional YYYY-MM-DD flag to midnight in the configured
// timezone, defaulting to today.
func (c *Context) date(value string) (time.Time, error) {
	if value == "" {
		return c.today(), nil
	}
	day, err := domain.ParseDay(value)
	if err != nil {
		return time.Time{}, err
	}
	return day.In(c.Config.Location), nil
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// resolveHabit finds a habit by id, or by case-insensitive name.
func resolveHabit(ctx context.Context, repo domain.HabitRepository, ref string) (*domain.Habit, error) {
	h, err := repo.GetByID(ctx, ref)
	if err == nil {
		return h, nil
	}

	habits, listErr := repo.List(ctx)
	if listErr != nil {
		return nil, listErr
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrHabitNotFound, ref)
}

// ParseWeekdays parses a comma-separated list of names ("mon", "friday")
// or numbers 1 (Sunday) to 7 (Saturday).
func ParseWeekdays(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	dayMap := map[string]domain.Weekday{
		"sun": domain.Sunday, "sunday": domain.Sunday,
		"mon": domain.Monday, "monday": domain.Monday,
		"tue": domain.Tuesday, "tuesday": domain.Tuesday,
		"wed": domain.Wednesday, "wednesday": domain.Wednesday,
		"thu": domain.Thursday, "thursday": domain.Thursday,
		"fri": domain.Friday, "friday": domain.Friday,
		"sat": domain.Saturday, "saturday": domain.Saturday,
	}

	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			days = append(days, int(wd))
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || !domain.Weekday(num).Valid() {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, num)
	}
	return days, nil
}

func formatRecurrence(h *domain.Habit) string {
	if h.Recurrence != domain.RecurrenceWeekly || len(h.ActiveWeekdays) == 0 {
		return string(h.Recurrence)
	}
	names := make([]string, 0, len(h.ActiveWeekdays))
	for _, wd := range h.ActiveWeekdays {
		names = append(names, wd.String()[:3])
	}
	return "weekly on " + strings.Join(names, ",")
}
