package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
	"github.com/comitanigiacomo/onedo/internal/core/services"
)

type TodayCmd struct {
	Date   string `help:"Day to show in YYYY-MM-DD format (default: today)."`
	Filter string `help:"all, completed or incomplete." default:"all" enum:"all,completed,incomplete"`
	Sort   string `help:"name_asc, name_desc, created_asc or created_desc." default:"name_asc" enum:"name_asc,name_desc,created_asc,created_desc"`
	All    bool   `help:"List every habit in stored order, due or not."`
}

func (c *TodayCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	date, err := ctx.date(c.Date)
	if err != nil {
		return err
	}

	views, err := app.HabitService.DayView(ctx.Ctx, services.ViewInput{
		Date:     date,
		Filter:   domain.ParseFilter(c.Filter),
		Sort:     domain.ParseSort(c.Sort),
		EditMode: c.All,
	})
	if err != nil {
		return err
	}

	if len(views) == 0 {
		ctx.printf("No habits for %s.\n", domain.DayOf(date))
		return nil
	}

	ctx.printf("Habits for %s\n", domain.DayOf(date))
	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	for _, v := range views {
		mark := "[ ]"
		if v.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\tstreak %d\t%s\n", mark, v.Habit.Name, formatRecurrence(v.Habit), v.CurrentStreak, v.Habit.ID)
	}
	return w.Flush()
}

type AddCmd struct {
	Name       string   `arg:"" help:"Habit name."`
	Recurrence string   `help:"daily, weekdays, weekends or weekly." default:"daily" enum:"daily,weekdays,weekends,weekly"`
	Days       string   `help:"Comma-separated weekdays for weekly habits (e.g. mon,thu)."`
	Remind     string   `help:"Reminder time in HH:MM format; enables the reminder."`
	RemindDays string   `help:"Comma-separated weekdays the reminder fires on for weekly habits."`
	Goal       string   `help:"Goal type: none, count or duration." default:"none" enum:"none,count,duration"`
	Target     float64  `help:"Goal target value."`
	Unit       string   `help:"Goal unit, e.g. pages."`
	Color      string   `help:"Icon color as #RRGGBB."`
	Symbol     string   `help:"Icon symbol id."`
}

func (c *AddCmd) Run(ctx *Context) error {
	days, err := ParseWeekdays(c.Days)
	if err != nil {
		return err
	}
	remindDays, err := ParseWeekdays(c.RemindDays)
	if err != nil {
		return err
	}

	app, err := ctx.App()
	if err != nil {
		return err
	}

	input := services.CreateHabitInput{
		Name:             c.Name,
		Recurrence:       c.Recurrence,
		ActiveWeekdays:   days,
		ReminderEnabled:  c.Remind != "",
		ReminderTime:     c.Remind,
		ReminderWeekdays: remindDays,
		GoalType:         c.Goal,
		TargetValue:      optionalFloat(c.Target),
		Unit:             optional(c.Unit),
		ColorHex:         optional(c.Color),
		SymbolID:         optional(c.Symbol),
	}

	h, err := app.HabitService.Create(ctx.Ctx, input)
	if err != nil {
		return err
	}
	if err := app.Worker.Sync(ctx.Ctx, h.ID); err != nil {
		return fmt.Errorf("habit added but reminders not scheduled: %w", err)
	}

	ctx.printf("Added habit: %s (%s)\n", h.Name, h.ID)
	return nil
}

func optionalFloat(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

type ToggleCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *ToggleCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	date, err := ctx.date(c.Date)
	if err != nil {
		return err
	}
	h, err := resolveHabit(ctx.Ctx, app.Habits, c.Habit)
	if err != nil {
		return err
	}

	status, err := app.CompletionService.Toggle(ctx.Ctx, h.ID, date)
	if err != nil {
		return err
	}

	if status.Completed {
		ctx.printf("Marked %q for %s (streak %d)\n", h.Name, status.Date, status.CurrentStreak)
	} else {
		ctx.printf("Unmarked %q for %s\n", h.Name, status.Date)
	}
	return nil
}

type ProgressCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Days  int    `help:"Window length in days." default:"7"`
	Date  string `help:"Last day of the window in YYYY-MM-DD format (default: today)."`
}

func (c *ProgressCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	date, err := ctx.date(c.Date)
	if err != nil {
		return err
	}
	h, err := resolveHabit(ctx.Ctx, app.Habits, c.Habit)
	if err != nil {
		return err
	}

	points, err := app.ProgressService.Series(ctx.Ctx, h.ID, c.Days, date)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		ctx.printf("%q has no goal target to chart.\n", h.Name)
		return nil
	}

	unit := ""
	if h.Goal.Unit != nil {
		unit = " " + *h.Goal.Unit
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	for _, p := range points {
		bar := "."
		if p.MetTarget {
			bar = strings.Repeat("#", 10)
		}
		fmt.Fprintf(w, "%s\t%s\t%g%s\n", p.Date, bar, p.Value, unit)
	}
	return w.Flush()
}
