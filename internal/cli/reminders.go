package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/comitanigiacomo/onedo/internal/adapters/notifier"
	"github.com/comitanigiacomo/onedo/internal/core/domain"
	"github.com/comitanigiacomo/onedo/internal/core/workers"
)

type RemindersCmd struct {
	DryRun bool `help:"Print the triggers instead of delivering them."`
}

func (c *RemindersCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}

	habits, err := app.Habits.List(ctx.Ctx)
	if err != nil {
		return err
	}

	if !c.DryRun {
		if err := app.Worker.SyncAll(ctx.Ctx, habits); err != nil {
			return err
		}
		ctx.printf("Synced reminders for %d habits.\n", len(habits))
		return nil
	}

	rec := notifier.NewRecordingNotifier()
	if err := workers.NewReminderWorker(app.Habits, rec).SyncAll(ctx.Ctx, habits); err != nil {
		return err
	}

	triggers := rec.Triggers()
	if len(triggers) == 0 {
		ctx.printf("No reminders scheduled.\n")
		return nil
	}

	names := make(map[string]string, len(habits))
	for _, h := range habits {
		names[h.ID] = h.Name
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HABIT\tTIME\tREPEAT\tTRIGGER")
	for _, t := range triggers {
		repeat := "daily"
		if t.RepeatingWeekday != nil {
			repeat = t.RepeatingWeekday.String()
		}
		tod := domain.TimeOfDay{Hour: t.Hour, Minute: t.Minute}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", names[t.HabitID], tod, repeat, t.TriggerID)
	}
	return w.Flush()
}
