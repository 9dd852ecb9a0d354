package notifier

import (
	"context"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
	"github.com/comitanigiacomo/onedo/internal/logger"
)

// LogNotifier only logs the triggers. It is the fallback when no delivery
// endpoint is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Schedule(ctx context.Context, habitID string, triggers []domain.TriggerSpec) error {
	for _, t := range triggers {
		weekday := "every day"
		if t.RepeatingWeekday != nil {
			weekday = t.RepeatingWeekday.String()
		}
		logger.Info("reminder scheduled", "habit", habitID, "trigger", t.TriggerID,
			"at", domain.TimeOfDay{Hour: t.Hour, Minute: t.Minute}.String(), "repeat", weekday)
	}
	return nil
}

func (n *LogNotifier) Cancel(ctx context.Context, triggerIDs []string) error {
	logger.Debug("reminders cancelled", "triggers", len(triggerIDs))
	return nil
}
