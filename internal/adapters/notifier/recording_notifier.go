package notifier

import (
	"context"
	"sort"
	"sync"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

// RecordingNotifier keeps the currently scheduled triggers in memory. The
// CLI uses it to preview reminders without delivering them.
type RecordingNotifier struct {
	mu        sync.Mutex
	scheduled map[string]domain.TriggerSpec
	cancelled int
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{scheduled: make(map[string]domain.TriggerSpec)}
}

func (n *RecordingNotifier) Schedule(ctx context.Context, habitID string, triggers []domain.TriggerSpec) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, t := range triggers {
		n.scheduled[t.TriggerID] = t
	}
	return nil
}

func (n *RecordingNotifier) Cancel(ctx context.Context, triggerIDs []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, id := range triggerIDs {
		if _, ok := n.scheduled[id]; ok {
			delete(n.scheduled, id)
			n.cancelled++
		}
	}
	return nil
}

// Triggers returns the pending triggers ordered by habit, time and weekday.
func (n *RecordingNotifier) Triggers() []domain.TriggerSpec {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]domain.TriggerSpec, 0, len(n.scheduled))
	for _, t := range n.scheduled {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.HabitID != b.HabitID {
			return a.HabitID < b.HabitID
		}
		if a.Hour*60+a.Minute != b.Hour*60+b.Minute {
			return a.Hour*60+a.Minute < b.Hour*60+b.Minute
		}
		return weekdayOrder(a.RepeatingWeekday) < weekdayOrder(b.RepeatingWeekday)
	})
	return out
}

// Cancelled counts triggers that were pending when cancelled.
func (n *RecordingNotifier) Cancelled() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cancelled
}

func weekdayOrder(w *domain.Weekday) int {
	if w == nil {
		return 0
	}
	return int(*w)
}
