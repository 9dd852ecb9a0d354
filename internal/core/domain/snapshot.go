package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

const SnapshotVersion = 1

var ErrCorruptSnapshot = errors.New("corrupt habit snapshot")

// Snapshot is the serialized form of a whole habit collection, as written to
// key-value and file stores.
type Snapshot struct {
	Version int      `json:"version"`
	Habits  []*Habit `json:"habits"`
}

func EncodeSnapshot(habits []*Habit) ([]byte, error) {
	if habits == nil {
		habits = []*Habit{}
	}
	data, err := json.Marshal(Snapshot{Version: SnapshotVersion, Habits: habits})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot. A plain JSON array of habits in the
// current schema, without the version envelope, is accepted too. Every habit
// must pass the same checks as NewHabit. Any failure wraps ErrCorruptSnapshot
// so the caller can decide to discard the data and start empty.
func DecodeSnapshot(data []byte) ([]*Habit, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrCorruptSnapshot)
	}

	var habits []*Habit
	bare := trimmed[0] == '['
	if bare {
		if err := json.Unmarshal(trimmed, &habits); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
	} else {
		var snap Snapshot
		if err := json.Unmarshal(trimmed, &snap); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
		if snap.Version > SnapshotVersion {
			return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, snap.Version)
		}
		habits = snap.Habits
	}

	out := make([]*Habit, 0, len(habits))
	seen := make(map[string]bool, len(habits))
	for i, h := range habits {
		if h == nil || h.ID == "" {
			return nil, fmt.Errorf("%w: habit %d has no id", ErrCorruptSnapshot, i)
		}
		if seen[h.ID] {
			return nil, fmt.Errorf("%w: duplicate habit id %s", ErrCorruptSnapshot, h.ID)
		}
		seen[h.ID] = true

		if h.Recurrence == "" {
			h.Recurrence = RecurrenceDaily
		}
		if h.Goal.Type == "" {
			h.Goal.Type = GoalNone
		}
		if h.Version < 1 {
			h.Version = 1
		}
		// Unversioned arrays may carry the weekly schedule on the reminder only.
		if bare && h.Recurrence == RecurrenceWeekly && len(h.ActiveWeekdays) == 0 {
			h.ActiveWeekdays = append([]Weekday(nil), h.Reminder.Weekdays...)
		}
		if _, err := validateAndNormalize(h.Params()); err != nil {
			return nil, fmt.Errorf("%w: habit %d: %v", ErrCorruptSnapshot, i, err)
		}
		h.NormalizeCompletions()
		out = append(out, h)
	}

	SortByPosition(out)
	return out, nil
}

// SortByPosition orders habits the way repositories list them.
func SortByPosition(habits []*Habit) {
	sort.SliceStable(habits, func(i, j int) bool {
		if habits[i].SortOrder != habits[j].SortOrder {
			return habits[i].SortOrder < habits[j].SortOrder
		}
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
}
