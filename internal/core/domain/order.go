package domain

import (
	"errors"
	"sort"
	"time"
)

var ErrInvalidMove = errors.New("invalid move (offsets out of range)")

// MoveHabits moves the habits at the source offsets so they land before the
// element that was at destination (len(habits) appends), then renumbers
// SortOrder to match the new positions. Returns the reordered list and the
// habits whose SortOrder changed.
func MoveHabits(habits []*Habit, source []int, destination int, now time.Time) ([]*Habit, []*Habit, error) {
	if destination < 0 || destination > len(habits) {
		return nil, nil, ErrInvalidMove
	}

	offsets := append([]int(nil), source...)
	sort.Ints(offsets)
	moving := make(map[int]bool, len(offsets))
	for _, o := range offsets {
		if o < 0 || o >= len(habits) {
			return nil, nil, ErrInvalidMove
		}
		moving[o] = true
	}

	var moved, rest []*Habit
	insertAt := destination
	for i, h := range habits {
		if moving[i] {
			moved = append(moved, h)
			if i < destination {
				insertAt--
			}
			continue
		}
		rest = append(rest, h)
	}

	result := make([]*Habit, 0, len(habits))
	result = append(result, rest[:insertAt]...)
	result = append(result, moved...)
	result = append(result, rest[insertAt:]...)

	var changed []*Habit
	for i, h := range result {
		if h.SortOrder != i {
			h.ChangePosition(i, now)
			changed = append(changed, h)
		}
	}

	return result, changed, nil
}
