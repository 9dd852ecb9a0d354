package domain

import (
	"sort"
	"time"
)

type Filter string

const (
	FilterAll        Filter = "all"
	FilterCompleted  Filter = "completed"
	FilterIncomplete Filter = "incomplete"
)

type SortOrder string

const (
	SortNameAsc     SortOrder = "name_asc"
	SortNameDesc    SortOrder = "name_desc"
	SortCreatedAsc  SortOrder = "created_asc"
	SortCreatedDesc SortOrder = "created_desc"
)

// ParseFilter maps UI text to a Filter, defaulting to FilterAll.
func ParseFilter(s string) Filter {
	switch f := Filter(s); f {
	case FilterCompleted, FilterIncomplete:
		return f
	default:
		return FilterAll
	}
}

// ParseSort maps UI text to a SortOrder, defaulting to SortNameAsc.
func ParseSort(s string) SortOrder {
	switch o := SortOrder(s); o {
	case SortNameDesc, SortCreatedAsc, SortCreatedDesc:
		return o
	default:
		return SortNameAsc
	}
}

// DeriveView selects and orders the habits shown for ref. In edit mode every
// habit is listed so it can be reordered; otherwise only habits due on ref
// that match filter. The sort is stable. The input slice is not modified.
func DeriveView(habits []*Habit, ref time.Time, filter Filter, order SortOrder, editMode bool) []*Habit {
	day := DayOf(ref)

	view := make([]*Habit, 0, len(habits))
	for _, h := range habits {
		if editMode {
			view = append(view, h)
			continue
		}
		if !h.Recurrence.IsDueOn(day, h.ActiveWeekdays) {
			continue
		}

		completed := h.completedOnDay(day)
		switch filter {
		case FilterCompleted:
			if !completed {
				continue
			}
		case FilterIncomplete:
			if completed {
				continue
			}
		}
		view = append(view, h)
	}

	sort.SliceStable(view, func(i, j int) bool {
		a, b := view[i], view[j]
		switch order {
		case SortNameDesc:
			return a.Name > b.Name
		case SortCreatedAsc:
			return a.CreatedAt.Before(b.CreatedAt)
		case SortCreatedDesc:
			return a.CreatedAt.After(b.CreatedAt)
		default:
			return a.Name < b.Name
		}
	})

	return view
}
