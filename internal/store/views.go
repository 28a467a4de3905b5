package store

import (
	"fmt"
	"sort"

	"github.com/lmeriaux/todo/internal/model"
)

// Derived views: pure functions over a snapshot. They return fresh
// slices and never touch order keys or any other persisted field.

// StatusFilter narrows a snapshot by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

// ParseStatusFilter maps a user-supplied string to a StatusFilter.
// "done" is accepted as an alias for completed.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch s {
	case "all":
		return StatusAll, nil
	case "active":
		return StatusActive, nil
	case "completed", "done":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("invalid status filter %q, must be one of: all, active, done", s)
}

// FilterByStatus keeps the items matching f.
func FilterByStatus(items []model.Item, f StatusFilter) []model.Item {
	if f == StatusAll {
		return append([]model.Item(nil), items...)
	}
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.Completed == (f == StatusCompleted) {
			out = append(out, it)
		}
	}
	return out
}

// FilterByCategory keeps the items in cat; nil means all. Uncategorized
// items only pass the nil filter.
func FilterByCategory(items []model.Item, cat *model.Category) []model.Item {
	if cat == nil {
		return append([]model.Item(nil), items...)
	}
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.Category != nil && *it.Category == *cat {
			out = append(out, it)
		}
	}
	return out
}

// SortKey selects a presentation ordering.
type SortKey string

const (
	SortManual   SortKey = "manual"
	SortDue      SortKey = "due"
	SortPriority SortKey = "prio"
	SortCreated  SortKey = "created"
)

// ParseSortKey maps a user-supplied string to a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortManual, SortDue, SortPriority, SortCreated:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("invalid sort key %q, must be one of: manual, due, prio, created", s)
}

// SortBy returns a sorted copy of items. All orderings are stable: ties
// keep their input order.
//
//   - manual: order key ascending
//   - due: due date ascending, items without one after all that have one
//   - prio: high, then medium, then low
//   - created: newest first
func SortBy(items []model.Item, key SortKey) []model.Item {
	out := append([]model.Item(nil), items...)
	switch key {
	case SortDue:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DueDate, out[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	case SortCreated:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default: // manual
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Order < out[j].Order
		})
	}
	return out
}
