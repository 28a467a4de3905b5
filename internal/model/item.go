// Package model holds the domain types for todo entries.
package model

import (
	"fmt"
	"time"
)

// Category buckets an item. Optional on an item; nil means uncategorized.
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

// Categories lists every valid category, in display order.
func Categories() []Category {
	return []Category{CategoryPersonal, CategoryWork, CategoryShopping, CategoryHealth, CategoryOther}
}

// ParseCategory maps a user-supplied string to a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryPersonal, CategoryWork, CategoryShopping, CategoryHealth, CategoryOther:
		return Category(s), nil
	}
	return "", fmt.Errorf("invalid category %q, must be one of: personal, work, shopping, health, other", s)
}

// Priority ranks an item. Always set; defaults to medium.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority maps a user-supplied string to a Priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", fmt.Errorf("invalid priority %q, must be one of: low, medium, high", s)
}

// Rank returns the sort rank of a priority: high sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// OrDefault resolves the zero value to medium.
func (p Priority) OrDefault() Priority {
	if p == "" {
		return PriorityMedium
	}
	return p
}

// Item is the domain model for a todo entry.
//
// ID and CreatedAt are assigned at creation and never change afterwards.
// Order is the manual sort key; only the store's Reorder rewrites it.
// Absent optionals are nil and serialize as explicit JSON nulls.
type Item struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	DueDate   *time.Time `json:"dueDate"`
	Category  *Category  `json:"category"`
	Priority  Priority   `json:"priority"`
	CreatedAt time.Time  `json:"createdAt"`
	Order     float64    `json:"order"`
}

// Clone returns a copy that shares no pointers with the receiver.
func (it Item) Clone() Item {
	out := it
	if it.DueDate != nil {
		d := *it.DueDate
		out.DueDate = &d
	}
	if it.Category != nil {
		c := *it.Category
		out.Category = &c
	}
	return out
}

// Overdue reports whether the item has a due date in the past and is
// still open.
func (it Item) Overdue(now time.Time) bool {
	return it.DueDate != nil && !it.Completed && it.DueDate.Before(now)
}
