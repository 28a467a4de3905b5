package model

import (
	"testing"
	"time"
)

func TestParseCategory(t *testing.T) {
	for _, valid := range []string{"personal", "work", "shopping", "health", "other"} {
		got, err := ParseCategory(valid)
		if err != nil {
			t.Errorf("ParseCategory(%q) failed: %v", valid, err)
		}
		if string(got) != valid {
			t.Errorf("ParseCategory(%q): got %q", valid, got)
		}
	}
	for _, invalid := range []string{"", "chores", "Work"} {
		if _, err := ParseCategory(invalid); err == nil {
			t.Errorf("ParseCategory(%q): want error", invalid)
		}
	}
}

func TestParsePriority(t *testing.T) {
	for _, valid := range []string{"low", "medium", "high"} {
		if _, err := ParsePriority(valid); err != nil {
			t.Errorf("ParsePriority(%q) failed: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "urgent", "HIGH"} {
		if _, err := ParsePriority(invalid); err == nil {
			t.Errorf("ParsePriority(%q): want error", invalid)
		}
	}
}

func TestPriorityRank(t *testing.T) {
	if !(PriorityHigh.Rank() < PriorityMedium.Rank() && PriorityMedium.Rank() < PriorityLow.Rank()) {
		t.Errorf("rank order wrong: high=%d medium=%d low=%d",
			PriorityHigh.Rank(), PriorityMedium.Rank(), PriorityLow.Rank())
	}
}

func TestPriorityOrDefault(t *testing.T) {
	if got := Priority("").OrDefault(); got != PriorityMedium {
		t.Errorf("zero value: got %s, want medium", got)
	}
	if got := PriorityHigh.OrDefault(); got != PriorityHigh {
		t.Errorf("high: got %s, want high", got)
	}
}

func TestItemCloneIsIndependent(t *testing.T) {
	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	cat := CategoryWork
	it := Item{ID: "x", Title: "t", DueDate: &due, Category: &cat}

	cl := it.Clone()
	*cl.DueDate = due.AddDate(1, 0, 0)
	*cl.Category = CategoryOther

	if !it.DueDate.Equal(due) {
		t.Errorf("original due date changed: %v", it.DueDate)
	}
	if *it.Category != CategoryWork {
		t.Errorf("original category changed: %v", *it.Category)
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		it   Item
		want bool
	}{
		{"past due open", Item{DueDate: &past}, true},
		{"past due completed", Item{DueDate: &past, Completed: true}, false},
		{"future due", Item{DueDate: &future}, false},
		{"no due date", Item{}, false},
	}
	for _, tt := range tests {
		if got := tt.it.Overdue(now); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}
