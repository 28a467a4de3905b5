package cli

import (
	"testing"
	"time"

	"github.com/lmeriaux/todo/internal/model"
	"github.com/lmeriaux/todo/internal/storage"
	"github.com/lmeriaux/todo/internal/store"
)

func TestParseDue(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2026-09-01", time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local), false},
		{"2026-09-01T15:04", time.Date(2026, 9, 1, 15, 4, 0, 0, time.Local), false},
		{"tomorrow", time.Time{}, true},
		{"2026-13-40", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := parseDue(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDue(%q): err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("parseDue(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveIndex(t *testing.T) {
	st := store.New(storage.NewMemory())
	first, err := st.Create("first", nil, nil, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := st.Create("second", nil, nil, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tests := []struct {
		arg      string
		wantID   string
		wantCode int
	}{
		{"1", first.ID, 0},
		{"2", second.ID, 0},
		{"0", "", 2},
		{"3", "", 2},
		{"x", "", 2},
	}
	for _, tt := range tests {
		id, code := resolveIndex(st, "test", tt.arg)
		if code != tt.wantCode {
			t.Errorf("resolveIndex(%q): code = %d, want %d", tt.arg, code, tt.wantCode)
		}
		if id != tt.wantID {
			t.Errorf("resolveIndex(%q): id = %q, want %q", tt.arg, id, tt.wantID)
		}
	}
}

func TestStats(t *testing.T) {
	items := []model.Item{
		{Title: "a", Completed: true},
		{Title: "b"},
		{Title: "c"},
	}
	done, pending := stats(items)
	if done != 1 || pending != 2 {
		t.Errorf("stats: got done=%d pending=%d, want 1/2", done, pending)
	}
}
