package store

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/lmeriaux/todo/internal/model"
)

func TestEncodeWritesExplicitNulls(t *testing.T) {
	items := []model.Item{{
		ID:        "x",
		Title:     "bare",
		Priority:  model.PriorityMedium,
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}}

	data, err := encodeItems(items)
	if err != nil {
		t.Fatalf("encodeItems failed: %v", err)
	}
	out := string(data)

	for _, want := range []string{`"dueDate": null`, `"category": null`, `"createdAt": "2026-03-01T09:00:00Z"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("output missing trailing newline")
	}
}

func TestEncodeNilCollectionIsEmptyArray(t *testing.T) {
	data, err := encodeItems(nil)
	if err != nil {
		t.Fatalf("encodeItems failed: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "[]" {
		t.Errorf("got %q, want []", got)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	due := time.Date(2026, 6, 15, 18, 30, 0, 0, time.UTC)
	cat := model.CategoryHealth
	items := []model.Item{
		{
			ID:        "a",
			Title:     "bare",
			Priority:  model.PriorityMedium,
			CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			Order:     1000,
		},
		{
			ID:        "b",
			Title:     "full",
			Completed: true,
			DueDate:   &due,
			Category:  &cat,
			Priority:  model.PriorityHigh,
			CreatedAt: time.Date(2026, 3, 1, 9, 0, 1, 0, time.UTC),
			Order:     1001,
		},
	}

	data, err := encodeItems(items)
	if err != nil {
		t.Fatalf("encodeItems failed: %v", err)
	}
	got, err := decodeItems(data)
	if err != nil {
		t.Fatalf("decodeItems failed: %v", err)
	}
	if !reflect.DeepEqual(got, items) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, items)
	}
}

func TestDecodeRejectsBadPayloads(t *testing.T) {
	valid := `{"id":"a","title":"t","completed":false,"dueDate":null,"category":null,"priority":"medium","createdAt":"2026-03-01T09:00:00Z","order":0}`

	tests := []struct {
		name string
		data string
	}{
		{"not json", "{boom"},
		{"object not array", `{"items": []}`},
		{"missing fields", `[{"id": "a"}]`},
		{"empty id", strings.Replace(`[`+valid+`]`, `"id":"a"`, `"id":""`, 1)},
		{"bad priority", strings.Replace(`[`+valid+`]`, `"priority":"medium"`, `"priority":"urgent"`, 1)},
		{"bad category", strings.Replace(`[`+valid+`]`, `"category":null`, `"category":"chores"`, 1)},
		{"duplicate ids", `[` + valid + `,` + valid + `]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeItems([]byte(tt.data)); err == nil {
				t.Errorf("decodeItems accepted %s", tt.data)
			}
		})
	}
}

func TestDecodeAcceptsEmptyArray(t *testing.T) {
	got, err := decodeItems([]byte("[]"))
	if err != nil {
		t.Fatalf("decodeItems failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d items, want 0", len(got))
	}
}

func TestSchemaCompiles(t *testing.T) {
	if itemsSchema == nil {
		t.Fatal("embedded schema failed to compile")
	}
}
