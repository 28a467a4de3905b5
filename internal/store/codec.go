package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lmeriaux/todo/internal/model"
)

// The stored payload is a JSON array of items: field names preserved,
// explicit nulls for absent optionals, RFC3339 dates. There is no schema
// version tag in the format.

//go:embed schema.json
var schemaJSON string

// itemsSchema is nil if the embedded schema fails to compile; decode then
// falls back to minimal structural checks.
var itemsSchema = compileSchema()

func compileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("todos.schema.json", strings.NewReader(schemaJSON)); err != nil {
		return nil
	}
	s, err := c.Compile("todos.schema.json")
	if err != nil {
		return nil
	}
	return s
}

// encodeItems serializes the collection with 2-space indentation and a
// trailing newline.
func encodeItems(items []model.Item) ([]byte, error) {
	if items == nil {
		items = []model.Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}
	return append(data, '\n'), nil
}

// decodeItems parses and validates a stored payload. Any failure means
// the payload is treated as corrupt by the caller.
func decodeItems(data []byte) ([]model.Item, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}
	if itemsSchema != nil {
		if err := itemsSchema.Validate(raw); err != nil {
			return nil, fmt.Errorf("validate items: %w", err)
		}
	}
	var items []model.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}
	if err := checkItems(items); err != nil {
		return nil, err
	}
	return items, nil
}

// checkItems enforces the invariants the schema cannot express, and
// doubles as the fallback when schema compilation is unavailable.
func checkItems(items []model.Item) error {
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if it.ID == "" {
			return fmt.Errorf("items[%d]: missing id", i)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("items[%d]: duplicate id %q", i, it.ID)
		}
		seen[it.ID] = struct{}{}
		if it.Title == "" {
			return fmt.Errorf("items[%d]: missing title", i)
		}
		if _, err := model.ParsePriority(string(it.Priority)); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
		if it.Category != nil {
			if _, err := model.ParseCategory(string(*it.Category)); err != nil {
				return fmt.Errorf("items[%d]: %w", i, err)
			}
		}
	}
	return nil
}
