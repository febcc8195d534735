package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is the standard MES list envelope.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// DecodePage accepts both shapes MES list endpoints produce: the standard
// {items, total} envelope, passed through unchanged, and a bare JSON array.
// A bare array carries no count, so total falls back to the page length.
// When upstream caps the page that total is an undercount; callers display
// it as-is rather than guessing.
func DecodePage[T any](raw json.RawMessage) (Page[T], error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return Page[T]{}, fmt.Errorf("empty list payload")
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page[T]{}, fmt.Errorf("failed to decode bare list: %w", err)
		}
		if items == nil {
			items = []T{}
		}
		return Page[T]{Items: items, Total: len(items)}, nil
	}

	var page Page[T]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return Page[T]{}, fmt.Errorf("failed to decode list envelope: %w", err)
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}
