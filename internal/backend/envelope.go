package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ListEnvelope resolves the upstream's duck-typed list shapes once at the
// boundary: a response may be a bare array, `{"data": [...]}`, or an object
// keyed by the resource name (`{"cart": [...]}`, `{"categories": [...]}`).
type ListEnvelope[T any] struct {
	// Key is the resource-specific object key consulted after "data".
	Key   string
	Items []T
}

// UnmarshalJSON tries the bare-array shape first, then the enveloped shapes.
func (e *ListEnvelope[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		e.Items = nil
		return nil
	}

	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &e.Items)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return fmt.Errorf("backend: unexpected list payload: %w", err)
	}

	for _, key := range []string{"data", e.Key} {
		if key == "" {
			continue
		}
		raw, ok := envelope[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		return json.Unmarshal(raw, &e.Items)
	}

	// An envelope without a recognised key degrades to an empty list rather
	// than an error; reads must never surface malformed-shape failures.
	e.Items = nil
	return nil
}
