package itemapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var ErrNotFound = errors.New("item not found")

// DefaultValidationMessage is shown when a rejection carries no usable field
// message.
const DefaultValidationMessage = "Failed to save item"

// NotFoundError reports a 404 on a single-item path.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError is a 400 response with field-keyed messages.
type ValidationError struct {
	StatusCode int
	Fields     map[string][]string
}

func (e *ValidationError) Error() string {
	return e.Message()
}

// Message picks the message a form shows: the first name error, then the
// first general error, then a fallback.
func (e *ValidationError) Message() string {
	for _, key := range []string{"name", "non_field_errors", "detail", "error"} {
		if msgs := e.Fields[key]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	return DefaultValidationMessage
}

// FieldNames returns the keys that carry at least one message, sorted.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		if len(v) > 0 {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// DecodeError means a 2xx response did not match the item schema.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// parseFields accepts each value as a string, a list of strings, or a nested
// object whose messages are flattened.
func parseFields(detail map[string]any) map[string][]string {
	fields := make(map[string][]string, len(detail))
	for key, raw := range detail {
		if msgs := messages(raw); len(msgs) > 0 {
			fields[key] = msgs
		}
	}
	return fields
}

func messages(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		var out []string
		for _, item := range val {
			out = append(out, messages(item)...)
		}
		return out
	case map[string]any:
		var out []string
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, messages(val[k])...)
		}
		return out
	case nil:
		return nil
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return nil
		}
		return []string{string(data)}
	}
}
