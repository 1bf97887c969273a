package itemapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string][]string
		want   string
	}{
		{"name first", map[string][]string{"name": {"This field is required."}, "non_field_errors": {"dup"}}, "This field is required."},
		{"non field", map[string][]string{"non_field_errors": {"An item with name 'Drill' already exists in the Primary group."}}, "An item with name 'Drill' already exists in the Primary group."},
		{"detail", map[string][]string{"detail": {"JSON parse error"}}, "JSON parse error"},
		{"error", map[string][]string{"error": {"bad"}}, "bad"},
		{"other field only", map[string][]string{"quantity": {"too small"}}, DefaultValidationMessage},
		{"empty", nil, DefaultValidationMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{StatusCode: 400, Fields: tt.fields}
			assert.Equal(t, tt.want, err.Message())
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestParseFields(t *testing.T) {
	fields := parseFields(map[string]any{
		"name":   "plain string",
		"tags":   []any{"a", "b"},
		"nested": map[string]any{"x": []any{"inner"}},
		"empty":  []any{},
		"count":  float64(3),
	})

	assert.Equal(t, []string{"plain string"}, fields["name"])
	assert.Equal(t, []string{"a", "b"}, fields["tags"])
	assert.Equal(t, []string{"inner"}, fields["nested"])
	assert.Equal(t, []string{"3"}, fields["count"])
	assert.NotContains(t, fields, "empty")
}
