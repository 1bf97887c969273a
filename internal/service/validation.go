package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/vbonduro/stockroom/internal/domain"
)

// Field messages, worded the way the item API has always reported them.
const (
	msgRequired     = "This field is required."
	msgNull         = "This field may not be null."
	msgBlank        = "This field may not be blank."
	msgNotString    = "Not a valid string."
	msgNotInteger   = "A valid integer is required."
	msgNotNumber    = "A valid number is required."
	msgMaxDigits    = "Ensure that there are no more than 10 digits in total."
	msgMaxDecimals  = "Ensure that there are no more than 2 decimal places."
	msgMinPrice     = "Ensure this value is greater than or equal to 0."
	msgMinQuantity  = "Ensure this value is greater than or equal to 1."
	msgMaxLenFormat = "Ensure this field has no more than %d characters."

	nonFieldErrors = "non_field_errors"
)

const (
	maxNameLen     = 200
	maxLocationLen = 200
	maxTagsLen     = 500
	maxPriceDigits = 10
	maxPricePlaces = 2
)

// Fields is a decoded JSON request body keyed by field name.
type Fields map[string]json.RawMessage

// ValidationError carries field-keyed messages for a rejected write.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return "invalid item: " + strings.Join(parts, "; ")
}

type fieldErrors map[string][]string

func (fe fieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return &ValidationError{Fields: fe}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// parseString decodes a string field. Nullable fields turn null into "".
func parseString(fe fieldErrors, field string, raw json.RawMessage, nullable bool, maxLen int) (string, bool) {
	if isNull(raw) {
		if nullable {
			return "", true
		}
		fe.add(field, msgNull)
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		fe.add(field, msgNotString)
		return "", false
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		fe.add(field, fmt.Sprintf(msgMaxLenFormat, maxLen))
		return "", false
	}
	return s, true
}

func parseName(fe fieldErrors, raw json.RawMessage) (string, bool) {
	s, ok := parseString(fe, "name", raw, false, 0)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		fe.add("name", msgBlank)
		return "", false
	}
	if utf8.RuneCountInString(s) > maxNameLen {
		fe.add("name", fmt.Sprintf(msgMaxLenFormat, maxNameLen))
		return "", false
	}
	return s, true
}

func invalidChoice(v string) string {
	return fmt.Sprintf("%q is not a valid choice.", v)
}

// parseChoice decodes an enum field and checks it with valid.
func parseChoice(fe fieldErrors, field string, raw json.RawMessage, valid func(string) bool) (string, bool) {
	s, ok := parseString(fe, field, raw, false, 0)
	if !ok {
		return "", false
	}
	if !valid(s) {
		fe.add(field, invalidChoice(s))
		return "", false
	}
	return s, true
}

// parsePrice accepts a JSON number or numeric string. The bool result is
// false when the field had an error; a nil price with true means null.
func parsePrice(fe fieldErrors, raw json.RawMessage) (*domain.Price, bool) {
	if isNull(raw) {
		return nil, true
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = string(bytes.TrimSpace(raw))
	}
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		fe.add("price", msgNotNumber)
		return nil, false
	}
	if d.IsNegative() {
		fe.add("price", msgMinPrice)
		return nil, false
	}
	if -d.Exponent() > maxPricePlaces && !d.Equal(d.Truncate(maxPricePlaces)) {
		fe.add("price", msgMaxDecimals)
		return nil, false
	}
	if len(d.Truncate(0).Abs().String()) > maxPriceDigits-maxPricePlaces {
		fe.add("price", msgMaxDigits)
		return nil, false
	}
	p := domain.NewPrice(d)
	return &p, true
}

func parseQuantity(fe fieldErrors, raw json.RawMessage) (int, bool) {
	if isNull(raw) {
		fe.add("quantity", msgNull)
		return 0, false
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			fe.add("quantity", msgNotInteger)
			return 0, false
		}
		n = json.Number(strings.TrimSpace(s))
	}
	v, err := n.Int64()
	if err != nil {
		fe.add("quantity", msgNotInteger)
		return 0, false
	}
	if v < 1 {
		fe.add("quantity", msgMinQuantity)
		return 0, false
	}
	return int(v), true
}

func validGroup(s string) bool    { return domain.Group(s).Valid() }
func validStatus(s string) bool   { return domain.Status(s).Valid() }
func validPriority(s string) bool { return domain.Priority(s).Valid() }

func duplicateMessage(name string, group domain.Group) string {
	return fmt.Sprintf("An item with name '%s' already exists in the %s group.", name, group)
}
