package transport

import (
	"encoding/json"
	"fmt"
)

// Error is returned for network failures and non-2xx responses. StatusCode is
// zero when no response was received.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	// Detail holds the response body when it decoded as a JSON object.
	Detail map[string]any
	Err    error
}

func newStatusError(method, path string, status int, body []byte) *Error {
	e := &Error{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       body,
	}
	var detail map[string]any
	if err := json.Unmarshal(body, &detail); err == nil && detail != nil {
		e.Detail = detail
	}
	return e
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s %s: item service returned status %d", e.Method, e.Path, e.StatusCode)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HasBody reports whether the service sent a structured JSON error body.
func (e *Error) HasBody() bool {
	return e.Detail != nil
}
