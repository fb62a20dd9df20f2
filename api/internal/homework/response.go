// Package homework validates homework status API responses and turns a
// homework record into the text sent to the user.
package homework

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMalformedResponse = errors.New("malformed response")
	ErrMissingField      = errors.New("missing field")
	ErrUnknownStatus     = errors.New("unknown homework status")
)

const (
	keyHomeworks   = "homeworks"
	keyCurrentDate = "current_date"
	keyName        = "homework_name"
	keyStatus      = "status"
)

// CheckResponse checks the shape of a decoded API response and returns its
// homeworks list unchanged. The newest homework comes first.
func CheckResponse(response any) ([]any, error) {
	m, ok := response.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: response is %s, want object", ErrMalformedResponse, typeName(response))
	}
	if _, ok := m[keyCurrentDate]; !ok {
		return nil, fmt.Errorf("%w: no %q key", ErrMalformedResponse, keyCurrentDate)
	}
	raw, ok := m[keyHomeworks]
	if !ok {
		return nil, fmt.Errorf("%w: no %q key", ErrMalformedResponse, keyHomeworks)
	}
	homeworks, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %s, want list", ErrMalformedResponse, keyHomeworks, typeName(raw))
	}
	return homeworks, nil
}

// CurrentDate returns the server cursor from a response already accepted
// by CheckResponse. ok is false when the value is not an integer.
func CurrentDate(response any) (ts int64, ok bool) {
	m, _ := response.(map[string]any)
	switch v := m[keyCurrentDate].(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number, float64, int, int64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
