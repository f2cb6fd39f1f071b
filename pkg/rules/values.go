package rules

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// IsEmpty reports whether value counts as "no input": nil, the empty string,
// or an empty slice, array or map.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == ""
	case []byte:
		return len(v) == 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return IsEmpty(rv.Elem().Interface())
	}
	return false
}

// IsFalsy reports whether a schema entry value disables its rule: nil, false,
// the empty string, or a numeric zero.
func IsFalsy(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case bool:
		return !v
	case string:
		return v == ""
	}
	if f, ok := numeric(value); ok {
		return f == 0
	}
	return false
}

// Length measures value: runes for strings, elements for slices, arrays and
// maps. nil has length zero.
func Length(value any) (int, error) {
	if value == nil {
		return 0, nil
	}
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v), nil
	case []byte:
		return utf8.RuneCount(v), nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len(), nil
	case reflect.Pointer:
		if rv.IsNil() {
			return 0, nil
		}
		return Length(rv.Elem().Interface())
	}
	return 0, fmt.Errorf("%w: cannot measure length of %T", ErrUnsupportedValue, value)
}

func intParam(param any) (int, error) {
	f, ok := numeric(param)
	if !ok {
		if s, isString := param.(string); isString {
			parsed, err := strconv.Atoi(strings.TrimSpace(s))
			if err == nil {
				return parsed, nil
			}
		}
		return 0, fmt.Errorf("%w: expected an integer, got %T", ErrInvalidParam, param)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: expected an integer, got %v", ErrInvalidParam, param)
	}
	return int(f), nil
}

func floatParam(param any) (float64, error) {
	if f, ok := numeric(param); ok {
		return f, nil
	}
	if s, ok := param.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: expected a number, got %T", ErrInvalidParam, param)
}

func numericValue(value any) (float64, error) {
	if f, ok := numeric(value); ok {
		return f, nil
	}
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %v is not a number", ErrUnsupportedValue, value)
}

func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func stringValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	if f, ok := numeric(value); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("%w: expected text, got %T", ErrUnsupportedValue, value)
}
