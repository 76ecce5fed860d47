package value

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotNumeric is returned when a number or a nested sequence of numbers was expected.
var ErrNotNumeric = errors.New("value is not numeric")

// Float converts any Go number to float64.
func Float(v Value) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Sequence returns the elements of a slice or array value.
func Sequence(v Value) ([]Value, bool) {
	if s, ok := v.([]Value); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]Value, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

// Numbers normalizes a number, or an arbitrarily nested sequence of numbers,
// into float64 leaves and []Value branches.
func Numbers(v Value) (Value, error) {
	if f, ok := Float(v); ok {
		return f, nil
	}
	seq, ok := Sequence(v)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
	out := make([]Value, len(seq))
	for i, elem := range seq {
		n, err := Numbers(elem)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}
