// Package value defines the opaque results produced by computations and the
// equality used to decide whether a new result actually changed anything.
package value

import (
	"fmt"
	"reflect"
)

// Value is any immutable datum produced by a computation or written by a range.
type Value = any

// Equatable lets a value decide its own equality.
// Used by Equal before falling back to == or deep equality.
type Equatable interface {
	Equals(other any) bool
}

// Equal reports whether a and b hold the same value.
//
// Floating point values compare exactly: a recomputation that drifts by one ulp
// counts as a change and invalidates dependents.
func Equal(a, b Value) bool {
	if ea, ok := a.(Equatable); ok {
		return ea.Equals(b)
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() && isShallow(ta.Kind()) {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// isShallow reports kinds whose == never panics and never hides a nested slice.
func isShallow(k reflect.Kind) bool {
	switch k {
	case reflect.Interface, reflect.Struct, reflect.Array:
		return false
	default:
		return true
	}
}

// Key turns a value into something usable as a map key.
// Stringers use their String form; other non-comparable values are formatted.
func Key(v Value) any {
	if v == nil {
		return nil
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	if t := reflect.TypeOf(v); t.Comparable() && isShallow(t.Kind()) {
		return v
	}
	return fmt.Sprintf("%T:%#v", v, v)
}
