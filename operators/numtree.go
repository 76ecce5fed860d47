package operators

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/on-the-ground/memo_ive_go/value"
)

// ErrShapeMismatch is returned when nested operands do not line up component-wise.
var ErrShapeMismatch = errors.New("shape mismatch")

// ShapeError locates the first component where two operands disagree.
type ShapeError struct {
	Path string
	Want string
	Got  string
}

func (e *ShapeError) Error() string {
	path := e.Path
	if path == "" {
		path = "root"
	}
	return fmt.Sprintf("%v at %s: want %s, got %s", ErrShapeMismatch, path, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// A numeric tree is a float64 leaf or a []value.Value of trees, as built by value.Numbers.

func describe(tree value.Value) string {
	if seq, ok := tree.([]value.Value); ok {
		return "sequence of " + strconv.Itoa(len(seq))
	}
	return "number"
}

// add returns a + b component-wise without touching either operand.
func add(a, b value.Value, path string) (value.Value, error) {
	switch a := a.(type) {
	case float64:
		if b, ok := b.(float64); ok {
			return a + b, nil
		}
	case []value.Value:
		b, ok := b.([]value.Value)
		if !ok || len(a) != len(b) {
			break
		}
		out := make([]value.Value, len(a))
		for i := range a {
			sum, err := add(a[i], b[i], path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			out[i] = sum
		}
		return out, nil
	}
	return nil, &ShapeError{Path: path, Want: describe(a), Got: describe(b)}
}

func divide(tree value.Value, n float64) value.Value {
	if seq, ok := tree.([]value.Value); ok {
		out := make([]value.Value, len(seq))
		for i, elem := range seq {
			out[i] = divide(elem, n)
		}
		return out
	}
	return tree.(float64) / n
}
