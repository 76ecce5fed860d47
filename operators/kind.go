package operators

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names a built-in operator.
type Kind string

const (
	KindSum         Kind = "sum"
	KindAverage     Kind = "average"
	KindConcatenate Kind = "concatenate"
	KindCount       Kind = "count"
	KindMin         Kind = "min"
	KindMax         Kind = "max"
)

var ErrUnknownKind = errors.New("unknown operator kind")

// ParseKind accepts a kind name in any letter case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindSum, KindAverage, KindConcatenate, KindCount, KindMin, KindMax:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// New returns a fresh operator of the given kind.
func New(k Kind) Operator {
	switch k {
	case KindSum:
		return NewSum()
	case KindAverage:
		return NewAverage()
	case KindConcatenate:
		return NewConcatenate()
	case KindCount:
		return NewCount()
	case KindMin:
		return NewMin()
	case KindMax:
		return NewMax()
	default:
		panic(fmt.Sprintf("exhaustive match fallback, operator kind: %q", k))
	}
}
