package rangeop

import (
	"github.com/on-the-ground/memo_ive_go/operators"
	"github.com/on-the-ground/memo_ive_go/ranges"
)

// RangeOperation is one nesting level: a range and the operator folding its results.
type RangeOperation struct {
	Range    ranges.Range
	Operator operators.Operator
}

func With(r ranges.Range, op operators.Operator) RangeOperation {
	return RangeOperation{Range: r, Operator: op}
}

// Axis collects one result per value of r, in order.
func Axis(r ranges.Range) RangeOperation {
	return With(r, operators.NewConcatenate())
}

func Averaging(r ranges.Range) RangeOperation {
	return With(r, operators.NewAverage())
}

func Summing(r ranges.Range) RangeOperation {
	return With(r, operators.NewSum())
}
