// Package rangeop evaluates a terminal computation over nested ranges, folding
// each level's results with that level's operator.
//
// The first RangeOperation is the outermost loop and the last one the
// innermost, so the last variable changes most often. Sub-results that do not
// read it stay cached in the Environment across its iterations; put the cheap or
// fast-varying variables last.
//
// Example: the average over y of x+y, for each x in 0..2:
//
//	ev := rangeop.NewEvaluator(environment.New())
//	v, err := ev.Evaluate([]rangeop.RangeOperation{
//	    rangeop.Axis(ranges.Arithmetic("x", 0, 2, 1)),
//	    rangeop.Averaging(ranges.Arithmetic("y", 0, 2, 1)),
//	}, sum)
//	// v == []value.Value{1.0, 2.0, 3.0}
package rangeop
