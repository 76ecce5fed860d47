// Package operators provides the cumulative aggregators folded over one level
// of a nested range evaluation.
package operators

import (
	"fmt"

	"github.com/on-the-ground/memo_ive_go/value"
)

// Operator folds a stream of sub-results into one value.
//
// Result must be valid without any Increment, returning the operator's
// "no data" value.
type Operator interface {
	Initialize()
	Increment(v value.Value) error
	Result() value.Value
}

var (
	_ Operator = (*Sum)(nil)
	_ Operator = (*Average)(nil)
	_ Operator = (*Concatenate)(nil)
	_ Operator = (*Count)(nil)
	_ Operator = (*Extremum)(nil)
	_ Operator = (*Custom)(nil)
)

// Sum adds numbers, or nested sequences of numbers component-wise.
// The empty sum is 0.0.
type Sum struct {
	total value.Value
}

func NewSum() *Sum { return &Sum{} }

func (s *Sum) Initialize() { s.total = nil }

func (s *Sum) Increment(v value.Value) error {
	n, err := value.Numbers(v)
	if err != nil {
		return err
	}
	if s.total == nil {
		s.total = n
		return nil
	}
	total, err := add(s.total, n, "")
	if err != nil {
		return err
	}
	s.total = total
	return nil
}

func (s *Sum) Result() value.Value {
	if s.total == nil {
		return 0.0
	}
	return s.total
}

// Average averages numbers, or nested sequences of numbers component-wise.
// The first Increment fixes the shape; later operands must match it.
// The empty average is 0.0.
type Average struct {
	sum   Sum
	count int
}

func NewAverage() *Average { return &Average{} }

func (a *Average) Initialize() {
	a.sum.Initialize()
	a.count = 0
}

func (a *Average) Increment(v value.Value) error {
	if err := a.sum.Increment(v); err != nil {
		return err
	}
	a.count++
	return nil
}

func (a *Average) Result() value.Value {
	if a.count == 0 {
		return 0.0
	}
	return divide(a.sum.total, float64(a.count))
}

// Concatenate collects sub-results in emission order.
// The empty concatenation is an empty, non-nil slice.
type Concatenate struct {
	items []value.Value
}

func NewConcatenate() *Concatenate { return &Concatenate{items: []value.Value{}} }

func (c *Concatenate) Initialize() { c.items = []value.Value{} }

func (c *Concatenate) Increment(v value.Value) error {
	c.items = append(c.items, v)
	return nil
}

func (c *Concatenate) Result() value.Value { return c.items }

// Count counts sub-results.
type Count struct {
	n int
}

func NewCount() *Count { return &Count{} }

func (c *Count) Initialize() { c.n = 0 }

func (c *Count) Increment(value.Value) error {
	c.n++
	return nil
}

func (c *Count) Result() value.Value { return c.n }

// Extremum keeps the smallest or largest numeric sub-result, unconverted.
// The empty extremum is nil.
type Extremum struct {
	max  bool
	best value.Value
	key  float64
}

func NewMin() *Extremum { return &Extremum{} }

func NewMax() *Extremum { return &Extremum{max: true} }

func (e *Extremum) Initialize() {
	e.best = nil
	e.key = 0
}

func (e *Extremum) Increment(v value.Value) error {
	f, ok := value.Float(v)
	if !ok {
		return fmt.Errorf("%w: %T", value.ErrNotNumeric, v)
	}
	if e.best == nil || (e.max && f > e.key) || (!e.max && f < e.key) {
		e.best, e.key = v, f
	}
	return nil
}

func (e *Extremum) Result() value.Value { return e.best }

// Custom folds with caller-supplied functions.
type Custom struct {
	init func() value.Value
	fold func(acc, v value.Value) (value.Value, error)
	acc  value.Value
}

func NewCustom(init func() value.Value, fold func(acc, v value.Value) (value.Value, error)) *Custom {
	return &Custom{init: init, fold: fold, acc: init()}
}

func (c *Custom) Initialize() { c.acc = c.init() }

func (c *Custom) Increment(v value.Value) error {
	acc, err := c.fold(c.acc, v)
	if err != nil {
		return err
	}
	c.acc = acc
	return nil
}

func (c *Custom) Result() value.Value { return c.acc }
