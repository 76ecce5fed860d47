// Package pure builds computations whose result depends only on the values of
// named inputs. Such results are tabled by input tuple and survive
// invalidation: when an input returns to an earlier value, the body is not run
// again.
package pure

import (
	"errors"
	"fmt"

	"github.com/on-the-ground/memo_ive_go/environment"
	"github.com/on-the-ground/memo_ive_go/internal/helper"
	"github.com/on-the-ground/memo_ive_go/value"
)

// ErrUnboundInput is returned when a declared input has no value in the environment.
var ErrUnboundInput = errors.New("unbound input")

// Fn is a pure function of a tableized computation's inputs, in declaration order.
type Fn func(args ...value.Value) (value.Value, error)

var _ environment.Computation = (*Tableized)(nil)

// Tableized is a Computation backed by a table of earlier results.
type Tableized struct {
	key    string
	inputs []string
	fn     Fn
	table  *Trie[value.Value]
}

// Tableize returns a computation that reads inputs from the environment and
// evaluates fn on them, remembering up to maxTableSize recent tuples per
// generation. It panics if inputs is empty or maxTableSize is 0.
func Tableize(key string, inputs []string, fn Fn, maxTableSize uint32) *Tableized {
	if len(inputs) == 0 {
		panic(fmt.Sprintf("tableize %q: no inputs", key))
	}
	return &Tableized{
		key:    key,
		inputs: append([]string(nil), inputs...),
		fn:     fn,
		table:  NewTrie[value.Value](maxTableSize),
	}
}

// TableizeI1 is Tableize for a single typed input.
func TableizeI1[I1 any](key, in1 string, fn func(I1) (value.Value, error), maxTableSize uint32) *Tableized {
	return Tableize(key, []string{in1}, func(args ...value.Value) (value.Value, error) {
		a, err := typed[I1](in1, args[0])
		if err != nil {
			return nil, err
		}
		return fn(a)
	}, maxTableSize)
}

// TableizeI2 is Tableize for two typed inputs.
func TableizeI2[I1, I2 any](key, in1, in2 string, fn func(I1, I2) (value.Value, error), maxTableSize uint32) *Tableized {
	return Tableize(key, []string{in1, in2}, func(args ...value.Value) (value.Value, error) {
		a, err := typed[I1](in1, args[0])
		if err != nil {
			return nil, err
		}
		b, err := typed[I2](in2, args[1])
		if err != nil {
			return nil, err
		}
		return fn(a, b)
	}, maxTableSize)
}

func typed[T any](name string, v value.Value) (T, error) {
	t, err := helper.GetTypedValueOf[T](func() (any, error) { return v, nil })
	if err != nil {
		return t, fmt.Errorf("input %q: %w", name, err)
	}
	return t, nil
}

func (t *Tableized) Key() string { return t.key }

func (t *Tableized) IsRandom() bool { return false }

// Compute reads every input, so each one is recorded as a dependency even when
// the result comes from the table.
func (t *Tableized) Compute(env *environment.Environment) (value.Value, error) {
	args := make([]value.Value, len(t.inputs))
	keys := make([]any, len(t.inputs))
	var missing []string
	for i, name := range t.inputs {
		v, ok := env.Read(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		args[i], keys[i] = v, value.Key(v)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnboundInput, missing)
	}

	if v, ok := t.table.Load(keys); ok {
		return v, nil
	}
	v, err := t.fn(args...)
	if err != nil {
		return nil, err
	}
	t.table.Store(keys, v)
	return v, nil
}

// Tabled returns the number of results in the current table generation.
func (t *Tableized) Tabled() int { return t.table.Len() }
