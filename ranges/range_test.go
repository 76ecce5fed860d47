package ranges_test

import (
	"iter"
	"math"
	"testing"

	"github.com/on-the-ground/memo_ive_go/environment"
	"github.com/on-the-ground/memo_ive_go/ranges"
	"github.com/on-the-ground/memo_ive_go/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain runs one full pass and returns what the range wrote, read back from env.
func drain(env *environment.Environment, r ranges.Range) []value.Value {
	out := []value.Value{}
	r.Initialize()
	for r.HasNext() {
		r.Advance(env)
		v, _ := env.Read(r.Name())
		out = append(out, v)
	}
	return out
}

func TestOver_EmitsInOrderAndRestarts(t *testing.T) {
	env := environment.New()
	r := ranges.Over("x", "b", "a", "c")

	assert.Equal(t, []value.Value{"b", "a", "c"}, drain(env, r))
	assert.Equal(t, []value.Value{"b", "a", "c"}, drain(env, r))
}

func TestOver_DoesNotAliasCallerSlice(t *testing.T) {
	values := []value.Value{1, 2}
	r := ranges.Over("x", values...)
	values[0] = 99

	assert.Equal(t, []value.Value{1, 2}, drain(environment.New(), r))
}

func TestArithmetic(t *testing.T) {
	env := environment.New()
	assert.Equal(t, []value.Value{0, 1, 2}, drain(env, ranges.Arithmetic("x", 0, 2, 1)))
	assert.Equal(t, []value.Value{0, 3, 6}, drain(env, ranges.Arithmetic("x", 0, 7, 3)))
	assert.Equal(t, []value.Value{3, 1, -1}, drain(env, ranges.Arithmetic("x", 3, -1, -2)))
	assert.Empty(t, drain(env, ranges.Arithmetic("x", 3, 2, 1)))
	assert.Panics(t, func() { ranges.Arithmetic("x", 0, 1, 0) })
}

func TestArithmetic_StopsAtIntegerBounds(t *testing.T) {
	env := environment.New()
	assert.Equal(t, []value.Value{math.MaxInt - 1, math.MaxInt},
		drain(env, ranges.Arithmetic("x", math.MaxInt-1, math.MaxInt, 1)))
	assert.Equal(t, []value.Value{math.MaxInt - 4, math.MaxInt - 1},
		drain(env, ranges.Arithmetic("x", math.MaxInt-4, math.MaxInt, 3)))
	assert.Equal(t, []value.Value{math.MinInt + 1, math.MinInt},
		drain(env, ranges.Arithmetic("x", math.MinInt+1, math.MinInt, -1)))
	assert.Equal(t, []value.Value{math.MinInt, -1, math.MaxInt - 1},
		drain(env, ranges.Arithmetic("x", math.MinInt, math.MaxInt, math.MaxInt)))
}

func TestGeometric(t *testing.T) {
	env := environment.New()
	assert.Equal(t, []value.Value{1, 2, 4, 8}, drain(env, ranges.Geometric("n", 1, 10, 2)))
	assert.Equal(t, []value.Value{3, 9, 27}, drain(env, ranges.Geometric("n", 3, 27, 3)))
	assert.Empty(t, drain(env, ranges.Geometric("n", 5, 4, 2)))
	assert.Panics(t, func() { ranges.Geometric("n", 0, 10, 2) })
	assert.Panics(t, func() { ranges.Geometric("n", 1, 10, 1) })
}

func TestFromSeq_CallsSourceOnEveryInitialize(t *testing.T) {
	passes := 0
	r := ranges.FromSeq("x", func() iter.Seq[value.Value] {
		passes++
		return func(yield func(value.Value) bool) {
			for i := 0; i < passes; i++ {
				if !yield(i) {
					return
				}
			}
		}
	})

	env := environment.New()
	assert.Equal(t, []value.Value{0}, drain(env, r))
	assert.Equal(t, []value.Value{0, 1}, drain(env, r))
}

func TestAdvance_InvalidatesDependents(t *testing.T) {
	env := environment.New()
	calls := 0
	f := environment.NewComputation("f", func(env *environment.Environment) (value.Value, error) {
		calls++
		return environment.ReadAs[int](env, "x")
	})

	r := ranges.Over("x", 1, 1, 2)
	r.Initialize()
	for r.HasNext() {
		r.Advance(env)
		_, err := env.Resolve(f)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls, "the repeated 1 is an equal write and must not invalidate f")
}

func TestListen(t *testing.T) {
	type seen struct {
		name string
		v    value.Value
	}
	var got []seen

	r := ranges.Over("x", 10, 20)
	r.Listen(func(name string, v value.Value) { got = append(got, seen{name, v}) })
	r.Listen(func(name string, v value.Value) { got = append(got, seen{name + "!", v}) })

	drain(environment.New(), r)
	assert.Equal(t, []seen{{"x", 10}, {"x!", 10}, {"x", 20}, {"x!", 20}}, got)
}

func TestHasNext_BeforeInitializeAndAfterClose(t *testing.T) {
	r := ranges.Over("x", 1, 2, 3)
	assert.False(t, r.HasNext())
	assert.Panics(t, func() { r.Advance(environment.New()) })

	r.Initialize()
	require.True(t, r.HasNext())
	r.Close()
	assert.False(t, r.HasNext())

	r.Initialize()
	assert.True(t, r.HasNext())
	r.Close()
}
