package environment

import "github.com/on-the-ground/memo_ive_go/value"

// Computation is a named function of an Environment, the unit of memoization.
// Two computations with the same key share one cache slot.
type Computation interface {
	Key() string
	// IsRandom reports that results must never be served from the cache.
	IsRandom() bool
	Compute(env *Environment) (value.Value, error)
}

// Body is the function a Func evaluates.
type Body func(env *Environment) (value.Value, error)

var _ Computation = Func{}

// Func is a Computation backed by a plain function.
type Func struct {
	key    string
	random bool
	body   Body
}

// NewComputation returns a cacheable computation.
func NewComputation(key string, body Body) Func {
	return Func{key: key, body: body}
}

// NewRandomComputation returns a computation that is recomputed on every request,
// and taints everything that reads it.
func NewRandomComputation(key string, body Body) Func {
	return Func{key: key, random: true, body: body}
}

func (f Func) Key() string { return f.key }

func (f Func) IsRandom() bool { return f.random }

func (f Func) Compute(env *Environment) (value.Value, error) {
	return f.body(env)
}
