// Package environment provides a dependency-aware memoizing store for named values.
//
// An Environment caches the result of every Computation it resolves under the
// computation's key, and records, while a computation runs, every name it reads.
// Those reads form a dependency graph discovered at runtime:
//
//	x ──▶ f ──▶ g      (f read x, g resolved f)
//
// Writing a different value to x drops f and g from the cache, so the next
// Resolve of g recomputes both. Writing the value x already holds does nothing.
//
// A Computation that declares itself random is never served from the cache, and
// neither is anything that read it during its last computation: the taint is
// contagious along dependency edges.
//
// An Environment is single-threaded. Computations receive it explicitly and must
// not keep it past their own Compute call.
//
// Example:
//
//	env := environment.New()
//	env.Write("x", 2)
//	square := environment.NewComputation("square", func(env *environment.Environment) (value.Value, error) {
//	    x, err := environment.ReadAs[int](env, "x")
//	    return x * x, err
//	})
//	v, err := env.Resolve(square) // computes 4
//	v, err = env.Resolve(square)  // cached
//	env.Write("x", 3)             // invalidates square
package environment
