package environment

import (
	"fmt"

	"github.com/on-the-ground/memo_ive_go/internal/helper"
)

// ReadAs reads name and asserts its value to T.
// Returns ErrUnbound if name holds no value.
func ReadAs[T any](env *Environment, name string) (T, error) {
	return helper.GetTypedValueOf[T](func() (any, error) {
		v, ok := env.Read(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnbound, name)
		}
		return v, nil
	})
}

// MustReadAs is the panic-on-failure variant of ReadAs.
func MustReadAs[T any](env *Environment, name string) T {
	return helper.MustGetTypedValue[T](func() (any, error) {
		v, ok := env.Read(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnbound, name)
		}
		return v, nil
	})
}

// ResolveAs resolves c and asserts its value to T.
func ResolveAs[T any](env *Environment, c Computation) (T, error) {
	return helper.GetTypedValueOf[T](func() (any, error) {
		return env.Resolve(c)
	})
}
