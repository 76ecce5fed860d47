package environment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCycle is returned when a computation, directly or transitively, resolves itself.
	ErrCycle = errors.New("computation cycle")

	// ErrStackMismatch signals corrupted in-progress bookkeeping. It is only ever panicked with.
	ErrStackMismatch = errors.New("in-progress stack mismatch")

	// ErrUnbound is returned by the typed readers when a name holds no value.
	ErrUnbound = errors.New("unbound name")
)

// CycleError names the computation that was re-entered and the chain of
// in-progress computations leading back to it.
type CycleError struct {
	Key   string
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %q is already being computed (%s)", ErrCycle, e.Key, strings.Join(e.Chain, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}
