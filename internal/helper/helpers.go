package helper

import (
	"fmt"
)

// GetTypedValueOf calls getFn and narrows its result to T.
// A getter error is wrapped; a result of another type is reported with both types.
func GetTypedValueOf[T any](getFn func() (any, error)) (T, error) {
	var zero T

	res, err := getFn()
	if err != nil {
		return zero, fmt.Errorf("failed to get value: %w", err)
	}

	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected type: %T, want %T", res, zero)
	}

	return val, nil
}

// MustGetTypedValue panics where GetTypedValueOf would return an error.
// For callers that bound the value themselves, such as computations over range variables.
func MustGetTypedValue[T any](getFn func() (any, error)) T {
	res, err := GetTypedValueOf[T](getFn)
	if err != nil {
		panic(err)
	}
	return res
}
