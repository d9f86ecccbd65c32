package array

import (
	"errors"
	"fmt"
)

var (
	// ErrReshape is returned when a requested shape does not match the
	// number of values held by an array.
	ErrReshape = errors.New("array: shape mismatch")

	// ErrIndexOutOfRange is returned (or wrapped into a panic) when a sample,
	// property or element index falls outside the data.
	ErrIndexOutOfRange = errors.New("array: index out of range")

	// ErrLayout is raised when a struct type cannot be viewed as a row of
	// float64 properties.
	ErrLayout = errors.New("array: invalid struct layout")

	// ErrReleased is raised when the values of an external array are read
	// or written after Release.
	ErrReleased = errors.New("array: external memory released")
)

func indexError(what string, i, n int) error {
	return fmt.Errorf("%w: %s %d not in [0,%d)", ErrIndexOutOfRange, what, i, n)
}
