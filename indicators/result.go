package indicators

import "github.com/rustyeddy/streamta/array"

// Status reports how a computation went. Math failures stay in band so a
// graph keeps streaming.
type Status uint8

const (
	StatusSuccess Status = iota
	StatusMathError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusMathError:
		return "math_error"
	}
	return "unknown"
}

// Result is what a forward step produces.
type Result struct {
	Value  *array.Array
	Status Status
}

// OK wraps a successful value.
func OK(v *array.Array) Result { return Result{Value: v} }

// Scalar wraps a successful single value.
func Scalar(v float64) Result { return Result{Value: array.Scalar(v)} }

// MathError carries a zero value with StatusMathError.
func MathError() Result { return Result{Value: array.Zero(), Status: StatusMathError} }
