package go_ballisticengine

import (
	"errors"
	"fmt"
)

//ErrIndexOutOfRange is reported when a trajectory buffer index, negative or
//positive, does not resolve to a stored sample
var ErrIndexOutOfRange = errors.New("index out of range")

//ErrInsufficientPoints is reported when an operation needs at least three
//trajectory samples and fewer are available
var ErrInsufficientPoints = errors.New("at least 3 samples are required")

//ErrZeroDivision is reported when an interpolation denominator degenerates
//(two knots share the same key value)
var ErrZeroDivision = errors.New("zero division")

//ErrInterpolationBracket is reported when bisection failed to locate a usable
//bracket for the requested key value
var ErrInterpolationBracket = errors.New("no bracket found for interpolation")

//ValueError reports an invalid input or a degenerate intermediate value
type ValueError struct {
	Msg string
}

func (e *ValueError) Error() string {
	return e.Msg
}

func newValueError(format string, args ...interface{}) *ValueError {
	return &ValueError{Msg: fmt.Sprintf(format, args...)}
}

//OutOfRangeError is reported when the requested distance exceeds the maximum
//range achievable with the shot parameters.
//
//MaxRange and LookAngle carry the range actually achieved and the look angle
//it was achieved at, so the caller can inspect how far the request missed.
type OutOfRangeError struct {
	RequestedDistance float64
	MaxRange          float64
	LookAngle         float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("requested distance %.1f ft exceeds maximum range %.1f ft at look angle %.4f rad",
		e.RequestedDistance, e.MaxRange, e.LookAngle)
}

//ZeroFindingError is reported when a zero-angle search failed to converge.
//
//The error keeps the iteration count, the last residual and the last barrel
//elevation tried so the failure can be diagnosed rather than retried blindly.
type ZeroFindingError struct {
	Iterations    int
	Residual      float64
	LastElevation float64
	Reason        string
}

func (e *ZeroFindingError) Error() string {
	return fmt.Sprintf("zero finding failed after %d iterations (residual %.6f, last elevation %.6f rad): %s",
		e.Iterations, e.Residual, e.LastElevation, e.Reason)
}
