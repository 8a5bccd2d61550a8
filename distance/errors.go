package distance

import "errors"

var (
	// ErrAlignment indicates that a matrix does not line up with the sample
	// ordering it is attached to, or holds malformed distance values.
	ErrAlignment = errors.New("distance: alignment error")
	// ErrThreshold indicates a negative or NaN clustering threshold.
	ErrThreshold = errors.New("distance: invalid threshold")
)
