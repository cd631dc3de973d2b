package kepler

import "errors"

var (
	// ErrInvalidElements reports an element set that violates 0 ≤ e < 1,
	// a > 0, M > 0, plx > 0 or contains non-finite values.
	ErrInvalidElements = errors.New("invalid orbital elements")

	// ErrNumerical reports non-finite input to the anomaly solver.
	ErrNumerical = errors.New("numerical error")
)
