package vector

import "errors"

var (
	// ErrDimensionMismatch is returned when a vector's length does not match
	// the index dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrConnection is returned when a durable index backend fails.
	ErrConnection = errors.New("vector index connection failed")
)
