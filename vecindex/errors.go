package vecindex

import "errors"

var (
	// ErrDimensionMismatch indicates a vector whose length differs from the
	// index dimension. This is an integration error, not a runtime condition.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyVector indicates a zero-length vector.
	ErrEmptyVector = errors.New("vector cannot be empty")
)
