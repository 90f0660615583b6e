package registry

import "errors"

var (
	// ErrRegistryRequired is returned when a rewriter is built without a registry.
	ErrRegistryRequired = errors.New("entity registry required")

	// ErrInvalidThreshold is returned for thresholds outside 0..100.
	ErrInvalidThreshold = errors.New("threshold must be between 0 and 100")

	// ErrInvalidMinTokenLength is returned for negative token lengths.
	ErrInvalidMinTokenLength = errors.New("minimum token length must not be negative")
)
