package chunker

import "errors"

var (
	// ErrInvalidChunkParams is returned when chunkSize <= overlap or overlap < 0.
	// Such a window would never advance.
	ErrInvalidChunkParams = errors.New("chunk size must be greater than overlap and overlap must be non-negative")
)
