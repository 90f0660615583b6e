// Package chunker splits long text into overlapping fixed-size windows.
package chunker

import "fmt"

const (
	// DefaultChunkSize is the window length in runes.
	DefaultChunkSize = 1000
	// DefaultOverlap is the number of runes shared by consecutive windows.
	DefaultOverlap = 150
)

// Chunk splits text into windows of chunkSize runes, each starting
// chunkSize-overlap runes after the previous one. Every rune of text appears
// in at least one window and the last window may be shorter than chunkSize.
//
// chunkSize must be greater than overlap and overlap must not be negative;
// otherwise ErrInvalidChunkParams is returned. Empty text yields no chunks.
func Chunk(text string, chunkSize, overlap int) ([]string, error) {
	if overlap < 0 || chunkSize <= overlap {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidChunkParams, chunkSize, overlap)
	}
	if text == "" {
		return []string{}, nil
	}

	runes := []rune(text)
	step := chunkSize - overlap
	chunks := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := min(start+chunkSize, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks, nil
}

// Chunker carries a fixed window configuration.
type Chunker struct {
	size    int
	overlap int
}

// New validates the window configuration up front.
func New(chunkSize, overlap int) (*Chunker, error) {
	if overlap < 0 || chunkSize <= overlap {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidChunkParams, chunkSize, overlap)
	}
	return &Chunker{size: chunkSize, overlap: overlap}, nil
}

// Split chunks text with the configured window.
func (c *Chunker) Split(text string) []string {
	// Parameters were validated in New.
	chunks, _ := Chunk(text, c.size, c.overlap)
	return chunks
}
