package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types
const (
	learnedPatternPrefix = "lrnpat:"
	learnedPatternSeq    = "lrnpatseq"
)

// makeLearnedPatternKey generates a key for a learned pattern.
// Format: prefix + big-endian sequence number, so keys iterate in append order.
func makeLearnedPatternKey(seq uint64) []byte {
	prefix := []byte(learnedPatternPrefix)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}
