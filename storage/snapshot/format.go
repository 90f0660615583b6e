package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-crypt/x/blake2b"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// formatVersion is bumped whenever either payload encoding changes.
const formatVersion = 1

var (
	indexMagic  = []byte("RVIX")
	chunksMagic = []byte("RVCH")

	errBadMagic   = errors.New("bad magic")
	errBadVersion = errors.New("unsupported format version")
)

// encodeFile prefixes payload with magic, format version and generation.
func encodeFile(magic []byte, gen uint64, payload []byte) []byte {
	size := len(magic) + varint.Int.Size(formatVersion) + raw.Uint64.Size(gen) + len(payload)
	buf := make([]byte, size)
	n := copy(buf, magic)
	n += varint.Int.Marshal(formatVersion, buf[n:])
	n += raw.Uint64.Marshal(gen, buf[n:])
	copy(buf[n:], payload)
	return buf
}

// decodeFile checks the header and returns the generation and payload.
func decodeFile(magic []byte, data []byte) (uint64, []byte, error) {
	if len(data) < len(magic) || !bytes.Equal(data[:len(magic)], magic) {
		return 0, nil, errBadMagic
	}
	n := len(magic)

	version, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return 0, nil, err
	}
	if version != formatVersion {
		return 0, nil, fmt.Errorf("%w: %d", errBadVersion, version)
	}
	n += m

	gen, m, err := raw.Uint64.Unmarshal(data[n:])
	if err != nil {
		return 0, nil, err
	}
	n += m

	return gen, data[n:], nil
}

// generation digests both payloads into the id shared by the two files.
func generation(chunks, vectors []byte) (uint64, error) {
	h, err := blake2b.New(8, nil) // 8 bytes = 64 bits
	if err != nil {
		return 0, err
	}
	h.Write(chunks)
	h.Write(vectors)
	return binary.LittleEndian.Uint64(h.Sum(nil)), nil
}
