// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/retriever/core"
)

const float32Size = 4

// LearnedPattern is one feedback-derived intent pattern.
type LearnedPattern struct {
	Intent string
	Tokens []string
}

// MarshalChunks serializes an ordered chunk list. Chunk ids are implied by
// position and are not written.
func MarshalChunks(chunks []core.Chunk) []byte {
	size := varint.Int.Size(len(chunks))
	for _, c := range chunks {
		size += ord.String.Size(c.Text) + ord.String.Size(c.Source)
	}

	buf := make([]byte, size)
	n := varint.Int.Marshal(len(chunks), buf)
	for _, c := range chunks {
		n += ord.String.Marshal(c.Text, buf[n:])
		n += ord.String.Marshal(c.Source, buf[n:])
	}
	return buf
}

// UnmarshalChunks deserializes a chunk list written by MarshalChunks,
// assigning ids by position. Trailing bytes are an error.
func UnmarshalChunks(data []byte) ([]core.Chunk, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: chunk count: %w", ErrSerializationFailed, err)
	}
	// Every chunk needs at least two length prefixes.
	if count < 0 || count > (len(data)-n)/2 {
		return nil, fmt.Errorf("%w: chunk count %d exceeds payload", ErrTruncatedData, count)
	}

	chunks := make([]core.Chunk, count)
	for i := range chunks {
		text, m, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d text: %w", ErrTruncatedData, i, err)
		}
		n += m
		source, m, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d source: %w", ErrTruncatedData, i, err)
		}
		n += m
		chunks[i] = core.Chunk{Id: i, Text: text, Source: source}
	}

	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after chunks", ErrSerializationFailed, len(data)-n)
	}
	return chunks, nil
}

// MarshalVectors serializes equal-length vectors as a count, a dimension and
// the flattened values.
func MarshalVectors(vectors [][]float32) []byte {
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}

	size := varint.Int.Size(len(vectors)) + varint.Int.Size(dim) + len(vectors)*dim*float32Size
	buf := make([]byte, size)
	n := varint.Int.Marshal(len(vectors), buf)
	n += varint.Int.Marshal(dim, buf[n:])
	for _, v := range vectors {
		for _, f := range v {
			n += raw.Float32.Marshal(f, buf[n:])
		}
	}
	return buf
}

// UnmarshalVectors deserializes vectors written by MarshalVectors. The
// payload length must match count*dim exactly.
func UnmarshalVectors(data []byte) ([][]float32, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: vector count: %w", ErrSerializationFailed, err)
	}
	dim, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: vector dimension: %w", ErrSerializationFailed, err)
	}
	n += m

	if count < 0 || dim < 0 || (count > 0 && dim == 0) {
		return nil, fmt.Errorf("%w: invalid shape %dx%d", ErrSerializationFailed, count, dim)
	}
	remaining := len(data) - n
	if count > 0 && (dim > remaining/float32Size || count > remaining/(dim*float32Size)) {
		return nil, fmt.Errorf("%w: %dx%d vectors need more than %d bytes", ErrTruncatedData, count, dim, remaining)
	}
	if remaining != count*dim*float32Size {
		return nil, fmt.Errorf("%w: expected %d vector bytes, found %d", ErrSerializationFailed, count*dim*float32Size, remaining)
	}

	vectors := make([][]float32, count)
	for i := range vectors {
		v := make([]float32, dim)
		for j := range v {
			f, m, err := raw.Float32.Unmarshal(data[n:])
			if err != nil {
				return nil, fmt.Errorf("%w: vector %d: %w", ErrTruncatedData, i, err)
			}
			v[j] = f
			n += m
		}
		vectors[i] = v
	}
	return vectors, nil
}

// MarshalLearnedPattern serializes a learned pattern.
func MarshalLearnedPattern(p LearnedPattern) []byte {
	size := ord.String.Size(p.Intent) + varint.Int.Size(len(p.Tokens))
	for _, t := range p.Tokens {
		size += ord.String.Size(t)
	}

	buf := make([]byte, size)
	n := ord.String.Marshal(p.Intent, buf)
	n += varint.Int.Marshal(len(p.Tokens), buf[n:])
	for _, t := range p.Tokens {
		n += ord.String.Marshal(t, buf[n:])
	}
	return buf
}

// UnmarshalLearnedPattern deserializes a learned pattern.
func UnmarshalLearnedPattern(data []byte) (LearnedPattern, error) {
	var p LearnedPattern
	intent, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return p, fmt.Errorf("%w: intent: %w", ErrSerializationFailed, err)
	}
	count, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return p, fmt.Errorf("%w: token count: %w", ErrSerializationFailed, err)
	}
	n += m
	if count < 0 || count > len(data)-n {
		return p, fmt.Errorf("%w: token count %d exceeds payload", ErrTruncatedData, count)
	}

	tokens := make([]string, count)
	for i := range tokens {
		tok, m, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return p, fmt.Errorf("%w: token %d: %w", ErrTruncatedData, i, err)
		}
		tokens[i] = tok
		n += m
	}

	p.Intent = intent
	p.Tokens = tokens
	return p, nil
}
