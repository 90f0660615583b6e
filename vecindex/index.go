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


package vecindex

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Neighbor is a single search hit: a chunk id and its squared L2 distance
// to the query.
type Neighbor struct {
	Id       int
	Distance float32
}

// Index is an append-only flat index answering exact nearest-neighbor
// queries by exhaustive squared-L2 comparison.
//
// Row i of the index is the embedding of chunk i. The dimension is fixed by
// the first vector added. Index is safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	dim     int
	vectors [][]float32
}

// New creates an empty index.
func New() *Index {
	return &Index{}
}

// FromVectors creates an index holding the given vectors in order.
func FromVectors(vectors [][]float32) (*Index, error) {
	idx := New()
	if len(vectors) == 0 {
		return idx, nil
	}
	if err := idx.Add(vectors...); err != nil {
		return nil, err
	}
	return idx, nil
}

// Add appends vectors to the index. The first vector ever added fixes the
// dimension; any vector with a different dimension fails the whole call with
// ErrDimensionMismatch and nothing from that call is appended.
func (idx *Index) Add(vectors ...[]float32) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	dim := idx.dim
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("%w: vector %d", ErrEmptyVector, i)
		}
		if dim == 0 {
			dim = len(v)
		}
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has dimension %d, index has %d", ErrDimensionMismatch, i, len(v), dim)
		}
	}

	for _, v := range vectors {
		idx.vectors = append(idx.vectors, slices.Clone(v))
	}
	idx.dim = dim
	return nil
}

// Search returns up to k nearest rows ordered by non-decreasing distance.
// Equal distances are ordered by ascending id. k is clamped to Size(); an
// empty index or k <= 0 yields an empty result.
func (idx *Index) Search(query []float32, k int) ([]Neighbor, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.vectors) == 0 || k <= 0 {
		return []Neighbor{}, nil
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d", ErrDimensionMismatch, len(query), idx.dim)
	}

	hits := make([]Neighbor, len(idx.vectors))
	for i, v := range idx.vectors {
		hits[i] = Neighbor{Id: i, Distance: squaredL2(query, v)}
	}

	slices.SortFunc(hits, func(a, b Neighbor) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Id, b.Id)
	})

	return hits[:min(k, len(hits))], nil
}

// Size returns the number of rows.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Dim returns the fixed dimension, or 0 for an index that was never added to.
func (idx *Index) Dim() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dim
}

// Vectors returns a copy of all rows in order.
func (idx *Index) Vectors() [][]float32 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([][]float32, len(idx.vectors))
	for i, v := range idx.vectors {
		out[i] = slices.Clone(v)
	}
	return out
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
