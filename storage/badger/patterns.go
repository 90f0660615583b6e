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


package badger

import (
	"context"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/retriever/storage"
)

// PatternRepository implements storage.PatternRepository for BadgerDB.
// Each learned pattern is its own key, numbered from a sequence, so appends
// never rewrite earlier patterns and iteration returns them in append order.
type PatternRepository struct {
	backend *Backend
	seq     *badger.Sequence
	mu      sync.Mutex
}

var _ storage.PatternRepository = (*PatternRepository)(nil)

// NewPatternRepository creates a new PatternRepository.
func NewPatternRepository(backend *Backend) (storage.PatternRepository, error) {
	return newPatternRepository(backend)
}

func newPatternRepository(backend *Backend) (*PatternRepository, error) {
	seq, err := backend.GetSequence(learnedPatternSeq)
	if err != nil {
		return nil, err
	}
	return &PatternRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// Close releases the pattern sequence.
func (r *PatternRepository) Close() error {
	return r.seq.Release()
}

// AppendPattern stores pattern after every existing pattern.
func (r *PatternRepository) AppendPattern(ctx context.Context, pattern storage.LearnedPattern) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// The sequence number and the write must not interleave with another
	// append, or a later number could commit first.
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := r.seq.Next()
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeLearnedPatternKey(next), storage.MarshalLearnedPattern(pattern)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadPatterns returns every stored pattern in append order.
func (r *PatternRepository) LoadPatterns(ctx context.Context) ([]storage.LearnedPattern, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var patterns []storage.LearnedPattern
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(learnedPatternPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				p, err := storage.UnmarshalLearnedPattern(val)
				if err != nil {
					return err
				}
				patterns = append(patterns, p)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return patterns, nil
}
