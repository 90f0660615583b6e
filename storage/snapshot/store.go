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


package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/poiesic/retriever/core"
	"github.com/poiesic/retriever/storage"
)

const (
	// IndexFileName holds the serialized vectors.
	IndexFileName = "index.bin"
	// ChunksFileName holds the serialized chunk list.
	ChunksFileName = "chunks.bin"
)

// Store keeps a snapshot as two files in a directory.
//
// Both files carry the same generation digest, computed over both payloads.
// Save writes each file to a temporary name and renames it into place, chunks
// first and index last, so an interrupted Save leaves a pair whose digests
// disagree and Load reports it as corrupt.
type Store struct {
	dir    string
	mu     sync.Mutex
	logger *slog.Logger
}

var _ storage.SnapshotRepository = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewStore creates a snapshot store rooted at dir. The directory is created
// on first Save.
func NewStore(dir string, opts ...Option) storage.SnapshotRepository {
	return newStore(dir, opts...)
}

func newStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:    dir,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "snapshot-store")
	return s
}

func (s *Store) indexPath() string  { return filepath.Join(s.dir, IndexFileName) }
func (s *Store) chunksPath() string { return filepath.Join(s.dir, ChunksFileName) }

// Exists reports whether either half of a snapshot is present.
func (s *Store) Exists() bool {
	return fileExists(s.indexPath()) || fileExists(s.chunksPath())
}

// Save validates and writes the snapshot.
func (s *Store) Save(ctx context.Context, snap *core.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := core.ValidateSnapshot(snap); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	vectors := storage.MarshalVectors(snap.Vectors)
	chunks := storage.MarshalChunks(snap.Chunks)
	gen, err := generation(chunks, vectors)
	if err != nil {
		return err
	}

	if err := writeAtomic(s.chunksPath(), encodeFile(chunksMagic, gen, chunks)); err != nil {
		return fmt.Errorf("writing %s: %w", ChunksFileName, err)
	}
	if err := writeAtomic(s.indexPath(), encodeFile(indexMagic, gen, vectors)); err != nil {
		return fmt.Errorf("writing %s: %w", IndexFileName, err)
	}

	s.logger.Info("snapshot saved", "dir", s.dir, "chunks", len(snap.Chunks), "generation", gen)
	return nil
}

// Load reads both halves and checks that they belong together.
func (s *Store) Load(ctx context.Context) (*core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	indexData, indexErr := os.ReadFile(s.indexPath())
	chunksData, chunksErr := os.ReadFile(s.chunksPath())

	indexMissing := errors.Is(indexErr, fs.ErrNotExist)
	chunksMissing := errors.Is(chunksErr, fs.ErrNotExist)
	switch {
	case indexMissing && chunksMissing:
		return nil, storage.ErrSnapshotNotFound
	case indexMissing:
		return nil, fmt.Errorf("%w: %s is missing", storage.ErrCorruptSnapshot, IndexFileName)
	case chunksMissing:
		return nil, fmt.Errorf("%w: %s is missing", storage.ErrCorruptSnapshot, ChunksFileName)
	case indexErr != nil:
		return nil, fmt.Errorf("%w: %w", storage.ErrCorruptSnapshot, indexErr)
	case chunksErr != nil:
		return nil, fmt.Errorf("%w: %w", storage.ErrCorruptSnapshot, chunksErr)
	}

	indexGen, vectorPayload, err := decodeFile(indexMagic, indexData)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrCorruptSnapshot, IndexFileName, err)
	}
	chunksGen, chunkPayload, err := decodeFile(chunksMagic, chunksData)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrCorruptSnapshot, ChunksFileName, err)
	}
	if indexGen != chunksGen {
		return nil, fmt.Errorf("%w: generation mismatch (%d != %d)", storage.ErrCorruptSnapshot, indexGen, chunksGen)
	}
	gen, err := generation(chunkPayload, vectorPayload)
	if err != nil {
		return nil, err
	}
	if gen != indexGen {
		return nil, fmt.Errorf("%w: digest mismatch", storage.ErrCorruptSnapshot)
	}

	vectors, err := storage.UnmarshalVectors(vectorPayload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCorruptSnapshot, err)
	}
	chunks, err := storage.UnmarshalChunks(chunkPayload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCorruptSnapshot, err)
	}

	snap := &core.Snapshot{Vectors: vectors, Chunks: chunks}
	if err := core.ValidateSnapshot(snap); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCorruptSnapshot, err)
	}

	s.logger.Debug("snapshot loaded", "dir", s.dir, "chunks", len(chunks), "generation", gen)
	return snap, nil
}

// writeAtomic writes data to a temporary file in the target directory and
// renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
