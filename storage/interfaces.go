package storage

import (
	"context"

	"github.com/poiesic/retriever/core"
)

// PatternRepository persists learned intent patterns.
// Implementations must be thread-safe; appends are durable once Append returns.
type PatternRepository interface {
	// AppendPattern stores a new learned pattern after all existing ones.
	// Identical patterns are stored again; nothing is deduplicated.
	AppendPattern(ctx context.Context, pattern LearnedPattern) error

	// LoadPatterns returns every learned pattern in the order it was appended.
	LoadPatterns(ctx context.Context) ([]LearnedPattern, error)

	// Close releases resources held by the repository.
	Close() error
}

// SnapshotRepository persists a built corpus as one logical unit.
// A reader never observes a partially written snapshot.
type SnapshotRepository interface {
	// Exists reports whether any part of a snapshot is present.
	Exists() bool

	// Save replaces the stored snapshot.
	Save(ctx context.Context, snapshot *core.Snapshot) error

	// Load restores the stored snapshot.
	// Returns ErrSnapshotNotFound when nothing is stored and ErrCorruptSnapshot
	// when the stored data is incomplete or inconsistent.
	Load(ctx context.Context) (*core.Snapshot, error)
}
