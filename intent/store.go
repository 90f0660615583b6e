package intent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/retriever/storage"
)

// PatternStore owns the patterns learned from feedback. It is the single
// writer for its repository: appends are serialized and persisted before
// they become visible to readers.
type PatternStore struct {
	repo     storage.PatternRepository
	mu       sync.RWMutex
	patterns []storage.LearnedPattern
	logger   *slog.Logger
}

// StoreOption configures a PatternStore.
type StoreOption func(*PatternStore) error

// WithStoreLogger sets the logger for the store.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *PatternStore) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewPatternStore creates a store backed by repo. Call Load to read the
// patterns already persisted.
func NewPatternStore(repo storage.PatternRepository, opts ...StoreOption) (*PatternStore, error) {
	if repo == nil {
		return nil, ErrPatternRepositoryRequired
	}
	s := &PatternStore{
		repo:   repo,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "pattern-store")
	return s, nil
}

// Load replaces the in-memory patterns with the persisted ones.
func (s *PatternStore) Load(ctx context.Context) error {
	patterns, err := s.repo.LoadPatterns(ctx)
	if err != nil {
		return fmt.Errorf("failed to load learned patterns: %w", err)
	}

	s.mu.Lock()
	s.patterns = patterns
	s.mu.Unlock()

	s.logger.Debug("learned patterns loaded", "count", len(patterns))
	return nil
}

// Append persists a pattern under intent and then makes it visible.
func (s *PatternStore) Append(ctx context.Context, intent string, tokens []string) error {
	p := storage.LearnedPattern{
		Intent: intent,
		Tokens: append([]string(nil), tokens...),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.AppendPattern(ctx, p); err != nil {
		return fmt.Errorf("failed to persist learned pattern: %w", err)
	}
	s.patterns = append(s.patterns, p)
	return nil
}

// Snapshot returns a copy of the learned patterns in learn order.
func (s *PatternStore) Snapshot() []storage.LearnedPattern {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.LearnedPattern, len(s.patterns))
	for i, p := range s.patterns {
		out[i] = storage.LearnedPattern{Intent: p.Intent, Tokens: append([]string(nil), p.Tokens...)}
	}
	return out
}

// Len returns the number of learned patterns.
func (s *PatternStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patterns)
}

// ByIntent groups the learned patterns by intent. Intents appear in the
// order they were first learned.
func (s *PatternStore) ByIntent() []IntentPatterns {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []IntentPatterns
	index := make(map[string]int)
	for _, p := range s.patterns {
		i, ok := index[p.Intent]
		if !ok {
			i = len(out)
			index[p.Intent] = i
			out = append(out, IntentPatterns{Intent: p.Intent})
		}
		out[i].Patterns = append(out[i].Patterns, append([]string(nil), p.Tokens...))
	}
	return out
}
