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

package retriever

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/retriever/ai"
	"github.com/poiesic/retriever/ai/goopenai"
	"github.com/poiesic/retriever/ai/openai"
	"github.com/poiesic/retriever/config"
	"github.com/poiesic/retriever/core"
	"github.com/poiesic/retriever/ingestion"
	"github.com/poiesic/retriever/intent"
	"github.com/poiesic/retriever/loader"
	"github.com/poiesic/retriever/registry"
	"github.com/poiesic/retriever/search"
	"github.com/poiesic/retriever/storage"
	"github.com/poiesic/retriever/storage/badger"
	"github.com/poiesic/retriever/storage/snapshot"
)

// Engine wires the knowledge indexer, searcher and intent classifier
// together over one configuration.
type Engine struct {
	cfg         *config.AppConfig
	backend     *badger.Backend
	patternRepo storage.PatternRepository
	provider    ai.AIProvider
	indexer     *ingestion.Indexer
	searcher    *search.Searcher
	classifier  *intent.Classifier
	patterns    *intent.PatternStore
	loader      *loader.Loader
	logger      *slog.Logger
}

// Status summarizes what the engine currently serves.
type Status struct {
	Ready           bool `json:"ready"`
	Chunks          int  `json:"chunks"`
	Dimension       int  `json:"dimension"`
	Entities        int  `json:"entities"`
	LearnedPatterns int  `json:"learned_patterns"`
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	provider ai.AIProvider
	progress io.Writer
	logger   *slog.Logger
}

// WithProvider supplies the embedding provider instead of building one
// from the configuration. The engine takes ownership and closes it.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithProgress reports embedding progress during builds to w.
func WithProgress(w io.Writer) EngineOption {
	return func(o *engineOptions) {
		o.progress = w
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewProvider builds the embedding provider named by cfg.Provider.
func NewProvider(cfg *ai.Config) (ai.AIProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ai.ProviderOpenAI:
		return goopenai.NewProvider(cfg)
	default:
		return openai.NewProvider(cfg)
	}
}

// NewEngine opens the learned pattern store and prepares every component.
// No corpus is served until Build succeeds.
func NewEngine(cfg *config.AppConfig, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger

	provider := options.provider
	if provider == nil {
		aiCfg, err := cfg.AIConfig()
		if err != nil {
			return nil, err
		}
		provider, err = NewProvider(aiCfg)
		if err != nil {
			return nil, err
		}
	}

	e := &Engine{
		cfg:      cfg,
		provider: provider,
		loader:   loader.New(loader.WithLogger(logger)),
		logger:   logger.With("component", "engine"),
	}
	if err := e.open(options); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) open(options *engineOptions) error {
	ctx := context.Background()
	logger := options.logger

	backend, err := badger.OpenBackend(e.cfg.Classifier.PatternsDir, false)
	if err != nil {
		return fmt.Errorf("failed to open pattern store: %w", err)
	}
	e.backend = backend

	e.patternRepo, err = badger.NewPatternRepository(backend)
	if err != nil {
		return err
	}
	e.patterns, err = intent.NewPatternStore(e.patternRepo, intent.WithStoreLogger(logger))
	if err != nil {
		return err
	}
	if err := e.patterns.Load(ctx); err != nil {
		return fmt.Errorf("failed to load learned patterns: %w", err)
	}
	e.classifier, err = intent.NewClassifier(e.patterns,
		intent.WithThreshold(e.cfg.Classifier.Threshold),
		intent.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	indexerOpts := []ingestion.Option{
		ingestion.WithChunkSize(e.cfg.Index.ChunkSize, e.cfg.Index.ChunkOverlap),
		ingestion.WithBatchSize(e.cfg.Embedder.BatchSize),
		ingestion.WithRetry(e.cfg.Embedder.MaxAttempts, 500*time.Millisecond),
		ingestion.WithLogger(logger),
	}
	if e.cfg.Embedder.PoolSize > 0 {
		indexerOpts = append(indexerOpts, ingestion.WithPoolSize(e.cfg.Embedder.PoolSize))
	}
	if options.progress != nil {
		indexerOpts = append(indexerOpts, ingestion.WithProgress(options.progress))
	}
	snapshots := snapshot.NewStore(e.cfg.Index.SnapshotDir, snapshot.WithLogger(logger))
	e.indexer, err = ingestion.NewIndexer(e.provider.Embedder(), snapshots, indexerOpts...)
	if err != nil {
		return err
	}

	rewriter, err := registry.NewRewriter(e.indexer.Registry(),
		registry.WithThreshold(e.cfg.Rewriter.Threshold),
		registry.WithMinTokenLength(e.cfg.Rewriter.MinTokenLength),
		registry.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	e.searcher, err = search.NewSearcher(e.indexer, e.provider.Embedder(),
		search.WithRewriter(rewriter),
		search.WithLogger(logger),
	)
	return err
}

// Build loads the configured data directory and makes it searchable.
func (e *Engine) Build(ctx context.Context, forceRebuild bool) (*ingestion.BuildReport, error) {
	kb, err := e.loader.LoadDir(ctx, e.cfg.Index.DataDir)
	if err != nil {
		return nil, err
	}
	return e.BuildSources(ctx, kb, forceRebuild)
}

// BuildSources makes kb searchable.
func (e *Engine) BuildSources(ctx context.Context, kb []core.Source, forceRebuild bool) (*ingestion.BuildReport, error) {
	return e.indexer.Build(ctx, kb, forceRebuild)
}

// Watch rebuilds whenever the data directory changes, until ctx is done.
func (e *Engine) Watch(ctx context.Context, debounce time.Duration) error {
	w, err := loader.NewWatcher(e.cfg.Index.DataDir,
		loader.WithDebounce(debounce),
		loader.WithWatcherLogger(e.logger),
	)
	if err != nil {
		return err
	}
	defer w.Close()

	return w.Run(ctx, func(ctx context.Context) error {
		report, err := e.Build(ctx, true)
		if err != nil {
			return err
		}
		e.logger.Info("rebuilt after change", "chunks", report.Chunks, "elapsed", report.Elapsed)
		return nil
	})
}

// Search returns up to k chunks relevant to query. A non-positive k uses
// the configured default.
func (e *Engine) Search(ctx context.Context, query string, k int) ([]core.SearchResult, error) {
	if k <= 0 {
		k = e.cfg.Search.TopK
	}
	return e.searcher.Search(ctx, query, k)
}

// Predict classifies query.
func (e *Engine) Predict(query string) core.Prediction {
	return e.classifier.Predict(query)
}

// Learn records query as an example of intent.
func (e *Engine) Learn(ctx context.Context, query, intentName string) error {
	return e.classifier.Learn(ctx, query, intentName)
}

// Status reports whether a corpus is served and its size.
func (e *Engine) Status() Status {
	st := Status{
		Entities:        e.indexer.Registry().Len(),
		LearnedPatterns: e.patterns.Len(),
	}
	if corpus := e.indexer.Corpus(); corpus != nil {
		st.Ready = true
		st.Chunks = len(corpus.Chunks)
		st.Dimension = corpus.Index.Dim()
	}
	return st
}

// Close releases the worker pool, the pattern store and the provider.
func (e *Engine) Close() error {
	var firstErr error
	if e.indexer != nil {
		e.indexer.Release()
	}
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
		}
	}
	if e.patternRepo != nil {
		if err := e.patternRepo.Close(); err != nil {
			e.logger.Error("error closing pattern repository", "err", err)
			firstErr = err
		}
	}
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			e.logger.Error("error closing backend storage", "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
