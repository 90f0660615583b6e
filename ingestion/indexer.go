package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/retriever/ai"
	"github.com/poiesic/retriever/chunker"
	"github.com/poiesic/retriever/core"
	"github.com/poiesic/retriever/registry"
	"github.com/poiesic/retriever/storage"
	"github.com/poiesic/retriever/vecindex"
)

const (
	defaultBatchSize      = 32
	defaultMaxAttempts    = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
)

// Corpus is a built index together with the chunks its rows describe.
// Index row i embeds Chunks[i].
type Corpus struct {
	Index  *vecindex.Index
	Chunks []core.Chunk
}

// BuildReport describes the outcome of a successful Build.
type BuildReport struct {
	// Rebuilt is false when the corpus came from an existing snapshot.
	Rebuilt   bool
	Chunks    int
	Dimension int
	Elapsed   time.Duration
}

// Indexer builds and publishes the searchable corpus.
// Builds are serialized; Corpus may be called concurrently with a build and
// always sees either the previous or the new corpus, never a mix.
type Indexer struct {
	embedder       ai.Embedder
	snapshots      storage.SnapshotRepository
	registry       *registry.EntityRegistry
	chunker        *chunker.Chunker
	categories     []EntityCategory
	pool           *ants.Pool
	batchSize      int
	maxAttempts    int
	retryBaseDelay time.Duration
	progress       io.Writer
	logger         *slog.Logger

	buildMu sync.Mutex
	corpus  atomic.Pointer[Corpus]
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(ix *Indexer) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if ix.pool != nil {
			ix.pool.Release()
		}
		ix.pool = pool
		return nil
	}
}

// WithBatchSize sets how many chunks are sent to the embedder per request.
func WithBatchSize(size int) Option {
	return func(ix *Indexer) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		ix.batchSize = size
		return nil
	}
}

// WithChunkSize sets the text window and overlap, in runes.
func WithChunkSize(size, overlap int) Option {
	return func(ix *Indexer) error {
		c, err := chunker.New(size, overlap)
		if err != nil {
			return err
		}
		ix.chunker = c
		return nil
	}
}

// WithRetry sets how often a failed embedding batch is attempted and the
// initial backoff between attempts.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(ix *Indexer) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		ix.maxAttempts = maxAttempts
		ix.retryBaseDelay = baseDelay
		return nil
	}
}

// WithEntityCategories replaces the entity categories recognized in tables.
func WithEntityCategories(categories ...EntityCategory) Option {
	return func(ix *Indexer) error {
		for _, c := range categories {
			if c.Label == "" || len(c.Keywords) == 0 {
				return ErrInvalidEntityCategory
			}
		}
		ix.categories = categories
		return nil
	}
}

// WithRegistry sets the registry that receives entity names.
func WithRegistry(reg *registry.EntityRegistry) Option {
	return func(ix *Indexer) error {
		if reg != nil {
			ix.registry = reg
		}
		return nil
	}
}

// WithProgress reports embedding progress to w.
func WithProgress(w io.Writer) Option {
	return func(ix *Indexer) error {
		ix.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndexer creates an indexer that embeds with embedder and persists
// snapshots to snapshots.
func NewIndexer(embedder ai.Embedder, snapshots storage.SnapshotRepository, opts ...Option) (*Indexer, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if snapshots == nil {
		return nil, ErrSnapshotStoreRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	defaultChunker, err := chunker.New(chunker.DefaultChunkSize, chunker.DefaultOverlap)
	if err != nil {
		pool.Release()
		return nil, err
	}

	ix := &Indexer{
		embedder:       embedder,
		snapshots:      snapshots,
		registry:       registry.New(),
		chunker:        defaultChunker,
		categories:     DefaultEntityCategories(),
		pool:           pool,
		batchSize:      defaultBatchSize,
		maxAttempts:    defaultMaxAttempts,
		retryBaseDelay: defaultRetryBaseDelay,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(ix); optErr != nil {
			ix.Release()
			return nil, optErr
		}
	}
	ix.logger = ix.logger.With("component", "indexer")

	return ix, nil
}

// Registry returns the entity registry populated by Ingest.
func (ix *Indexer) Registry() *registry.EntityRegistry {
	return ix.registry
}

// Corpus returns the published corpus, or nil before the first successful build.
func (ix *Indexer) Corpus() *Corpus {
	return ix.corpus.Load()
}

// Build makes kb searchable. Unless forceRebuild is set, an existing snapshot
// is loaded instead of re-embedding; a snapshot that cannot be loaded is
// rebuilt. kb is always ingested so the entity registry is populated.
//
// An empty knowledge base fails with ErrNoData and leaves the published
// corpus untouched, as does any embedding, indexing or persistence error.
func (ix *Indexer) Build(ctx context.Context, kb []core.Source, forceRebuild bool) (*BuildReport, error) {
	ix.buildMu.Lock()
	defer ix.buildMu.Unlock()

	start := time.Now()
	chunks, err := ix.Ingest(kb)
	if err != nil {
		return nil, err
	}

	if !forceRebuild && ix.snapshots.Exists() {
		corpus, err := ix.loadSnapshot(ctx)
		if err == nil {
			ix.corpus.Store(corpus)
			ix.logger.Info("corpus loaded from snapshot", "chunks", len(corpus.Chunks), "dimension", corpus.Index.Dim())
			return &BuildReport{
				Chunks:    len(corpus.Chunks),
				Dimension: corpus.Index.Dim(),
				Elapsed:   time.Since(start),
			}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		ix.logger.Warn("snapshot unusable, rebuilding", "err", err)
	}

	if len(chunks) == 0 {
		return nil, ErrNoData
	}

	corpus, err := ix.rebuild(ctx, chunks)
	if err != nil {
		return nil, err
	}
	ix.corpus.Store(corpus)

	report := &BuildReport{
		Rebuilt:   true,
		Chunks:    len(corpus.Chunks),
		Dimension: corpus.Index.Dim(),
		Elapsed:   time.Since(start),
	}
	ix.logger.Info("corpus rebuilt", "chunks", report.Chunks, "dimension", report.Dimension, "elapsed", report.Elapsed)
	return report, nil
}

func (ix *Indexer) loadSnapshot(ctx context.Context) (*Corpus, error) {
	snap, err := ix.snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}
	index, err := vecindex.FromVectors(snap.Vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCorruptSnapshot, err)
	}
	if index.Size() != len(snap.Chunks) {
		return nil, fmt.Errorf("%w: %d vectors for %d chunks", storage.ErrCorruptSnapshot, index.Size(), len(snap.Chunks))
	}
	return &Corpus{Index: index, Chunks: snap.Chunks}, nil
}

func (ix *Indexer) rebuild(ctx context.Context, chunks []core.Chunk) (*Corpus, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	ix.logger.Info("embedding chunks", "chunks", len(chunks), "batchSize", ix.batchSize)
	vectors, err := ix.embedAll(ctx, texts)
	if err != nil {
		return nil, err
	}

	index := vecindex.New()
	if err := index.Add(vectors...); err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	snap := &core.Snapshot{Vectors: vectors, Chunks: chunks}
	if err := ix.snapshots.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return &Corpus{Index: index, Chunks: chunks}, nil
}

// Release releases the worker pool.
// The indexer should not be used after calling Release.
func (ix *Indexer) Release() {
	if ix.pool != nil {
		ix.pool.Release()
	}
}

