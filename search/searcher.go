package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/retriever/ai"
	"github.com/poiesic/retriever/core"
	"github.com/poiesic/retriever/ingestion"
)

// DefaultTopK is the number of results returned when k is not positive.
const DefaultTopK = 5

// CorpusSource publishes the corpus to search. *ingestion.Indexer satisfies it.
type CorpusSource interface {
	Corpus() *ingestion.Corpus
}

// QueryRewriter expands a query before it is embedded.
// *registry.Rewriter satisfies it.
type QueryRewriter interface {
	Rewrite(query string) string
}

// Searcher answers top-k similarity queries against the published corpus.
type Searcher struct {
	source   CorpusSource
	embedder ai.Embedder
	rewriter QueryRewriter
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithRewriter sets the rewriter applied to every query.
// Without one, queries are embedded unchanged.
func WithRewriter(rewriter QueryRewriter) Option {
	return func(s *Searcher) error {
		s.rewriter = rewriter
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(source CorpusSource, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if source == nil {
		return nil, ErrIndexerRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		source:   source,
		embedder: embedder,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	return s, nil
}

// Search returns up to k chunks nearest to query, closest first.
// A non-positive k means DefaultTopK.
func (s *Searcher) Search(ctx context.Context, query string, k int) ([]core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, k, nil)
}

// SearchWithMonitor is Search with callbacks at each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, k int, monitor SearchMonitor) ([]core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if k <= 0 {
		k = DefaultTopK
	}

	// Captured once so a concurrent rebuild cannot swap the index and
	// chunks out from under this query.
	corpus := s.source.Corpus()
	if corpus == nil {
		return nil, ErrNotReady
	}

	monitor.Start(query)

	rewritten := query
	if s.rewriter != nil {
		rewritten = s.rewriter.Rewrite(query)
		if rewritten != query {
			s.logger.Debug("query rewritten", "query", query, "rewritten", rewritten)
		}
	}
	monitor.AfterRewrite(rewritten)

	embedding, err := s.embedder.EmbedText(ctx, rewritten)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", rewritten, "err", err)
		return nil, err
	}

	neighbors, err := corpus.Index.Search(embedding, k)
	if err != nil {
		s.logger.Error("error searching index", "err", err)
		return nil, err
	}
	monitor.AfterIndexSearch(neighbors)

	results := make([]core.SearchResult, 0, len(neighbors))
	for _, n := range neighbors {
		if n.Id < 0 || n.Id >= len(corpus.Chunks) {
			return nil, fmt.Errorf("index row %d has no chunk (corpus has %d)", n.Id, len(corpus.Chunks))
		}
		results = append(results, core.SearchResult{
			Chunk:    corpus.Chunks[n.Id],
			Distance: n.Distance,
		})
	}
	monitor.Finish(results)

	return results, nil
}
