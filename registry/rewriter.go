package registry

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultThreshold is the partial ratio a token must exceed to match.
	DefaultThreshold = 80

	// DefaultMinTokenLength is the shortest token, in runes, that is compared.
	// Zero compares every token.
	DefaultMinTokenLength = 0
)

// Rewriter appends canonical entity names to queries that mention one of
// their variants, so the embedded query lands nearer the entity's chunks.
type Rewriter struct {
	registry       *EntityRegistry
	threshold      int
	minTokenLength int
	logger         *slog.Logger
}

// RewriterOption configures a Rewriter.
type RewriterOption func(*Rewriter) error

// WithThreshold sets the score a token must exceed to count as a mention.
func WithThreshold(threshold int) RewriterOption {
	return func(r *Rewriter) error {
		if threshold < 0 || threshold > 100 {
			return ErrInvalidThreshold
		}
		r.threshold = threshold
		return nil
	}
}

// WithMinTokenLength sets the minimum token length considered for matching.
// Zero compares every token.
func WithMinTokenLength(n int) RewriterOption {
	return func(r *Rewriter) error {
		if n < 0 {
			return ErrInvalidMinTokenLength
		}
		r.minTokenLength = n
		return nil
	}
}

// WithLogger sets the logger for the rewriter.
func WithLogger(logger *slog.Logger) RewriterOption {
	return func(r *Rewriter) error {
		r.logger = logger
		return nil
	}
}

// NewRewriter creates a rewriter over registry.
func NewRewriter(registry *EntityRegistry, opts ...RewriterOption) (*Rewriter, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	r := &Rewriter{
		registry:       registry,
		threshold:      DefaultThreshold,
		minTokenLength: DefaultMinTokenLength,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "query-rewriter")
	return r, nil
}

// Rewrite returns query with " <canonical>" appended for every registered
// entity one of whose variants fuzzily matches a query token. Each canonical
// is appended at most once, in registration order. Rewriting is not
// idempotent: rewriting the output again appends the names again.
func (r *Rewriter) Rewrite(query string) string {
	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(tok) >= r.minTokenLength {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return query
	}

	var sb strings.Builder
	sb.WriteString(query)
	for _, e := range r.registry.entries() {
		if r.mentions(e.variants, tokens) {
			sb.WriteString(" ")
			sb.WriteString(e.canonical)
		}
	}

	rewritten := sb.String()
	if rewritten != query {
		r.logger.Debug("query rewritten", "query", query, "rewritten", rewritten)
	}
	return rewritten
}

func (r *Rewriter) mentions(variants, tokens []string) bool {
	for _, variant := range variants {
		for _, tok := range tokens {
			if PartialRatio(variant, tok) > r.threshold {
				return true
			}
		}
	}
	return false
}
