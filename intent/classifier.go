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


package intent

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/retriever/core"
)

const (
	// Unknown is reported when no intent scores above the threshold.
	Unknown = "unknown"

	// DefaultThreshold is the score the best intent must exceed.
	DefaultThreshold = 0.3

	// learnedTokens is how many leading tokens of feedback form a pattern.
	learnedTokens = 3
)

// Classifier predicts query intents from built-in and learned patterns.
type Classifier struct {
	store     *PatternStore
	threshold float64
	logger    *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier) error

// WithLogger sets the logger for the classifier.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithThreshold sets the score the best intent must exceed to be reported.
func WithThreshold(threshold float64) Option {
	return func(c *Classifier) error {
		c.threshold = threshold
		return nil
	}
}

// NewClassifier creates a classifier that learns into store.
func NewClassifier(store *PatternStore, opts ...Option) (*Classifier, error) {
	if store == nil {
		return nil, ErrPatternStoreRequired
	}
	c := &Classifier{
		store:     store,
		threshold: DefaultThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "intent-classifier")
	return c, nil
}

// ExtractEntities finds departments, actions and names in text. Departments
// and actions appear in keyword order without duplicates. Names are the raw
// title-cased tokens longer than two runes. Objects is never filled.
func ExtractEntities(text string) core.Entities {
	expanded := Expand(Tokens(text))

	entities := core.Entities{
		Departments: matchKeywords(departmentKeywords, expanded),
		Actions:     matchKeywords(actionKeywords, expanded),
	}

	for _, word := range strings.Fields(text) {
		if !isTitle(word) || runeLen(word) <= 2 {
			continue
		}
		if _, stop := nameStopwords[strings.ToLower(word)]; stop {
			continue
		}
		entities.Names = append(entities.Names, word)
	}
	return entities
}

func matchKeywords(keywords, words []string) []string {
	var out []string
	for _, kw := range keywords {
		syns := synonymsOf(kw)
		for _, w := range words {
			if w == kw || slices.Contains(syns, w) {
				out = append(out, kw)
				break
			}
		}
	}
	return out
}

// Score returns, for each intent, the best fraction of any of its
// patterns' tokens found among the entity actions, objects and departments.
// Scores are returned in the order of patterns.
func Score(entities core.Entities, patterns []IntentPatterns) []float64 {
	present := make(map[string]struct{})
	for _, group := range [][]string{entities.Actions, entities.Objects, entities.Departments} {
		for _, w := range group {
			present[w] = struct{}{}
		}
	}

	scores := make([]float64, len(patterns))
	for i, ip := range patterns {
		best := 0.0
		for _, pattern := range ip.Patterns {
			if len(pattern) == 0 {
				continue
			}
			found := 0
			for _, tok := range pattern {
				if _, ok := present[tok]; ok {
					found++
				}
			}
			if score := float64(found) / float64(len(pattern)); score > best {
				best = score
			}
		}
		scores[i] = best
	}
	return scores
}

// Patterns returns the patterns Predict evaluates: the built-in intents in
// declared order with any learned patterns appended to them, followed by
// intents that only exist as learned patterns, in first-learn order.
func (c *Classifier) Patterns() []IntentPatterns {
	all := BuiltinPatterns()
	index := make(map[string]int, len(all))
	for i, ip := range all {
		index[ip.Intent] = i
	}
	for _, learned := range c.store.ByIntent() {
		if i, ok := index[learned.Intent]; ok {
			all[i].Patterns = append(all[i].Patterns, learned.Patterns...)
			continue
		}
		index[learned.Intent] = len(all)
		all = append(all, learned)
	}
	return all
}

// Predict classifies text. It never fails: without a score above the
// threshold it reports Unknown with zero confidence.
func (c *Classifier) Predict(text string) core.Prediction {
	entities := ExtractEntities(text)
	patterns := c.Patterns()
	scores := Score(entities, patterns)

	prediction := core.Prediction{Intent: Unknown, Entities: entities}
	best := -1
	for i, score := range scores {
		if best < 0 || score > scores[best] {
			best = i
		}
	}
	if best >= 0 && scores[best] > c.threshold {
		prediction.Intent = patterns[best].Intent
		prediction.Confidence = scores[best]
	}

	c.logger.Debug("intent predicted", "text", text, "intent", prediction.Intent, "confidence", prediction.Confidence)
	return prediction
}

// Learn records the first three normalized tokens of query as a new pattern
// for intent and persists it. Repeated feedback adds duplicate patterns.
func (c *Classifier) Learn(ctx context.Context, query, intent string) error {
	intent = strings.TrimSpace(intent)
	if intent == "" {
		return ErrEmptyIntent
	}
	tokens := Tokens(query)
	if len(tokens) == 0 {
		return ErrEmptyFeedback
	}
	if len(tokens) > learnedTokens {
		tokens = tokens[:learnedTokens]
	}

	if err := c.store.Append(ctx, intent, tokens); err != nil {
		return err
	}
	c.logger.Info("learned pattern", "intent", intent, "tokens", tokens)
	return nil
}
