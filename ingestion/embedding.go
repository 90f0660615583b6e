package ingestion

import (
	"context"
	"fmt"
	"sync"
)

// embedAll embeds texts in batches on the worker pool. Vectors are returned
// in input order regardless of which batch finishes first. The first
// failure cancels the remaining batches.
func (ix *Indexer) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	vectors := make([][]float32, len(texts))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	var progress *ProgressTracker
	if ix.progress != nil {
		progress = NewProgressTracker(ix.progress, len(texts), ix.batchSize)
		progress.Start()
	}

	for start := 0; start < len(texts); start += ix.batchSize {
		end := min(start+ix.batchSize, len(texts))
		batch := texts[start:end]

		wg.Add(1)
		submitErr := ix.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}

			var result [][]float32
			err := RetryWithBackoff(ctx, func() error {
				var err error
				result, err = ix.embedder.EmbedTexts(ctx, batch)
				return err
			}, ix.maxAttempts, ix.retryBaseDelay)
			if err != nil {
				fail(fmt.Errorf("failed to embed chunks %d-%d after %d attempts: %w", start, end-1, ix.maxAttempts, err))
				return
			}
			if len(result) != len(batch) {
				fail(fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingMismatch, len(batch), len(result)))
				return
			}

			// Batches write disjoint ranges.
			copy(vectors[start:end], result)
			if progress != nil {
				progress.Increment(len(batch))
			}
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	// Batches skipped because the caller canceled leave holes.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if progress != nil {
		progress.Finish()
	}
	return vectors, nil
}
