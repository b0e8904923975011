package ai

import (
	"context"
	"fmt"
	"log/slog"
)

// defaultBatchThreshold is the input count above which embedding jobs are
// split into sub-batches. Large documents can produce thousands of chunks;
// embedding them in one call holds every vector in flight at once.
const defaultBatchThreshold = 100

// BatchingEmbedder wraps an Embedder and bounds the size of any single
// embedding call. Inputs at or below the threshold are embedded in one
// call; larger inputs are processed in threshold-sized sub-batches and the
// results concatenated in order.
type BatchingEmbedder struct {
	inner     Embedder
	threshold int
	logger    *slog.Logger
}

// BatcherOption configures a BatchingEmbedder.
type BatcherOption func(*BatchingEmbedder)

// WithBatchThreshold overrides the sub-batch size. Values below 1 are ignored.
func WithBatchThreshold(n int) BatcherOption {
	return func(b *BatchingEmbedder) {
		if n >= 1 {
			b.threshold = n
		}
	}
}

// WithBatcherLogger sets a custom logger. Default is slog.Default().
func WithBatcherLogger(logger *slog.Logger) BatcherOption {
	return func(b *BatchingEmbedder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBatchingEmbedder wraps inner with batch-size bounding.
func NewBatchingEmbedder(inner Embedder, opts ...BatcherOption) *BatchingEmbedder {
	b := &BatchingEmbedder{
		inner:     inner,
		threshold: defaultBatchThreshold,
		logger:    slog.Default().With("component", "batching-embedder"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// EmbedText embeds a single string. Single queries never need batching and
// pass straight through.
func (b *BatchingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return b.inner.EmbedText(ctx, text)
}

// EmbedTexts embeds texts, splitting into sub-batches above the threshold.
// Output order always matches input order.
func (b *BatchingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if len(texts) <= b.threshold {
		return b.embedBatch(ctx, texts)
	}

	batches := (len(texts) + b.threshold - 1) / b.threshold
	b.logger.Info("embedding large input in sub-batches", "texts", len(texts), "batches", batches)

	all := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += b.threshold {
		end := start + b.threshold
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := b.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedding batch %d/%d: %w", start/b.threshold+1, batches, err)
		}
		all = append(all, vectors...)
	}
	return all, nil
}

func (b *BatchingEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := b.inner.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), len(vectors))
	}
	return vectors, nil
}
