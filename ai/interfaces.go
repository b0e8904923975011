package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Used on the query path.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in a batch.
	// The returned slice preserves input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a completion for a single, fixed model. A generator
// never retries or falls back on its own; that is the answer engine's job.
type Generator interface {
	// Generate returns the model's completion for the prompt.
	// Rate-limit and quota failures are reported as *RateLimitError so the
	// caller can distinguish them from other errors.
	Generate(ctx context.Context, prompt string) (string, error)

	// Model returns the model identifier this generator calls.
	Model() string
}

// Provider aggregates the AI services for one configured deployment.
// Generators are ordered best-quality-first; the answer engine walks the
// slice as its fallback chain.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Generators returns the generation chain, primary model first.
	Generators() []Generator

	// Close releases resources held by the provider and its services.
	Close() error
}
