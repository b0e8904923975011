package answer

import "errors"

var (
	// ErrNilGenerators indicates the engine was constructed without any
	// generation models.
	ErrNilGenerators = errors.New("at least one generator is required")

	// ErrNoChunks indicates generation was requested without grounding.
	ErrNoChunks = errors.New("no chunks to ground the answer on")

	// ErrAllProvidersExhausted indicates every model in the chain
	// failed after retries.
	ErrAllProvidersExhausted = errors.New("all generation models exhausted")
)
