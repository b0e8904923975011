package ingestion

import "errors"

var (
	// ErrSourceRequired indicates a document source was not provided.
	ErrSourceRequired = errors.New("document source is required")

	// ErrStoreRequired indicates a vector store was not provided.
	ErrStoreRequired = errors.New("vector store is required")

	// ErrRegistryRequired indicates a document registry was not provided.
	ErrRegistryRequired = errors.New("document registry is required")

	// ErrEmbedderRequired indicates an embedder was not provided.
	ErrEmbedderRequired = errors.New("embedder is required")
)
