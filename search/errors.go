package search

import "errors"

var (
	// ErrNilStore indicates the retriever was constructed without a
	// vector store.
	ErrNilStore = errors.New("vector store is required")

	// ErrNilEmbedder indicates the retriever was constructed without an
	// embedder.
	ErrNilEmbedder = errors.New("embedder is required")

	// ErrEmptyKnowledgeBase indicates the tenant has no indexed
	// documents at all.
	ErrEmptyKnowledgeBase = errors.New("knowledge base is empty")
)
