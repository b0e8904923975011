// Copyright 2025 Codemet
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


package dora

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/codemet/dora/ai"
	"github.com/codemet/dora/ai/openai"
	"github.com/codemet/dora/answer"
	"github.com/codemet/dora/chunking"
	"github.com/codemet/dora/core"
	"github.com/codemet/dora/ingestion"
	"github.com/codemet/dora/search"
	"github.com/codemet/dora/source"
	"github.com/codemet/dora/storage"
	badgerstorage "github.com/codemet/dora/storage/badger"
	"github.com/codemet/dora/store"
)

// Canned responses for questions the engine cannot ground in documents.
const (
	msgEmptyKnowledgeBase = "Maaf, saya tidak dapat menjawab pertanyaan karena knowledge base Anda masih kosong. Silakan tambahkan dokumen terlebih dahulu dari Google Drive untuk memulai percakapan."
	msgNoMatch            = "Maaf, saya tidak dapat menemukan informasi yang relevan dalam dokumen Anda untuk menjawab pertanyaan ini. Silakan coba pertanyaan lain atau pastikan dokumen yang relevan sudah ditambahkan ke knowledge base."
	msgGenerationFailed   = "Maaf, terjadi kesalahan saat memproses pertanyaan Anda. Silakan coba lagi."
)

// Engine is the facade over the whole question-answering stack: vector
// store, document registry, chunking, retrieval and grounded generation.
type Engine struct {
	vectors   store.VectorStore
	registry  storage.DocumentRepository
	provider  ai.Provider
	embedder  ai.Embedder
	splitter  *chunking.Splitter
	retriever *search.Retriever
	answerer  *answer.Engine
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig    *ai.Config
	provider    ai.Provider
	retryPolicy ai.RetryPolicy
	inMemory    bool
}

// WithAIConfig sets the provider configuration used when no explicit
// provider is supplied.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies a pre-built AI provider instead of the default
// OpenAI-compatible one.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithRetryPolicy overrides the retry policy used for generation.
func WithRetryPolicy(policy ai.RetryPolicy) EngineOption {
	return func(o *engineOptions) {
		o.retryPolicy = policy
	}
}

// WithInMemory keeps the vector store and registry in memory. Used by
// tests and throwaway sessions.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// NewEngine opens an engine with its state under dataDir.
func NewEngine(dataDir string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig:    ai.DefaultConfig(),
		retryPolicy: ai.DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(options)
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	var (
		vectors store.VectorStore
		err     error
	)
	if options.inMemory {
		vectors = store.NewInMemory()
	} else {
		vectors, err = store.New(filepath.Join(dataDir, "vectors"))
		if err != nil {
			provider.Close()
			return nil, err
		}
	}

	registry, err := badgerstorage.Open(filepath.Join(dataDir, "registry"), options.inMemory)
	if err != nil {
		vectors.Close()
		provider.Close()
		return nil, err
	}

	embedder := ai.NewBatchingEmbedder(provider.Embedder())

	retriever, err := search.NewRetriever(vectors, embedder)
	if err != nil {
		registry.Close()
		vectors.Close()
		provider.Close()
		return nil, err
	}

	answerer, err := answer.NewEngine(provider.Generators(), answer.WithRetryPolicy(options.retryPolicy))
	if err != nil {
		registry.Close()
		vectors.Close()
		provider.Close()
		return nil, err
	}

	return &Engine{
		vectors:   vectors,
		registry:  registry,
		provider:  provider,
		embedder:  embedder,
		splitter:  chunking.NewSplitter(),
		retriever: retriever,
		answerer:  answerer,
		logger:    slog.Default().With("component", "engine"),
	}, nil
}

// Close releases the provider and storage layers.
func (e *Engine) Close() error {
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.registry.Close(); err != nil {
		e.logger.Error("error closing document registry", "err", err)
		return err
	}
	if err := e.vectors.Close(); err != nil {
		e.logger.Error("error closing vector store", "err", err)
		return err
	}
	return nil
}

// Query answers a question from the tenant's documents. When nothing can
// be grounded the returned answer carries a safe explanation and
// FromDocuments is false; only infrastructure failures surface as errors.
func (e *Engine) Query(ctx context.Context, tenantID, question string) (*core.Answer, error) {
	retrieval, err := e.retriever.Retrieve(ctx, tenantID, question)
	if err != nil {
		if errors.Is(err, search.ErrEmptyKnowledgeBase) {
			return &core.Answer{Text: msgEmptyKnowledgeBase}, nil
		}
		return nil, err
	}

	if !retrieval.FromDocuments || len(retrieval.Chunks) == 0 {
		return &core.Answer{Text: msgNoMatch}, nil
	}

	result, err := e.answerer.Answer(ctx, question, retrieval)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if errors.Is(err, answer.ErrAllProvidersExhausted) {
			e.logger.Error("all generation models exhausted", "tenant", tenantID, "err", err)
			return &core.Answer{Text: msgGenerationFailed}, nil
		}
		return nil, err
	}

	return result, nil
}

// AddDocument ingests a single document: chunk, embed, store, register.
// An unchanged document (same ID and fingerprint) is a no-op; a changed
// one has its old chunks deleted before re-ingestion.
func (e *Engine) AddDocument(ctx context.Context, tenantID string, doc *core.Document) error {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	fingerprint := core.Fingerprint(doc.Content)

	existing, err := e.registry.Get(ctx, tenantID, doc.ID)
	switch {
	case err == nil:
		if existing.Fingerprint == fingerprint {
			e.logger.Debug("document unchanged, skipping", "tenant", tenantID, "document", doc.ID)
			return nil
		}
		if err := e.vectors.DeleteDocument(ctx, tenantID, doc.ID); err != nil {
			return fmt.Errorf("failed to remove stale chunks for %s: %w", doc.ID, err)
		}
	case errors.Is(err, storage.ErrNotFound):
		// New document.
	default:
		return err
	}

	texts := e.splitter.Split(doc.Content, doc.MimeType)
	if len(texts) == 0 {
		return core.ErrEmptyContent
	}

	chunks := make([]core.Chunk, len(texts))
	chunkTexts := make([]string, len(texts))
	for i, text := range texts {
		chunks[i] = core.NewChunk(doc, i, text)
		chunkTexts[i] = text
	}

	vectors, err := e.embedder.EmbedTexts(ctx, chunkTexts)
	if err != nil {
		return fmt.Errorf("failed to embed document %s: %w", doc.ID, err)
	}

	if err := e.vectors.Upsert(ctx, tenantID, chunks, vectors); err != nil {
		return fmt.Errorf("failed to store document %s: %w", doc.ID, err)
	}

	record := &core.DocumentRecord{
		ID:          doc.ID,
		Name:        doc.Name,
		MimeType:    doc.MimeType,
		Folder:      doc.Folder,
		Fingerprint: fingerprint,
		ChunkCount:  len(chunks),
		IngestedAt:  time.Now().UTC(),
	}
	if err := e.registry.Put(ctx, tenantID, record); err != nil {
		return fmt.Errorf("failed to register document %s: %w", doc.ID, err)
	}

	e.logger.Info("document ingested", "tenant", tenantID, "document", doc.ID, "chunks", len(chunks))
	return nil
}

// RemoveDocument deletes a document's chunks and its registry record.
func (e *Engine) RemoveDocument(ctx context.Context, tenantID, documentID string) error {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return err
	}
	if documentID == "" {
		return core.ErrEmptyDocumentID
	}

	if err := e.vectors.DeleteDocument(ctx, tenantID, documentID); err != nil {
		return fmt.Errorf("failed to delete chunks for %s: %w", documentID, err)
	}
	return e.registry.Delete(ctx, tenantID, documentID)
}

// ClearAll wipes a tenant's knowledge base: all chunks and all registry
// records.
func (e *Engine) ClearAll(ctx context.Context, tenantID string) error {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return err
	}

	if err := e.vectors.Clear(ctx, tenantID); err != nil {
		return fmt.Errorf("failed to clear vector store: %w", err)
	}
	if err := e.registry.Purge(ctx, tenantID); err != nil {
		return fmt.Errorf("failed to purge registry: %w", err)
	}
	return nil
}

// Stats summarizes one tenant's knowledge base.
type Stats struct {
	Documents int
	Chunks    int
}

// Stats reports document and chunk counts for a tenant.
func (e *Engine) Stats(ctx context.Context, tenantID string) (*Stats, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}

	records, err := e.registry.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	chunks, err := e.vectors.Count(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &Stats{Documents: len(records), Chunks: chunks}, nil
}

// NewIngestionPipeline builds a bulk ingestion pipeline sharing this
// engine's store, registry and embedder.
func (e *Engine) NewIngestionPipeline(src source.DocumentSource, opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(src, e.vectors, e.registry, e.provider.Embedder(), opts...)
}
