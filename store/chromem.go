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


package store

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/codemet/dora/core"
)

// ChromemStore implements VectorStore on chromem-go.
type ChromemStore struct {
	db     *chromem.DB
	logger *slog.Logger

	mu          sync.Mutex
	collections map[string]*chromem.Collection
}

// Option is a functional option for configuring a ChromemStore.
type Option func(*ChromemStore)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *ChromemStore) {
		s.logger = logger.With("component", "vector-store")
	}
}

// New creates a persistent vector store rooted at path.
//
// Returns VectorStore interface (not *ChromemStore) to enforce
// abstraction over the storage engine.
func New(path string, opts ...Option) (VectorStore, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}
	return newStore(db, opts...), nil
}

// NewInMemory creates a store that keeps everything in process memory.
// Intended for tests and throwaway runs.
func NewInMemory(opts ...Option) VectorStore {
	return newStore(chromem.NewDB(), opts...)
}

func newStore(db *chromem.DB, opts ...Option) *ChromemStore {
	s := &ChromemStore{
		db:          db,
		logger:      slog.Default().With("component", "vector-store"),
		collections: make(map[string]*chromem.Collection),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// collectionName maps a tenant to its isolated collection.
func collectionName(tenantID string) string {
	return "user_" + tenantID
}

// collection returns the tenant's collection, creating it on first use.
func (s *ChromemStore) collection(tenantID string) (*chromem.Collection, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := collectionName(tenantID)
	if c, ok := s.collections[name]; ok {
		return c, nil
	}

	// Embeddings always arrive precomputed, so no embedding function
	// is wired in; chromem would only call one for embedding-less docs.
	c, err := s.db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %s: %w", name, err)
	}
	s.collections[name] = c
	return c, nil
}

// Upsert writes chunks and their vectors into the tenant's collection.
func (s *ChromemStore) Upsert(ctx context.Context, tenantID string, chunks []core.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks, %d vectors", ErrVectorCountMismatch, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	c, err := s.collection(tenantID)
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:        chunk.ID,
			Content:   chunk.Text,
			Embedding: vectors[i],
			Metadata: map[string]string{
				"document_id":   chunk.DocumentID,
				"document_name": chunk.Metadata.DocumentName,
				"chunk_index":   strconv.Itoa(chunk.Index),
				"mime_type":     chunk.Metadata.MimeType,
				"timestamp":     chunk.Metadata.Timestamp,
			},
		}
	}

	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}

	s.logger.Debug("upserted chunks", "tenant", tenantID, "count", len(docs))
	return nil
}

// Query returns up to k nearest chunks by ascending distance.
func (s *ChromemStore) Query(ctx context.Context, tenantID string, vector []float32, k int) ([]core.ScoredChunk, error) {
	c, err := s.collection(tenantID)
	if err != nil {
		return nil, err
	}

	// chromem rejects nResults beyond the collection size.
	count := c.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := c.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	scored := make([]core.ScoredChunk, 0, len(results))
	for _, r := range results {
		index, _ := strconv.Atoi(r.Metadata["chunk_index"])
		scored = append(scored, core.ScoredChunk{
			Chunk: core.Chunk{
				ID:         r.ID,
				DocumentID: r.Metadata["document_id"],
				Index:      index,
				Text:       r.Content,
				Metadata: core.ChunkMetadata{
					DocumentID:   r.Metadata["document_id"],
					DocumentName: r.Metadata["document_name"],
					MimeType:     r.Metadata["mime_type"],
					Timestamp:    r.Metadata["timestamp"],
				},
			},
			Distance: 1 - r.Similarity,
		})
	}
	return scored, nil
}

// DeleteDocument removes every chunk whose metadata names documentID.
func (s *ChromemStore) DeleteDocument(ctx context.Context, tenantID, documentID string) error {
	if documentID == "" {
		return core.ErrEmptyDocumentID
	}

	c, err := s.collection(tenantID)
	if err != nil {
		return err
	}
	if c.Count() == 0 {
		return nil
	}

	if err := c.Delete(ctx, map[string]string{"document_id": documentID}, nil); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", documentID, err)
	}

	s.logger.Debug("deleted document chunks", "tenant", tenantID, "document", documentID)
	return nil
}

// Clear drops and recreates the tenant's collection, then verifies the
// fresh collection is empty.
func (s *ChromemStore) Clear(ctx context.Context, tenantID string) error {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return err
	}

	s.mu.Lock()
	name := collectionName(tenantID)
	if err := s.db.DeleteCollection(name); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to drop collection %s: %w", name, err)
	}
	delete(s.collections, name)
	s.mu.Unlock()

	c, err := s.collection(tenantID)
	if err != nil {
		return err
	}
	if got := c.Count(); got != 0 {
		return fmt.Errorf("%w: %d chunks remain", ErrClearIncomplete, got)
	}

	s.logger.Info("cleared tenant collection", "tenant", tenantID)
	return nil
}

// Count reports stored chunk count for the tenant.
func (s *ChromemStore) Count(ctx context.Context, tenantID string) (int, error) {
	c, err := s.collection(tenantID)
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

// Close releases the store. chromem persists synchronously, so this is
// a no-op placeholder kept for interface symmetry.
func (s *ChromemStore) Close() error {
	return nil
}
