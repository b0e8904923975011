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


package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codemet/dora/ai"
	"github.com/codemet/dora/core"
	"github.com/codemet/dora/store"
)

const (
	defaultTopK          = 12
	defaultBaseThreshold = 1.0
	defaultMaxSources    = 5

	// Adaptive threshold adjustments.
	shortQueryWords   = 3
	longQueryWords    = 12
	shortQueryTighten = 0.15
	intentLoosen      = 0.10
	longQueryLoosen   = 0.05
)

// Config holds retrieval tuning knobs.
type Config struct {
	// TopK is how many nearest chunks to pull from the vector store.
	TopK int

	// BaseThreshold is the starting relevance bound. Chunks at or above
	// this distance are treated as noise.
	BaseThreshold float32

	// MaxSources caps the deduplicated source list.
	MaxSources int

	// SourceLink builds the user-facing link for a source document.
	SourceLink func(documentID string) string

	// FallbackLink builds the link used for the soft-fallback source.
	FallbackLink func(documentID string) string
}

// DefaultConfig returns the standard retrieval configuration with
// Google Drive link formats.
func DefaultConfig() Config {
	return Config{
		TopK:          defaultTopK,
		BaseThreshold: defaultBaseThreshold,
		MaxSources:    defaultMaxSources,
		SourceLink: func(id string) string {
			return "https://drive.google.com/open?id=" + id
		},
		FallbackLink: func(id string) string {
			return "https://drive.google.com/file/d/" + id + "/view"
		},
	}
}

// Option is a functional option for configuring a Retriever.
type Option func(*Retriever)

// WithConfig replaces the whole retrieval configuration.
func WithConfig(cfg Config) Option {
	return func(r *Retriever) {
		r.config = cfg
	}
}

// WithTopK overrides how many chunks are pulled per query.
func WithTopK(k int) Option {
	return func(r *Retriever) {
		r.config.TopK = k
	}
}

// WithBaseThreshold overrides the starting relevance bound.
func WithBaseThreshold(t float32) Option {
	return func(r *Retriever) {
		r.config.BaseThreshold = t
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) {
		r.logger = logger.With("component", "search")
	}
}

// Retriever finds the chunks relevant to a question.
type Retriever struct {
	store    store.VectorStore
	embedder ai.Embedder
	config   Config
	logger   *slog.Logger
}

// NewRetriever creates a Retriever over a vector store and embedder.
func NewRetriever(vs store.VectorStore, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if vs == nil {
		return nil, ErrNilStore
	}
	if embedder == nil {
		return nil, ErrNilEmbedder
	}

	r := &Retriever{
		store:    vs,
		embedder: embedder,
		config:   DefaultConfig(),
		logger:   slog.Default().With("component", "search"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Threshold computes the adaptive relevance bound for a query. Terse
// keyword queries tighten it; detected intents and long questions
// loosen it.
func (r *Retriever) Threshold(query string) float32 {
	threshold := r.config.BaseThreshold
	words := len(strings.Fields(query))
	intents := DetectIntents(query)

	if len(intents) > 0 {
		threshold += intentLoosen
	} else if words <= shortQueryWords {
		threshold -= shortQueryTighten
	}
	if words >= longQueryWords {
		threshold += longQueryLoosen
	}
	return threshold
}

// Retrieve runs the full retrieval path: expansion, embedding, vector
// query, threshold filter, and source extraction.
//
// Returns ErrEmptyKnowledgeBase when the tenant has no chunks at all.
// A populated store with no relevant matches is not an error; it
// yields a result with FromDocuments false.
func (r *Retriever) Retrieve(ctx context.Context, tenantID, query string) (*core.RetrievalResult, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}

	count, err := r.store.Count(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect knowledge base: %w", err)
	}
	if count == 0 {
		return nil, ErrEmptyKnowledgeBase
	}

	expanded := Expand(query)
	threshold := r.Threshold(query)
	r.logger.Debug("retrieving",
		"tenant", tenantID, "expanded_length", len(expanded), "threshold", threshold)

	vector, err := r.embedder.EmbedText(ctx, expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scored, err := r.store.Query(ctx, tenantID, vector, r.config.TopK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	if len(scored) == 0 || scored[0].Distance >= threshold {
		r.logger.Info("no relevant chunks", "tenant", tenantID, "results", len(scored))
		return &core.RetrievalResult{}, nil
	}

	sources, fallbackUsed := r.buildSources(scored, threshold)
	return &core.RetrievalResult{
		Chunks:        scored,
		Sources:       sources,
		FromDocuments: true,
		FallbackUsed:  fallbackUsed,
	}, nil
}

// buildSources extracts a deduplicated, capped source list from scored
// chunks. When nothing passes the threshold the best-ranked document is
// returned alone as a soft fallback.
func (r *Retriever) buildSources(scored []core.ScoredChunk, threshold float32) ([]core.Source, bool) {
	var sources []core.Source
	seen := make(map[string]bool)

	for _, sc := range scored {
		if sc.Distance >= threshold || len(sources) >= r.config.MaxSources {
			continue
		}
		docID := sc.Chunk.DocumentID
		if docID == "" || seen[docID] {
			continue
		}
		seen[docID] = true
		sources = append(sources, core.Source{
			ID:       docID,
			Name:     sc.Chunk.Metadata.DocumentName,
			MimeType: sc.Chunk.Metadata.MimeType,
			Link:     r.config.SourceLink(docID),
		})
	}

	if len(sources) == 0 && len(scored) > 0 {
		best := scored[0].Chunk
		if best.DocumentID != "" {
			r.logger.Warn("no sources passed threshold, falling back to best document",
				"document", best.DocumentID)
			return []core.Source{{
				ID:       best.DocumentID,
				Name:     best.Metadata.DocumentName,
				MimeType: best.Metadata.MimeType,
				Link:     r.config.FallbackLink(best.DocumentID),
			}}, true
		}
	}

	return sources, false
}
