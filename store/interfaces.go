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

	"github.com/codemet/dora/core"
)

// VectorStore is the persistence interface for chunk embeddings.
// Implementations must keep tenants fully isolated from each other.
type VectorStore interface {
	// Upsert writes chunks with their embedding vectors. Writing a
	// chunk ID that already exists replaces the stored copy.
	Upsert(ctx context.Context, tenantID string, chunks []core.Chunk, vectors [][]float32) error

	// Query returns the chunks nearest to the query vector, ordered by
	// ascending distance. k is clamped to the collection size; an empty
	// collection yields an empty result, not an error.
	Query(ctx context.Context, tenantID string, vector []float32, k int) ([]core.ScoredChunk, error)

	// DeleteDocument removes every chunk belonging to a document.
	DeleteDocument(ctx context.Context, tenantID, documentID string) error

	// Clear removes all chunks for a tenant. Postcondition: Count is 0.
	Clear(ctx context.Context, tenantID string) error

	// Count reports the number of stored chunks for a tenant.
	Count(ctx context.Context, tenantID string) (int, error)

	// Close releases underlying resources.
	Close() error
}
