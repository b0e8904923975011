package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemet/dora/core"
)

func testChunks(t *testing.T, docID string, n int) ([]core.Chunk, [][]float32) {
	t.Helper()
	doc := &core.Document{
		ID:       docID,
		Name:     docID + ".txt",
		MimeType: "text/plain",
	}

	chunks := make([]core.Chunk, n)
	vectors := make([][]float32, n)
	for i := 0; i < n; i++ {
		chunks[i] = core.NewChunk(doc, i, fmt.Sprintf("chunk %d of %s", i, docID))
		// Spread vectors along two axes so ordering is predictable.
		vectors[i] = []float32{1, float32(i), 0.5}
	}
	return chunks, vectors
}

func TestUpsertAndCount(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	chunks, vectors := testChunks(t, "doc-1", 3)
	require.NoError(t, s.Upsert(ctx, "alice", chunks, vectors))

	count, err := s.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestUpsert_VectorCountMismatch(t *testing.T) {
	s := NewInMemory()

	chunks, vectors := testChunks(t, "doc-1", 3)
	err := s.Upsert(context.Background(), "alice", chunks, vectors[:2])
	assert.ErrorIs(t, err, ErrVectorCountMismatch)
}

func TestUpsert_IdempotentOnChunkID(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	chunks, vectors := testChunks(t, "doc-1", 2)
	require.NoError(t, s.Upsert(ctx, "alice", chunks, vectors))
	require.NoError(t, s.Upsert(ctx, "alice", chunks, vectors))

	count, err := s.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "re-upserting the same IDs must not duplicate")
}

func TestQuery_OrderedByDistance(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	chunks, vectors := testChunks(t, "doc-1", 4)
	require.NoError(t, s.Upsert(ctx, "alice", chunks, vectors))

	results, err := s.Query(ctx, "alice", vectors[2], 4)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, chunks[2].ID, results[0].Chunk.ID, "exact vector is nearest")
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].Distance, results[i-1].Distance,
			"distances must ascend")
	}
	assert.InDelta(t, 0, results[0].Distance, 1e-5)
}

func TestQuery_ClampsKToCollectionSize(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	chunks, vectors := testChunks(t, "doc-1", 2)
	require.NoError(t, s.Upsert(ctx, "alice", chunks, vectors))

	results, err := s.Query(ctx, "alice", vectors[0], 12)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestQuery_EmptyCollection(t *testing.T) {
	s := NewInMemory()

	results, err := s.Query(context.Background(), "alice", []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQuery_RestoresChunkMetadata(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	chunks, vectors := testChunks(t, "doc-9", 1)
	require.NoError(t, s.Upsert(ctx, "alice", chunks, vectors))

	results, err := s.Query(ctx, "alice", vectors[0], 1)
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0].Chunk
	assert.Equal(t, "doc-9", got.DocumentID)
	assert.Equal(t, "doc-9.txt", got.Metadata.DocumentName)
	assert.Equal(t, "text/plain", got.Metadata.MimeType)
	assert.Equal(t, 0, got.Index)
	assert.Equal(t, chunks[0].Text, got.Text)
}

func TestTenantIsolation(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	aliceChunks, aliceVectors := testChunks(t, "doc-a", 2)
	bobChunks, bobVectors := testChunks(t, "doc-b", 3)
	require.NoError(t, s.Upsert(ctx, "alice", aliceChunks, aliceVectors))
	require.NoError(t, s.Upsert(ctx, "bob", bobChunks, bobVectors))

	results, err := s.Query(ctx, "alice", aliceVectors[0], 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "doc-a", r.Chunk.DocumentID)
	}
}

func TestDeleteDocument(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	keep, keepVectors := testChunks(t, "doc-keep", 2)
	drop, dropVectors := testChunks(t, "doc-drop", 3)
	require.NoError(t, s.Upsert(ctx, "alice", keep, keepVectors))
	require.NoError(t, s.Upsert(ctx, "alice", drop, dropVectors))

	require.NoError(t, s.DeleteDocument(ctx, "alice", "doc-drop"))

	count, err := s.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	results, err := s.Query(ctx, "alice", keepVectors[0], 10)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, "doc-keep", r.Chunk.DocumentID)
	}
}

func TestDeleteDocument_EmptyID(t *testing.T) {
	s := NewInMemory()
	err := s.DeleteDocument(context.Background(), "alice", "")
	assert.ErrorIs(t, err, core.ErrEmptyDocumentID)
}

func TestClear(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	chunks, vectors := testChunks(t, "doc-1", 5)
	require.NoError(t, s.Upsert(ctx, "alice", chunks, vectors))

	require.NoError(t, s.Clear(ctx, "alice"))

	count, err := s.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestValidation_EmptyTenant(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	chunks, vectors := testChunks(t, "doc-1", 1)
	assert.ErrorIs(t, s.Upsert(ctx, "", chunks, vectors), core.ErrEmptyTenantID)

	_, err := s.Query(ctx, "", vectors[0], 3)
	assert.ErrorIs(t, err, core.ErrEmptyTenantID)

	assert.ErrorIs(t, s.Clear(ctx, ""), core.ErrEmptyTenantID)
}

func TestPersistentStore(t *testing.T) {
	dir := t.TempDir()

	s, err := New(dir)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	chunks, vectors := testChunks(t, "doc-1", 2)
	require.NoError(t, s.Upsert(ctx, "alice", chunks, vectors))

	// A fresh handle over the same directory sees the data.
	s2, err := New(dir)
	require.NoError(t, err)
	defer s2.Close()

	count, err := s2.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
