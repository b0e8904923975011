package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingEmbedder records batch sizes and returns one vector per input.
type recordingEmbedder struct {
	batches [][]string
	fail    bool
	short   bool
}

func (r *recordingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return []float32{1}, nil
}

func (r *recordingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	r.batches = append(r.batches, texts)
	if r.fail {
		return nil, errors.New("embedding backend down")
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text))}
	}
	if r.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func TestBatchingEmbedder_UnderThresholdPassesThrough(t *testing.T) {
	inner := &recordingEmbedder{}
	b := NewBatchingEmbedder(inner, WithBatchThreshold(4))

	texts := []string{"a", "bb", "ccc"}
	vectors, err := b.EmbedTexts(context.Background(), texts)

	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Len(t, inner.batches, 1, "small inputs go through in one call")
}

func TestBatchingEmbedder_SplitsAboveThreshold(t *testing.T) {
	inner := &recordingEmbedder{}
	b := NewBatchingEmbedder(inner, WithBatchThreshold(4))

	texts := make([]string, 10)
	for i := range texts {
		texts[i] = strings.Repeat("x", i+1)
	}

	vectors, err := b.EmbedTexts(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, 10)

	require.Len(t, inner.batches, 3)
	assert.Len(t, inner.batches[0], 4)
	assert.Len(t, inner.batches[1], 4)
	assert.Len(t, inner.batches[2], 2)

	// Order is preserved across sub-batches.
	for i, v := range vectors {
		assert.Equal(t, float32(i+1), v[0], "vector %d out of order", i)
	}
}

func TestBatchingEmbedder_PropagatesError(t *testing.T) {
	inner := &recordingEmbedder{fail: true}
	b := NewBatchingEmbedder(inner, WithBatchThreshold(2))

	_, err := b.EmbedTexts(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err)
}

func TestBatchingEmbedder_CountMismatch(t *testing.T) {
	inner := &recordingEmbedder{short: true}
	b := NewBatchingEmbedder(inner, WithBatchThreshold(10))

	_, err := b.EmbedTexts(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding count mismatch")
}

func TestBatchingEmbedder_EmptyInput(t *testing.T) {
	inner := &recordingEmbedder{}
	b := NewBatchingEmbedder(inner)

	vectors, err := b.EmbedTexts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}
