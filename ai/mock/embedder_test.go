package mock

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder()
	ctx := context.Background()

	a, err := e.EmbedText(ctx, "dokumen pertama")
	require.NoError(t, err)
	b, err := e.EmbedText(ctx, "dokumen pertama")
	require.NoError(t, err)
	c, err := e.EmbedText(ctx, "dokumen kedua")
	require.NoError(t, err)

	assert.Equal(t, a, b, "same text must embed identically")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, mockVectorDim)
}

func TestMockEmbedder_UnitNorm(t *testing.T) {
	e := NewMockEmbedder()

	vector, err := e.EmbedText(context.Background(), "apa pun isinya")
	require.NoError(t, err)

	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-3)
}

func TestMockEmbedder_InjectedBehavior(t *testing.T) {
	e := NewMockEmbedder()
	e.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 2, 3}}, nil
	}

	vectors, err := e.EmbedTexts(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 2, 3}}, vectors)
	assert.Equal(t, 1, e.CallCount())

	e.Reset()
	assert.Equal(t, 0, e.CallCount())
	assert.Nil(t, e.EmbedTextsFunc)
}
