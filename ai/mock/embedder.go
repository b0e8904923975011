package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// mockVectorDim matches the all-minilm family so mock vectors are
// interchangeable with real ones in store-level tests.
const mockVectorDim = 384

// MockEmbedder is a test double for ai.Embedder. With no injected
// behavior it hashes each text into a stable pseudo-random unit vector,
// so the same text always lands at the same point and different texts
// almost never collide.
type MockEmbedder struct {
	EmbedTextFunc  func(ctx context.Context, text string) ([]float32, error)
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	callCount int
}

// NewMockEmbedder creates a mock embedder with the default hashed
// behavior.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount++
	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return hashedVector(text), nil
}

func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++
	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = hashedVector(text)
	}
	return vectors, nil
}

// CallCount returns how many times either embed method was called.
func (m *MockEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockEmbedder) Reset() {
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// hashedVector expands an FNV-64 digest of the text into a unit vector
// with a 64-bit linear congruential generator.
func hashedVector(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()

	vector := make([]float32, mockVectorDim)
	var sumSquares float64
	for i := range vector {
		state = state*6364136223846793005 + 1442695040888963407
		v := float32(state>>40)/float32(1<<24) - 0.5
		vector[i] = v
		sumSquares += float64(v) * float64(v)
	}

	if norm := math.Sqrt(sumSquares); norm > 0 {
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / norm)
		}
	}
	return vector
}
