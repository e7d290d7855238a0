package embedder

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
)

// MockProvider is a deterministic, offline embedder for tests and dry
// runs. It derives unit-normalized vectors from content hashes so equal
// texts always embed identically. It is never selected implicitly.
type MockProvider struct {
	model string
	cache *Cache
}

// NewMockProvider creates a deterministic hash-based embedder.
func NewMockProvider(cache *Cache) (*MockProvider, error) {
	return &MockProvider{
		model: "mock-embeddings",
		cache: cache,
	}, nil
}

func (m *MockProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.EmbedQuery(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (m *MockProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash := ComputeHash(text)
	if m.cache != nil {
		if vec, ok := m.cache.Get(hash); ok {
			return vec, nil
		}
	}

	// Stretch the 32-byte digest across the full dimension by rehashing
	// with a counter, then normalize to unit length.
	vec := make([]float32, MockDimension)
	seed := []byte(text)
	for offset := 0; offset < MockDimension; offset += sha256.Size {
		block := sha256.Sum256(append(seed, byte(offset/sha256.Size)))
		for i := 0; i < sha256.Size && offset+i < MockDimension; i++ {
			vec[offset+i] = float32(block[i])/127.5 - 1.0
		}
	}
	vec = normalize(vec)

	if m.cache != nil {
		m.cache.Set(hash, vec)
	}
	return vec, nil
}

func (m *MockProvider) Dimension() int {
	return MockDimension
}

func (m *MockProvider) Model() string {
	return m.model
}

func (m *MockProvider) Close() error {
	return nil
}

// normalize scales v to unit length for cosine similarity.
func normalize(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val * val)
	}
	if sum == 0 {
		return v
	}

	norm := float32(math.Sqrt(sum))
	result := make([]float32, len(v))
	for i, val := range v {
		result[i] = val / norm
	}
	return result
}
