package provider

import (
	"context"
	"crypto/sha256"
	"strings"

	"reelscribe/internal/app/errors"
)

// MockProvider generates deterministic vectors from a text hash. Used in
// tests and local development without API credentials.
type MockProvider struct {
	dimension int
}

func NewMockProvider(dimension int) *MockProvider {
	return &MockProvider{dimension: dimension}
}

func (m *MockProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(errors.KindInternal, "cannot embed empty text")
	}

	hash := sha256.Sum256([]byte(text))
	embedding := make([]float32, m.dimension)

	// map hash bytes onto [-1, 1]
	for i := 0; i < m.dimension; i++ {
		embedding[i] = (float32(hash[i%len(hash)])/255.0)*2 - 1
	}

	return embedding, nil
}

func (m *MockProvider) GetProviderInfo() ProviderInfo {
	return ProviderInfo{
		Name:      "mock",
		Model:     "mock-model",
		Dimension: m.dimension,
	}
}
