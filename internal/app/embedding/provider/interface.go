package provider

import "context"

// EmbeddingProvider is the vector-generation capability.
type EmbeddingProvider interface {
	// GenerateEmbedding generates an embedding vector for the given text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// GetProviderInfo returns metadata about the provider
	GetProviderInfo() ProviderInfo
}

// ProviderInfo contains metadata about an embedding provider
type ProviderInfo struct {
	Name      string // Provider name (e.g., "openai")
	Model     string // Model identifier (e.g., "text-embedding-3-small")
	Dimension int    // Embedding dimension (e.g., 1536)
}
