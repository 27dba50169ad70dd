package provider

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"reelscribe/internal/app/errors"
)

const (
	openAIModel     = openai.SmallEmbedding3
	openAIDimension = 1536

	// text-embedding-3-small accepts up to 8191 tokens (~32,000 chars);
	// keep a buffer below that.
	maxInputChars = 30000
)

// OpenAIProvider implements EmbeddingProvider over the OpenAI embeddings API.
type OpenAIProvider struct {
	client *openai.Client
}

func NewOpenAIProvider(client *openai.Client) *OpenAIProvider {
	return &OpenAIProvider{client: client}
}

func (o *OpenAIProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(errors.KindInternal, "cannot embed empty text")
	}

	if len(text) > maxInputChars {
		text = text[:maxInputChars]
	}

	response, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openAIModel,
		Input: []string{text},
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindExternalService, err, "embedding request failed")
	}

	if len(response.Data) == 0 {
		return nil, errors.New(errors.KindMalformedResponse, "no embedding data returned")
	}

	vector := response.Data[0].Embedding
	if len(vector) != openAIDimension {
		return nil, errors.Newf(errors.KindMalformedResponse,
			"embedding has unexpected dimension %d", len(vector))
	}

	return vector, nil
}

func (o *OpenAIProvider) GetProviderInfo() ProviderInfo {
	return ProviderInfo{
		Name:      "openai",
		Model:     string(openAIModel),
		Dimension: openAIDimension,
	}
}
