// Package analyze extracts structured insight (summary, topics, sentiment,
// category) from transcripts with a chat completion model.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"reelscribe/internal/app/errors"
	"reelscribe/internal/app/model"
)

// Analyzer is the content-analysis capability.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string) (*AnalysisData, error)
}

// AnalysisData is the analyzer output before persistence identifiers are
// attached.
type AnalysisData struct {
	Summary   string   `json:"summary"`
	Topics    []string `json:"topics"`
	Sentiment string   `json:"sentiment"`
	Category  string   `json:"category"`
}

const analysisSystemPrompt = "You are a content analysis assistant. Always respond with valid JSON only."

const analysisPromptTemplate = `Analyze the following audio transcript and extract key information.

Transcript:
%s

Please provide a JSON response with the following structure:
{
    "summary": "A concise 1-2 sentence summary of the main content",
    "topics": ["topic1", "topic2", "topic3"],
    "sentiment": "positive|neutral|negative",
    "category": "tutorial|entertainment|news|music|education|comedy|business|technology|health|other"
}

Guidelines:
- Summary should be 1-2 sentences capturing the main message
- Topics should be 3-7 relevant keywords or phrases
- Sentiment should reflect the overall tone (positive, neutral, or negative)
- Category should be the most appropriate content type

Respond with ONLY valid JSON, no additional text.`

// OpenAIAnalyzer performs analysis with a lightweight chat model.
type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

func NewOpenAIAnalyzer(client *openai.Client, logger *slog.Logger) *OpenAIAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIAnalyzer{
		client: client,
		model:  openai.GPT4oMini,
		logger: logger,
	}
}

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, transcript string) (*AnalysisData, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, errors.New(errors.KindInternal, "cannot analyze empty transcript")
	}

	a.logger.Info("starting content analysis", "transcript_chars", len(transcript))

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.3,
		MaxTokens:   500,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(analysisPromptTemplate, transcript)},
		},
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindExternalService, err, "analysis request failed")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New(errors.KindMalformedResponse, "analysis returned no completion choices")
	}

	data, err := parseAnalysisResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	a.logger.Info("content analysis complete", "category", data.Category, "sentiment", data.Sentiment)
	return data, nil
}

// parseAnalysisResponse strictly validates the model output. Missing required
// fields are a fatal malformed_service_response; an out-of-range sentiment is
// coerced to neutral instead of failing an otherwise usable analysis.
func parseAnalysisResponse(content string) (*AnalysisData, error) {
	content = stripCodeFences(content)

	var raw struct {
		Summary   *string  `json:"summary"`
		Topics    []string `json:"topics"`
		Sentiment *string  `json:"sentiment"`
		Category  *string  `json:"category"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, errors.Wrap(errors.KindMalformedResponse, err, "analysis response is not valid JSON")
	}

	missing := make([]string, 0, 4)
	if raw.Summary == nil || strings.TrimSpace(*raw.Summary) == "" {
		missing = append(missing, "summary")
	}
	if raw.Topics == nil {
		missing = append(missing, "topics")
	}
	if raw.Sentiment == nil {
		missing = append(missing, "sentiment")
	}
	if raw.Category == nil || strings.TrimSpace(*raw.Category) == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return nil, errors.Newf(errors.KindMalformedResponse,
			"analysis response missing required fields: %s", strings.Join(missing, ", "))
	}

	sentiment := strings.ToLower(strings.TrimSpace(*raw.Sentiment))
	switch sentiment {
	case model.SentimentPositive, model.SentimentNeutral, model.SentimentNegative:
	default:
		sentiment = model.SentimentNeutral
	}

	return &AnalysisData{
		Summary:   strings.TrimSpace(*raw.Summary),
		Topics:    raw.Topics,
		Sentiment: sentiment,
		Category:  strings.ToLower(strings.TrimSpace(*raw.Category)),
	}, nil
}

// stripCodeFences removes a surrounding ```json ... ``` block that chat
// models sometimes emit despite the JSON-only instruction.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
