// Package recipe extracts structured recipes from cooking video transcripts
// and runs the recipe variant of the processing pipeline.
package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"reelscribe/internal/app/errors"
)

// Ingredient is one extracted ingredient. Quantity and Unit are nil/empty
// when the transcript does not make them clear; RawText always carries the
// original phrasing.
type Ingredient struct {
	Item     string   `json:"item"`
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit"`
	RawText  string   `json:"raw_text"`
}

// Instruction is one numbered cooking step.
type Instruction struct {
	Step int    `json:"step"`
	Text string `json:"text"`
}

// ExtractedRecipe is the extractor output before persistence identifiers are
// attached.
type ExtractedRecipe struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Ingredients     []Ingredient  `json:"ingredients"`
	Instructions    []Instruction `json:"instructions"`
	PrepTimeMinutes *int          `json:"prep_time_minutes"`
	CookTimeMinutes *int          `json:"cook_time_minutes"`
	Servings        *int          `json:"servings"`
	Cuisine         string        `json:"cuisine"`
	DietaryTags     []string      `json:"dietary_tags"`
}

// SourceContext carries optional video metadata that improves extraction.
type SourceContext struct {
	Title       string
	Description string
}

// Extractor turns a transcript into a structured recipe.
type Extractor interface {
	Extract(ctx context.Context, transcript string, source SourceContext) (*ExtractedRecipe, error)
}

const classifySystemPrompt = "You are a content classifier. Respond with only RECIPE or NOT_RECIPE."

const classifyPromptTemplate = `Is the following transcript from a cooking/recipe video?

Transcript:
%s

Respond with ONLY one word: "RECIPE" or "NOT_RECIPE"

Classification rules:
- RECIPE: Contains cooking instructions, ingredients, food preparation
- NOT_RECIPE: General food talk, restaurant reviews, eating videos, non-food content

Your response (one word only):`

const extractSystemPrompt = "You are a multilingual culinary AI assistant specialized in extracting structured recipe data from video transcripts in any language. Preserve the original language, fix spelling errors, and always respond with valid JSON only."

const extractPromptTemplate = `Extract recipe information from this cooking video transcript.

%s
Transcript:
%s

CRITICAL - LANGUAGE PRESERVATION:
- The transcript is in %s
- Extract ALL text in %s: title, description, ingredients, instructions
- Fix any spelling or grammar errors while preserving %s
- Do NOT translate to English or any other language
- Keep ingredient names, measurements, and all text in %s

Please analyze the transcript and extract recipe information in JSON format with this exact structure:

{
    "title": "Recipe name (create a descriptive title if not explicitly stated)",
    "description": "Brief 1-2 sentence description of the dish",
    "ingredients": [
        {
            "item": "ingredient name (normalized, singular)",
            "quantity": 1.0,
            "unit": "cup",
            "raw_text": "1 cup flour"
        }
    ],
    "instructions": [
        {
            "step": 1,
            "text": "Detailed instruction text"
        }
    ],
    "prep_time_minutes": 10,
    "cook_time_minutes": 20,
    "servings": 4,
    "cuisine": "Italian",
    "dietary_tags": ["vegetarian"]
}

Guidelines:
- Extract ALL ingredients mentioned, preserving quantities and units
- If quantity/unit is unclear, set to null but include in raw_text
- Normalize ingredient names (e.g., "tomatoes" -> "tomato")
- Number instructions sequentially starting from 1
- Be specific in instruction text (include timing, temperature, techniques)
- Estimate prep/cook time if not explicitly stated
- Cuisine should be one of: Italian, Mexican, Chinese, Japanese, Thai, Indian, French, American, Mediterranean, or "Other"
- Dietary tags: vegetarian, vegan, gluten-free, dairy-free, keto, paleo, etc.

Respond with ONLY valid JSON, no additional text.`

// classifySampleChars bounds the classification pre-check input for speed.
const classifySampleChars = 1000

// OpenAIExtractor performs recipe extraction with a lightweight chat model.
type OpenAIExtractor struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

func NewOpenAIExtractor(client *openai.Client, logger *slog.Logger) *OpenAIExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIExtractor{
		client: client,
		model:  openai.GPT4oMini,
		logger: logger,
	}
}

func (e *OpenAIExtractor) Extract(ctx context.Context, transcript string, source SourceContext) (*ExtractedRecipe, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, errors.New(errors.KindInternal, "cannot extract a recipe from an empty transcript")
	}

	e.logger.Info("starting recipe extraction", "transcript_chars", len(transcript))

	isRecipe, err := e.classify(ctx, transcript)
	if err != nil {
		// Fail open: proceed with extraction when classification errors.
		e.logger.Warn("recipe classification failed, assuming recipe", "error", err)
	} else if !isRecipe {
		return nil, errors.New(errors.KindNotARecipe,
			"this video does not contain recipe content; submit a video with cooking instructions and ingredients")
	}

	language := detectTranscriptLanguage(transcript)

	var contextBlock strings.Builder
	if source.Title != "" {
		fmt.Fprintf(&contextBlock, "Video Title: %s\n", source.Title)
	}
	if source.Description != "" {
		fmt.Fprintf(&contextBlock, "Description: %s\n", source.Description)
	}

	prompt := fmt.Sprintf(extractPromptTemplate,
		contextBlock.String(), transcript,
		language, language, language, language)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0.3,
		MaxTokens:   2000,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindExternalService, err, "recipe extraction request failed")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New(errors.KindMalformedResponse, "recipe extraction returned no completion choices")
	}

	recipe, err := parseRecipeResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	e.logger.Info("recipe extraction complete",
		"title", recipe.Title,
		"ingredients", len(recipe.Ingredients),
		"steps", len(recipe.Instructions))
	return recipe, nil
}

func (e *OpenAIExtractor) classify(ctx context.Context, transcript string) (bool, error) {
	sample := transcript
	if len(sample) > classifySampleChars {
		sample = sample[:classifySampleChars]
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		MaxTokens:   10,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(classifyPromptTemplate, sample)},
		},
	})
	if err != nil {
		return false, err
	}
	if len(resp.Choices) == 0 {
		return false, errors.New(errors.KindMalformedResponse, "classification returned no completion choices")
	}

	classification := strings.ToUpper(strings.TrimSpace(resp.Choices[0].Message.Content))
	return strings.Contains(classification, "RECIPE") && !strings.Contains(classification, "NOT_RECIPE"), nil
}

// parseRecipeResponse strictly validates the model output. Title, ingredients
// and instructions are required; the rest default sensibly.
func parseRecipeResponse(content string) (*ExtractedRecipe, error) {
	content = stripCodeFences(content)

	var raw struct {
		Title           *string       `json:"title"`
		Description     string        `json:"description"`
		Ingredients     []Ingredient  `json:"ingredients"`
		Instructions    []Instruction `json:"instructions"`
		PrepTimeMinutes *int          `json:"prep_time_minutes"`
		CookTimeMinutes *int          `json:"cook_time_minutes"`
		Servings        *int          `json:"servings"`
		Cuisine         string        `json:"cuisine"`
		DietaryTags     []string      `json:"dietary_tags"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, errors.Wrap(errors.KindMalformedResponse, err, "recipe extraction response is not valid JSON")
	}

	missing := make([]string, 0, 3)
	if raw.Title == nil || strings.TrimSpace(*raw.Title) == "" {
		missing = append(missing, "title")
	}
	if raw.Ingredients == nil {
		missing = append(missing, "ingredients")
	}
	if raw.Instructions == nil {
		missing = append(missing, "instructions")
	}
	if len(missing) > 0 {
		return nil, errors.Newf(errors.KindMalformedResponse,
			"recipe extraction response missing required fields: %s", strings.Join(missing, ", "))
	}

	cuisine := strings.TrimSpace(raw.Cuisine)
	if cuisine == "" {
		cuisine = "Other"
	}
	tags := raw.DietaryTags
	if tags == nil {
		tags = []string{}
	}

	return &ExtractedRecipe{
		Title:           strings.TrimSpace(*raw.Title),
		Description:     strings.TrimSpace(raw.Description),
		Ingredients:     raw.Ingredients,
		Instructions:    raw.Instructions,
		PrepTimeMinutes: raw.PrepTimeMinutes,
		CookTimeMinutes: raw.CookTimeMinutes,
		Servings:        raw.Servings,
		Cuisine:         cuisine,
		DietaryTags:     tags,
	}, nil
}

var scriptRanges = []struct {
	re       *regexp.Regexp
	language string
}{
	{regexp.MustCompile(`[\x{0590}-\x{05FF}]`), "Hebrew"},
	{regexp.MustCompile(`[\x{0600}-\x{06FF}]`), "Arabic"},
	{regexp.MustCompile(`[\x{4E00}-\x{9FFF}]`), "Chinese"},
	{regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}]`), "Japanese"},
	{regexp.MustCompile(`[\x{AC00}-\x{D7AF}]`), "Korean"},
	{regexp.MustCompile(`[\x{0400}-\x{04FF}]`), "Russian"},
	{regexp.MustCompile(`[\x{0E00}-\x{0E7F}]`), "Thai"},
}

// detectTranscriptLanguage picks a language name for the prompt from the
// script the transcript is written in. Latin script stays unnamed so the
// model keeps whatever language it sees.
func detectTranscriptLanguage(text string) string {
	for _, sr := range scriptRanges {
		if sr.re.MatchString(text) {
			return sr.language
		}
	}
	return "the original language"
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
