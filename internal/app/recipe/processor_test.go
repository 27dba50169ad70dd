package recipe

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "reelscribe/internal/app/errors"
	"reelscribe/internal/app/media"
	"reelscribe/internal/app/model"
	"reelscribe/internal/app/platform"
	"reelscribe/internal/app/transcribe"
	"reelscribe/internal/config"
)

type stubHandler struct{ metadataErr error }

func (h *stubHandler) ValidateURL(string) bool          { return true }
func (h *stubHandler) ExtractID(string) (string, error) { return "abc12", nil }
func (h *stubHandler) Name() platform.Platform          { return platform.Instagram }

func (h *stubHandler) FetchMetadata(context.Context, string) (*platform.Metadata, error) {
	if h.metadataErr != nil {
		return nil, h.metadataErr
	}
	return &platform.Metadata{Title: "pasta night", Description: "easy garlic pasta", Duration: 33}, nil
}

func (h *stubHandler) DownloadVideo(_ context.Context, _, targetPath string, _ *platform.Metadata) (string, error) {
	path := targetPath + ".mp4"
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type stubRouter struct{ handler platform.Handler }

func (r *stubRouter) GetHandler(string) (platform.Handler, error) { return r.handler, nil }

type stubConverter struct{ thumbnail []byte }

func (c *stubConverter) ConvertToAudio(context.Context, string) (*media.ConversionResult, error) {
	return &media.ConversionResult{Audio: []byte("mp3"), Filename: "audio.mp3", Duration: 33, Thumbnail: c.thumbnail}, nil
}

type stubThumbnails struct{ err error }

func (s *stubThumbnails) UploadThumbnail(_ context.Context, id string, _ []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "http://localhost:9000/thumbnails/" + id + ".jpg", nil
}

type stubTranscriber struct{ err error }

func (s *stubTranscriber) Transcribe(context.Context, []byte) (*transcribe.TranscriptData, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &transcribe.TranscriptData{Text: "boil pasta, fry garlic", Language: "en"}, nil
}

type stubExtractor struct {
	err    error
	source SourceContext
}

func (s *stubExtractor) Extract(_ context.Context, _ string, source SourceContext) (*ExtractedRecipe, error) {
	s.source = source
	if s.err != nil {
		return nil, s.err
	}
	quantity := 200.0
	return &ExtractedRecipe{
		Title:        "Garlic Pasta",
		Description:  "quick pasta",
		Ingredients:  []Ingredient{{Item: "pasta", Quantity: &quantity, Unit: "g", RawText: "200g pasta"}},
		Instructions: []Instruction{{Step: 1, Text: "Boil the pasta."}},
		Cuisine:      "Italian",
		DietaryTags:  []string{"vegetarian"},
	}, nil
}

type recipeRepo struct {
	processing   []string
	failed       map[string]string
	saved        *model.Recipe
	ingredients  []model.RecipeIngredient
	instructions []model.RecipeInstruction
}

func newRecipeRepo() *recipeRepo { return &recipeRepo{failed: map[string]string{}} }

func (r *recipeRepo) Close() error                                       { return nil }
func (r *recipeRepo) CreateJob(context.Context, *model.Job) error        { return nil }
func (r *recipeRepo) GetJob(context.Context, string) (*model.Job, error) { return nil, nil }
func (r *recipeRepo) UpdateJobStatus(context.Context, string, model.Status, string) error {
	return nil
}
func (r *recipeRepo) UpdateJobMetadata(context.Context, string, map[string]interface{}) error {
	return nil
}
func (r *recipeRepo) SetJobPlatform(context.Context, string, string) error            { return nil }
func (r *recipeRepo) StoreAudioArtifact(context.Context, *model.AudioArtifact) error  { return nil }
func (r *recipeRepo) StoreThumbnail(context.Context, *model.Thumbnail) error          { return nil }
func (r *recipeRepo) StoreTranscript(context.Context, *model.Transcript) error        { return nil }
func (r *recipeRepo) StoreAnalysis(context.Context, *model.Analysis) error            { return nil }
func (r *recipeRepo) StoreEmbedding(context.Context, *model.Embedding) error          { return nil }
func (r *recipeRepo) GetFullResult(context.Context, string) (*model.JobResult, error) { return nil, nil }
func (r *recipeRepo) ListCompletedResults(context.Context) ([]model.JobResult, error) {
	return nil, nil
}

func (r *recipeRepo) MarkRecipeProcessing(_ context.Context, recipeID string) error {
	r.processing = append(r.processing, recipeID)
	return nil
}

func (r *recipeRepo) SaveRecipeExtraction(_ context.Context, recipe *model.Recipe, ingredients []model.RecipeIngredient, instructions []model.RecipeInstruction) error {
	r.saved = recipe
	r.ingredients = ingredients
	r.instructions = instructions
	return nil
}

func (r *recipeRepo) MarkRecipeFailed(_ context.Context, recipeID, errorMessage string) error {
	r.failed[recipeID] = errorMessage
	return nil
}

type recipeFixture struct {
	handler     *stubHandler
	transcriber *stubTranscriber
	extractor   *stubExtractor
	thumbnails  *stubThumbnails
	repo        *recipeRepo
	processor   *Processor
}

func newRecipeFixture() *recipeFixture {
	f := &recipeFixture{
		handler:     &stubHandler{},
		transcriber: &stubTranscriber{},
		extractor:   &stubExtractor{},
		thumbnails:  &stubThumbnails{},
		repo:        newRecipeRepo(),
	}
	f.processor = NewProcessor(
		&stubRouter{handler: f.handler},
		&stubConverter{thumbnail: []byte{0xff, 0xd8}},
		f.thumbnails, f.transcriber, f.extractor,
		f.repo, config.DefaultPipelineConfig(), nil)
	return f
}

func TestProcessRecipeHappyPath(t *testing.T) {
	f := newRecipeFixture()

	err := f.processor.Process(context.Background(), "rec-1", "https://www.instagram.com/reel/abc12/", "user-9")
	require.NoError(t, err)

	assert.Equal(t, []string{"rec-1"}, f.repo.processing)
	require.NotNil(t, f.repo.saved)
	assert.Equal(t, "rec-1", f.repo.saved.ID)
	assert.Equal(t, "user-9", f.repo.saved.UserID)
	assert.Equal(t, "Garlic Pasta", f.repo.saved.Title)
	assert.Equal(t, model.RecipeStatusCompleted, f.repo.saved.Status)
	assert.Contains(t, f.repo.saved.ThumbnailRef, "rec-1")

	require.Len(t, f.repo.ingredients, 1)
	assert.Equal(t, 0, f.repo.ingredients[0].OrderIndex)
	assert.Equal(t, "200g pasta", f.repo.ingredients[0].RawText)
	require.Len(t, f.repo.instructions, 1)
	assert.Equal(t, 1, f.repo.instructions[0].StepNumber)

	// video metadata is threaded into the extraction context
	assert.Equal(t, "pasta night", f.extractor.source.Title)
	assert.Equal(t, "easy garlic pasta", f.extractor.source.Description)

	assert.Empty(t, f.repo.failed)
}

func TestProcessRecipeThumbnailFailureIsNonFatal(t *testing.T) {
	f := newRecipeFixture()
	f.thumbnails.err = apperrors.New(apperrors.KindUploadFailed, "bucket unavailable")

	err := f.processor.Process(context.Background(), "rec-1", "https://www.instagram.com/reel/abc12/", "user-9")
	require.NoError(t, err)

	require.NotNil(t, f.repo.saved)
	assert.Empty(t, f.repo.saved.ThumbnailRef)
}

func TestProcessRecipeNotARecipe(t *testing.T) {
	f := newRecipeFixture()
	f.extractor.err = apperrors.New(apperrors.KindNotARecipe, "this video does not contain recipe content")

	err := f.processor.Process(context.Background(), "rec-1", "https://www.instagram.com/reel/abc12/", "user-9")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotARecipe, apperrors.KindOf(err))

	assert.Nil(t, f.repo.saved)
	assert.Contains(t, f.repo.failed["rec-1"], "recipe content")
}

func TestProcessRecipeTranscriptionFailure(t *testing.T) {
	f := newRecipeFixture()
	f.transcriber.err = apperrors.New(apperrors.KindExternalService, "whisper unavailable")

	err := f.processor.Process(context.Background(), "rec-1", "https://www.instagram.com/reel/abc12/", "user-9")
	require.Error(t, err)

	assert.Nil(t, f.repo.saved)
	assert.NotEmpty(t, f.repo.failed["rec-1"])
}
