package recipe

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"reelscribe/internal/app/errors"
	"reelscribe/internal/app/media"
	"reelscribe/internal/app/model"
	"reelscribe/internal/app/platform"
	"reelscribe/internal/app/repository"
	"reelscribe/internal/app/transcribe"
	"reelscribe/internal/config"
)

// Router resolves the platform handler for a URL.
type Router interface {
	GetHandler(url string) (platform.Handler, error)
}

// Converter extracts audio and thumbnail from a downloaded video file.
type Converter interface {
	ConvertToAudio(ctx context.Context, videoPath string) (*media.ConversionResult, error)
}

// ThumbnailStore uploads recipe thumbnails to the public bucket.
type ThumbnailStore interface {
	UploadThumbnail(ctx context.Context, id string, jpeg []byte) (string, error)
}

// Processor runs the recipe extraction pipeline: download, audio extraction,
// transcription and structured recipe extraction, then one transactional save.
type Processor struct {
	router      Router
	converter   Converter
	thumbnails  ThumbnailStore
	transcriber transcribe.Transcriber
	extractor   Extractor
	repo        repository.JobStore
	cfg         config.PipelineConfig
	logger      *slog.Logger
}

func NewProcessor(
	router Router,
	converter Converter,
	thumbnails ThumbnailStore,
	transcriber transcribe.Transcriber,
	extractor Extractor,
	repo repository.JobStore,
	cfg config.PipelineConfig,
	logger *slog.Logger,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		router:      router,
		converter:   converter,
		thumbnails:  thumbnails,
		transcriber: transcriber,
		extractor:   extractor,
		repo:        repo,
		cfg:         cfg,
		logger:      logger,
	}
}

// Process runs recipe extraction for one record. On failure the record is
// marked failed with a human-readable message and the error is returned for
// the worker loop to log.
func (p *Processor) Process(ctx context.Context, recipeID, url, userID string) error {
	start := time.Now()
	logger := p.logger.With("recipe_id", recipeID, "url", url)
	logger.Info("starting recipe extraction")

	if err := p.run(ctx, recipeID, url, userID, logger); err != nil {
		logger.Error("recipe extraction failed", "kind", errors.KindOf(err), "error", err)
		if merr := p.repo.MarkRecipeFailed(ctx, recipeID, err.Error()); merr != nil {
			logger.Error("could not record recipe failure", "error", merr)
		}
		return err
	}

	logger.Info("recipe extraction completed", "elapsed", time.Since(start))
	return nil
}

func (p *Processor) run(ctx context.Context, recipeID, url, userID string, logger *slog.Logger) error {
	handler, err := p.router.GetHandler(url)
	if err != nil {
		return err
	}

	if err := p.repo.MarkRecipeProcessing(ctx, recipeID); err != nil {
		return err
	}

	mctx, cancel := context.WithTimeout(ctx, p.cfg.ProbeTimeout)
	metadata, err := handler.FetchMetadata(mctx, url)
	cancel()
	if err != nil {
		return err
	}
	logger.Info("metadata fetched", "platform", handler.Name(), "title", metadata.Title, "duration", metadata.Duration)

	conversion, err := p.downloadAndConvert(ctx, handler, url, recipeID, metadata)
	if err != nil {
		return err
	}

	// Thumbnail upload is non-fatal; the recipe still completes without one.
	thumbnailRef := ""
	if conversion.Thumbnail != nil {
		tctx, cancel := context.WithTimeout(ctx, p.cfg.ThumbnailTimeout)
		ref, err := p.thumbnails.UploadThumbnail(tctx, recipeID, conversion.Thumbnail)
		cancel()
		if err != nil {
			logger.Warn("thumbnail upload failed (non-fatal)", "error", err)
		} else {
			thumbnailRef = ref
		}
	}

	sctx, cancel := context.WithTimeout(ctx, p.cfg.TranscribeTimeout)
	transcript, err := p.transcriber.Transcribe(sctx, conversion.Audio)
	cancel()
	if err != nil {
		return err
	}
	logger.Info("transcription complete", "language", transcript.Language, "transcript_chars", len(transcript.Text))

	ectx, cancel := context.WithTimeout(ctx, p.cfg.AnalyzeTimeout)
	extracted, err := p.extractor.Extract(ectx, transcript.Text, SourceContext{
		Title:       metadata.Title,
		Description: metadata.Description,
	})
	cancel()
	if err != nil {
		return err
	}

	recipe, ingredients, instructions := mapToRecords(extracted, recipeID, userID, thumbnailRef)
	if err := p.repo.SaveRecipeExtraction(ctx, recipe, ingredients, instructions); err != nil {
		return err
	}

	logger.Info("recipe saved",
		"title", recipe.Title,
		"ingredients", len(ingredients),
		"instructions", len(instructions))
	return nil
}

func (p *Processor) downloadAndConvert(ctx context.Context, handler platform.Handler, url, recipeID string, metadata *platform.Metadata) (*media.ConversionResult, error) {
	scratch, err := os.MkdirTemp("", string(handler.Name())+"_")
	if err != nil {
		return nil, errors.Wrap(errors.KindInternal, err, "preparing working directory")
	}
	defer os.RemoveAll(scratch)

	dctx, cancel := context.WithTimeout(ctx, p.cfg.DownloadTimeout)
	defer cancel()

	target := filepath.Join(scratch, recipeID)
	videoPath, err := handler.DownloadVideo(dctx, url, target, metadata)
	if err != nil {
		return nil, err
	}
	if err := media.VerifyNonEmpty(videoPath); err != nil {
		return nil, err
	}

	return p.converter.ConvertToAudio(ctx, videoPath)
}

// mapToRecords flattens the extractor output into the persistence shapes.
// Ingredient order follows the extraction order.
func mapToRecords(extracted *ExtractedRecipe, recipeID, userID, thumbnailRef string) (*model.Recipe, []model.RecipeIngredient, []model.RecipeInstruction) {
	recipe := &model.Recipe{
		ID:              recipeID,
		UserID:          userID,
		Title:           extracted.Title,
		Description:     extracted.Description,
		PrepTimeMinutes: extracted.PrepTimeMinutes,
		CookTimeMinutes: extracted.CookTimeMinutes,
		Servings:        extracted.Servings,
		Cuisine:         extracted.Cuisine,
		DietaryTags:     extracted.DietaryTags,
		ThumbnailRef:    thumbnailRef,
		Status:          model.RecipeStatusCompleted,
	}

	ingredients := make([]model.RecipeIngredient, 0, len(extracted.Ingredients))
	for i, ing := range extracted.Ingredients {
		ingredients = append(ingredients, model.RecipeIngredient{
			RecipeID:   recipeID,
			RawText:    ing.RawText,
			Item:       ing.Item,
			Quantity:   ing.Quantity,
			Unit:       ing.Unit,
			OrderIndex: i,
		})
	}

	instructions := make([]model.RecipeInstruction, 0, len(extracted.Instructions))
	for _, inst := range extracted.Instructions {
		instructions = append(instructions, model.RecipeInstruction{
			RecipeID:   recipeID,
			StepNumber: inst.Step,
			Text:       inst.Text,
		})
	}

	return recipe, ingredients, instructions
}
