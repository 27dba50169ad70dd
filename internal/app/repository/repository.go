// Package repository defines the persistence boundary of the pipeline.
// Implementations live in pg and sqlite.
package repository

import (
	"context"

	"reelscribe/internal/app/model"
)

// JobStore is the persistence capability for jobs, their derived artifacts
// and recipe extractions.
type JobStore interface {
	Close() error

	CreateJob(ctx context.Context, job *model.Job) error
	GetJob(ctx context.Context, jobID string) (*model.Job, error)
	UpdateJobStatus(ctx context.Context, jobID string, status model.Status, errorMessage string) error
	UpdateJobMetadata(ctx context.Context, jobID string, metadata map[string]interface{}) error
	SetJobPlatform(ctx context.Context, jobID, platform string) error

	StoreAudioArtifact(ctx context.Context, artifact *model.AudioArtifact) error
	StoreThumbnail(ctx context.Context, thumbnail *model.Thumbnail) error
	StoreTranscript(ctx context.Context, transcript *model.Transcript) error
	StoreAnalysis(ctx context.Context, analysis *model.Analysis) error
	StoreEmbedding(ctx context.Context, embedding *model.Embedding) error

	// GetFullResult joins the job with everything derived from it. The
	// embedding vector is elided. Returns nil when the job does not exist.
	GetFullResult(ctx context.Context, jobID string) (*model.JobResult, error)

	// ListCompletedResults returns full results of completed jobs, newest
	// first, for export.
	ListCompletedResults(ctx context.Context) ([]model.JobResult, error)

	MarkRecipeProcessing(ctx context.Context, recipeID string) error
	SaveRecipeExtraction(ctx context.Context, recipe *model.Recipe, ingredients []model.RecipeIngredient, instructions []model.RecipeInstruction) error
	MarkRecipeFailed(ctx context.Context, recipeID, errorMessage string) error
}
