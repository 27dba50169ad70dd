// Package pipeline orchestrates the full processing of one job: metadata,
// download, audio extraction, upload, transcription, analysis, embedding and
// persistence.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"reelscribe/internal/app/analyze"
	"reelscribe/internal/app/embedding"
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

// ArtifactStore uploads pipeline artifacts to object storage.
type ArtifactStore interface {
	UploadAudio(ctx context.Context, jobID string, audio []byte) (ref string, objectPath string, err error)
	UploadThumbnail(ctx context.Context, jobID string, jpeg []byte) (string, error)
}

// Embedder generates an embedding vector for text.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Processor runs the job pipeline. One Processor serves many jobs; it holds
// no per-job state.
type Processor struct {
	router      Router
	converter   Converter
	artifacts   ArtifactStore
	transcriber transcribe.Transcriber
	analyzer    analyze.Analyzer
	embedder    Embedder
	repo        repository.JobStore
	cfg         config.PipelineConfig
	metrics     *Metrics
	logger      *slog.Logger
}

func NewProcessor(
	router Router,
	converter Converter,
	artifacts ArtifactStore,
	transcriber transcribe.Transcriber,
	analyzer analyze.Analyzer,
	embedder Embedder,
	repo repository.JobStore,
	cfg config.PipelineConfig,
	metrics *Metrics,
	logger *slog.Logger,
) *Processor {
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		router:      router,
		converter:   converter,
		artifacts:   artifacts,
		transcriber: transcriber,
		analyzer:    analyzer,
		embedder:    embedder,
		repo:        repo,
		cfg:         cfg,
		metrics:     metrics,
		logger:      logger,
	}
}

// Process runs the full pipeline for one job. On any fatal stage error the
// job is marked failed with a human-readable message, and the error is
// returned so the worker loop can log it; the worker never crashes over a
// single job.
func (p *Processor) Process(ctx context.Context, jobID, url string) error {
	start := time.Now()
	logger := p.logger.With("job_id", jobID, "url", url)
	logger.Info("starting job")

	if err := p.run(ctx, jobID, url, logger); err != nil {
		kind := errors.KindOf(err)
		logger.Error("job failed", "kind", kind, "error", err)
		p.metrics.jobsFailed.WithLabelValues(string(kind)).Inc()

		if uerr := p.repo.UpdateJobStatus(ctx, jobID, model.StatusFailed, err.Error()); uerr != nil {
			logger.Error("could not record job failure", "error", uerr)
		}
		return err
	}

	p.metrics.jobsCompleted.Inc()
	p.metrics.jobDuration.Observe(time.Since(start).Seconds())
	logger.Info("job completed", "elapsed", time.Since(start))
	return nil
}

func (p *Processor) run(ctx context.Context, jobID, url string, logger *slog.Logger) error {
	handler, err := p.router.GetHandler(url)
	if err != nil {
		return err
	}
	platformName := string(handler.Name())

	if err := p.repo.SetJobPlatform(ctx, jobID, platformName); err != nil {
		logger.Warn("could not record job platform", "error", err)
	}

	if err := p.repo.UpdateJobStatus(ctx, jobID, model.StatusDownloading, ""); err != nil {
		return err
	}

	metadata, err := p.fetchMetadata(ctx, handler, url)
	if err != nil {
		return err
	}

	if err := p.repo.UpdateJobMetadata(ctx, jobID, map[string]interface{}{
		"title":       metadata.Title,
		"duration":    metadata.Duration,
		"uploader":    metadata.Uploader,
		"description": metadata.Description,
	}); err != nil {
		return err
	}
	logger.Info("metadata fetched", "platform", platformName, "title", metadata.Title, "duration", metadata.Duration)

	if err := p.repo.UpdateJobStatus(ctx, jobID, model.StatusExtractingAudio, ""); err != nil {
		return err
	}

	scratch, cleanup, err := newScratchDir(platformName, jobID)
	if err != nil {
		return errors.Wrap(errors.KindInternal, err, "preparing working directory")
	}
	defer cleanup()

	conversion, err := p.downloadAndConvert(ctx, handler, url, jobID, scratch, metadata)
	if err != nil {
		return err
	}

	// Thumbnail upload is non-fatal: a job without a thumbnail still
	// completes.
	if conversion.Thumbnail != nil {
		p.uploadThumbnail(ctx, jobID, conversion.Thumbnail, logger)
	}

	artifact, err := p.uploadAudio(ctx, jobID, conversion, metadata)
	if err != nil {
		return err
	}
	logger.Info("audio uploaded", "storage_ref", artifact.StorageRef, "size_bytes", artifact.SizeBytes)

	transcript, err := p.transcribeAudio(ctx, jobID, artifact.ID, conversion.Audio)
	if err != nil {
		return err
	}
	logger.Info("transcription stored", "transcript_id", transcript.ID, "language", transcript.Language)

	analysis, err := p.analyzeTranscript(ctx, jobID, artifact.ID, transcript.Text)
	if err != nil {
		return err
	}
	logger.Info("analysis stored", "analysis_id", analysis.ID, "category", analysis.Category, "sentiment", analysis.Sentiment)

	if err := p.embedContent(ctx, jobID, artifact.ID, transcript.Text, analysis); err != nil {
		return err
	}

	if err := p.repo.UpdateJobStatus(ctx, jobID, model.StatusStoring, ""); err != nil {
		return err
	}
	return p.repo.UpdateJobStatus(ctx, jobID, model.StatusCompleted, "")
}

func (p *Processor) fetchMetadata(ctx context.Context, handler platform.Handler, url string) (*platform.Metadata, error) {
	defer p.observeStage("probe")()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.ProbeTimeout)
	defer cancel()
	return handler.FetchMetadata(ctx, url)
}

func (p *Processor) downloadAndConvert(ctx context.Context, handler platform.Handler, url, jobID, scratch string, metadata *platform.Metadata) (*media.ConversionResult, error) {
	downloadDone := p.observeStage("download")

	dctx, cancel := context.WithTimeout(ctx, p.cfg.DownloadTimeout)
	defer cancel()

	target := filepath.Join(scratch, jobID)
	videoPath, err := handler.DownloadVideo(dctx, url, target, metadata)
	if err != nil {
		return nil, err
	}
	if err := media.VerifyNonEmpty(videoPath); err != nil {
		return nil, err
	}
	downloadDone()

	defer p.observeStage("convert")()
	return p.converter.ConvertToAudio(ctx, videoPath)
}

func (p *Processor) uploadThumbnail(ctx context.Context, jobID string, thumbnail []byte, logger *slog.Logger) {
	defer p.observeStage("thumbnail")()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.ThumbnailTimeout)
	defer cancel()

	if err := p.repo.UpdateJobStatus(ctx, jobID, model.StatusUploading, ""); err != nil {
		logger.Warn("thumbnail status update failed (non-fatal)", "error", err)
		return
	}

	ref, err := p.artifacts.UploadThumbnail(ctx, jobID, thumbnail)
	if err != nil {
		logger.Warn("thumbnail upload failed (non-fatal)", "error", err)
		return
	}

	record := &model.Thumbnail{ID: uuid.New().String(), JobID: jobID, StorageRef: ref}
	if err := p.repo.StoreThumbnail(ctx, record); err != nil {
		logger.Warn("thumbnail record failed (non-fatal)", "error", err)
		return
	}
	logger.Info("thumbnail uploaded", "thumbnail_url", ref)
}

func (p *Processor) uploadAudio(ctx context.Context, jobID string, conversion *media.ConversionResult, metadata *platform.Metadata) (*model.AudioArtifact, error) {
	defer p.observeStage("upload")()

	if err := p.repo.UpdateJobStatus(ctx, jobID, model.StatusUploading, ""); err != nil {
		return nil, err
	}

	uctx, cancel := context.WithTimeout(ctx, p.cfg.UploadTimeout)
	defer cancel()

	ref, _, err := p.artifacts.UploadAudio(uctx, jobID, conversion.Audio)
	if err != nil {
		return nil, err
	}

	duration := conversion.Duration
	if duration == 0 {
		duration = metadata.Duration
	}

	artifact := &model.AudioArtifact{
		ID:         uuid.New().String(),
		JobID:      jobID,
		StorageRef: ref,
		Duration:   duration,
		SizeBytes:  int64(len(conversion.Audio)),
	}
	if err := p.repo.StoreAudioArtifact(ctx, artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

func (p *Processor) transcribeAudio(ctx context.Context, jobID, artifactID string, audio []byte) (*model.Transcript, error) {
	defer p.observeStage("transcribe")()

	if err := p.repo.UpdateJobStatus(ctx, jobID, model.StatusTranscribing, ""); err != nil {
		return nil, err
	}

	tctx, cancel := context.WithTimeout(ctx, p.cfg.TranscribeTimeout)
	defer cancel()

	result, err := p.transcriber.Transcribe(tctx, audio)
	if err != nil {
		return nil, err
	}

	transcript := &model.Transcript{
		ID:              uuid.New().String(),
		AudioArtifactID: artifactID,
		Text:            result.Text,
		Language:        result.Language,
		Segments:        result.Segments,
	}
	if err := p.repo.StoreTranscript(ctx, transcript); err != nil {
		return nil, err
	}
	return transcript, nil
}

func (p *Processor) analyzeTranscript(ctx context.Context, jobID, artifactID, text string) (*model.Analysis, error) {
	defer p.observeStage("analyze")()

	if err := p.repo.UpdateJobStatus(ctx, jobID, model.StatusAnalyzing, ""); err != nil {
		return nil, err
	}

	actx, cancel := context.WithTimeout(ctx, p.cfg.AnalyzeTimeout)
	defer cancel()

	result, err := p.analyzer.Analyze(actx, text)
	if err != nil {
		return nil, err
	}

	analysis := &model.Analysis{
		ID:              uuid.New().String(),
		AudioArtifactID: artifactID,
		Summary:         result.Summary,
		Topics:          result.Topics,
		Sentiment:       result.Sentiment,
		Category:        result.Category,
	}
	if err := p.repo.StoreAnalysis(ctx, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

func (p *Processor) embedContent(ctx context.Context, jobID, artifactID, transcript string, analysis *model.Analysis) error {
	defer p.observeStage("embed")()

	if err := p.repo.UpdateJobStatus(ctx, jobID, model.StatusGeneratingEmbeddings, ""); err != nil {
		return err
	}

	ectx, cancel := context.WithTimeout(ctx, p.cfg.EmbedTimeout)
	defer cancel()

	vector, err := p.embedder.GenerateEmbedding(ectx, embedding.ContentText(analysis.Summary, transcript))
	if err != nil {
		return err
	}

	return p.repo.StoreEmbedding(ctx, &model.Embedding{
		ID:              uuid.New().String(),
		AudioArtifactID: artifactID,
		Vector:          vector,
		Metadata: map[string]interface{}{
			"summary":   analysis.Summary,
			"category":  analysis.Category,
			"sentiment": analysis.Sentiment,
		},
	})
}

func (p *Processor) observeStage(stage string) func() {
	start := time.Now()
	return func() {
		p.metrics.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}
