package pipeline

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelscribe/internal/app/analyze"
	apperrors "reelscribe/internal/app/errors"
	"reelscribe/internal/app/media"
	"reelscribe/internal/app/model"
	"reelscribe/internal/app/platform"
	"reelscribe/internal/app/transcribe"
	"reelscribe/internal/config"
)

type fakeHandler struct {
	name        platform.Platform
	metadataErr error
	downloadErr error
}

func (h *fakeHandler) ValidateURL(string) bool          { return true }
func (h *fakeHandler) ExtractID(string) (string, error) { return "vid-1", nil }
func (h *fakeHandler) Name() platform.Platform          { return h.name }

func (h *fakeHandler) FetchMetadata(context.Context, string) (*platform.Metadata, error) {
	if h.metadataErr != nil {
		return nil, h.metadataErr
	}
	return &platform.Metadata{
		VideoURL: "https://cdn.example.com/v.mp4",
		Title:    "a clip",
		Duration: 42,
		Uploader: "someone",
	}, nil
}

func (h *fakeHandler) DownloadVideo(_ context.Context, _, targetPath string, _ *platform.Metadata) (string, error) {
	if h.downloadErr != nil {
		return "", h.downloadErr
	}
	path := targetPath + ".mp4"
	if err := os.WriteFile(path, []byte("video-bytes"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type fakeRouter struct {
	handler platform.Handler
	err     error
}

func (r *fakeRouter) GetHandler(string) (platform.Handler, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.handler, nil
}

type fakeConverter struct {
	thumbnail []byte
	err       error
}

func (c *fakeConverter) ConvertToAudio(context.Context, string) (*media.ConversionResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &media.ConversionResult{
		Audio:     []byte("mp3-bytes"),
		Filename:  "audio.mp3",
		Duration:  41.5,
		Thumbnail: c.thumbnail,
	}, nil
}

type fakeArtifacts struct {
	audioErr     error
	thumbnailErr error
}

func (a *fakeArtifacts) UploadAudio(_ context.Context, jobID string, _ []byte) (string, string, error) {
	if a.audioErr != nil {
		return "", "", a.audioErr
	}
	return "minio://temp-audio/" + jobID + "_1.mp3", jobID + "_1.mp3", nil
}

func (a *fakeArtifacts) UploadThumbnail(_ context.Context, jobID string, _ []byte) (string, error) {
	if a.thumbnailErr != nil {
		return "", a.thumbnailErr
	}
	return "http://localhost:9000/thumbnails/" + jobID + "_1.jpg", nil
}

type fakeTranscriber struct{ err error }

func (t *fakeTranscriber) Transcribe(context.Context, []byte) (*transcribe.TranscriptData, error) {
	if t.err != nil {
		return nil, t.err
	}
	return &transcribe.TranscriptData{
		Text:     "hello world",
		Language: "en",
		Segments: []model.Segment{{ID: 0, Start: 0, End: 2, Text: "hello world"}},
	}, nil
}

type fakeAnalyzer struct{ err error }

func (a *fakeAnalyzer) Analyze(context.Context, string) (*analyze.AnalysisData, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &analyze.AnalysisData{
		Summary:   "a greeting",
		Topics:    []string{"greetings"},
		Sentiment: "neutral",
		Category:  "other",
	}, nil
}

type fakeEmbedder struct{ err error }

func (e *fakeEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

// fakeRepo records every mutation so tests can assert the status sequence
// and what was persisted.
type fakeRepo struct {
	statuses   []model.Status
	lastError  string
	platform   string
	metadata   map[string]interface{}
	artifacts  []*model.AudioArtifact
	thumbnails []*model.Thumbnail
	transcript *model.Transcript
	analysis   *model.Analysis
	embedding  *model.Embedding
}

func (r *fakeRepo) Close() error                                       { return nil }
func (r *fakeRepo) CreateJob(context.Context, *model.Job) error        { return nil }
func (r *fakeRepo) GetJob(context.Context, string) (*model.Job, error) { return nil, nil }

func (r *fakeRepo) UpdateJobStatus(_ context.Context, _ string, status model.Status, errorMessage string) error {
	r.statuses = append(r.statuses, status)
	if errorMessage != "" {
		r.lastError = errorMessage
	}
	return nil
}

func (r *fakeRepo) UpdateJobMetadata(_ context.Context, _ string, metadata map[string]interface{}) error {
	r.metadata = metadata
	return nil
}

func (r *fakeRepo) SetJobPlatform(_ context.Context, _, platformName string) error {
	r.platform = platformName
	return nil
}

func (r *fakeRepo) StoreAudioArtifact(_ context.Context, a *model.AudioArtifact) error {
	r.artifacts = append(r.artifacts, a)
	return nil
}

func (r *fakeRepo) StoreThumbnail(_ context.Context, t *model.Thumbnail) error {
	r.thumbnails = append(r.thumbnails, t)
	return nil
}

func (r *fakeRepo) StoreTranscript(_ context.Context, t *model.Transcript) error {
	r.transcript = t
	return nil
}

func (r *fakeRepo) StoreAnalysis(_ context.Context, a *model.Analysis) error {
	r.analysis = a
	return nil
}

func (r *fakeRepo) StoreEmbedding(_ context.Context, e *model.Embedding) error {
	r.embedding = e
	return nil
}

func (r *fakeRepo) GetFullResult(context.Context, string) (*model.JobResult, error) { return nil, nil }
func (r *fakeRepo) ListCompletedResults(context.Context) ([]model.JobResult, error) {
	return nil, nil
}
func (r *fakeRepo) MarkRecipeProcessing(context.Context, string) error { return nil }
func (r *fakeRepo) SaveRecipeExtraction(context.Context, *model.Recipe, []model.RecipeIngredient, []model.RecipeInstruction) error {
	return nil
}
func (r *fakeRepo) MarkRecipeFailed(context.Context, string, string) error { return nil }

type fixture struct {
	handler     *fakeHandler
	router      *fakeRouter
	converter   *fakeConverter
	artifacts   *fakeArtifacts
	transcriber *fakeTranscriber
	analyzer    *fakeAnalyzer
	embedder    *fakeEmbedder
	repo        *fakeRepo
	processor   *Processor
}

func newFixture() *fixture {
	f := &fixture{
		handler:     &fakeHandler{name: platform.TikTok},
		converter:   &fakeConverter{thumbnail: []byte{0xff, 0xd8}},
		artifacts:   &fakeArtifacts{},
		transcriber: &fakeTranscriber{},
		analyzer:    &fakeAnalyzer{},
		embedder:    &fakeEmbedder{},
		repo:        &fakeRepo{},
	}
	f.router = &fakeRouter{handler: f.handler}
	f.processor = NewProcessor(
		f.router, f.converter, f.artifacts, f.transcriber, f.analyzer, f.embedder,
		f.repo, config.DefaultPipelineConfig(), NopMetrics(), nil)
	return f
}

func TestProcessHappyPath(t *testing.T) {
	f := newFixture()

	err := f.processor.Process(context.Background(), "job-1", "https://www.tiktok.com/@u/video/1")
	require.NoError(t, err)

	assert.Equal(t, []model.Status{
		model.StatusDownloading,
		model.StatusExtractingAudio,
		model.StatusUploading, // thumbnail
		model.StatusUploading, // audio
		model.StatusTranscribing,
		model.StatusAnalyzing,
		model.StatusGeneratingEmbeddings,
		model.StatusStoring,
		model.StatusCompleted,
	}, f.repo.statuses)

	assert.Equal(t, "tiktok", f.repo.platform)
	assert.Equal(t, "a clip", f.repo.metadata["title"])
	assert.Empty(t, f.repo.lastError)

	require.Len(t, f.repo.artifacts, 1)
	artifact := f.repo.artifacts[0]
	assert.Equal(t, "job-1", artifact.JobID)
	assert.Equal(t, int64(len("mp3-bytes")), artifact.SizeBytes)
	assert.Equal(t, 41.5, artifact.Duration)

	require.Len(t, f.repo.thumbnails, 1)
	require.NotNil(t, f.repo.transcript)
	assert.Equal(t, artifact.ID, f.repo.transcript.AudioArtifactID)
	require.NotNil(t, f.repo.analysis)
	assert.Equal(t, "a greeting", f.repo.analysis.Summary)
	require.NotNil(t, f.repo.embedding)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, f.repo.embedding.Vector)
	assert.Equal(t, "a greeting", f.repo.embedding.Metadata["summary"])
}

func TestProcessThumbnailFailureIsNonFatal(t *testing.T) {
	f := newFixture()
	f.artifacts.thumbnailErr = apperrors.New(apperrors.KindUploadFailed, "bucket unavailable")

	err := f.processor.Process(context.Background(), "job-1", "https://www.tiktok.com/@u/video/1")
	require.NoError(t, err)

	assert.Empty(t, f.repo.thumbnails)
	assert.Equal(t, model.StatusCompleted, f.repo.statuses[len(f.repo.statuses)-1])
	require.NotNil(t, f.repo.embedding)
}

func TestProcessNoThumbnailExtracted(t *testing.T) {
	f := newFixture()
	f.converter.thumbnail = nil

	err := f.processor.Process(context.Background(), "job-1", "https://www.tiktok.com/@u/video/1")
	require.NoError(t, err)

	assert.Empty(t, f.repo.thumbnails)
	// no thumbnail means exactly one uploading transition
	uploads := 0
	for _, s := range f.repo.statuses {
		if s == model.StatusUploading {
			uploads++
		}
	}
	assert.Equal(t, 1, uploads)
}

func TestProcessTranscriptionFailureKeepsArtifact(t *testing.T) {
	f := newFixture()
	f.transcriber.err = apperrors.New(apperrors.KindExternalService, "whisper unavailable")

	err := f.processor.Process(context.Background(), "job-1", "https://www.tiktok.com/@u/video/1")
	require.Error(t, err)

	// the uploaded artifact survives the failure; no rollback
	require.Len(t, f.repo.artifacts, 1)
	assert.Nil(t, f.repo.transcript)

	last := f.repo.statuses[len(f.repo.statuses)-1]
	assert.Equal(t, model.StatusFailed, last)
	assert.NotEmpty(t, f.repo.lastError)
}

func TestProcessUnsupportedPlatformFailsFast(t *testing.T) {
	f := newFixture()
	f.router.err = apperrors.New(apperrors.KindUnsupportedPlatform, "unsupported platform")

	err := f.processor.Process(context.Background(), "job-1", "https://example.com/clip")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnsupportedPlatform, apperrors.KindOf(err))

	// only the terminal failed status was written
	assert.Equal(t, []model.Status{model.StatusFailed}, f.repo.statuses)
	assert.Contains(t, f.repo.lastError, "unsupported platform")
}

func TestProcessMetadataFailure(t *testing.T) {
	f := newFixture()
	f.handler.metadataErr = apperrors.New(apperrors.KindUnavailable, "content is private")

	err := f.processor.Process(context.Background(), "job-1", "https://www.tiktok.com/@u/video/1")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnavailable, apperrors.KindOf(err))

	assert.Equal(t, []model.Status{model.StatusDownloading, model.StatusFailed}, f.repo.statuses)
	assert.Equal(t, "content is private", f.repo.lastError)
	assert.Empty(t, f.repo.artifacts)
}

func TestProcessDownloadFailure(t *testing.T) {
	f := newFixture()
	f.handler.downloadErr = apperrors.New(apperrors.KindDownloadFailed, "empty file")

	err := f.processor.Process(context.Background(), "job-1", "https://www.tiktok.com/@u/video/1")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindDownloadFailed, apperrors.KindOf(err))
	assert.Equal(t, model.StatusFailed, f.repo.statuses[len(f.repo.statuses)-1])
}

func TestProcessAnalysisMalformedResponse(t *testing.T) {
	f := newFixture()
	f.analyzer.err = apperrors.New(apperrors.KindMalformedResponse, "analysis response missing required fields: summary")

	err := f.processor.Process(context.Background(), "job-1", "https://www.tiktok.com/@u/video/1")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindMalformedResponse, apperrors.KindOf(err))

	// transcript persisted before the failing stage is retained
	require.NotNil(t, f.repo.transcript)
	assert.Nil(t, f.repo.analysis)
	assert.Nil(t, f.repo.embedding)
}
