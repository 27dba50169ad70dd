package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"reelscribe/internal/api/errors"
	"reelscribe/internal/api/v1/dto"
	"reelscribe/internal/app/model"
	"reelscribe/internal/app/platform"
	"reelscribe/internal/app/queue"
	"reelscribe/internal/app/repository"
	"reelscribe/internal/config"
)

type jobService struct {
	repo   repository.JobStore
	queue  queue.Queue
	cfg    config.QueueConfig
	logger *slog.Logger
}

func NewJobService(repo repository.JobStore, q queue.Queue, cfg config.QueueConfig, logger *slog.Logger) JobService {
	if logger == nil {
		logger = slog.Default()
	}
	return &jobService{repo: repo, queue: q, cfg: cfg, logger: logger}
}

// CreateJob records a pending job and enqueues it. Platform detection at
// submission is best-effort; the worker's router has the final say.
func (s *jobService) CreateJob(ctx context.Context, url string) (*dto.CreateJobResponse, error) {
	jobID := uuid.New().String()

	detected := platform.Detect(url)
	platformName := ""
	if detected != platform.Unknown {
		platformName = string(detected)
	}

	job := &model.Job{
		ID:       jobID,
		URL:      url,
		Platform: platformName,
		Status:   model.StatusPending,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		s.logger.Error("could not create job", "error", err, "url", url)
		return nil, errors.NewInternalError("could not create job")
	}

	msg := queue.JobMessage{JobID: jobID, URL: url}
	if err := s.queue.Publish(ctx, s.cfg.JobQueue, msg); err != nil {
		s.logger.Error("could not enqueue job", "error", err, "job_id", jobID)
		if uerr := s.repo.UpdateJobStatus(ctx, jobID, model.StatusFailed, "could not enqueue job"); uerr != nil {
			s.logger.Error("could not record enqueue failure", "error", uerr, "job_id", jobID)
		}
		return nil, errors.NewInternalError("could not enqueue job")
	}

	s.logger.Info("job queued", "job_id", jobID, "platform", platformName, "url", url)
	return &dto.CreateJobResponse{
		JobID:    jobID,
		Status:   string(model.StatusPending),
		URL:      url,
		Platform: platformName,
	}, nil
}

func (s *jobService) GetStatus(ctx context.Context, jobID string) (*dto.JobStatusResponse, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		s.logger.Error("could not read job", "error", err, "job_id", jobID)
		return nil, errors.NewInternalError("could not read job")
	}
	if job == nil {
		return nil, errors.NewNotFoundError("job")
	}

	return &dto.JobStatusResponse{
		JobID:        job.ID,
		Status:       string(job.Status),
		Platform:     job.Platform,
		URL:          job.URL,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}, nil
}

func (s *jobService) GetResult(ctx context.Context, jobID string) (*dto.JobResultResponse, error) {
	result, err := s.repo.GetFullResult(ctx, jobID)
	if err != nil {
		s.logger.Error("could not read job result", "error", err, "job_id", jobID)
		return nil, errors.NewInternalError("could not read job result")
	}
	if result == nil {
		return nil, errors.NewNotFoundError("job")
	}

	return mapResult(result), nil
}

func mapResult(result *model.JobResult) *dto.JobResultResponse {
	resp := &dto.JobResultResponse{
		JobID:        result.Job.ID,
		Status:       string(result.Job.Status),
		Platform:     result.Job.Platform,
		URL:          result.Job.URL,
		Metadata:     result.Job.Metadata,
		ErrorMessage: result.Job.ErrorMessage,
		CreatedAt:    result.Job.CreatedAt,
		UpdatedAt:    result.Job.UpdatedAt,
	}

	if a := result.AudioArtifact; a != nil {
		resp.Audio = &dto.AudioResponse{
			StorageRef: a.StorageRef,
			Duration:   a.Duration,
			SizeBytes:  a.SizeBytes,
		}
	}
	if t := result.Thumbnail; t != nil {
		resp.Thumbnail = &dto.ThumbnailResponse{URL: t.StorageRef}
	}
	if t := result.Transcript; t != nil {
		resp.Transcript = &dto.TranscriptResponse{
			Text:     t.Text,
			Language: t.Language,
			Segments: lo.Map(t.Segments, func(s model.Segment, _ int) dto.SegmentResponse {
				return dto.SegmentResponse{ID: s.ID, Start: s.Start, End: s.End, Text: s.Text}
			}),
		}
	}
	if a := result.Analysis; a != nil {
		resp.Analysis = &dto.AnalysisResponse{
			Summary:   a.Summary,
			Topics:    a.Topics,
			Sentiment: a.Sentiment,
			Category:  a.Category,
		}
	}
	if e := result.Embedding; e != nil {
		resp.Embedding = &dto.EmbeddingResponse{ID: e.ID, Metadata: e.Metadata}
	}

	return resp
}
