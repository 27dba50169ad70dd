// Package services holds the application services behind the HTTP handlers.
package services

import (
	"context"

	"reelscribe/internal/api/v1/dto"
)

// JobService submits jobs and reads their state.
type JobService interface {
	CreateJob(ctx context.Context, url string) (*dto.CreateJobResponse, error)
	GetStatus(ctx context.Context, jobID string) (*dto.JobStatusResponse, error)
	GetResult(ctx context.Context, jobID string) (*dto.JobResultResponse, error)
}

// DownloadService converts one URL to audio synchronously for the legacy
// endpoint.
type DownloadService interface {
	DownloadAudio(ctx context.Context, url string) (audio []byte, filename string, err error)
}
