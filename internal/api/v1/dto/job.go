package dto

import "time"

// CreateJobRequest submits one URL for asynchronous processing.
type CreateJobRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// CreateJobResponse acknowledges a queued job.
type CreateJobResponse struct {
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	URL      string `json:"url"`
	Platform string `json:"platform,omitempty"`
}

// JobStatusResponse is the lightweight polling view of a job.
type JobStatusResponse struct {
	JobID        string    `json:"job_id"`
	Status       string    `json:"status"`
	Platform     string    `json:"platform,omitempty"`
	URL          string    `json:"url"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// JobResultResponse is the full joined view of a completed (or in-flight)
// job. Sections are omitted until their stage has run.
type JobResultResponse struct {
	JobID        string                 `json:"job_id"`
	Status       string                 `json:"status"`
	Platform     string                 `json:"platform,omitempty"`
	URL          string                 `json:"url"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Audio        *AudioResponse         `json:"audio,omitempty"`
	Thumbnail    *ThumbnailResponse     `json:"thumbnail,omitempty"`
	Transcript   *TranscriptResponse    `json:"transcript,omitempty"`
	Analysis     *AnalysisResponse      `json:"analysis,omitempty"`
	Embedding    *EmbeddingResponse     `json:"embedding,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// AudioResponse describes the stored audio artifact.
type AudioResponse struct {
	StorageRef string  `json:"storage_ref"`
	Duration   float64 `json:"duration,omitempty"`
	SizeBytes  int64   `json:"size_bytes"`
}

// ThumbnailResponse carries the public thumbnail URL.
type ThumbnailResponse struct {
	URL string `json:"url"`
}

// TranscriptResponse carries the transcript with optional timed segments.
type TranscriptResponse struct {
	Text     string            `json:"text"`
	Language string            `json:"language,omitempty"`
	Segments []SegmentResponse `json:"segments,omitempty"`
}

// SegmentResponse is one timestamped transcript slice.
type SegmentResponse struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// AnalysisResponse carries the content analysis.
type AnalysisResponse struct {
	Summary   string   `json:"summary"`
	Topics    []string `json:"topics"`
	Sentiment string   `json:"sentiment"`
	Category  string   `json:"category"`
}

// EmbeddingResponse carries embedding identifiers and metadata; the vector
// itself is never returned.
type EmbeddingResponse struct {
	ID       string                 `json:"id"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
