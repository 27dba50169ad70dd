package model

import (
	"time"
)

// Status is the job lifecycle state. Transitions are linear; failed is
// reachable from any non-terminal state and both terminals are absorbing.
type Status string

const (
	StatusPending              Status = "pending"
	StatusDownloading          Status = "downloading"
	StatusExtractingAudio      Status = "extracting_audio"
	StatusUploading            Status = "uploading"
	StatusTranscribing         Status = "transcribing"
	StatusAnalyzing            Status = "analyzing"
	StatusGeneratingEmbeddings Status = "generating_embeddings"
	StatusStoring              Status = "storing"
	StatusCompleted            Status = "completed"
	StatusFailed               Status = "failed"
)

// statusOrder fixes the linear progression used by CanTransition.
var statusOrder = []Status{
	StatusPending,
	StatusDownloading,
	StatusExtractingAudio,
	StatusUploading,
	StatusTranscribing,
	StatusAnalyzing,
	StatusGeneratingEmbeddings,
	StatusStoring,
	StatusCompleted,
}

// IsTerminal reports whether the status is absorbing.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsValid reports whether s is one of the defined statuses.
func (s Status) IsValid() bool {
	if s == StatusFailed {
		return true
	}
	for _, o := range statusOrder {
		if s == o {
			return true
		}
	}
	return false
}

// rank returns the position of s in the linear progression, -1 for failed.
func (s Status) rank() int {
	for i, o := range statusOrder {
		if s == o {
			return i
		}
	}
	return -1
}

// CanTransition reports whether a job may move from one status to the next.
// Forward moves along the fixed sequence are allowed (also across several
// stages at once is NOT: only the immediate successor), and failed is
// reachable from any non-terminal state.
func CanTransition(from, to Status) bool {
	if from.IsTerminal() {
		return false
	}
	if to == StatusFailed {
		return true
	}
	fr, tr := from.rank(), to.rank()
	if fr < 0 || tr < 0 {
		return false
	}
	return tr == fr+1
}

// Job is one end-to-end request to process a single source URL. It is owned
// by the record store; only the orchestrator mutates it after creation.
type Job struct {
	ID           string                 `json:"id"`
	URL          string                 `json:"url"`
	Platform     string                 `json:"platform,omitempty"`
	Status       Status                 `json:"status"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// AudioArtifact is the stored audio extracted from the source video.
// Written exactly once after the upload stage; immutable afterwards.
type AudioArtifact struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id"`
	StorageRef string    `json:"storage_ref"`
	Duration   float64   `json:"duration"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
}

// Thumbnail is a best-effort enrichment; a job may never have one.
type Thumbnail struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id"`
	StorageRef string    `json:"storage_ref"`
	CreatedAt  time.Time `json:"created_at"`
}

// Segment is one timestamped slice of a transcript.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript belongs to exactly one AudioArtifact.
type Transcript struct {
	ID              string    `json:"id"`
	AudioArtifactID string    `json:"audio_artifact_id"`
	Text            string    `json:"text"`
	Language        string    `json:"language,omitempty"`
	Segments        []Segment `json:"segments,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Sentiment values accepted in an Analysis.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Analysis belongs to exactly one AudioArtifact.
type Analysis struct {
	ID              string    `json:"id"`
	AudioArtifactID string    `json:"audio_artifact_id"`
	Summary         string    `json:"summary"`
	Topics          []string  `json:"topics"`
	Sentiment       string    `json:"sentiment"`
	Category        string    `json:"category"`
	CreatedAt       time.Time `json:"created_at"`
}

// Embedding belongs to exactly one AudioArtifact. The vector dimension is
// fixed by the external embedding service.
type Embedding struct {
	ID              string                 `json:"id"`
	AudioArtifactID string                 `json:"audio_artifact_id"`
	Vector          []float32              `json:"vector,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// JobResult is the fully joined view returned to status/result clients.
// The embedding vector is elided to keep responses small.
type JobResult struct {
	Job           Job            `json:"job"`
	AudioArtifact *AudioArtifact `json:"audio_artifact,omitempty"`
	Thumbnail     *Thumbnail     `json:"thumbnail,omitempty"`
	Transcript    *Transcript    `json:"transcript,omitempty"`
	Analysis      *Analysis      `json:"analysis,omitempty"`
	Embedding     *Embedding     `json:"embedding,omitempty"`
}
