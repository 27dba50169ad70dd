// Package transcribe turns audio bytes into timestamped transcripts via the
// Whisper API.
package transcribe

import (
	"bytes"
	"context"
	goerrors "errors"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"reelscribe/internal/app/errors"
	"reelscribe/internal/app/model"
)

// Transcriber is the speech-to-text capability.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (*TranscriptData, error)
}

// TranscriptData is the transcriber output before persistence identifiers
// are attached.
type TranscriptData struct {
	Text     string
	Language string
	Segments []model.Segment
}

// WhisperTranscriber calls OpenAI's hosted Whisper model.
type WhisperTranscriber struct {
	client *openai.Client
	logger *slog.Logger
}

func NewWhisperTranscriber(client *openai.Client, logger *slog.Logger) *WhisperTranscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &WhisperTranscriber{client: client, logger: logger}
}

// Transcribe sends the audio as an in-memory mp3 and requests verbose JSON
// so segment timestamps and the detected language come back with the text.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte) (*TranscriptData, error) {
	if len(audio) == 0 {
		return nil, errors.New(errors.KindInternal, "cannot transcribe empty audio")
	}

	t.logger.Info("starting transcription", "audio_bytes", len(audio))

	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audio),
		FilePath: "audio.mp3",
		Format:   openai.AudioResponseFormatVerboseJSON,
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, classifyOpenAIError(err, "transcription")
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, errors.New(errors.KindMalformedResponse, "transcription returned empty text")
	}

	segments := make([]model.Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, model.Segment{
			ID:    s.ID,
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
	}

	t.logger.Info("transcription complete",
		"language", resp.Language,
		"text_chars", len(text),
		"segments", len(segments))

	return &TranscriptData{
		Text:     text,
		Language: resp.Language,
		Segments: segments,
	}, nil
}

// classifyOpenAIError maps API failures onto the pipeline error taxonomy.
func classifyOpenAIError(err error, operation string) error {
	var apiErr *openai.APIError
	if goerrors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return errors.Wrapf(errors.KindRateLimited, err, "%s rate limited", operation)
		case apiErr.HTTPStatusCode >= 500:
			return errors.Wrapf(errors.KindExternalService, err, "%s service error", operation)
		}
	}
	return errors.Wrapf(errors.KindExternalService, err, "%s request failed", operation)
}
