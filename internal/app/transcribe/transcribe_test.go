package transcribe

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "reelscribe/internal/app/errors"
)

func TestTranscribeRejectsEmptyAudio(t *testing.T) {
	tr := NewWhisperTranscriber(openai.NewClient("sk-test"), nil)

	_, err := tr.Transcribe(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}

func TestClassifyOpenAIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.Kind
	}{
		{"rate limited", &openai.APIError{HTTPStatusCode: 429}, apperrors.KindRateLimited},
		{"server error", &openai.APIError{HTTPStatusCode: 503}, apperrors.KindExternalService},
		{"client error", &openai.APIError{HTTPStatusCode: 400}, apperrors.KindExternalService},
		{"plain error", assert.AnError, apperrors.KindExternalService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyOpenAIError(tt.err, "transcription")
			assert.Equal(t, tt.want, apperrors.KindOf(got))
		})
	}
}
