package errors

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct", New(KindInvalidURL, "bad url"), KindInvalidURL},
		{"wrapped", Wrap(KindDownloadFailed, goerrors.New("eof"), "download interrupted"), KindDownloadFailed},
		{"double wrapped", fmt.Errorf("stage: %w", New(KindRateLimited, "throttled")), KindRateLimited},
		{"plain error", goerrors.New("boom"), KindInternal},
		{"nil cause passthrough", Newf(KindNoAudioStream, "no audio in %s", "clip.mp4"), KindNoAudioStream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(KindUploadFailed, nil, "ignored"))
	assert.Nil(t, Wrapf(KindUploadFailed, nil, "ignored %d", 1))
}

func TestErrorMessage(t *testing.T) {
	base := goerrors.New("connection reset")
	err := Wrap(KindExternalService, base, "transcription request failed")

	assert.Equal(t, "transcription request failed: connection reset", err.Error())
	assert.True(t, goerrors.Is(err, New(KindExternalService, "")))
	assert.ErrorIs(t, err, base)
}

func TestClassification(t *testing.T) {
	assert.True(t, IsClientError(New(KindUnsupportedPlatform, "unknown platform")))
	assert.True(t, IsClientError(New(KindInvalidURL, "not a reel")))
	assert.False(t, IsClientError(New(KindConversionFailed, "ffmpeg exit 1")))

	assert.True(t, IsRetryable(New(KindRateLimited, "429")))
	assert.False(t, IsRetryable(New(KindUnavailable, "private video")))
}
