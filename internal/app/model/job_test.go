package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_ForwardChain(t *testing.T) {
	chain := []Status{
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

	for i := 0; i < len(chain)-1; i++ {
		assert.True(t, CanTransition(chain[i], chain[i+1]),
			"expected %s -> %s to be allowed", chain[i], chain[i+1])
	}
}

func TestCanTransition_NoSkipsOrBackwardMoves(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
	}{
		{"skip from pending to completed", StatusPending, StatusCompleted},
		{"skip a stage", StatusDownloading, StatusUploading},
		{"backward", StatusTranscribing, StatusDownloading},
		{"self loop", StatusUploading, StatusUploading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransition_FailedFromAnyNonTerminal(t *testing.T) {
	for _, from := range []Status{
		StatusPending, StatusDownloading, StatusExtractingAudio, StatusUploading,
		StatusTranscribing, StatusAnalyzing, StatusGeneratingEmbeddings, StatusStoring,
	} {
		assert.True(t, CanTransition(from, StatusFailed), "expected %s -> failed", from)
	}
}

func TestCanTransition_TerminalsAreAbsorbing(t *testing.T) {
	assert.False(t, CanTransition(StatusCompleted, StatusFailed))
	assert.False(t, CanTransition(StatusFailed, StatusPending))
	assert.False(t, CanTransition(StatusCompleted, StatusStoring))
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, StatusStoring.IsTerminal())
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusGeneratingEmbeddings.IsValid())
	assert.True(t, StatusFailed.IsValid())
	assert.False(t, Status("paused").IsValid())
}
