package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentText(t *testing.T) {
	got := ContentText("A short clip about cooking.", "today we make pasta")
	assert.Equal(t, "Summary: A short clip about cooking.\n\nTranscript: today we make pasta", got)
}
