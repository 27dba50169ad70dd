package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"reelscribe/internal/app/model"
)

func TestToExcel(t *testing.T) {
	completed := model.JobResult{
		Job: model.Job{
			ID:        "job-1",
			URL:       "https://www.tiktok.com/@u/video/1",
			Platform:  "tiktok",
			Status:    model.StatusCompleted,
			Metadata:  map[string]interface{}{"title": "a clip"},
			UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		AudioArtifact: &model.AudioArtifact{StorageRef: "minio://temp-audio/job-1_1.mp3", Duration: 41.5},
		Transcript:    &model.Transcript{Text: "hello world", Language: "en"},
		Analysis:      &model.Analysis{Summary: "a greeting", Topics: []string{"greetings", "intro"}, Sentiment: "neutral", Category: "other"},
	}
	// a completed job can still be missing derived records
	sparse := model.JobResult{
		Job: model.Job{ID: "job-2", URL: "https://youtu.be/abc", Platform: "youtube", Status: model.StatusCompleted},
	}

	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, ToExcel([]model.JobResult{completed, sparse}, path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	require.Len(t, sheet.Rows, 3) // header + 2 jobs

	header := sheet.Rows[0]
	assert.Equal(t, "Job ID", header.Cells[0].Value)
	assert.Equal(t, "Transcript", header.Cells[8].Value)

	first := sheet.Rows[1]
	assert.Equal(t, "job-1", first.Cells[0].Value)
	assert.Equal(t, "a clip", first.Cells[3].Value)
	assert.Equal(t, "41.50", first.Cells[4].Value)
	assert.Equal(t, "hello world", first.Cells[8].Value)
	assert.Equal(t, "greetings, intro", first.Cells[10].Value)

	second := sheet.Rows[2]
	assert.Equal(t, "job-2", second.Cells[0].Value)
	assert.Equal(t, "", second.Cells[8].Value)
}

func TestToExcelEmptyResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, ToExcel(nil, path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets[0].Rows, 1)
}
