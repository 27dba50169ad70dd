// Package export writes completed job results to an Excel workbook.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/tealeg/xlsx"

	"reelscribe/internal/app/errors"
	"reelscribe/internal/app/model"
)

// ToExcel writes one row per completed job. Columns that have no record
// (a job without an analysis, say) are left blank.
func ToExcel(results []model.JobResult, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Results")
	if err != nil {
		return errors.Wrap(errors.KindInternal, err, "creating results sheet")
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "Job ID"
	headerRow.AddCell().Value = "URL"
	headerRow.AddCell().Value = "Platform"
	headerRow.AddCell().Value = "Title"
	headerRow.AddCell().Value = "Duration"
	headerRow.AddCell().Value = "Completed At"
	headerRow.AddCell().Value = "Audio Ref"
	headerRow.AddCell().Value = "Language"
	headerRow.AddCell().Value = "Transcript"
	headerRow.AddCell().Value = "Summary"
	headerRow.AddCell().Value = "Topics"
	headerRow.AddCell().Value = "Sentiment"
	headerRow.AddCell().Value = "Category"

	for _, r := range results {
		row := sheet.AddRow()
		row.AddCell().Value = r.Job.ID
		row.AddCell().Value = r.Job.URL
		row.AddCell().Value = r.Job.Platform
		row.AddCell().Value = metadataString(r.Job.Metadata, "title")
		row.AddCell().Value = durationString(r)
		row.AddCell().Value = r.Job.UpdatedAt.Format(time.RFC3339)
		if r.AudioArtifact != nil {
			row.AddCell().Value = r.AudioArtifact.StorageRef
		} else {
			row.AddCell().Value = ""
		}
		if r.Transcript != nil {
			row.AddCell().Value = r.Transcript.Language
			row.AddCell().Value = r.Transcript.Text
		} else {
			row.AddCell().Value = ""
			row.AddCell().Value = ""
		}
		if r.Analysis != nil {
			row.AddCell().Value = r.Analysis.Summary
			row.AddCell().Value = strings.Join(r.Analysis.Topics, ", ")
			row.AddCell().Value = r.Analysis.Sentiment
			row.AddCell().Value = r.Analysis.Category
		} else {
			for i := 0; i < 4; i++ {
				row.AddCell().Value = ""
			}
		}
	}

	if err := file.Save(outputFilePath); err != nil {
		return errors.Wrapf(errors.KindInternal, err, "saving workbook to %s", outputFilePath)
	}
	return nil
}

func metadataString(metadata map[string]interface{}, key string) string {
	if metadata == nil {
		return ""
	}
	v, ok := metadata[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func durationString(r model.JobResult) string {
	if r.AudioArtifact != nil && r.AudioArtifact.Duration > 0 {
		return fmt.Sprintf("%.2f", r.AudioArtifact.Duration)
	}
	if v := metadataString(r.Job.Metadata, "duration"); v != "" {
		return v
	}
	return ""
}
