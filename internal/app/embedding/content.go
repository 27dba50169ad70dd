// Package embedding builds the text representation of analyzed content and
// turns it into a vector via a pluggable provider.
package embedding

import "fmt"

// ContentText combines an analysis summary with the raw transcript into the
// canonical embedding input. The fixed shape keeps stored vectors comparable
// across jobs.
func ContentText(summary, transcript string) string {
	return fmt.Sprintf("Summary: %s\n\nTranscript: %s", summary, transcript)
}
