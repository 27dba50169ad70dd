package pipeline

import (
	"fmt"
	"os"
)

// newScratchDir creates the private working directory for one job. The
// returned cleanup removes it with everything inside; callers defer it so
// the directory disappears on success and failure alike.
func newScratchDir(platformName, jobID string) (string, func(), error) {
	dir, err := os.MkdirTemp("", fmt.Sprintf("%s_%s_", platformName, jobID))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}
