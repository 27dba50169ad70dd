package platform

import (
	"context"
)

// Metadata is the result of probing a source URL without downloading it.
type Metadata struct {
	// VideoURL is a direct CDN link when the platform exposes one. Handlers
	// that must re-enter an extraction session to download leave callers to
	// use DownloadVideo with the original URL instead.
	VideoURL    string
	Title       string
	Duration    float64
	Uploader    string
	Description string
	Raw         map[string]interface{}
}

// Handler is the capability set every platform implements. The pipeline above
// it is platform-agnostic; adding a platform means implementing these five
// operations and registering the handler with the Router.
type Handler interface {
	// ValidateURL pattern-matches against the platform's known URL shapes.
	// Pure, no I/O.
	ValidateURL(url string) bool

	// ExtractID returns a stable per-platform identifier used for logging
	// and dedup. Returns an invalid_url error when the URL does not match.
	ExtractID(url string) (string, error)

	// FetchMetadata calls the external extraction capability.
	FetchMetadata(ctx context.Context, url string) (*Metadata, error)

	// DownloadVideo materializes the source video below targetPath (the
	// handler may append an extension) and returns the actual path written.
	// metadata may carry the result of a prior FetchMetadata call; handlers
	// that download via direct CDN links use its VideoURL.
	DownloadVideo(ctx context.Context, url, targetPath string, metadata *Metadata) (string, error)

	// Name returns the platform tag this handler serves.
	Name() Platform
}
