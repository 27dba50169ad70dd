package platform

import (
	"context"

	"reelscribe/internal/app/errors"
)

// Router holds the fixed platform→handler mapping. It is the single place
// where "unsupported platform" is decided.
type Router struct {
	handlers map[Platform]Handler
}

// NewRouter builds a router over the given handlers, keyed by Handler.Name.
func NewRouter(handlers ...Handler) *Router {
	m := make(map[Platform]Handler, len(handlers))
	for _, h := range handlers {
		m[h.Name()] = h
	}
	return &Router{handlers: m}
}

// GetHandler resolves the handler for a URL. Unknown platforms fail with a
// terminal, non-retryable unsupported_platform error.
func (r *Router) GetHandler(url string) (Handler, error) {
	p := Detect(url)
	if p == Unknown {
		return nil, errors.New(errors.KindUnsupportedPlatform,
			"unsupported platform: provide a URL from Instagram Reels, TikTok, YouTube Shorts or Facebook Reels")
	}

	h, ok := r.handlers[p]
	if !ok {
		return nil, errors.Newf(errors.KindUnsupportedPlatform, "no handler registered for platform %q", p)
	}
	return h, nil
}

// ValidateURL reports whether any registered handler accepts the URL.
func (r *Router) ValidateURL(url string) bool {
	h, err := r.GetHandler(url)
	if err != nil {
		return false
	}
	return h.ValidateURL(url)
}

// FetchMetadata resolves the handler, re-validates the URL with it so the
// error message is platform-specific, then delegates.
func (r *Router) FetchMetadata(ctx context.Context, url string) (*Metadata, error) {
	h, err := r.GetHandler(url)
	if err != nil {
		return nil, err
	}

	if !h.ValidateURL(url) {
		return nil, errors.Newf(errors.KindInvalidURL,
			"invalid %s URL: provide a valid %s video URL", h.Name(), h.Name())
	}

	return h.FetchMetadata(ctx, url)
}
