package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "reelscribe/internal/app/errors"
)

func newTestRouter() *Router {
	return NewRouter(
		NewInstagramHandler(nil, nil, nil),
		NewTikTokHandler(nil, nil),
		NewYouTubeHandler(nil, nil),
		NewFacebookHandler(nil, nil),
	)
}

func TestRouterGetHandler(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name string
		url  string
		want Platform
	}{
		{"tiktok", "https://www.tiktok.com/@user/video/123456", TikTok},
		{"instagram", "https://www.instagram.com/reel/ABC12345/", Instagram},
		{"youtube", "https://www.youtube.com/shorts/dQw4w9WgXcQ", YouTube},
		{"facebook", "https://fb.watch/abc123/", Facebook},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := r.GetHandler(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.Name())
		})
	}
}

func TestRouterUnsupportedPlatform(t *testing.T) {
	r := newTestRouter()

	_, err := r.GetHandler("https://example.com/video/123")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnsupportedPlatform, apperrors.KindOf(err))

	_, err = r.FetchMetadata(context.Background(), "https://example.com/video/123")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnsupportedPlatform, apperrors.KindOf(err))
}

func TestRouterValidateURL(t *testing.T) {
	r := newTestRouter()

	assert.True(t, r.ValidateURL("https://www.tiktok.com/@user/video/123456"))
	assert.True(t, r.ValidateURL("https://www.instagram.com/reel/ABC12345/"))
	assert.False(t, r.ValidateURL("https://example.com/clip"))
	// detected platform but handler-invalid shape
	assert.False(t, r.ValidateURL("https://vm.tiktok.com/"))
}
