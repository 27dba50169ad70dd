package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "reelscribe/internal/app/errors"
)

func TestTikTokHandlerValidateAndExtract(t *testing.T) {
	h := NewTikTokHandler(nil, nil)

	tests := []struct {
		name    string
		url     string
		valid   bool
		videoID string
	}{
		{"canonical", "https://www.tiktok.com/@therock/video/7312345678901234567", true, "7312345678901234567"},
		{"username with dots", "https://www.tiktok.com/@user.name-1/video/123456", true, "123456"},
		{"vm short link", "https://vm.tiktok.com/ZMabcdef/", true, "ZMabcdef"},
		{"vt short link", "https://vt.tiktok.com/ZSabcdef", true, "ZSabcdef"},
		{"t link", "https://www.tiktok.com/t/ZTabcdef/", true, "ZTabcdef"},
		{"profile url", "https://www.tiktok.com/@therock", false, ""},
		{"other platform", "https://www.instagram.com/reel/ABC12345/", false, ""},
		{"empty", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, h.ValidateURL(tt.url))

			id, err := h.ExtractID(tt.url)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.videoID, id)
			} else {
				require.Error(t, err)
				assert.Equal(t, apperrors.KindInvalidURL, apperrors.KindOf(err))
			}
		})
	}
}

func TestYouTubeHandlerValidateAndExtract(t *testing.T) {
	h := NewYouTubeHandler(nil, nil)

	tests := []struct {
		name    string
		url     string
		valid   bool
		videoID string
	}{
		{"shorts", "https://www.youtube.com/shorts/dQw4w9WgXcQ", true, "dQw4w9WgXcQ"},
		{"youtu.be", "https://youtu.be/dQw4w9WgXcQ", true, "dQw4w9WgXcQ"},
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", true, "dQw4w9WgXcQ"},
		{"channel page", "https://www.youtube.com/@somechannel", false, ""},
		{"empty", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, h.ValidateURL(tt.url))

			id, err := h.ExtractID(tt.url)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.videoID, id)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestIsShort(t *testing.T) {
	assert.True(t, isShort(15))
	assert.True(t, isShort(60))
	assert.False(t, isShort(61))
	assert.False(t, isShort(0))
}

func TestInstagramHandlerExtractID(t *testing.T) {
	h := NewInstagramHandler(nil, nil, nil)

	tests := []struct {
		name   string
		url    string
		want   string
		hasErr bool
	}{
		{"reel with trailing slash", "https://www.instagram.com/reel/ABC12345/", "ABC12345", false},
		{"reels plural", "https://instagram.com/reels/ABC12345", "ABC12345", false},
		{"p format", "https://www.instagram.com/p/XYZ98765/", "XYZ98765", false},
		{"no scheme", "instagram.com/reel/ABC12345", "ABC12345", false},
		{"query params stripped", "https://www.instagram.com/reel/ABC12345/?igsh=xyz", "ABC12345", false},
		{"fragment stripped", "https://www.instagram.com/reel/ABC12345#comments", "ABC12345", false},
		{"shortcode too short", "https://www.instagram.com/reel/AB/", "", true},
		{"profile url", "https://www.instagram.com/someuser/", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := h.ExtractID(tt.url)
			if tt.hasErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.KindInvalidURL, apperrors.KindOf(err))
				assert.False(t, h.ValidateURL(tt.url))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
			assert.True(t, h.ValidateURL(tt.url))
		})
	}
}

func TestFacebookHandlerValidateAndExtract(t *testing.T) {
	h := NewFacebookHandler(nil, nil)

	tests := []struct {
		name    string
		url     string
		valid   bool
		videoID string
	}{
		{"reel", "https://www.facebook.com/reel/1234567890", true, "1234567890"},
		{"reels plural", "https://www.facebook.com/reels/1234567890/", true, "1234567890"},
		{"watch", "https://www.facebook.com/watch/?v=1234567890", true, "1234567890"},
		{"fb.watch", "https://fb.watch/abc-123/", true, "abc-123"},
		{"mobile story", "https://m.facebook.com/story.php?story_fbid=123&id=456", true, "123"},
		{"profile", "https://www.facebook.com/zuck", false, ""},
		{"empty", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, h.ValidateURL(tt.url))

			id, err := h.ExtractID(tt.url)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.videoID, id)
			} else {
				require.Error(t, err)
			}
		})
	}
}
