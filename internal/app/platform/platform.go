package platform

import (
	"regexp"
	"strings"
)

// Platform identifies a supported content source.
type Platform string

const (
	Instagram Platform = "instagram"
	TikTok    Platform = "tiktok"
	YouTube   Platform = "youtube"
	Facebook  Platform = "facebook"
	Unknown   Platform = "unknown"
)

var (
	instagramPatterns = []*regexp.Regexp{
		regexp.MustCompile(`instagram\.com/reel/`),
		regexp.MustCompile(`instagram\.com/reels/`),
		regexp.MustCompile(`instagram\.com/p/`),
	}
	tiktokPatterns = []*regexp.Regexp{
		regexp.MustCompile(`tiktok\.com/@[\w.-]+/video/`),
		regexp.MustCompile(`vm\.tiktok\.com/`),
		regexp.MustCompile(`vt\.tiktok\.com/`),
		regexp.MustCompile(`tiktok\.com/t/`),
	}
	youtubePatterns = []*regexp.Regexp{
		regexp.MustCompile(`youtube\.com/shorts/`),
		regexp.MustCompile(`youtu\.be/`),
	}
	facebookPatterns = []*regexp.Regexp{
		regexp.MustCompile(`facebook\.com/reel/`),
		regexp.MustCompile(`facebook\.com/reels/`),
		regexp.MustCompile(`facebook\.com/watch/`),
		regexp.MustCompile(`fb\.watch/`),
		regexp.MustCompile(`m\.facebook\.com/story\.php`),
	}
)

// Detect maps a URL to its platform tag. It is pure and total: any input,
// including the empty string, yields a tag, defaulting to Unknown.
func Detect(url string) Platform {
	url = strings.ToLower(strings.TrimSpace(url))
	if url == "" {
		return Unknown
	}

	for _, p := range instagramPatterns {
		if p.MatchString(url) {
			return Instagram
		}
	}
	for _, p := range tiktokPatterns {
		if p.MatchString(url) {
			return TikTok
		}
	}
	for _, p := range youtubePatterns {
		if p.MatchString(url) {
			return YouTube
		}
	}
	for _, p := range facebookPatterns {
		if p.MatchString(url) {
			return Facebook
		}
	}

	return Unknown
}
