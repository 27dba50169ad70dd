package platform

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"reelscribe/internal/app/errors"
	"reelscribe/internal/app/platform/ytdlp"
)

var facebookExtraArgs = []string{
	"--user-agent",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"--add-header", "Referer:https://www.facebook.com/",
	"--add-header", "Origin:https://www.facebook.com",
}

var (
	facebookReelRe  = regexp.MustCompile(`(?i)facebook\.com/reels?/([\w-]+)`)
	facebookWatchRe = regexp.MustCompile(`(?i)facebook\.com/watch/\?v=(\d+)`)
	facebookFbRe    = regexp.MustCompile(`(?i)fb\.watch/([\w-]+)`)
	facebookStoryRe = regexp.MustCompile(`(?i)m\.facebook\.com/story\.php`)
	facebookStoryID = regexp.MustCompile(`(?i)story\.php\?.*?(?:story_fbid|video_id)=(\d+)`)
)

// FacebookHandler serves Facebook Reels, watch pages and fb.watch short
// links.
type FacebookHandler struct {
	ytdlp  *ytdlp.Client
	logger *slog.Logger
}

func NewFacebookHandler(client *ytdlp.Client, logger *slog.Logger) *FacebookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FacebookHandler{ytdlp: client, logger: logger}
}

func (h *FacebookHandler) Name() Platform { return Facebook }

func (h *FacebookHandler) ValidateURL(url string) bool {
	url = strings.ToLower(strings.TrimSpace(url))
	if url == "" {
		return false
	}
	return facebookReelRe.MatchString(url) ||
		facebookWatchRe.MatchString(url) ||
		facebookFbRe.MatchString(url) ||
		facebookStoryRe.MatchString(url)
}

func (h *FacebookHandler) ExtractID(url string) (string, error) {
	if !h.ValidateURL(url) {
		return "", errors.New(errors.KindInvalidURL, "invalid Facebook URL: provide a valid Facebook Reel URL")
	}

	url = strings.TrimSpace(url)
	for _, re := range []*regexp.Regexp{facebookReelRe, facebookWatchRe, facebookFbRe, facebookStoryID} {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", errors.New(errors.KindInvalidURL, "could not extract video identifier from Facebook URL")
}

func (h *FacebookHandler) FetchMetadata(ctx context.Context, url string) (*Metadata, error) {
	if url == "" {
		return nil, errors.New(errors.KindInvalidURL, "URL cannot be empty")
	}

	h.logger.Info("fetching facebook metadata", "url", url)

	probe, raw, err := h.ytdlp.Probe(ctx, url, facebookExtraArgs...)
	if err != nil {
		return nil, err
	}

	videoURL := probe.BestVideoURL()
	if videoURL == "" {
		return nil, errors.New(errors.KindExtractionFailed, "could not extract direct Facebook video URL")
	}

	title := probe.Title
	if title == "" {
		title = "Facebook Reel"
	}

	uploader := probe.Uploader
	if uploader == "" {
		uploader = probe.Channel
	}

	return &Metadata{
		VideoURL:    videoURL,
		Title:       title,
		Duration:    probe.Duration,
		Uploader:    uploader,
		Description: probe.Description,
		Raw:         raw,
	}, nil
}

// DownloadVideo goes through yt-dlp with the same headers as the metadata
// probe so signed CDN URLs do not expire between the two calls.
func (h *FacebookHandler) DownloadVideo(ctx context.Context, url, targetPath string, _ *Metadata) (string, error) {
	h.logger.Info("downloading facebook reel", "url", url)
	return h.ytdlp.Download(ctx, url, targetPath, facebookExtraArgs...)
}
