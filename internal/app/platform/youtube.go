package platform

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"reelscribe/internal/app/errors"
	"reelscribe/internal/app/platform/ytdlp"
)

const maxShortDuration = 60

var youtubeExtraArgs = []string{
	"--user-agent",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

var (
	youtubeShortsRe = regexp.MustCompile(`(?i)youtube\.com/shorts/([\w-]+)`)
	youtubeShortURL = regexp.MustCompile(`(?i)youtu\.be/([\w-]+)`)
	youtubeWatchRe  = regexp.MustCompile(`(?i)youtube\.com/watch\?v=([\w-]+)`)
)

// YouTubeHandler serves YouTube Shorts. Regular watch and youtu.be links are
// accepted but must resolve to a video of 60 seconds or less.
type YouTubeHandler struct {
	ytdlp  *ytdlp.Client
	logger *slog.Logger
}

func NewYouTubeHandler(client *ytdlp.Client, logger *slog.Logger) *YouTubeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &YouTubeHandler{ytdlp: client, logger: logger}
}

func (h *YouTubeHandler) Name() Platform { return YouTube }

func (h *YouTubeHandler) ValidateURL(url string) bool {
	url = strings.ToLower(strings.TrimSpace(url))
	if url == "" {
		return false
	}
	return youtubeShortsRe.MatchString(url) ||
		youtubeShortURL.MatchString(url) ||
		youtubeWatchRe.MatchString(url)
}

func (h *YouTubeHandler) ExtractID(url string) (string, error) {
	if !h.ValidateURL(url) {
		return "", errors.New(errors.KindInvalidURL, "invalid YouTube URL: provide a valid YouTube Shorts URL")
	}

	url = strings.TrimSpace(url)
	for _, re := range []*regexp.Regexp{youtubeShortsRe, youtubeShortURL, youtubeWatchRe} {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", errors.New(errors.KindInvalidURL, "could not extract video ID from YouTube URL")
}

func (h *YouTubeHandler) FetchMetadata(ctx context.Context, url string) (*Metadata, error) {
	if url == "" {
		return nil, errors.New(errors.KindInvalidURL, "URL cannot be empty")
	}

	h.logger.Info("fetching youtube metadata", "url", url)

	probe, raw, err := h.ytdlp.Probe(ctx, url, youtubeExtraArgs...)
	if err != nil {
		return nil, err
	}

	// watch and youtu.be links can point at full-length videos; only
	// /shorts/ URLs skip the duration gate.
	if !strings.Contains(strings.ToLower(url), "/shorts/") && !isShort(probe.Duration) {
		return nil, errors.New(errors.KindInvalidURL,
			"this is not a YouTube Short: only videos of 60 seconds or less are supported")
	}

	videoURL := probe.BestVideoURL()
	if videoURL == "" {
		return nil, errors.New(errors.KindExtractionFailed, "could not extract video URL from YouTube metadata")
	}

	title := probe.Title
	if title == "" {
		title = "YouTube Short"
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

func (h *YouTubeHandler) DownloadVideo(ctx context.Context, url, targetPath string, _ *Metadata) (string, error) {
	h.logger.Info("downloading youtube short", "url", url)
	return h.ytdlp.Download(ctx, url, targetPath, youtubeExtraArgs...)
}

func isShort(duration float64) bool {
	return duration > 0 && duration <= maxShortDuration
}
