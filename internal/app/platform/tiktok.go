package platform

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"reelscribe/internal/app/errors"
	"reelscribe/internal/app/platform/ytdlp"
)

// TikTok's web endpoints block anonymous extraction; the mobile API accepts
// requests that look like the official iOS app.
var tiktokExtraArgs = []string{
	"--user-agent",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1",
	"--extractor-args",
	"tiktok:api_hostname=api16-normal-c-useast1a.tiktokv.com;app_name=musical_ly;app_version=30.0.0;manifest_app_version=30.0.0;iid=7318518857994389254;device_id=7318517321748022273",
	"--add-header", "Referer:https://www.tiktok.com/",
	"--add-header", "Origin:https://www.tiktok.com",
}

var (
	tiktokCanonicalRe = regexp.MustCompile(`(?i)tiktok\.com/@[\w.-]+/video/(\d+)`)
	tiktokShortRe     = regexp.MustCompile(`(?i)(?:vm|vt)\.tiktok\.com/(\w+)`)
	tiktokTRe         = regexp.MustCompile(`(?i)tiktok\.com/t/(\w+)`)
)

// TikTokHandler serves TikTok video URLs, including vm/vt short links.
type TikTokHandler struct {
	ytdlp  *ytdlp.Client
	logger *slog.Logger
}

func NewTikTokHandler(client *ytdlp.Client, logger *slog.Logger) *TikTokHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TikTokHandler{ytdlp: client, logger: logger}
}

func (h *TikTokHandler) Name() Platform { return TikTok }

func (h *TikTokHandler) ValidateURL(url string) bool {
	url = strings.ToLower(strings.TrimSpace(url))
	if url == "" {
		return false
	}
	return tiktokCanonicalRe.MatchString(url) ||
		tiktokShortRe.MatchString(url) ||
		tiktokTRe.MatchString(url)
}

// ExtractID returns the numeric video ID for canonical URLs. Short links
// carry only an opaque code; yt-dlp resolves those during extraction, so the
// code itself is a good enough identifier for logging and dedup.
func (h *TikTokHandler) ExtractID(url string) (string, error) {
	if !h.ValidateURL(url) {
		return "", errors.New(errors.KindInvalidURL, "invalid TikTok URL: provide a valid TikTok video URL")
	}

	url = strings.TrimSpace(url)
	if m := tiktokCanonicalRe.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	if m := tiktokShortRe.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	if m := tiktokTRe.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	return "", errors.New(errors.KindInvalidURL, "could not extract video ID from TikTok URL")
}

func (h *TikTokHandler) FetchMetadata(ctx context.Context, url string) (*Metadata, error) {
	if url == "" {
		return nil, errors.New(errors.KindInvalidURL, "URL cannot be empty")
	}

	h.logger.Info("fetching tiktok metadata", "url", url)

	probe, raw, err := h.ytdlp.Probe(ctx, url, tiktokExtraArgs...)
	if err != nil {
		return nil, err
	}

	videoURL := probe.BestVideoURL()
	if videoURL == "" {
		return nil, errors.New(errors.KindExtractionFailed, "could not extract video URL from TikTok metadata")
	}

	title := probe.Title
	if title == "" {
		title = "TikTok Video"
	}

	return &Metadata{
		VideoURL:    videoURL,
		Title:       title,
		Duration:    probe.Duration,
		Uploader:    probe.Uploader,
		Description: probe.Description,
		Raw:         raw,
	}, nil
}

// DownloadVideo downloads through yt-dlp rather than the direct CDN link so
// the extraction session and signed URL stay consistent.
func (h *TikTokHandler) DownloadVideo(ctx context.Context, url, targetPath string, _ *Metadata) (string, error) {
	h.logger.Info("downloading tiktok video", "url", url)
	return h.ytdlp.Download(ctx, url, targetPath, tiktokExtraArgs...)
}
