package platform

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"reelscribe/internal/app/errors"
	"reelscribe/internal/app/media"
	"reelscribe/internal/app/platform/ytdlp"
)

var instagramExtraArgs = []string{
	"--user-agent",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"--extractor-args",
	"instagram:skip_auth_warning=True",
}

// Instagram shortcodes are at least 5 characters of [A-Za-z0-9_-].
var instagramReelRe = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?instagram\.com/(?:reels?|p)/([A-Za-z0-9_-]{5,})`)

// InstagramHandler serves Instagram Reels. Metadata comes from yt-dlp, with
// an og: meta-tag scrape of the public page as fallback; the video itself is
// fetched over the direct CDN link.
type InstagramHandler struct {
	ytdlp  *ytdlp.Client
	http   *http.Client
	logger *slog.Logger
}

func NewInstagramHandler(client *ytdlp.Client, httpClient *http.Client, logger *slog.Logger) *InstagramHandler {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InstagramHandler{ytdlp: client, http: httpClient, logger: logger}
}

func (h *InstagramHandler) Name() Platform { return Instagram }

func (h *InstagramHandler) ValidateURL(url string) bool {
	_, err := h.ExtractID(url)
	return err == nil
}

func (h *InstagramHandler) ExtractID(url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", errors.New(errors.KindInvalidURL, "URL must be a non-empty string")
	}

	// query params and fragments never carry the shortcode
	url = strings.SplitN(url, "?", 2)[0]
	url = strings.SplitN(url, "#", 2)[0]
	url = strings.TrimRight(url, "/")

	if m := instagramReelRe.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	return "", errors.New(errors.KindInvalidURL, "invalid Instagram Reel URL: provide a valid Instagram Reel URL")
}

func (h *InstagramHandler) FetchMetadata(ctx context.Context, url string) (*Metadata, error) {
	if url == "" {
		return nil, errors.New(errors.KindInvalidURL, "URL cannot be empty")
	}

	// yt-dlp only understands the singular form
	url = strings.Replace(url, "/reels/", "/reel/", 1)

	h.logger.Info("fetching instagram metadata", "url", url)

	probe, raw, err := h.ytdlp.Probe(ctx, url, instagramExtraArgs...)
	if err != nil {
		h.logger.Warn("yt-dlp extraction failed, falling back to page scrape", "url", url, "error", err)
		return h.scrapeMetadata(ctx, url)
	}

	videoURL := probe.BestVideoURL()
	if videoURL == "" {
		return nil, errors.New(errors.KindExtractionFailed, "could not extract video URL from Instagram metadata")
	}

	title := probe.Title
	if title == "" {
		title = "Instagram Reel"
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

// scrapeMetadata reads the public page's Open Graph tags. It recovers reels
// whose API extraction is blocked but whose page is still served anonymously.
func (h *InstagramHandler) scrapeMetadata(ctx context.Context, url string) (*Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.KindExtractionFailed, err, "building Instagram page request")
	}
	req.Header.Set("User-Agent", instagramExtraArgs[1])

	resp, err := h.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.KindExtractionFailed, err, "fetching Instagram page")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.KindUnavailable, "Reel not found or unavailable: the content might be deleted or private")
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errors.New(errors.KindRateLimited, "rate limited by Instagram: please wait and try again")
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Newf(errors.KindExtractionFailed, "Instagram page returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.KindExtractionFailed, err, "parsing Instagram page")
	}

	meta := func(property string) string {
		v, _ := doc.Find(`meta[property="` + property + `"]`).Attr("content")
		return v
	}

	videoURL := meta("og:video")
	if videoURL == "" {
		videoURL = meta("og:video:secure_url")
	}
	if videoURL == "" {
		return nil, errors.New(errors.KindExtractionFailed,
			"could not extract video URL from Instagram page: the Reel may require authentication")
	}

	title := meta("og:title")
	if title == "" {
		title = "Instagram Reel"
	}

	var duration float64
	if d := meta("og:video:duration"); d != "" {
		duration, _ = strconv.ParseFloat(d, 64)
	}

	return &Metadata{
		VideoURL:    videoURL,
		Title:       title,
		Duration:    duration,
		Description: meta("og:description"),
	}, nil
}

// DownloadVideo streams the direct CDN link from metadata. Unlike the other
// platforms there is no extraction session to preserve.
func (h *InstagramHandler) DownloadVideo(ctx context.Context, url, targetPath string, metadata *Metadata) (string, error) {
	if metadata == nil || metadata.VideoURL == "" {
		m, err := h.FetchMetadata(ctx, url)
		if err != nil {
			return "", err
		}
		metadata = m
	}

	h.logger.Info("downloading instagram reel", "url", url)

	if err := media.DownloadFile(ctx, h.http, metadata.VideoURL, targetPath, "https://www.instagram.com"); err != nil {
		return "", err
	}
	return targetPath, nil
}
