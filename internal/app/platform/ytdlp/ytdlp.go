package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"reelscribe/internal/app/errors"
)

// Client shells out to the yt-dlp binary. It is the external video-extraction
// capability shared by the handlers that cannot use direct CDN links.
type Client struct {
	binary string
}

// New creates a client. An empty binary path falls back to $PATH lookup.
func New(binary string) *Client {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Client{binary: binary}
}

// ProbeResult is the subset of yt-dlp's info JSON the pipeline consumes.
type ProbeResult struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Duration    float64  `json:"duration"`
	Uploader    string   `json:"uploader"`
	Channel     string   `json:"channel"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Formats     []Format `json:"formats"`
}

// Format is one downloadable rendition.
type Format struct {
	URL    string  `json:"url"`
	VCodec string  `json:"vcodec"`
	ACodec string  `json:"acodec"`
	Height float64 `json:"height"`
}

// BestVideoURL picks a direct link: the top-level URL when present, otherwise
// the highest muxed (video+audio) format.
func (p *ProbeResult) BestVideoURL() string {
	if p.URL != "" {
		return p.URL
	}

	muxed := make([]Format, 0, len(p.Formats))
	for _, f := range p.Formats {
		if f.VCodec != "none" && f.VCodec != "" && f.ACodec != "none" && f.ACodec != "" {
			muxed = append(muxed, f)
		}
	}
	if len(muxed) == 0 {
		if len(p.Formats) > 0 {
			return p.Formats[len(p.Formats)-1].URL
		}
		return ""
	}
	sort.Slice(muxed, func(i, j int) bool { return muxed[i].Height > muxed[j].Height })
	return muxed[0].URL
}

// Probe extracts metadata without downloading (yt-dlp -J). extraArgs carries
// per-platform quirks such as extractor args and spoofed headers. The second
// return value is the full raw info JSON for diagnostic persistence.
func (c *Client) Probe(ctx context.Context, url string, extraArgs ...string) (*ProbeResult, map[string]interface{}, error) {
	args := append([]string{"-J", "--no-warnings"}, extraArgs...)
	args = append(args, url)

	cmd := exec.CommandContext(ctx, c.binary, args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, nil, classify(stderr.String(), err)
	}

	var result ProbeResult
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		return nil, nil, errors.Wrap(errors.KindExtractionFailed, err, "yt-dlp returned unparseable metadata")
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &raw); err != nil {
		raw = nil
	}

	return &result, raw, nil
}

// Download materializes the video below targetPath. The actual extension is
// chosen by yt-dlp, so the written file is located afterwards by globbing
// targetPath.*, which is safe because every job owns a private scratch
// directory.
func (c *Client) Download(ctx context.Context, url, targetPath string, extraArgs ...string) (string, error) {
	args := append([]string{
		"-f", "best[ext=mp4]/best",
		"-o", targetPath + ".%(ext)s",
		"--no-warnings",
		"--no-playlist",
	}, extraArgs...)
	args = append(args, url)

	cmd := exec.CommandContext(ctx, c.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", classify(stderr.String(), err)
	}

	matches, err := filepath.Glob(targetPath + ".*")
	if err != nil || len(matches) == 0 {
		return "", errors.New(errors.KindDownloadFailed, "yt-dlp reported success but wrote no file")
	}
	return matches[0], nil
}

// classify maps yt-dlp stderr output onto the pipeline error taxonomy.
func classify(stderr string, err error) error {
	msg := strings.ToLower(stderr)

	switch {
	case strings.Contains(msg, "private video"),
		strings.Contains(msg, "video unavailable"),
		strings.Contains(msg, "this video is unavailable"),
		strings.Contains(msg, "has been removed"),
		strings.Contains(msg, "not available in your country"):
		return errors.Wrapf(errors.KindUnavailable, err, "content is private, deleted or region-locked: %s", firstLine(stderr))
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "rate-limit"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "too many requests"):
		return errors.Wrapf(errors.KindRateLimited, err, "platform is throttling requests: %s", firstLine(stderr))
	case strings.Contains(msg, "unsupported url"),
		strings.Contains(msg, "is not a valid url"):
		return errors.Wrapf(errors.KindInvalidURL, err, "yt-dlp rejected the URL: %s", firstLine(stderr))
	}

	return errors.Wrapf(errors.KindExtractionFailed, err, "yt-dlp failed: %s", firstLine(stderr))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	// stderr can carry very long format dumps
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
