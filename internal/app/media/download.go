package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"reelscribe/internal/app/errors"
)

// browser-mimicking headers; several CDNs reject bare Go requests.
var downloadHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "*/*",
	"Accept-Language": "en-US,en;q=0.9",
	"Sec-Fetch-Dest":  "video",
	"Sec-Fetch-Mode":  "cors",
	"Range":           "bytes=0-",
}

// DownloadFile streams a direct CDN link to outputPath. referer, when set,
// is sent as both Referer and Origin, which some platforms require.
func DownloadFile(ctx context.Context, client *http.Client, videoURL, outputPath, referer string) error {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return errors.Wrap(errors.KindDownloadFailed, err, "building download request")
	}
	for k, v := range downloadHeaders {
		req.Header.Set(k, v)
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
		req.Header.Set("Origin", referer)
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(errors.KindDownloadFailed, err, "video download request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return errors.Newf(errors.KindDownloadFailed, "video download returned HTTP %d", resp.StatusCode)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return errors.Wrap(errors.KindDownloadFailed, err, "creating download target")
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return errors.Wrap(errors.KindDownloadFailed, err, "writing video to disk")
	}
	if n == 0 {
		return errors.New(errors.KindDownloadFailed, "downloaded video file is empty")
	}

	return nil
}

// VerifyNonEmpty fails with a download error when path is missing or empty.
func VerifyNonEmpty(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(errors.KindDownloadFailed, err, "downloaded file %s is missing", path)
	}
	if info.Size() == 0 {
		return errors.New(errors.KindDownloadFailed, fmt.Sprintf("downloaded file %s is empty", path))
	}
	return nil
}
