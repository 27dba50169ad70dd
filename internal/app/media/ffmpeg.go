package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"reelscribe/internal/app/errors"
)

// ConversionResult is the output of converting one source video.
type ConversionResult struct {
	Audio     []byte
	Filename  string
	Duration  float64
	Thumbnail []byte // nil when extraction failed; thumbnail is best-effort
}

// Converter wraps the ffmpeg/ffprobe binaries. It is the media-conversion
// capability of the pipeline.
type Converter struct {
	probeTimeout   time.Duration
	convertTimeout time.Duration
	thumbTimeout   time.Duration
	logger         *slog.Logger
}

// NewConverter creates a converter with explicit per-call timeouts.
func NewConverter(probeTimeout, convertTimeout, thumbTimeout time.Duration, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		probeTimeout:   probeTimeout,
		convertTimeout: convertTimeout,
		thumbTimeout:   thumbTimeout,
		logger:         logger,
	}
}

// ffprobeOutput mirrors the stream fields we inspect.
type ffprobeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
	} `json:"streams"`
}

// HasAudioStream probes the file for at least one audio stream.
func (c *Converter) HasAudioStream(ctx context.Context, videoPath string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		videoPath)
	output, err := cmd.Output()
	if err != nil {
		return false, errors.Wrap(errors.KindConversionFailed, err, "ffprobe failed")
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return false, errors.Wrap(errors.KindConversionFailed, err, "unparseable ffprobe output")
	}

	return hasAudio(&probe), nil
}

func hasAudio(probe *ffprobeOutput) bool {
	for _, s := range probe.Streams {
		if s.CodecType == "audio" {
			return true
		}
	}
	return false
}

// AudioDuration returns the rounded duration in seconds of a media file.
func (c *Converter) AudioDuration(ctx context.Context, path string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	output, err := cmd.Output()
	if err != nil {
		return 0, errors.Wrap(errors.KindConversionFailed, err, "ffprobe duration failed")
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, errors.Wrap(errors.KindConversionFailed, err, "unparseable ffprobe duration")
	}
	return math.Round(duration*100) / 100, nil
}

// ConvertToAudio extracts mp3 audio and a best-effort thumbnail from a local
// video file. A missing audio stream is a no_audio_stream error; thumbnail
// failures are logged and leave Thumbnail nil.
func (c *Converter) ConvertToAudio(ctx context.Context, videoPath string) (*ConversionResult, error) {
	hasStream, err := c.HasAudioStream(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	if !hasStream {
		return nil, errors.New(errors.KindNoAudioStream, "video has no audio stream")
	}

	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".mp3"
	if err := c.extractAudio(ctx, videoPath, audioPath); err != nil {
		return nil, err
	}

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, errors.Wrap(errors.KindConversionFailed, err, "reading converted audio")
	}
	if len(audio) == 0 {
		return nil, errors.New(errors.KindConversionFailed, "ffmpeg produced an empty audio file")
	}

	duration, err := c.AudioDuration(ctx, audioPath)
	if err != nil {
		c.logger.Warn("could not probe audio duration", "path", audioPath, "error", err)
		duration = 0
	}

	result := &ConversionResult{
		Audio:    audio,
		Filename: filepath.Base(audioPath),
		Duration: duration,
	}

	thumb, err := c.ExtractThumbnail(ctx, videoPath)
	if err != nil {
		c.logger.Warn("thumbnail extraction failed (non-fatal)", "path", videoPath, "error", err)
	} else {
		result.Thumbnail = thumb
	}

	return result, nil
}

func (c *Converter) extractAudio(ctx context.Context, videoPath, audioPath string) error {
	ctx, cancel := context.WithTimeout(ctx, c.convertTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "2",
		"-y",
		audioPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.KindConversionFailed, err,
			fmt.Sprintf("ffmpeg audio extraction failed: %s", tail(stderr.String(), 200)))
	}
	return nil
}

// ExtractThumbnail grabs the frame at 1s as a JPEG via an image2pipe.
func (c *Converter) ExtractThumbnail(ctx context.Context, videoPath string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.thumbTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath,
		"-ss", "00:00:01",
		"-vframes", "1",
		"-q:v", "2",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-")

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.KindConversionFailed, err,
			fmt.Sprintf("ffmpeg thumbnail extraction failed: %s", tail(stderr.String(), 200)))
	}
	if out.Len() == 0 {
		return nil, errors.New(errors.KindConversionFailed, "thumbnail extraction produced no output")
	}

	return out.Bytes(), nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
