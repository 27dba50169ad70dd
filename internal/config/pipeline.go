package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PipelineConfig bounds every suspension point in the pipeline. A stuck
// external call must never wedge a worker indefinitely.
type PipelineConfig struct {
	// Timeouts per external call class.
	ProbeTimeout      time.Duration `yaml:"probe_timeout"`
	DownloadTimeout   time.Duration `yaml:"download_timeout"`
	ConvertTimeout    time.Duration `yaml:"convert_timeout"`
	ThumbnailTimeout  time.Duration `yaml:"thumbnail_timeout"`
	UploadTimeout     time.Duration `yaml:"upload_timeout"`
	TranscribeTimeout time.Duration `yaml:"transcribe_timeout"`
	AnalyzeTimeout    time.Duration `yaml:"analyze_timeout"`
	EmbedTimeout      time.Duration `yaml:"embed_timeout"`

	// YtDlpBinary overrides the yt-dlp binary path; empty means $PATH lookup.
	YtDlpBinary string `yaml:"ytdlp_binary"`
}

// DefaultPipelineConfig returns the timeout profile used when no config file
// is present: probing in seconds, conversion up to two minutes, large
// transfers up to several minutes.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ProbeTimeout:      30 * time.Second,
		DownloadTimeout:   5 * time.Minute,
		ConvertTimeout:    2 * time.Minute,
		ThumbnailTimeout:  30 * time.Second,
		UploadTimeout:     5 * time.Minute,
		TranscribeTimeout: 5 * time.Minute,
		AnalyzeTimeout:    90 * time.Second,
		EmbedTimeout:      60 * time.Second,
	}
}

// LoadPipelineConfig reads the yaml config at path, filling unset fields
// from defaults. A missing file yields pure defaults.
func LoadPipelineConfig(path string) (PipelineConfig, error) {
	cfg := DefaultPipelineConfig()
	if path == "" {
		path = os.Getenv("PIPELINE_CONFIG")
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read pipeline config %s: %w", path, err)
	}

	var file pipelineFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse pipeline config %s: %w", path, err)
	}

	merge := func(dst *time.Duration, src durationValue) {
		if src.Duration > 0 {
			*dst = src.Duration
		}
	}
	merge(&cfg.ProbeTimeout, file.ProbeTimeout)
	merge(&cfg.DownloadTimeout, file.DownloadTimeout)
	merge(&cfg.ConvertTimeout, file.ConvertTimeout)
	merge(&cfg.ThumbnailTimeout, file.ThumbnailTimeout)
	merge(&cfg.UploadTimeout, file.UploadTimeout)
	merge(&cfg.TranscribeTimeout, file.TranscribeTimeout)
	merge(&cfg.AnalyzeTimeout, file.AnalyzeTimeout)
	merge(&cfg.EmbedTimeout, file.EmbedTimeout)
	if file.YtDlpBinary != "" {
		cfg.YtDlpBinary = file.YtDlpBinary
	}

	return cfg, nil
}

// pipelineFile mirrors PipelineConfig for yaml parsing; durations are
// written in Go duration syntax ("45s", "2m").
type pipelineFile struct {
	ProbeTimeout      durationValue `yaml:"probe_timeout"`
	DownloadTimeout   durationValue `yaml:"download_timeout"`
	ConvertTimeout    durationValue `yaml:"convert_timeout"`
	ThumbnailTimeout  durationValue `yaml:"thumbnail_timeout"`
	UploadTimeout     durationValue `yaml:"upload_timeout"`
	TranscribeTimeout durationValue `yaml:"transcribe_timeout"`
	AnalyzeTimeout    durationValue `yaml:"analyze_timeout"`
	EmbedTimeout      durationValue `yaml:"embed_timeout"`
	YtDlpBinary       string        `yaml:"ytdlp_binary"`
}

type durationValue struct {
	time.Duration
}

func (d *durationValue) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	d.Duration = parsed
	return nil
}
