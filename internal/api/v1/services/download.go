package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	apperrors "reelscribe/internal/app/errors"
	"reelscribe/internal/app/media"
	"reelscribe/internal/app/platform"
)

// DownloadRouter resolves the platform handler for a URL.
type DownloadRouter interface {
	GetHandler(url string) (platform.Handler, error)
}

// DownloadConverter extracts audio from a downloaded video file.
type DownloadConverter interface {
	ConvertToAudio(ctx context.Context, videoPath string) (*media.ConversionResult, error)
}

type downloadService struct {
	router    DownloadRouter
	converter DownloadConverter
	logger    *slog.Logger
}

func NewDownloadService(router DownloadRouter, converter DownloadConverter, logger *slog.Logger) DownloadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &downloadService{router: router, converter: converter, logger: logger}
}

// DownloadAudio runs the download and conversion inline and returns the mp3
// bytes. Kept for clients that predate the async job API.
func (s *downloadService) DownloadAudio(ctx context.Context, url string) ([]byte, string, error) {
	handler, err := s.router.GetHandler(url)
	if err != nil {
		return nil, "", err
	}
	platformName := string(handler.Name())

	metadata, err := handler.FetchMetadata(ctx, url)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("metadata fetched", "platform", platformName, "title", metadata.Title)

	scratch, err := os.MkdirTemp("", platformName+"_")
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.KindInternal, err, "preparing working directory")
	}
	defer os.RemoveAll(scratch)

	target := filepath.Join(scratch, "video")
	videoPath, err := handler.DownloadVideo(ctx, url, target, metadata)
	if err != nil {
		return nil, "", err
	}
	if err := media.VerifyNonEmpty(videoPath); err != nil {
		return nil, "", err
	}

	conversion, err := s.converter.ConvertToAudio(ctx, videoPath)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s_audio_%d.mp3", platformName, time.Now().Unix())
	s.logger.Info("audio conversion complete", "filename", filename, "size_bytes", len(conversion.Audio))
	return conversion.Audio, filename, nil
}
