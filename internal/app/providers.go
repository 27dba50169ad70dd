// Package app assembles the application graph with google/wire.
package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	openai "github.com/sashabaranov/go-openai"

	"reelscribe/internal/api/server"
	"reelscribe/internal/api/v1/routes"
	"reelscribe/internal/api/v1/services"
	"reelscribe/internal/app/analyze"
	"reelscribe/internal/app/embedding/provider"
	"reelscribe/internal/app/media"
	"reelscribe/internal/app/pipeline"
	"reelscribe/internal/app/platform"
	"reelscribe/internal/app/platform/ytdlp"
	"reelscribe/internal/app/queue"
	"reelscribe/internal/app/recipe"
	"reelscribe/internal/app/repository"
	"reelscribe/internal/app/repository/pg"
	"reelscribe/internal/app/repository/sqlite"
	"reelscribe/internal/app/storage"
	"reelscribe/internal/app/transcribe"
	"reelscribe/internal/config"
)

func provideOpenAIClient() (*openai.Client, error) {
	key, err := config.OpenAIKey()
	if err != nil {
		return nil, err
	}
	return openai.NewClient(key), nil
}

func providePipelineConfig() (config.PipelineConfig, error) {
	return config.LoadPipelineConfig("")
}

func provideQueueConfig() config.QueueConfig {
	return config.GetQueueConfig()
}

func provideQueue(cfg config.QueueConfig, logger *slog.Logger) (queue.Queue, func(), error) {
	q, err := queue.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return q, func() { q.Close() }, nil
}

// provideJobStore selects the record store backend from the environment:
// DATABASE_URL means Postgres, otherwise a local SQLite file.
func provideJobStore(logger *slog.Logger) (repository.JobStore, func(), error) {
	cfg := config.GetDatabaseConfig()

	var store repository.JobStore
	var err error
	switch cfg.Driver {
	case "postgres":
		store, err = pg.NewPostgresStore(cfg.DSN)
	default:
		store, err = sqlite.NewSqliteStore(cfg.DSN)
	}
	if err != nil {
		return nil, nil, err
	}
	logger.Info("record store ready", "driver", cfg.Driver)
	return store, func() { store.Close() }, nil
}

func provideYtdlpClient(cfg config.PipelineConfig) *ytdlp.Client {
	return ytdlp.New(cfg.YtDlpBinary)
}

func provideRouter(client *ytdlp.Client, logger *slog.Logger) *platform.Router {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return platform.NewRouter(
		platform.NewTikTokHandler(client, logger),
		platform.NewYouTubeHandler(client, logger),
		platform.NewInstagramHandler(client, httpClient, logger),
		platform.NewFacebookHandler(client, logger),
	)
}

func provideConverter(cfg config.PipelineConfig, logger *slog.Logger) *media.Converter {
	return media.NewConverter(cfg.ProbeTimeout, cfg.ConvertTimeout, cfg.ThumbnailTimeout, logger)
}

func provideArtifactStore() (*storage.Store, error) {
	cfg := config.GetStorageConfig()
	objects, err := storage.NewMinioStorage(cfg, cfg.AudioBucket, cfg.ThumbnailBucket)
	if err != nil {
		return nil, err
	}
	return storage.NewStore(objects, cfg.AudioBucket, cfg.ThumbnailBucket), nil
}

func provideEmbedder(client *openai.Client) provider.EmbeddingProvider {
	return provider.NewOpenAIProvider(client)
}

func provideTranscriber(client *openai.Client, logger *slog.Logger) transcribe.Transcriber {
	return transcribe.NewWhisperTranscriber(client, logger)
}

func provideAnalyzer(client *openai.Client, logger *slog.Logger) analyze.Analyzer {
	return analyze.NewOpenAIAnalyzer(client, logger)
}

func provideExtractor(client *openai.Client, logger *slog.Logger) recipe.Extractor {
	return recipe.NewOpenAIExtractor(client, logger)
}

func provideRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	return registry
}

func provideMetrics(registry *prometheus.Registry) *pipeline.Metrics {
	return pipeline.NewMetrics(registry)
}

func newServiceContainer(jobs services.JobService, downloads services.DownloadService) *routes.ServiceContainer {
	return &routes.ServiceContainer{
		JobService:      jobs,
		DownloadService: downloads,
	}
}

func provideServerConfig() server.Config {
	cfg := config.GetServerConfig()
	return server.Config{
		Host:         cfg.Host,
		Port:         cfg.Port,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
		Environment:  cfg.Environment,
	}
}
