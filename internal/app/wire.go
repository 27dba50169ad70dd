//go:build wireinject
// +build wireinject

package app

import (
	"log/slog"

	"github.com/google/wire"

	"reelscribe/internal/api/server"
	"reelscribe/internal/api/v1/services"
	"reelscribe/internal/app/embedding/provider"
	"reelscribe/internal/app/media"
	"reelscribe/internal/app/pipeline"
	"reelscribe/internal/app/platform"
	"reelscribe/internal/app/recipe"
	"reelscribe/internal/app/storage"
	"reelscribe/internal/app/worker"
)

// InitializeWorker builds the queue worker with both processing pipelines.
func InitializeWorker(logger *slog.Logger) (*worker.Worker, func(), error) {
	wire.Build(
		provideOpenAIClient,
		providePipelineConfig,
		provideQueueConfig,
		provideQueue,
		provideJobStore,
		provideYtdlpClient,
		provideRouter,
		provideConverter,
		provideArtifactStore,
		provideRegistry,
		provideMetrics,
		provideTranscriber,
		provideAnalyzer,
		provideEmbedder,
		provideExtractor,
		pipeline.NewProcessor,
		recipe.NewProcessor,
		worker.New,
		wire.Bind(new(pipeline.Router), new(*platform.Router)),
		wire.Bind(new(pipeline.Converter), new(*media.Converter)),
		wire.Bind(new(pipeline.ArtifactStore), new(*storage.Store)),
		wire.Bind(new(pipeline.Embedder), new(provider.EmbeddingProvider)),
		wire.Bind(new(recipe.Router), new(*platform.Router)),
		wire.Bind(new(recipe.Converter), new(*media.Converter)),
		wire.Bind(new(recipe.ThumbnailStore), new(*storage.Store)),
		wire.Bind(new(worker.JobProcessor), new(*pipeline.Processor)),
		wire.Bind(new(worker.RecipeProcessor), new(*recipe.Processor)),
	)
	return nil, nil, nil
}

// InitializeServer builds the HTTP API server.
func InitializeServer(logger *slog.Logger) (*server.Server, func(), error) {
	wire.Build(
		providePipelineConfig,
		provideQueueConfig,
		provideQueue,
		provideJobStore,
		provideYtdlpClient,
		provideRouter,
		provideConverter,
		provideRegistry,
		provideServerConfig,
		services.NewJobService,
		services.NewDownloadService,
		newServiceContainer,
		server.NewServer,
		wire.Bind(new(services.DownloadRouter), new(*platform.Router)),
		wire.Bind(new(services.DownloadConverter), new(*media.Converter)),
	)
	return nil, nil, nil
}
