// Package worker runs the consume loops that pull messages off the queues
// and drive the processing pipelines.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"reelscribe/internal/app/errors"
	"reelscribe/internal/app/queue"
	"reelscribe/internal/config"
)

// JobProcessor runs the audio pipeline for one job.
type JobProcessor interface {
	Process(ctx context.Context, jobID, url string) error
}

// RecipeProcessor runs the recipe extraction pipeline for one recipe.
type RecipeProcessor interface {
	Process(ctx context.Context, recipeID, url, userID string) error
}

// Worker consumes both queues until its context is cancelled. A failed job
// is recorded by its processor and does not stop the loop.
type Worker struct {
	queue   queue.Queue
	jobs    JobProcessor
	recipes RecipeProcessor
	cfg     config.QueueConfig
	logger  *slog.Logger
}

func New(q queue.Queue, jobs JobProcessor, recipes RecipeProcessor, cfg config.QueueConfig, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{queue: q, jobs: jobs, recipes: recipes, cfg: cfg, logger: logger}
}

// Run blocks until ctx is cancelled or a consume loop fails with a transport
// error. Both queues are consumed concurrently.
func (w *Worker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		w.logger.Info("consuming job queue", "queue", w.cfg.JobQueue)
		return w.queue.Consume(ctx, w.cfg.JobQueue, w.HandleJobMessage)
	})

	if w.recipes != nil {
		g.Go(func() error {
			w.logger.Info("consuming recipe queue", "queue", w.cfg.RecipeQueue)
			return w.queue.Consume(ctx, w.cfg.RecipeQueue, w.HandleRecipeMessage)
		})
	}

	return g.Wait()
}

// HandleJobMessage decodes one job message and runs the audio pipeline.
func (w *Worker) HandleJobMessage(ctx context.Context, body []byte) error {
	var msg queue.JobMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return errors.Wrap(errors.KindInternal, err, "decoding job message")
	}
	if msg.JobID == "" || msg.URL == "" {
		return errors.Newf(errors.KindInternal, "job message missing job_id or url: %s", body)
	}
	return w.jobs.Process(ctx, msg.JobID, msg.URL)
}

// HandleRecipeMessage decodes one recipe message and runs recipe extraction.
func (w *Worker) HandleRecipeMessage(ctx context.Context, body []byte) error {
	var msg queue.RecipeMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return errors.Wrap(errors.KindInternal, err, "decoding recipe message")
	}
	if msg.RecipeID == "" || msg.URL == "" {
		return errors.Newf(errors.KindInternal, "recipe message missing recipe_id or url: %s", body)
	}
	return w.recipes.Process(ctx, msg.RecipeID, msg.URL, msg.UserID)
}
