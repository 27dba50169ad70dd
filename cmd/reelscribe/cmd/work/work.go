package work

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"reelscribe/internal/app"
)

// Cmd represents the work command
var Cmd = &cobra.Command{
	Use:   "work",
	Short: "Run the queue worker",
	Long: `Run the queue worker.

Consumes the audio processing and recipe extraction queues and runs the
full pipeline for each message. A failed job is recorded on the job and
never stops the worker.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		w, cleanup, err := app.InitializeWorker(logger)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("worker stopped")
		return nil
	},
}
