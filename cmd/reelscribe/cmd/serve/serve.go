package serve

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"reelscribe/internal/app"
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server.

Accepts job submissions, answers status and result queries, and exposes
/health and /metrics. Jobs are processed by a separate worker process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		srv, cleanup, err := app.InitializeServer(logger)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := srv.Start(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
