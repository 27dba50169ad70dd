package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"reelscribe/cmd/reelscribe/cmd/export"
	"reelscribe/cmd/reelscribe/cmd/serve"
	"reelscribe/cmd/reelscribe/cmd/version"
	"reelscribe/cmd/reelscribe/cmd/work"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reelscribe",
	Short: "Download, transcribe and analyze short-form videos",
	Long: `reelscribe turns short-form video URLs into searchable records.
- serve runs the HTTP API that accepts URLs and queues jobs
- work runs the queue worker that downloads, transcribes and analyzes
- export writes completed results to an Excel workbook`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(work.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "verbose output")
}
