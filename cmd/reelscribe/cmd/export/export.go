package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelscribe/internal/app/export"
	"reelscribe/internal/app/repository"
	"reelscribe/internal/app/repository/pg"
	"reelscribe/internal/app/repository/sqlite"
	"reelscribe/internal/config"
)

var outputFilePath string

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "output", "o", "results.xlsx", "output .xlsx path")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export completed job results to Excel",
	Long: `Export completed job results to Excel.

Writes one row per completed job with its metadata, transcript and
analysis. Jobs still in flight or failed are not included.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbCfg := config.GetDatabaseConfig()

		var store repository.JobStore
		var err error
		switch dbCfg.Driver {
		case "postgres":
			store, err = pg.NewPostgresStore(dbCfg.DSN)
		default:
			store, err = sqlite.NewSqliteStore(dbCfg.DSN)
		}
		if err != nil {
			return err
		}
		defer store.Close()

		results, err := store.ListCompletedResults(cmd.Context())
		if err != nil {
			return err
		}

		if err := export.ToExcel(results, outputFilePath); err != nil {
			return err
		}

		fmt.Printf("export finished: %d jobs written to %s\n", len(results), outputFilePath)
		return nil
	},
}
