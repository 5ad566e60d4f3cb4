package cmd

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/darrancebeh/ischedulr/calendar"
	"github.com/darrancebeh/ischedulr/history"
	"github.com/darrancebeh/ischedulr/migration"
)

var undoToken string

// undoCmd represents the undo command
var undoCmd = &cobra.Command{
	Use:   "undo migrationId",
	Short: "Deletes the events of a past migration",
	Long: `Deletes every calendar event a migration created and removes the
migration from the history, the migration id is shown by migrate and history`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := log.WithFields(log.Fields{
			"job": "undo",
		})
		ctx := context.Background()

		if undoToken == "" {
			undoToken = os.Getenv("GOOGLE_TOKEN")
		}

		store, err := history.StoreFromEnv(ctx)
		if err != nil {
			logger.Error("Could not open the history store: ", err)
			os.Exit(1)
		}
		executor := migration.Executor{
			Calendar: calendar.NewClient(logger),
			Store:    store,
		}

		deleted, err := executor.Undo(logger, ctx, args[0], undoToken)
		if err != nil {
			logger.Error("Undo stopped: ", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %d events\n", deleted)
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)
	undoCmd.Flags().
		StringVar(&undoToken, "token", "", "Google OAuth access token (defaults to GOOGLE_TOKEN)")
}
