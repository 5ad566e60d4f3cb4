package cmd

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/darrancebeh/ischedulr/projectpath"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ischedulr",
	Short: "ischedulr migrates an iZone weekly timetable into Google Calendar",
	Long: `ischedulr reads one week of classes from the iZone timetable page and
materializes the rest of the semester as calendar events, including weekly
academic week reminders and the mid semester break, and it can undo any
past migration from its stored record`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// a missing .env is fine when the file history store is used
		_ = godotenv.Load(filepath.Join(projectpath.Root, ".env"))
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
