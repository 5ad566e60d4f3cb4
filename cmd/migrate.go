package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/darrancebeh/ischedulr/calendar"
	"github.com/darrancebeh/ischedulr/history"
	"github.com/darrancebeh/ischedulr/migration"
	"github.com/darrancebeh/ischedulr/schedule"
	"github.com/darrancebeh/ischedulr/timetable"
)

var (
	migrateFile         string
	migrateURL          string
	migrateCookie       string
	migrateWeeks        int
	migrateCurrentWeek  int
	migrateCheckpoint   string
	migrateAccount      string
	migrateToken        string
	migrateAbortOnError bool
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrates one timetable week into Google Calendar for the semester",
	Long: `Reads the current week of classes from a saved timetable page or straight
from iZone, expands it over the remaining weeks of the semester and creates
the calendar events together with the weekly academic week reminders`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := log.WithFields(log.Fields{
			"job": "migrate",
		})
		ctx := context.Background()

		classes, err := loadClasses(ctx, logger)
		if err != nil {
			logger.Error("Could not read the timetable: ", err)
			os.Exit(1)
		}
		if len(classes) == 0 {
			logger.Error("The timetable page had no classes")
			os.Exit(1)
		}

		checkpoint, err := time.ParseInLocation("2006-01-02", migrateCheckpoint, schedule.Location())
		if err != nil {
			logger.Error("Invalid --checkpoint date: ", err)
			os.Exit(1)
		}

		if migrateToken == "" {
			migrateToken = os.Getenv("GOOGLE_TOKEN")
		}

		client := calendar.NewClient(logger)
		accountID := migrateAccount
		if accountID == "" {
			account, err := client.UserInfo(ctx, migrateToken)
			if err != nil {
				logger.Error("Could not resolve the Google account: ", err)
				os.Exit(1)
			}
			accountID = account.ID
			logger.Info("Migrating for account ", account.Email)
		}

		store, err := history.StoreFromEnv(ctx)
		if err != nil {
			logger.Error("Could not open the history store: ", err)
			os.Exit(1)
		}

		policy := migration.BestEffort
		if migrateAbortOnError {
			policy = migration.AbortOnFirstError
		}
		executor := migration.Executor{
			Calendar: client,
			Store:    store,
			Policy:   policy,
		}
		params := schedule.SemesterParameters{
			LengthWeeks:    migrateWeeks,
			CurrentWeek:    migrateCurrentWeek,
			CheckpointDate: checkpoint,
		}

		record, err := executor.Run(logger, ctx, classes, params, migrateToken, accountID)
		if err != nil {
			logger.Error("Migration stopped: ", err)
		}
		if len(record.EventIDs) == 0 {
			os.Exit(1)
		}
		fmt.Printf("Created %d events (migration %s)\n", len(record.EventIDs), record.MigrationID)
	},
}

// loadClasses reads the week's classes from --file when given and otherwise
// fetches the live timetable page
func loadClasses(ctx context.Context, logger *log.Entry) ([]schedule.ClassInstance, error) {
	if migrateFile != "" {
		f, err := os.Open(migrateFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return timetable.Parse(f)
	}
	fetcher, err := timetable.NewFetcher(logger)
	if err != nil {
		return nil, err
	}
	return fetcher.Fetch(ctx, migrateURL, migrateCookie)
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().
		StringVar(&migrateFile, "file", "", "path to a saved timetable html page instead of fetching iZone")
	migrateCmd.Flags().
		StringVar(&migrateURL, "url", "https://izone.sunway.edu.my/timetable", "timetable page url")
	migrateCmd.Flags().
		StringVar(&migrateCookie, "cookie", "", "session cookie header for the timetable page")
	migrateCmd.Flags().
		IntVar(&migrateWeeks, "weeks", schedule.LongSemesterWeeks, "length of the semester in weeks")
	migrateCmd.Flags().
		IntVar(&migrateCurrentWeek, "current-week", 1, "the academic week the timetable page shows")
	migrateCmd.Flags().
		StringVar(&migrateCheckpoint, "checkpoint", time.Now().In(schedule.Location()).Format("2006-01-02"), "any date inside the shown week (YYYY-MM-DD)")
	migrateCmd.Flags().
		StringVar(&migrateAccount, "account", "", "Google account id to record (looked up from the token when empty)")
	migrateCmd.Flags().
		StringVar(&migrateToken, "token", "", "Google OAuth access token (defaults to GOOGLE_TOKEN)")
	migrateCmd.Flags().
		BoolVar(&migrateAbortOnError, "abort-on-error", false, "stop at the first event that cannot be created")
}
