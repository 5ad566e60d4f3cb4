package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/darrancebeh/ischedulr/history"
	"github.com/darrancebeh/ischedulr/schedule"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Lists past migrations newest first",
	Long: `Lists every stored migration with the id undo needs along with the
semester it was made for and how many events it created`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := log.WithFields(log.Fields{
			"job": "history",
		})
		ctx := context.Background()

		store, err := history.StoreFromEnv(ctx)
		if err != nil {
			logger.Error("Could not open the history store: ", err)
			os.Exit(1)
		}
		records, err := store.Load(ctx)
		if err != nil {
			logger.Error("Could not read the history: ", err)
			os.Exit(1)
		}
		if len(records) == 0 {
			fmt.Println("No migrations yet")
			return
		}

		sort.Slice(records, func(i, j int) bool {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		})
		for _, record := range records {
			semester := "short semester"
			if record.Semester.LengthWeeks == schedule.LongSemesterWeeks {
				semester = "long semester"
			}
			fmt.Printf(
				"%s  %s  %s week %d  %d events\n",
				record.MigrationID,
				record.CreatedAt.In(schedule.Location()).Format("2 Jan 2006 3:04 PM"),
				semester,
				record.Semester.CurrentWeek,
				len(record.EventIDs),
			)
		}
	},
}

// historyClearCmd represents the history clear command
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forgets every stored migration",
	Long: `Empties the migration history without touching the calendar, events
created by forgotten migrations can no longer be undone`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := log.WithFields(log.Fields{
			"job": "history",
		})
		ctx := context.Background()

		store, err := history.StoreFromEnv(ctx)
		if err != nil {
			logger.Error("Could not open the history store: ", err)
			os.Exit(1)
		}
		if err := history.Clear(ctx, store); err != nil {
			logger.Error("Could not clear the history: ", err)
			os.Exit(1)
		}
		fmt.Println("History cleared")
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)
}
