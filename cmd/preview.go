package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/darrancebeh/ischedulr/timetable"
)

var previewFile string

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Shows the parsed week of classes without creating anything",
	Long: `Parses a saved timetable page and prints the classes grouped by day
so the extraction can be checked before running a migration`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := log.WithFields(log.Fields{
			"job": "preview",
		})

		f, err := os.Open(previewFile)
		if err != nil {
			logger.Error("Could not open the timetable page: ", err)
			os.Exit(1)
		}
		defer f.Close()

		classes, err := timetable.Parse(f)
		if err != nil {
			logger.Error("Could not parse the timetable page: ", err)
			os.Exit(1)
		}

		days := timetable.GroupByDay(classes)
		for i, dayClasses := range days {
			if len(dayClasses) == 0 {
				continue
			}
			fmt.Println(timetable.DayNames[i])
			for _, class := range dayClasses {
				start, _, _ := strings.Cut(class.Time, " - ")
				fmt.Printf("- %s: %s\n", strings.TrimSpace(start), class.Subject)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().
		StringVar(&previewFile, "file", "", "path to a saved timetable html page")
	previewCmd.MarkFlagRequired("file")
}
