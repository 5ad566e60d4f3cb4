package timetable

import (
	"sort"
	"time"

	"github.com/darrancebeh/ischedulr/schedule"
)

// GroupByDay buckets one scraped week by weekday, Sunday first, with each
// day's classes sorted by start time. This backs the preview shown before a
// migration is approved.
func GroupByDay(classes []schedule.ClassInstance) [7][]schedule.ClassInstance {
	var week [7][]schedule.ClassInstance
	for _, class := range classes {
		dayIndex := int(class.Date.Weekday())
		week[dayIndex] = append(week[dayIndex], class)
	}
	for dayIndex := range week {
		day := week[dayIndex]
		sort.SliceStable(day, func(i, j int) bool {
			return startMinutes(day[i]) < startMinutes(day[j])
		})
	}
	return week
}

// startMinutes orders classes within a day; unparseable times sort last
func startMinutes(class schedule.ClassInstance) int {
	start, _, err := schedule.ParseTimeRange(class.Time, class.Date)
	if err != nil {
		return 24 * 60
	}
	return start.Hour()*60 + start.Minute()
}

// DayNames index by time.Weekday for the preview output.
var DayNames = [7]string{
	time.Sunday:    "SUNDAY",
	time.Monday:    "MONDAY",
	time.Tuesday:   "TUESDAY",
	time.Wednesday: "WEDNESDAY",
	time.Thursday:  "THURSDAY",
	time.Friday:    "FRIDAY",
	time.Saturday:  "SATURDAY",
}
