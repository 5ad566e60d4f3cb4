package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeZone is the zone every event is created in. iZone renders timetables
// in campus local time with no zone marker so it cannot be inferred.
const TimeZone = "Asia/Kuala_Lumpur"

var location *time.Location

func init() {
	loc, err := time.LoadLocation(TimeZone)
	if err != nil {
		panic(fmt.Sprint("Could not load the campus timezone: ", err))
	}
	location = loc
}

// Location is the loaded campus timezone.
func Location() *time.Location {
	return location
}

var (
	// a time or date string does not match any accepted pattern
	ErrFormat = errors.New("format failure")

	// semester parameters do not describe a week inside the semester
	ErrSemesterBounds = errors.New("semester bounds failure")
)

// iZone shows either 24-hour or 12-hour clocks depending on the view
var clockLayouts = []string{"15:04", "3:04 PM"}

func parseClock(clock string) (time.Time, error) {
	trimmed := strings.TrimSpace(clock)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"%w clock `%s` is not a 24-hour or 12-hour time",
		ErrFormat,
		trimmed,
	)
}

func atClock(day time.Time, clock string) (time.Time, error) {
	c, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		c.Hour(), c.Minute(), 0, 0,
		location,
	), nil
}

// ParseTimeRange resolves a timetable range such as "08:00 - 09:00" or
// "02:00 PM - 04:00 PM" onto the given day in the campus timezone. An end
// that is not strictly after the start rolls over to the next day which
// covers classes running past midnight.
func ParseTimeRange(timeRange string, day time.Time) (time.Time, time.Time, error) {
	parts := strings.Split(timeRange, " - ")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf(
			"%w time range `%s` must split into exactly two clocks on ` - `",
			ErrFormat,
			timeRange,
		)
	}
	start, err := atClock(day, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := atClock(day, parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}
