package schedule

import (
	"fmt"
	"time"
)

// ClassInstance is one scraped occurrence from the representative week. Date
// pins the occurrence to a weekday within that week; Time is the raw range
// string as shown on the page.
type ClassInstance struct {
	Subject  string    `json:"subject"`
	Grouping string    `json:"grouping"`
	Venue    string    `json:"venue"`
	Lecturer string    `json:"lecturer"`
	Date     time.Time `json:"date"`
	Time     string    `json:"time"`
}

// Event is the closed set of calendar payload shapes. Serialization to the
// calendar service's wire format happens at the service adapter.
type Event interface {
	isEvent()
}

// TimedEvent is a single class meeting with concrete start and end instants.
type TimedEvent struct {
	Summary     string
	Venue       string
	Description string
	Start       time.Time
	End         time.Time
}

// AllDayEvent is a reminder spanning exactly one day which does not block
// availability.
type AllDayEvent struct {
	Summary string
	Day     time.Time
}

func (TimedEvent) isEvent()  {}
func (AllDayEvent) isEvent() {}

// FormatClassEvent resolves one scraped class onto a concrete day.
func FormatClassEvent(c ClassInstance, day time.Time) (TimedEvent, error) {
	start, end, err := ParseTimeRange(c.Time, day)
	if err != nil {
		return TimedEvent{}, err
	}
	return TimedEvent{
		Summary:     fmt.Sprintf("%s (%s)", c.Subject, c.Grouping),
		Venue:       c.Venue,
		Description: fmt.Sprintf("Lecturer: %s", c.Lecturer),
		Start:       start,
		End:         end,
	}, nil
}

// FormatReminderEvent makes the all day marker used for academic week and
// break reminders.
func FormatReminderEvent(title string, day time.Time) AllDayEvent {
	return AllDayEvent{Summary: title, Day: day}
}
