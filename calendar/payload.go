package calendar

import (
	"fmt"
	"time"

	"github.com/darrancebeh/ischedulr/schedule"
)

const dayLayout = "2006-01-02"

type wireTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type wireEvent struct {
	Summary      string   `json:"summary"`
	Location     string   `json:"location,omitempty"`
	Description  string   `json:"description,omitempty"`
	Start        wireTime `json:"start"`
	End          wireTime `json:"end"`
	Transparency string   `json:"transparency,omitempty"`
}

// wirePayload flattens the event union into the calendar service's shape.
// All day reminders are marked transparent so they never block availability;
// their exclusive end lands on the following day per the service's contract.
func wirePayload(event schedule.Event) (wireEvent, error) {
	switch e := event.(type) {
	case schedule.TimedEvent:
		return wireEvent{
			Summary:     e.Summary,
			Location:    e.Venue,
			Description: e.Description,
			Start:       wireTime{DateTime: e.Start.Format(time.RFC3339), TimeZone: schedule.TimeZone},
			End:         wireTime{DateTime: e.End.Format(time.RFC3339), TimeZone: schedule.TimeZone},
		}, nil
	case schedule.AllDayEvent:
		return wireEvent{
			Summary:      e.Summary,
			Start:        wireTime{Date: e.Day.Format(dayLayout)},
			End:          wireTime{Date: e.Day.AddDate(0, 0, 1).Format(dayLayout)},
			Transparency: "transparent",
		}, nil
	}
	return wireEvent{}, fmt.Errorf("unhandled event shape %T", event)
}
