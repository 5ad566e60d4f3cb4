package schedule

import (
	"fmt"
	"time"
)

const (
	// LongSemesterWeeks is the semester length that carries a mid semester
	// break; shorter semesters run straight through
	LongSemesterWeeks = 14

	breakWeek = 7

	// BreakTitle is the reminder placed on the break week's Monday
	BreakTitle = "Mid-Semester Break"
)

// SemesterParameters anchor the whole expansion. CheckpointDate is any date
// the user confirms falls within CurrentWeek.
type SemesterParameters struct {
	LengthWeeks    int       `json:"type"`
	CurrentWeek    int       `json:"currentWeek"`
	CheckpointDate time.Time `json:"checkpointDate"`
}

// Expanded is one materialized event in creation order. Reminders come
// before classes within a week.
type Expanded struct {
	Event    Event
	Reminder bool
}

// weekdayOffset counts days since Monday so Sunday closes the week
func weekdayOffset(day time.Time) int {
	return (int(day.Weekday()) + 6) % 7
}

// mondayOf returns midnight of the Monday of the week containing day, in the
// campus timezone.
func mondayOf(day time.Time) time.Time {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, location)
	return midnight.AddDate(0, 0, -weekdayOffset(day))
}

// ExpandSemester materializes every remaining occurrence from one scraped
// representative week. Weeks before CurrentWeek are never emitted. A long
// semester gets a single break reminder on week 7 with no classes that week,
// and the displayed academic week numbers skip the break week. The whole
// expansion is a pure function of its inputs.
func ExpandSemester(classes []ClassInstance, p SemesterParameters) ([]Expanded, error) {
	if p.CurrentWeek < 1 || p.CurrentWeek > p.LengthWeeks {
		return nil, fmt.Errorf(
			"%w current week %d must be within 1 and %d",
			ErrSemesterBounds,
			p.CurrentWeek,
			p.LengthWeeks,
		)
	}
	isLong := p.LengthWeeks == LongSemesterWeeks
	weekOneMonday := mondayOf(p.CheckpointDate).AddDate(0, 0, -7*(p.CurrentWeek-1))

	var expanded []Expanded
	for week := 1; week <= p.LengthWeeks; week++ {
		if week < p.CurrentWeek {
			continue
		}
		monday := weekOneMonday.AddDate(0, 0, 7*(week-1))

		if isLong && week == breakWeek {
			expanded = append(expanded, Expanded{
				Event:    FormatReminderEvent(BreakTitle, monday),
				Reminder: true,
			})
			continue
		}

		academicWeek := week
		if isLong && week > breakWeek {
			academicWeek = week - 1
		}
		expanded = append(expanded, Expanded{
			Event:    FormatReminderEvent(fmt.Sprintf("Academic Week %d", academicWeek), monday),
			Reminder: true,
		})

		for _, class := range classes {
			day := monday.AddDate(0, 0, weekdayOffset(class.Date))
			event, err := FormatClassEvent(class, day)
			if err != nil {
				return nil, err
			}
			expanded = append(expanded, Expanded{Event: event})
		}
	}
	return expanded, nil
}
