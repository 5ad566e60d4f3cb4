package timetable

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/darrancebeh/ischedulr/schedule"
)

const sampleTimetable = `
<html><body>
<table>
<tbody class="ttSlot">
<tr>
  <th><span>23 Jun 2025</span></th>
  <td>Time : 08:00 - 10:00<br>SUB1013<br><b>Capstone Project</b><br/><br>Grouping : BIT3<br>Venue : UW2-9<br>Lecturer : Dr. Lim</td>
  <td colspan="6">&nbsp;</td>
</tr>
<tr>
  <th><span>25 Jun 2025</span></th>
  <td colspan="2">&nbsp;</td>
  <td>Time : 02:00 PM - 04:00 PM<br>SUB2044<br><b>Database Fundamentals</b><br/><br>Grouping : BIT2<br>Venue : UW2-7<br>Lecturer : Dr. Tan</td>
  <td>Time : 04:00 PM - 06:00 PM<br>SUB2044<br><b>Database Fundamentals</b><br/><br>Grouping : BIT2<br>Venue : LAB-3<br>Lecturer : Dr. Tan</td>
</tr>
<tr>
  <th></th>
  <td colspan="8">&nbsp;</td>
</tr>
</tbody>
</table>
</body></html>`

func TestParseTimetable(t *testing.T) {
	classes, err := Parse(strings.NewReader(sampleTimetable))
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	if len(classes) != 3 {
		t.Fatalf("got %d classes, want 3", len(classes))
	}

	first := classes[0]
	if first.Subject != "Capstone Project" {
		t.Errorf("subject = %q", first.Subject)
	}
	if first.Grouping != "BIT3" {
		t.Errorf("grouping = %q", first.Grouping)
	}
	if first.Venue != "UW2-9" {
		t.Errorf("venue = %q", first.Venue)
	}
	if first.Lecturer != "Dr. Lim" {
		t.Errorf("lecturer = %q", first.Lecturer)
	}
	if first.Time != "08:00 - 10:00" {
		t.Errorf("time = %q", first.Time)
	}
	if first.Date.Weekday() != time.Monday {
		t.Errorf("date weekday = %s, want Monday", first.Date.Weekday())
	}

	second := classes[1]
	if second.Time != "02:00 PM - 04:00 PM" {
		t.Errorf("time = %q", second.Time)
	}
	if second.Date.Weekday() != time.Wednesday {
		t.Errorf("date weekday = %s, want Wednesday", second.Date.Weekday())
	}
}

func TestParseMissingTimetable(t *testing.T) {
	_, err := Parse(strings.NewReader(`<html><body><table><tbody><tr><td>nope</td></tr></tbody></table></body></html>`))
	if !errors.Is(err, ErrNoTimetable) {
		t.Errorf("error = %v, want ErrNoTimetable", err)
	}
}

func TestParseBadDateHeader(t *testing.T) {
	page := `<table><tbody class="ttSlot">
<tr><th><span>someday soon</span></th>
<td>Time : 08:00 - 10:00<br>a<br>b<br>c<br>Grouping : x<br>Venue : y<br>Lecturer : z</td></tr>
</tbody></table>`
	_, err := Parse(strings.NewReader(page))
	if !errors.Is(err, schedule.ErrFormat) {
		t.Errorf("error = %v, want schedule.ErrFormat", err)
	}
}

func TestGroupByDay(t *testing.T) {
	classes, err := Parse(strings.NewReader(sampleTimetable))
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	week := GroupByDay(classes)

	if len(week[time.Monday]) != 1 {
		t.Errorf("monday has %d classes, want 1", len(week[time.Monday]))
	}
	wednesday := week[time.Wednesday]
	if len(wednesday) != 2 {
		t.Fatalf("wednesday has %d classes, want 2", len(wednesday))
	}
	if wednesday[0].Venue != "UW2-7" || wednesday[1].Venue != "LAB-3" {
		t.Errorf("wednesday out of start order: %q then %q", wednesday[0].Venue, wednesday[1].Venue)
	}
	for _, dayIndex := range []time.Weekday{time.Sunday, time.Tuesday, time.Thursday, time.Friday, time.Saturday} {
		if len(week[dayIndex]) != 0 {
			t.Errorf("%s should be empty", DayNames[dayIndex])
		}
	}
}
