package schedule

import (
	"errors"
	"testing"
	"time"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", value, Location())
	if err != nil {
		t.Fatal("bad test date: ", err)
	}
	return d
}

func TestParseTimeRange(t *testing.T) {
	monday := day(t, "2025-06-23")

	tests := []struct {
		name      string
		timeRange string
		wantStart string
		wantEnd   string
		endsNext  bool
	}{
		{"24 hour", "08:00 - 09:00", "08:00", "09:00", false},
		{"12 hour afternoon", "02:00 PM - 04:00 PM", "14:00", "16:00", false},
		{"12 hour noon", "12:00 PM - 01:00 PM", "12:00", "13:00", false},
		{"12 hour past midnight", "12:05 AM - 01:00 AM", "00:05", "01:00", false},
		{"overnight", "23:00 - 01:00", "23:00", "01:00", true},
		{"zero length rolls over", "09:00 - 09:00", "09:00", "09:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ParseTimeRange(tt.timeRange, monday)
			if err != nil {
				t.Fatal("unexpected error: ", err)
			}
			if !end.After(start) {
				t.Errorf("end %s is not after start %s", end, start)
			}
			if got := start.Format("15:04"); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := end.Format("15:04"); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
			wantEndDay := monday
			if tt.endsNext {
				wantEndDay = monday.AddDate(0, 0, 1)
			}
			if end.Day() != wantEndDay.Day() {
				t.Errorf("end day = %d, want %d", end.Day(), wantEndDay.Day())
			}
			if start.Location() != Location() {
				t.Errorf("start zone = %s, want %s", start.Location(), TimeZone)
			}
		})
	}
}

func TestParseTimeRangeRejectsMalformedInput(t *testing.T) {
	monday := day(t, "2025-06-23")

	badRanges := []string{
		"8am - 9am",
		"08:00",
		"08:00 - 09:00 - 10:00",
		"abc - def",
		"25:00 - 26:00",
		"",
	}
	for _, timeRange := range badRanges {
		_, _, err := ParseTimeRange(timeRange, monday)
		if !errors.Is(err, ErrFormat) {
			t.Errorf("ParseTimeRange(%q) error = %v, want ErrFormat", timeRange, err)
		}
	}
}
