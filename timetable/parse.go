package timetable

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/darrancebeh/ischedulr/schedule"
)

// iZone renders the weekly timetable as one tbody.ttSlot with a row per day:
// the date sits in the row header and each class cell packs its fields
// between <br> tags. Empty slots are filler cells carrying a colspan.

const dateLayout = "2 Jan 2006"

var (
	// the page has no recognizable timetable on it
	ErrNoTimetable = errors.New("no timetable")
)

var brPattern = regexp.MustCompile(`(?i)<br\s*/?>`)

// Parse extracts one representative week of classes from a timetable page.
func Parse(r io.Reader) ([]schedule.ClassInstance, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	slots := doc.Find("tbody.ttSlot")
	if slots.Length() == 0 {
		return nil, fmt.Errorf("%w could not find the tbody with class `ttSlot`", ErrNoTimetable)
	}

	var classes []schedule.ClassInstance
	var rowErr error
	slots.First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		if rowErr != nil {
			return
		}
		dateText := strings.TrimSpace(row.Find("th span").First().Text())
		if dateText == "" {
			// rows without a date header hold no classes
			return
		}
		date, err := time.ParseInLocation(dateLayout, dateText, schedule.Location())
		if err != nil {
			rowErr = fmt.Errorf(
				"%w day header `%s` is not a timetable date",
				schedule.ErrFormat,
				dateText,
			)
			return
		}

		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			if _, isFiller := cell.Attr("colspan"); isFiller {
				return
			}
			inner, err := cell.Html()
			if err != nil {
				return
			}
			parts := brPattern.Split(inner, -1)
			if len(parts) < 7 {
				return
			}
			classes = append(classes, schedule.ClassInstance{
				Subject:  cleanFragment(parts[2]),
				Grouping: stripLabel(parts[4], "Grouping :"),
				Venue:    stripLabel(parts[5], "Venue :"),
				Lecturer: stripLabel(parts[6], "Lecturer :"),
				Date:     date,
				Time:     stripLabel(parts[0], "Time :"),
			})
		})
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return classes, nil
}

// cleanFragment strips any leftover markup from one <br> separated fragment.
func cleanFragment(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var text strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(text.String())
		case html.TextToken:
			text.Write(tokenizer.Text())
		}
	}
}

func stripLabel(fragment string, label string) string {
	return strings.TrimSpace(strings.TrimPrefix(cleanFragment(fragment), label))
}
