package history

import (
	"context"
	"time"

	"github.com/darrancebeh/ischedulr/schedule"
)

// Record is one completed migration run, holding everything an undo needs.
// EventIDs are in creation order.
type Record struct {
	MigrationID string                      `json:"migrationId"`
	CreatedAt   time.Time                   `json:"createdAt"`
	Semester    schedule.SemesterParameters `json:"semesterDetails"`
	AccountID   string                      `json:"accountId"`
	EventIDs    []string                    `json:"eventIds"`
}

// Store persists the whole migration history under one well known key. Both
// operations move the entire list: callers read, mutate, and write the list
// back. Nothing guards two overlapping writers; the intended usage is a
// single interactive user performing one action at a time.
type Store interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, records []Record) error
}

// Clear drops every record. It does not touch any remote events, so
// anything those records pointed at stays on the calendar.
func Clear(ctx context.Context, store Store) error {
	return store.Save(ctx, []Record{})
}
