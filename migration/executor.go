package migration

import (
	"context"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/darrancebeh/ischedulr/history"
	"github.com/darrancebeh/ischedulr/schedule"
)

// Calendar is the remote event surface the executor drives. The calendar
// package's client satisfies it; tests swap in recording fakes.
type Calendar interface {
	CreateEvent(ctx context.Context, token string, event schedule.Event) (string, error)
	DeleteEvent(ctx context.Context, token string, eventID string) error
}

// Policy decides what a remote failure does to the rest of the run.
type Policy int

const (
	// BestEffort logs remote failures and keeps going. Failed events are
	// never recorded so a later undo will not try to delete them; they can
	// leak on the remote calendar until removed by hand.
	BestEffort Policy = iota

	// AbortOnFirstError stops at the first remote failure but still
	// persists the record of everything created so far, keeping the
	// partial batch undoable.
	AbortOnFirstError
)

// Executor drives one migration or undo at a time. Calls to the calendar
// service are strictly sequential, each awaited before the next, so ids come
// back in creation order and the remote service never sees a burst.
type Executor struct {
	Calendar Calendar
	Store    history.Store
	Policy   Policy
}

// Run expands one scraped week over the rest of the semester, creates every
// event in order, and appends the migration record to the stored history.
// The expansion is materialized fully before the first remote call so a
// malformed time string aborts with zero remote side effects.
func (e *Executor) Run(
	logger *log.Entry,
	ctx context.Context,
	classes []schedule.ClassInstance,
	params schedule.SemesterParameters,
	token string,
	accountID string,
) (history.Record, error) {
	var record history.Record
	if token == "" {
		return record, ErrNoAuth
	}

	expanded, err := schedule.ExpandSemester(classes, params)
	if err != nil {
		return record, err
	}
	logger.Infof("expanded %d classes into %d events", len(classes), len(expanded))

	eventIDs := make([]string, 0, len(expanded))
	var abortErr error
	for _, item := range expanded {
		id, err := e.Calendar.CreateEvent(ctx, token, item.Event)
		if err != nil {
			logger.Errorf("could not create event: %s", err)
			if e.Policy == AbortOnFirstError {
				abortErr = err
				break
			}
			continue
		}
		if id == "" {
			// created remotely but unrecorded: it cannot be undone later
			logger.Warn("event came back without an id so it will not be undoable")
			continue
		}
		eventIDs = append(eventIDs, id)
	}

	record = history.Record{
		MigrationID: strconv.FormatInt(time.Now().UnixMilli(), 10),
		CreatedAt:   time.Now(),
		Semester:    params,
		AccountID:   accountID,
		EventIDs:    eventIDs,
	}
	records, err := e.Store.Load(ctx)
	if err != nil {
		return record, err
	}
	if err := e.Store.Save(ctx, append(records, record)); err != nil {
		return record, err
	}

	logger.Infof("migrated %d of %d events as migration %s", len(eventIDs), len(expanded), record.MigrationID)
	return record, abortErr
}
