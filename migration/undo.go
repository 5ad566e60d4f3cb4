package migration

import (
	"context"
	"fmt"
	"slices"

	log "github.com/sirupsen/logrus"

	"github.com/darrancebeh/ischedulr/history"
)

// Undo deletes every event a migration created, in stored order, then
// removes its record from the history. A record without an account identity
// is refused outright rather than deleted against an unverifiable account.
// Under BestEffort individual delete failures are logged and the record is
// still removed; under AbortOnFirstError the record stays so the remainder
// can be retried.
func (e *Executor) Undo(
	logger *log.Entry,
	ctx context.Context,
	migrationID string,
	token string,
) (int, error) {
	if token == "" {
		return 0, ErrNoAuth
	}

	records, err := e.Store.Load(ctx)
	if err != nil {
		return 0, err
	}
	recordIndex := slices.IndexFunc(records, func(r history.Record) bool {
		return r.MigrationID == migrationID
	})
	if recordIndex == -1 {
		return 0, fmt.Errorf("%w no stored migration with id %s", ErrNotFound, migrationID)
	}
	record := records[recordIndex]
	if record.AccountID == "" {
		return 0, fmt.Errorf(
			"%w migration %s predates account tracking",
			ErrMissingAccount,
			migrationID,
		)
	}

	deleted := 0
	for _, eventID := range record.EventIDs {
		if err := e.Calendar.DeleteEvent(ctx, token, eventID); err != nil {
			logger.Errorf("could not delete event %s: %s", eventID, err)
			if e.Policy == AbortOnFirstError {
				return deleted, err
			}
			continue
		}
		deleted++
	}

	remaining := slices.Delete(slices.Clone(records), recordIndex, recordIndex+1)
	if err := e.Store.Save(ctx, remaining); err != nil {
		return deleted, err
	}
	logger.Infof("undid migration %s deleting %d of %d events", migrationID, deleted, len(record.EventIDs))
	return deleted, nil
}
