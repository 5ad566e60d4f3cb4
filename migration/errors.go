package migration

// failures callers are expected to branch on; anything remote gets wrapped
// by the calendar client instead

import "errors"

var (
	// no credential was available, checked before any remote call is made
	ErrNoAuth = errors.New("no auth token")

	// the migration id does not exist in the stored history
	ErrNotFound = errors.New("migration not found")

	// the record never got an account identity so deletes cannot be
	// verified against the right calendar
	ErrMissingAccount = errors.New("migration has no account")
)
