package servermigrate

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/darrancebeh/ischedulr/calendar"
	"github.com/darrancebeh/ischedulr/history"
	"github.com/darrancebeh/ischedulr/migration"
	"github.com/darrancebeh/ischedulr/schedule"
)

const dayLayout = "2006-01-02"

type migrationHandler struct {
	store  history.Store
	logger *slog.Logger
	stream *logStream
}

type classPayload struct {
	Subject  string `json:"subject"`
	Grouping string `json:"grouping"`
	Venue    string `json:"venue"`
	Lecturer string `json:"lecturer"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

type semesterPayload struct {
	Type           int    `json:"type"`
	CurrentWeek    int    `json:"currentWeek"`
	CheckpointDate string `json:"checkpointDate"`
}

type migrationRequest struct {
	Classes   []classPayload  `json:"classes"`
	Semester  semesterPayload `json:"semester"`
	AccountID string          `json:"accountId"`
}

type migrationResponse struct {
	MigrationID string `json:"migrationId"`
	EventCount  int    `json:"eventCount"`
}

type undoResponse struct {
	DeletedCount int `json:"deletedCount"`
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, migration.ErrNoAuth), errors.Is(err, calendar.ErrNoToken):
		return http.StatusUnauthorized
	case errors.Is(err, schedule.ErrFormat), errors.Is(err, schedule.ErrSemesterBounds):
		return http.StatusBadRequest
	case errors.Is(err, migration.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, migration.ErrMissingAccount):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// newExecutor wires a fresh calendar client whose job logs also fan out to
// any attached log websockets
func (h *migrationHandler) newExecutor(policy migration.Policy, fields log.Fields) (*migration.Executor, *log.Entry) {
	jobLogger := log.New()
	jobLogger.SetOutput(io.MultiWriter(os.Stderr, h.stream))
	entry := jobLogger.WithFields(fields)
	return &migration.Executor{
		Calendar: calendar.NewClient(entry),
		Store:    h.store,
		Policy:   policy,
	}, entry
}

func policyFromQuery(r *http.Request) migration.Policy {
	if r.URL.Query().Get("policy") == "abort" {
		return migration.AbortOnFirstError
	}
	return migration.BestEffort
}

func (h *migrationHandler) listMigrations(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Load(r.Context())
	if err != nil {
		h.logger.Error("Could not load the migration history", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	// newest first, the way the history page shows them
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	body, err := json.Marshal(records)
	if err != nil {
		h.logger.Error("Could not marshal the migration history", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (h *migrationHandler) runMigration(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	var req migrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "could not decode migration request", http.StatusBadRequest)
		return
	}
	if len(req.Classes) == 0 {
		http.Error(w, "no classes to migrate", http.StatusBadRequest)
		return
	}

	classes := make([]schedule.ClassInstance, len(req.Classes))
	for i, class := range req.Classes {
		date, err := time.ParseInLocation(dayLayout, class.Date, schedule.Location())
		if err != nil {
			http.Error(w, "class date must look like "+dayLayout, http.StatusBadRequest)
			return
		}
		classes[i] = schedule.ClassInstance{
			Subject:  class.Subject,
			Grouping: class.Grouping,
			Venue:    class.Venue,
			Lecturer: class.Lecturer,
			Date:     date,
			Time:     class.Time,
		}
	}
	checkpoint, err := time.ParseInLocation(dayLayout, req.Semester.CheckpointDate, schedule.Location())
	if err != nil {
		http.Error(w, "checkpoint date must look like "+dayLayout, http.StatusBadRequest)
		return
	}
	params := schedule.SemesterParameters{
		LengthWeeks:    req.Semester.Type,
		CurrentWeek:    req.Semester.CurrentWeek,
		CheckpointDate: checkpoint,
	}

	executor, jobLogger := h.newExecutor(policyFromQuery(r), log.Fields{
		"job":     "migrate",
		"account": req.AccountID,
	})
	record, err := executor.Run(jobLogger, r.Context(), classes, params, token, req.AccountID)
	if err != nil {
		h.logger.Error("Migration failed", "err", err, "migrationId", record.MigrationID)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	body, err := json.Marshal(migrationResponse{
		MigrationID: record.MigrationID,
		EventCount:  len(record.EventIDs),
	})
	if err != nil {
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (h *migrationHandler) undoMigration(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	migrationID := chi.URLParam(r, "migrationID")

	executor, jobLogger := h.newExecutor(policyFromQuery(r), log.Fields{
		"job":       "undo",
		"migration": migrationID,
	})
	deleted, err := executor.Undo(jobLogger, r.Context(), migrationID, token)
	if err != nil {
		h.logger.Error("Undo failed", "err", err, "migrationId", migrationID)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	body, err := json.Marshal(undoResponse{DeletedCount: deleted})
	if err != nil {
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
