package servermigrate

import (
	"os"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/darrancebeh/ischedulr/history"
	"github.com/darrancebeh/ischedulr/logging"
)

func PopulateMigrationRoutes(r *chi.Router, store history.Store) {
	stream := newLogStream()
	baseLogger := slog.New(logging.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: logging.LevelRemoteIO,
		}),
		stream,
	))
	h := &migrationHandler{
		store:  store,
		logger: baseLogger,
		stream: stream,
	}

	(*r).Get("/", h.listMigrations)
	(*r).Post("/", h.runMigration)
	(*r).Delete("/{migrationID}", h.undoMigration)
	(*r).Get("/logs", h.loggingWebSocket)
}
