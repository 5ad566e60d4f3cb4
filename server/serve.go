package api

import (
	"context"
	"fmt"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/darrancebeh/ischedulr/history"
	servermigrate "github.com/darrancebeh/ischedulr/server/migrate"
)

func Serve() {
	r := chi.NewRouter()
	cors := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum age for preflight requests
	})
	r.Use(cors.Handler)
	r.Use(middleware.Logger)

	store, err := history.StoreFromEnv(context.Background())
	if err != nil {
		slog.Error("Fatal cannot open the history store", "err", err)
		return
	}

	r.Route("/migrations", func(r chi.Router) {
		servermigrate.PopulateMigrationRoutes(&r, store)
	})

	port := 3000
	slog.Info("Running server on", "port", port)
	http.ListenAndServe(fmt.Sprintf(":%d", port), r)
}
