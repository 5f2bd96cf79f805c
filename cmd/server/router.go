package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vitaehq/vitae-api/internal/api"
	"github.com/vitaehq/vitae-api/internal/api/shared"
	"github.com/vitaehq/vitae-api/internal/notify"
	"github.com/vitaehq/vitae-api/internal/service"
)

// application bundles the long-lived dependencies the HTTP layer needs.
type application struct {
	logger        *slog.Logger
	pipeline      *service.PipelineService
	statusService *service.StatusService
	hub           *notify.Hub
}

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(shared.TraceIDMiddleware)

	pipelineHandler := api.NewPipelineHandler(app.pipeline)
	statusHandler := api.NewStatusHandler(app.statusService)
	eventsHandler := api.NewEventsHandler(app.hub)

	r.Route("/api", func(r chi.Router) {
		r.Post("/documents", pipelineHandler.SubmitDocument)
		r.Post("/freeform", pipelineHandler.SubmitFreeform)
		r.Post("/resumes/generate", pipelineHandler.SubmitGeneration)

		r.Get("/status", statusHandler.ListStatuses)
		r.Get("/status/{id}", statusHandler.GetStatus)
		r.Get("/status/{subjectID}/events", eventsHandler.StreamEvents)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
