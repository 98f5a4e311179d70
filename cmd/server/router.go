package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/inkgrade/essay-api/internal/api"
	apimiddleware "github.com/inkgrade/essay-api/internal/api/middleware"
)

// setupRouter configures all routes and middleware on a chi router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.authService)
	projectHandler := api.NewProjectHandler(app.projectService)
	feedbackHandler := api.NewFeedbackHandler(app.feedbackService)
	exampleHandler := api.NewExampleEssayHandler(app.exampleService)
	promptLogHandler := api.NewPromptLogHandler(app.promptLogService)
	settingsHandler := api.NewSettingsHandler(app.settingsService)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.authService)

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/auth/validate", authHandler.ValidateAccessCode)

		// Protected
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", projectHandler.CreateProject)
				r.Get("/", projectHandler.ListProjects)
				r.Get("/{id}", projectHandler.GetProject)
				r.Patch("/{id}", projectHandler.UpdateProject)
				r.Delete("/{id}", projectHandler.DeleteProject)

				r.Post("/{id}/versions", projectHandler.AddVersion)
				r.Get("/{id}/versions", projectHandler.ListVersions)
				r.Get("/{id}/versions/{number}", projectHandler.GetVersion)

				r.Post("/{id}/versions/{number}/feedback", feedbackHandler.GenerateFeedback)
				r.Get("/{id}/versions/{number}/feedback", feedbackHandler.GetFeedback)

				r.Get("/{id}/versions/{number}/example", exampleHandler.GetExample)
				r.Post("/{id}/versions/{number}/example", exampleHandler.GenerateExample)
				r.Get("/{id}/examples", exampleHandler.ListExamples)

				r.Get("/{id}/logs", promptLogHandler.ListProjectLogs)
			})

			r.Get("/feedbacks/{feedbackID}", feedbackHandler.GetFeedbackByID)
			r.Get("/feedbacks/{feedbackID}/progress", feedbackHandler.GetProgress)

			r.Get("/logs", promptLogHandler.ListLogs)
			r.Get("/logs/{logID}", promptLogHandler.GetLog)

			r.Get("/settings", settingsHandler.GetSettings)
			r.Put("/settings", settingsHandler.UpdateSettings)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
