package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkgrade/essay-api/internal/config"
	"github.com/inkgrade/essay-api/internal/llm"
	"github.com/inkgrade/essay-api/internal/platform/postgres"
	"github.com/inkgrade/essay-api/internal/service"
	"github.com/inkgrade/essay-api/internal/store"
	"github.com/inkgrade/essay-api/internal/task"
)

// application holds the shared application dependencies so wiring happens in
// one place and cleanup is straightforward on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	projectStore   store.ProjectStore
	versionStore   store.EssayVersionStore
	feedbackStore  store.FeedbackStore
	exampleStore   store.ExampleEssayStore
	promptLogStore store.PromptLogStore
	settingsStore  store.SettingsStore

	// LLM and orchestration
	provider     llm.Provider
	tracker      task.ProgressTracker
	orchestrator *task.Orchestrator

	// Services
	authService      service.AuthService
	projectService   service.ProjectService
	feedbackService  service.FeedbackService
	exampleService   service.ExampleEssayService
	promptLogService service.PromptLogService
	settingsService  service.SettingsService
}

// newApplication wires stores, the LLM provider, the orchestrator and the
// services on top of an established database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.projectStore = postgres.NewPostgresProjectStore(db, logger)
	app.versionStore = postgres.NewPostgresEssayVersionStore(db, logger)
	app.feedbackStore = postgres.NewPostgresFeedbackStore(db, logger)
	app.exampleStore = postgres.NewPostgresExampleEssayStore(db, logger)
	app.promptLogStore = postgres.NewPostgresPromptLogStore(db, logger)
	app.settingsStore = postgres.NewPostgresSettingsStore(db, logger)

	provider, err := llm.NewProvider(cfg.LLM.DefaultModel, llm.Config{
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		ModelName: cfg.LLM.ModelName,
		Timeout:   time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	app.provider = provider

	settingsService, err := service.NewSettingsService(app.settingsStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create settings service: %w", err)
	}
	app.settingsService = settingsService

	app.tracker = task.NewInMemoryTracker()
	app.orchestrator = task.NewOrchestrator(
		app.feedbackStore,
		app.versionStore,
		app.projectStore,
		app.exampleStore,
		app.promptLogStore,
		app.provider,
		settingsService,
		app.tracker,
		logger,
	)

	app.authService, err = service.NewAuthService(cfg.Auth, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}
	app.projectService, err = service.NewProjectService(db, app.projectStore, app.versionStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create project service: %w", err)
	}
	app.feedbackService, err = service.NewFeedbackService(
		app.projectStore,
		app.versionStore,
		app.feedbackStore,
		app.orchestrator,
		app.tracker,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback service: %w", err)
	}
	app.exampleService, err = service.NewExampleEssayService(
		app.exampleStore,
		app.projectStore,
		app.versionStore,
		app.promptLogStore,
		app.provider,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create example essay service: %w", err)
	}
	app.promptLogService, err = service.NewPromptLogService(app.promptLogStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt log service: %w", err)
	}

	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
