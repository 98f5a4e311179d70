// Command server runs the essay feedback API: access-code auth, project and
// draft management, and background LLM feedback generation over PostgreSQL.
package main

import (
	"context"
	"log"

	"github.com/inkgrade/essay-api/internal/config"
	"github.com/inkgrade/essay-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return err
	}

	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"llm_vendor", cfg.LLM.DefaultModel)

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if err := runMigrations(db, appLogger); err != nil {
		return err
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return err
	}

	return app.startHTTPServer(context.Background(), app.setupRouter())
}
