package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/inkgrade/essay-api/internal/store"
	"github.com/inkgrade/essay-api/internal/task"
)

// Setting keys understood by the application.
const (
	// SettingMaxConcurrentTasks bounds how many LLM calls one feedback run
	// may have in flight. Stored as a decimal string.
	SettingMaxConcurrentTasks = "max_concurrent_tasks"
)

const (
	minConcurrentTasks = 1
	maxConcurrentTasks = 20
)

// SettingsService reads and writes application settings. It doubles as the
// concurrency source for feedback runs, so a changed value takes effect on
// the next run without a restart.
type SettingsService interface {
	task.ConcurrencyConfig

	// GetSettings retrieves all stored settings.
	GetSettings(ctx context.Context) (map[string]string, error)

	// SetMaxConcurrentTasks stores the per-run concurrency bound.
	// Values outside [1, 20] are rejected.
	SetMaxConcurrentTasks(ctx context.Context, n int) error
}

type settingsServiceImpl struct {
	settings store.SettingsStore
	logger   *slog.Logger
}

var _ task.ConcurrencyConfig = (*settingsServiceImpl)(nil)

// NewSettingsService creates a SettingsService.
// It returns an error if the store dependency is nil.
func NewSettingsService(settings store.SettingsStore, logger *slog.Logger) (SettingsService, error) {
	if settings == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "settings store cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &settingsServiceImpl{
		settings: settings,
		logger:   logger.With(slog.String("component", "settings_service")),
	}, nil
}

// MaxConcurrentTasks implements task.ConcurrencyConfig. A missing or
// malformed value falls back to 1; the orchestrator clamps the range, so a
// bad row can slow runs down but never break them.
func (s *settingsServiceImpl) MaxConcurrentTasks(ctx context.Context) int {
	value, err := s.settings.Get(ctx, SettingMaxConcurrentTasks)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Warn("failed to read concurrency setting, using default",
				slog.String("error", err.Error()))
		}
		return minConcurrentTasks
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		s.logger.Warn("malformed concurrency setting, using default",
			slog.String("value", value))
		return minConcurrentTasks
	}
	return n
}

// GetSettings implements SettingsService.GetSettings
func (s *settingsServiceImpl) GetSettings(ctx context.Context) (map[string]string, error) {
	settings, err := s.settings.All(ctx)
	if err != nil {
		return nil, wrapError("get_settings", "failed to retrieve settings", err)
	}
	return settings, nil
}

// SetMaxConcurrentTasks implements SettingsService.SetMaxConcurrentTasks
func (s *settingsServiceImpl) SetMaxConcurrentTasks(ctx context.Context, n int) error {
	if n < minConcurrentTasks || n > maxConcurrentTasks {
		return &ServiceError{
			Operation: "set_max_concurrent_tasks",
			Message:   "value must be between 1 and 20",
		}
	}

	if err := s.settings.Set(ctx, SettingMaxConcurrentTasks, strconv.Itoa(n)); err != nil {
		return wrapError("set_max_concurrent_tasks", "failed to store setting", err)
	}

	s.logger.Info("concurrency setting updated", slog.Int("max_concurrent_tasks", n))
	return nil
}
