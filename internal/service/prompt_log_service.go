package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/inkgrade/essay-api/internal/store"
)

// PromptLogService exposes the audit trail of LLM calls.
type PromptLogService interface {
	// GetLog retrieves one log entry with its full prompts and raw response.
	GetLog(ctx context.Context, id uuid.UUID) (*domain.PromptLog, error)

	// ListByProject retrieves log entries for one project, newest first.
	ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*domain.PromptLog, error)

	// List retrieves log entries across all projects, newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.PromptLog, error)
}

type promptLogServiceImpl struct {
	logs   store.PromptLogStore
	logger *slog.Logger
}

// NewPromptLogService creates a PromptLogService.
// It returns an error if the store dependency is nil.
func NewPromptLogService(logs store.PromptLogStore, logger *slog.Logger) (PromptLogService, error) {
	if logs == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "logs store cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &promptLogServiceImpl{
		logs:   logs,
		logger: logger.With(slog.String("component", "prompt_log_service")),
	}, nil
}

// GetLog implements PromptLogService.GetLog
func (s *promptLogServiceImpl) GetLog(ctx context.Context, id uuid.UUID) (*domain.PromptLog, error) {
	entry, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError("get_prompt_log", "failed to retrieve prompt log", err)
	}
	return entry, nil
}

// ListByProject implements PromptLogService.ListByProject
func (s *promptLogServiceImpl) ListByProject(
	ctx context.Context,
	projectID uuid.UUID,
	limit, offset int,
) ([]*domain.PromptLog, error) {
	logs, err := s.logs.ListByProject(ctx, projectID, limit, offset)
	if err != nil {
		return nil, wrapError("list_prompt_logs", "failed to list prompt logs", err)
	}
	return logs, nil
}

// List implements PromptLogService.List
func (s *promptLogServiceImpl) List(ctx context.Context, limit, offset int) ([]*domain.PromptLog, error) {
	logs, err := s.logs.List(ctx, limit, offset)
	if err != nil {
		return nil, wrapError("list_prompt_logs", "failed to list prompt logs", err)
	}
	return logs, nil
}
