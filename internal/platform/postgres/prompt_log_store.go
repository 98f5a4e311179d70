package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/inkgrade/essay-api/internal/platform/logger"
	"github.com/inkgrade/essay-api/internal/store"
)

// PostgresPromptLogStore implements the store.PromptLogStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPromptLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPromptLogStore creates a new PostgreSQL implementation of the
// PromptLogStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresPromptLogStore(db store.DBTX, logger *slog.Logger) *PostgresPromptLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPromptLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "prompt_log_store")),
	}
}

// Ensure PostgresPromptLogStore implements store.PromptLogStore interface
var _ store.PromptLogStore = (*PostgresPromptLogStore)(nil)

// WithTx implements store.PromptLogStore.WithTx
func (s *PostgresPromptLogStore) WithTx(tx *sql.Tx) store.PromptLogStore {
	return &PostgresPromptLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.PromptLogStore.Create
func (s *PostgresPromptLogStore) Create(ctx context.Context, entry *domain.PromptLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO prompt_logs (id, service_type, model_name, operation, project_id,
			version_number, system_prompt, user_prompt, raw_response, error_text,
			prompt_tokens, completion_tokens, total_tokens, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.ServiceType,
		entry.ModelName,
		entry.Operation,
		entry.ProjectID,
		entry.VersionNumber,
		entry.SystemPrompt,
		entry.UserPrompt,
		entry.RawResponse,
		entry.ErrorText,
		entry.TokenUsage.PromptTokens,
		entry.TokenUsage.CompletionTokens,
		entry.TokenUsage.TotalTokens,
		entry.Duration.Milliseconds(),
		entry.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create prompt log",
			slog.String("error", err.Error()),
			slog.String("operation", entry.Operation))
		return fmt.Errorf("failed to create prompt log: %w", err)
	}
	return nil
}

const promptLogColumns = `id, service_type, model_name, operation, project_id,
	version_number, system_prompt, user_prompt, raw_response, error_text,
	prompt_tokens, completion_tokens, total_tokens, duration_ms, created_at`

func scanPromptLog(row interface{ Scan(...any) error }) (*domain.PromptLog, error) {
	var (
		entry      domain.PromptLog
		durationMS int64
	)
	err := row.Scan(
		&entry.ID,
		&entry.ServiceType,
		&entry.ModelName,
		&entry.Operation,
		&entry.ProjectID,
		&entry.VersionNumber,
		&entry.SystemPrompt,
		&entry.UserPrompt,
		&entry.RawResponse,
		&entry.ErrorText,
		&entry.TokenUsage.PromptTokens,
		&entry.TokenUsage.CompletionTokens,
		&entry.TokenUsage.TotalTokens,
		&durationMS,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.Duration = time.Duration(durationMS) * time.Millisecond
	return &entry, nil
}

// GetByID implements store.PromptLogStore.GetByID
func (s *PostgresPromptLogStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PromptLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + promptLogColumns + `
		FROM prompt_logs
		WHERE id = $1
	`
	entry, err := scanPromptLog(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLogNotFound
		}
		log.Error("failed to get prompt log",
			slog.String("error", err.Error()),
			slog.String("id", id.String()))
		return nil, fmt.Errorf("failed to get prompt log: %w", err)
	}
	return entry, nil
}

// ListByProject implements store.PromptLogStore.ListByProject
func (s *PostgresPromptLogStore) ListByProject(
	ctx context.Context,
	projectID uuid.UUID,
	limit, offset int,
) ([]*domain.PromptLog, error) {
	query := `
		SELECT ` + promptLogColumns + `
		FROM prompt_logs
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return s.queryLogs(ctx, query, projectID, normalizeLimit(limit), max(offset, 0))
}

// List implements store.PromptLogStore.List
func (s *PostgresPromptLogStore) List(
	ctx context.Context,
	limit, offset int,
) ([]*domain.PromptLog, error) {
	query := `
		SELECT ` + promptLogColumns + `
		FROM prompt_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return s.queryLogs(ctx, query, normalizeLimit(limit), max(offset, 0))
}

func (s *PostgresPromptLogStore) queryLogs(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.PromptLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list prompt logs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list prompt logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []*domain.PromptLog{}
	for rows.Next() {
		entry, err := scanPromptLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prompt log row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prompt log rows: %w", err)
	}
	return entries, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}
