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
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresExampleEssayStore implements the store.ExampleEssayStore interface
// using a PostgreSQL database as the storage backend.
type PostgresExampleEssayStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresExampleEssayStore creates a new PostgreSQL implementation of the
// ExampleEssayStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresExampleEssayStore(db store.DBTX, logger *slog.Logger) *PostgresExampleEssayStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresExampleEssayStore{
		db:     db,
		logger: logger.With(slog.String("component", "example_essay_store")),
	}
}

// Ensure PostgresExampleEssayStore implements store.ExampleEssayStore interface
var _ store.ExampleEssayStore = (*PostgresExampleEssayStore)(nil)

// WithTx implements store.ExampleEssayStore.WithTx
func (s *PostgresExampleEssayStore) WithTx(tx *sql.Tx) store.ExampleEssayStore {
	return &PostgresExampleEssayStore{
		db:     tx,
		logger: s.logger,
	}
}

// Upsert implements store.ExampleEssayStore.Upsert
// Regenerating an example for the same project and version number replaces
// the previous content in place.
func (s *PostgresExampleEssayStore) Upsert(ctx context.Context, example *domain.ExampleEssay) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := example.Validate(); err != nil {
		log.Warn("example essay validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("example_id", example.ID.String()))
		return err
	}

	example.UpdatedAt = time.Now().UTC()

	query := `
		INSERT INTO example_essays (id, project_id, version_number, content, improvement,
			word_count, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (project_id, version_number) DO UPDATE
		SET content = EXCLUDED.content,
			improvement = EXCLUDED.improvement,
			word_count = EXCLUDED.word_count,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		example.ID,
		example.ProjectID,
		example.VersionNumber,
		example.Content,
		example.Improvement,
		example.WordCount,
		example.Status,
		example.CreatedAt,
		example.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode {
			return fmt.Errorf("%w: project with ID %s not found",
				store.ErrInvalidEntity, example.ProjectID)
		}

		log.Error("failed to upsert example essay",
			slog.String("error", err.Error()),
			slog.String("project_id", example.ProjectID.String()),
			slog.Int("version_number", example.VersionNumber))
		return err
	}

	log.Info("example essay upserted",
		slog.String("project_id", example.ProjectID.String()),
		slog.Int("version_number", example.VersionNumber))
	return nil
}

const exampleColumns = `id, project_id, version_number, content, improvement, word_count,
	status, created_at, updated_at`

func scanExample(row interface{ Scan(...any) error }) (*domain.ExampleEssay, error) {
	var example domain.ExampleEssay
	err := row.Scan(
		&example.ID,
		&example.ProjectID,
		&example.VersionNumber,
		&example.Content,
		&example.Improvement,
		&example.WordCount,
		&example.Status,
		&example.CreatedAt,
		&example.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &example, nil
}

// GetByProjectAndNumber implements store.ExampleEssayStore.GetByProjectAndNumber
// Returns store.ErrExampleNotFound if none exists.
func (s *PostgresExampleEssayStore) GetByProjectAndNumber(
	ctx context.Context,
	projectID uuid.UUID,
	versionNumber int,
) (*domain.ExampleEssay, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + exampleColumns + `
		FROM example_essays
		WHERE project_id = $1 AND version_number = $2
	`
	example, err := scanExample(s.db.QueryRowContext(ctx, query, projectID, versionNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("example essay not found",
				slog.String("project_id", projectID.String()),
				slog.Int("version_number", versionNumber))
			return nil, store.ErrExampleNotFound
		}
		log.Error("failed to get example essay",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()))
		return nil, fmt.Errorf("failed to get example essay: %w", err)
	}
	return example, nil
}

// ListByProject implements store.ExampleEssayStore.ListByProject
func (s *PostgresExampleEssayStore) ListByProject(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*domain.ExampleEssay, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + exampleColumns + `
		FROM example_essays
		WHERE project_id = $1
		ORDER BY version_number ASC
	`
	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		log.Error("failed to list example essays",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()))
		return nil, fmt.Errorf("failed to list example essays: %w", err)
	}
	defer func() { _ = rows.Close() }()

	examples := []*domain.ExampleEssay{}
	for rows.Next() {
		example, err := scanExample(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan example essay row: %w", err)
		}
		examples = append(examples, example)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating example essay rows: %w", err)
	}
	return examples, nil
}
