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

// PostgresEssayVersionStore implements the store.EssayVersionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresEssayVersionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEssayVersionStore creates a new PostgreSQL implementation of the
// EssayVersionStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresEssayVersionStore(db store.DBTX, logger *slog.Logger) *PostgresEssayVersionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresEssayVersionStore{
		db:     db,
		logger: logger.With(slog.String("component", "essay_version_store")),
	}
}

// Ensure PostgresEssayVersionStore implements store.EssayVersionStore interface
var _ store.EssayVersionStore = (*PostgresEssayVersionStore)(nil)

// WithTx implements store.EssayVersionStore.WithTx
func (s *PostgresEssayVersionStore) WithTx(tx *sql.Tx) store.EssayVersionStore {
	return &PostgresEssayVersionStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.EssayVersionStore.Create
// Returns store.ErrInvalidEntity if the project does not exist.
func (s *PostgresEssayVersionStore) Create(ctx context.Context, version *domain.EssayVersion) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := version.Validate(); err != nil {
		log.Warn("essay version validation failed during create",
			slog.String("error", err.Error()),
			slog.String("version_id", version.ID.String()))
		return err
	}

	query := `
		INSERT INTO essay_versions (id, project_id, version_number, content, word_count,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		version.ID,
		version.ProjectID,
		version.VersionNumber,
		version.Content,
		version.WordCount,
		version.Status,
		version.CreatedAt,
		version.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode {
			log.Warn("foreign key violation during version creation",
				slog.String("error", err.Error()),
				slog.String("project_id", version.ProjectID.String()))
			return fmt.Errorf("%w: project with ID %s not found",
				store.ErrInvalidEntity, version.ProjectID)
		}

		log.Error("failed to create essay version",
			slog.String("error", err.Error()),
			slog.String("version_id", version.ID.String()))
		return err
	}

	log.Info("essay version created successfully",
		slog.String("version_id", version.ID.String()),
		slog.String("project_id", version.ProjectID.String()),
		slog.Int("version_number", version.VersionNumber))
	return nil
}

const versionColumns = `id, project_id, version_number, content, word_count, status,
	created_at, updated_at`

func scanVersion(row interface{ Scan(...any) error }) (*domain.EssayVersion, error) {
	var version domain.EssayVersion
	err := row.Scan(
		&version.ID,
		&version.ProjectID,
		&version.VersionNumber,
		&version.Content,
		&version.WordCount,
		&version.Status,
		&version.CreatedAt,
		&version.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// GetByID implements store.EssayVersionStore.GetByID
// Returns store.ErrVersionNotFound if the version does not exist.
func (s *PostgresEssayVersionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.EssayVersion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + versionColumns + ` FROM essay_versions WHERE id = $1`

	version, err := scanVersion(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("essay version not found", slog.String("version_id", id.String()))
			return nil, store.ErrVersionNotFound
		}
		log.Error("failed to get essay version",
			slog.String("error", err.Error()),
			slog.String("version_id", id.String()))
		return nil, fmt.Errorf("failed to get essay version: %w", err)
	}
	return version, nil
}

// GetByProjectAndNumber implements store.EssayVersionStore.GetByProjectAndNumber
// Returns store.ErrVersionNotFound if no such version exists.
func (s *PostgresEssayVersionStore) GetByProjectAndNumber(
	ctx context.Context,
	projectID uuid.UUID,
	versionNumber int,
) (*domain.EssayVersion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + versionColumns + `
		FROM essay_versions
		WHERE project_id = $1 AND version_number = $2
	`
	version, err := scanVersion(s.db.QueryRowContext(ctx, query, projectID, versionNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("essay version not found",
				slog.String("project_id", projectID.String()),
				slog.Int("version_number", versionNumber))
			return nil, store.ErrVersionNotFound
		}
		log.Error("failed to get essay version",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()))
		return nil, fmt.Errorf("failed to get essay version: %w", err)
	}
	return version, nil
}

// ListByProject implements store.EssayVersionStore.ListByProject
func (s *PostgresEssayVersionStore) ListByProject(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*domain.EssayVersion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + versionColumns + `
		FROM essay_versions
		WHERE project_id = $1
		ORDER BY version_number ASC
	`
	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		log.Error("failed to list essay versions",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()))
		return nil, fmt.Errorf("failed to list essay versions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	versions := []*domain.EssayVersion{}
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version row: %w", err)
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating version rows: %w", err)
	}
	return versions, nil
}

// UpdateStatus implements store.EssayVersionStore.UpdateStatus
// Returns store.ErrVersionNotFound if the version does not exist.
func (s *PostgresEssayVersionStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.ProjectStatus,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !status.IsValid() {
		return domain.ErrInvalidProjectStatus
	}

	query := `
		UPDATE essay_versions
		SET status = $2, updated_at = $3
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		log.Error("failed to update essay version status",
			slog.String("error", err.Error()),
			slog.String("version_id", id.String()),
			slog.String("status", string(status)))
		return fmt.Errorf("failed to update essay version status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrVersionNotFound
	}

	log.Debug("essay version status updated",
		slog.String("version_id", id.String()),
		slog.String("status", string(status)))
	return nil
}
