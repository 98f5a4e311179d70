package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
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

// PostgresFeedbackStore implements the store.FeedbackStore interface
// using a PostgreSQL database as the storage backend. Annotations are
// stored as a JSONB column on the feedback row.
type PostgresFeedbackStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFeedbackStore creates a new PostgreSQL implementation of the
// FeedbackStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresFeedbackStore(db store.DBTX, logger *slog.Logger) *PostgresFeedbackStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFeedbackStore{
		db:     db,
		logger: logger.With(slog.String("component", "feedback_store")),
	}
}

// Ensure PostgresFeedbackStore implements store.FeedbackStore interface
var _ store.FeedbackStore = (*PostgresFeedbackStore)(nil)

// WithTx implements store.FeedbackStore.WithTx
func (s *PostgresFeedbackStore) WithTx(tx *sql.Tx) store.FeedbackStore {
	return &PostgresFeedbackStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.FeedbackStore.Create
// Returns store.ErrFeedbackExists if the essay version already has feedback.
// Returns store.ErrInvalidEntity if the project or version does not exist.
func (s *PostgresFeedbackStore) Create(ctx context.Context, feedback *domain.Feedback) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := feedback.Validate(); err != nil {
		log.Warn("feedback validation failed during create",
			slog.String("error", err.Error()),
			slog.String("feedback_id", feedback.ID.String()))
		return err
	}

	annotations, err := json.Marshal(feedback.Annotations)
	if err != nil {
		return fmt.Errorf("failed to marshal annotations: %w", err)
	}

	query := `
		INSERT INTO feedbacks (id, project_id, essay_version_id, version_number, status,
			score_tr, score_cc, score_lr, score_gra, overall_score,
			feedback_tr, feedback_cc, feedback_lr, feedback_gra, overall_feedback,
			annotations, started_at, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		feedback.ID,
		feedback.ProjectID,
		feedback.EssayVersionID,
		feedback.VersionNumber,
		feedback.Status,
		feedback.ScoreTR,
		feedback.ScoreCC,
		feedback.ScoreLR,
		feedback.ScoreGRA,
		feedback.OverallScore,
		feedback.FeedbackTR,
		feedback.FeedbackCC,
		feedback.FeedbackLR,
		feedback.FeedbackGRA,
		feedback.OverallFeedback,
		annotations,
		feedback.StartedAt,
		feedback.CompletedAt,
		feedback.CreatedAt,
		feedback.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolationCode:
				log.Warn("duplicate feedback for essay version",
					slog.String("version_id", feedback.EssayVersionID.String()))
				return store.ErrFeedbackExists
			case pgForeignKeyViolationCode:
				return fmt.Errorf("%w: referenced project or version not found",
					store.ErrInvalidEntity)
			}
		}

		log.Error("failed to create feedback",
			slog.String("error", err.Error()),
			slog.String("feedback_id", feedback.ID.String()))
		return err
	}

	log.Info("feedback created successfully",
		slog.String("feedback_id", feedback.ID.String()),
		slog.String("version_id", feedback.EssayVersionID.String()))
	return nil
}

const feedbackColumns = `id, project_id, essay_version_id, version_number, status,
	score_tr, score_cc, score_lr, score_gra, overall_score,
	feedback_tr, feedback_cc, feedback_lr, feedback_gra, overall_feedback,
	annotations, started_at, completed_at, created_at, updated_at`

func scanFeedback(row interface{ Scan(...any) error }) (*domain.Feedback, error) {
	var (
		feedback    domain.Feedback
		annotations []byte
		startedAt   sql.NullTime
		completedAt sql.NullTime
	)

	err := row.Scan(
		&feedback.ID,
		&feedback.ProjectID,
		&feedback.EssayVersionID,
		&feedback.VersionNumber,
		&feedback.Status,
		&feedback.ScoreTR,
		&feedback.ScoreCC,
		&feedback.ScoreLR,
		&feedback.ScoreGRA,
		&feedback.OverallScore,
		&feedback.FeedbackTR,
		&feedback.FeedbackCC,
		&feedback.FeedbackLR,
		&feedback.FeedbackGRA,
		&feedback.OverallFeedback,
		&annotations,
		&startedAt,
		&completedAt,
		&feedback.CreatedAt,
		&feedback.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	feedback.Annotations = []domain.Annotation{}
	if len(annotations) > 0 {
		if err := json.Unmarshal(annotations, &feedback.Annotations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal annotations: %w", err)
		}
	}
	if startedAt.Valid {
		t := startedAt.Time
		feedback.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		feedback.CompletedAt = &t
	}
	return &feedback, nil
}

// GetByID implements store.FeedbackStore.GetByID
// Returns store.ErrFeedbackNotFound if the feedback does not exist.
func (s *PostgresFeedbackStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Feedback, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + feedbackColumns + ` FROM feedbacks WHERE id = $1`

	feedback, err := scanFeedback(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("feedback not found", slog.String("feedback_id", id.String()))
			return nil, store.ErrFeedbackNotFound
		}
		log.Error("failed to get feedback",
			slog.String("error", err.Error()),
			slog.String("feedback_id", id.String()))
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return feedback, nil
}

// GetByVersionID implements store.FeedbackStore.GetByVersionID
// Returns store.ErrFeedbackNotFound if the version has no feedback yet.
func (s *PostgresFeedbackStore) GetByVersionID(
	ctx context.Context,
	versionID uuid.UUID,
) (*domain.Feedback, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + feedbackColumns + ` FROM feedbacks WHERE essay_version_id = $1`

	feedback, err := scanFeedback(s.db.QueryRowContext(ctx, query, versionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("feedback not found for version",
				slog.String("version_id", versionID.String()))
			return nil, store.ErrFeedbackNotFound
		}
		log.Error("failed to get feedback by version",
			slog.String("error", err.Error()),
			slog.String("version_id", versionID.String()))
		return nil, fmt.Errorf("failed to get feedback by version: %w", err)
	}
	return feedback, nil
}

// ListByProject implements store.FeedbackStore.ListByProject
func (s *PostgresFeedbackStore) ListByProject(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*domain.Feedback, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + feedbackColumns + `
		FROM feedbacks
		WHERE project_id = $1
		ORDER BY version_number ASC
	`
	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		log.Error("failed to list feedback",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()))
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer func() { _ = rows.Close() }()

	feedbacks := []*domain.Feedback{}
	for rows.Next() {
		feedback, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		feedbacks = append(feedbacks, feedback)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}
	return feedbacks, nil
}

// Update implements store.FeedbackStore.Update
// Returns store.ErrFeedbackNotFound if the row does not exist.
func (s *PostgresFeedbackStore) Update(ctx context.Context, feedback *domain.Feedback) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := feedback.Validate(); err != nil {
		log.Warn("feedback validation failed during update",
			slog.String("error", err.Error()),
			slog.String("feedback_id", feedback.ID.String()))
		return err
	}

	annotations, err := json.Marshal(feedback.Annotations)
	if err != nil {
		return fmt.Errorf("failed to marshal annotations: %w", err)
	}

	feedback.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE feedbacks
		SET status = $2,
			score_tr = $3, score_cc = $4, score_lr = $5, score_gra = $6, overall_score = $7,
			feedback_tr = $8, feedback_cc = $9, feedback_lr = $10, feedback_gra = $11,
			overall_feedback = $12, annotations = $13,
			started_at = $14, completed_at = $15, updated_at = $16
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		feedback.ID,
		feedback.Status,
		feedback.ScoreTR,
		feedback.ScoreCC,
		feedback.ScoreLR,
		feedback.ScoreGRA,
		feedback.OverallScore,
		feedback.FeedbackTR,
		feedback.FeedbackCC,
		feedback.FeedbackLR,
		feedback.FeedbackGRA,
		feedback.OverallFeedback,
		annotations,
		feedback.StartedAt,
		feedback.CompletedAt,
		feedback.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update feedback",
			slog.String("error", err.Error()),
			slog.String("feedback_id", feedback.ID.String()))
		return fmt.Errorf("failed to update feedback: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrFeedbackNotFound
	}

	log.Debug("feedback updated",
		slog.String("feedback_id", feedback.ID.String()),
		slog.String("status", string(feedback.Status)))
	return nil
}

// UpdateStatus implements store.FeedbackStore.UpdateStatus
// Returns store.ErrFeedbackNotFound if the row does not exist.
func (s *PostgresFeedbackStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.FeedbackStatus,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !status.IsValid() {
		return domain.ErrInvalidFeedbackStatus
	}

	query := `
		UPDATE feedbacks
		SET status = $2, updated_at = $3
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		log.Error("failed to update feedback status",
			slog.String("error", err.Error()),
			slog.String("feedback_id", id.String()),
			slog.String("status", string(status)))
		return fmt.Errorf("failed to update feedback status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrFeedbackNotFound
	}
	return nil
}
