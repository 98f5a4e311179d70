package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/domain"
)

// FeedbackStore defines the interface for feedback persistence.
// Feedback rows are one-to-one with essay versions, enforced by a unique
// index on essay_version_id.
type FeedbackStore interface {
	// Create saves a new feedback row.
	// Returns ErrFeedbackExists if the essay version already has feedback.
	Create(ctx context.Context, feedback *domain.Feedback) error

	// GetByID retrieves a feedback row by its unique ID.
	// Returns ErrFeedbackNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Feedback, error)

	// GetByVersionID retrieves the feedback row for the given essay version.
	// Returns ErrFeedbackNotFound if the version has no feedback yet.
	GetByVersionID(ctx context.Context, versionID uuid.UUID) (*domain.Feedback, error)

	// ListByProject retrieves all feedback rows for a project ordered by
	// ascending version number.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Feedback, error)

	// Update saves changes to an existing feedback row, including scores,
	// critiques, annotations, status and timestamps.
	// Returns ErrFeedbackNotFound if the row does not exist.
	Update(ctx context.Context, feedback *domain.Feedback) error

	// UpdateStatus updates only the status of an existing feedback row.
	// Returns ErrFeedbackNotFound if the row does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FeedbackStatus) error

	// WithTx returns a new FeedbackStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) FeedbackStore
}
