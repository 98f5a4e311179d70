package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/domain"
)

// PromptLogStore defines the interface for LLM call log persistence.
// Writes are best-effort; callers treat failures as non-fatal.
type PromptLogStore interface {
	// Create saves a new prompt log entry.
	Create(ctx context.Context, log *domain.PromptLog) error

	// GetByID retrieves one log entry.
	// Returns ErrLogNotFound if no such entry exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PromptLog, error)

	// ListByProject retrieves log entries for a project, newest first.
	ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*domain.PromptLog, error)

	// List retrieves log entries across all projects, newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.PromptLog, error)

	// WithTx returns a new PromptLogStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) PromptLogStore
}
