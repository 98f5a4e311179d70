package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/domain"
)

// ExampleEssayStore defines the interface for example essay persistence.
// Example essays are unique per (project, version number).
type ExampleEssayStore interface {
	// Upsert inserts the example essay, or replaces the content of the
	// existing row for the same project and version number. Regeneration
	// overwrites rather than duplicates.
	Upsert(ctx context.Context, example *domain.ExampleEssay) error

	// GetByProjectAndNumber retrieves the example essay for the given
	// project and version number.
	// Returns ErrExampleNotFound if none exists.
	GetByProjectAndNumber(ctx context.Context, projectID uuid.UUID, versionNumber int) (*domain.ExampleEssay, error)

	// ListByProject retrieves all example essays for a project ordered by
	// ascending version number.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ExampleEssay, error)

	// WithTx returns a new ExampleEssayStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ExampleEssayStore
}
