package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/domain"
)

// EssayVersionStore defines the interface for essay version persistence.
type EssayVersionStore interface {
	// Create saves a new essay version to the store.
	// Returns validation errors from the domain EssayVersion if data is invalid.
	Create(ctx context.Context, version *domain.EssayVersion) error

	// GetByID retrieves an essay version by its unique ID.
	// Returns ErrVersionNotFound if the version does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EssayVersion, error)

	// GetByProjectAndNumber retrieves the version with the given number
	// within a project.
	// Returns ErrVersionNotFound if no such version exists.
	GetByProjectAndNumber(ctx context.Context, projectID uuid.UUID, versionNumber int) (*domain.EssayVersion, error)

	// ListByProject retrieves all versions of a project ordered by ascending
	// version number. Returns an empty slice when the project has no versions.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.EssayVersion, error)

	// UpdateStatus updates the status of an existing essay version.
	// Returns ErrVersionNotFound if the version does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProjectStatus) error

	// WithTx returns a new EssayVersionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) EssayVersionStore
}
