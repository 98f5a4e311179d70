package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/domain"
)

// ProjectStore defines the interface for essay project persistence.
type ProjectStore interface {
	// Create saves a new project to the store.
	// Returns validation errors from the domain Project if data is invalid.
	Create(ctx context.Context, project *domain.Project) error

	// GetByID retrieves a project by its unique ID. Soft-deleted projects
	// are not returned.
	// Returns ErrProjectNotFound if the project does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)

	// List retrieves projects ordered by most recently updated first.
	// Soft-deleted projects are excluded. Returns an empty slice when there
	// are no projects.
	List(ctx context.Context, limit, offset int) ([]*domain.Project, error)

	// Update saves changes to an existing project.
	// Returns ErrProjectNotFound if the project does not exist.
	Update(ctx context.Context, project *domain.Project) error

	// UpdateStatus updates the status of an existing project.
	// Returns ErrProjectNotFound if the project does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProjectStatus) error

	// Delete soft-deletes a project. The row is retained but excluded from
	// all reads.
	// Returns ErrProjectNotFound if the project does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ProjectStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) ProjectStore
}
