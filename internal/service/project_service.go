package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/inkgrade/essay-api/internal/store"
)

// CreateProjectInput carries the fields accepted when creating a project.
// The first essay draft is created together with the project.
type CreateProjectInput struct {
	Title       string
	Prompt      string
	ExamType    string
	Category    string
	TargetScore string
	Content     string
	ChartImage  string
}

// UpdateProjectInput carries the mutable project fields. Nil pointers leave
// the current value untouched.
type UpdateProjectInput struct {
	Title       *string
	Prompt      *string
	Category    *string
	TargetScore *string
	ChartImage  *string
}

// ProjectService manages essay projects and their versions.
type ProjectService interface {
	// CreateProject creates a project together with version 1 of the essay,
	// atomically.
	CreateProject(ctx context.Context, input CreateProjectInput) (*domain.Project, *domain.EssayVersion, error)

	// GetProject retrieves a project by ID.
	GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error)

	// ListProjects retrieves projects, most recently updated first.
	ListProjects(ctx context.Context, limit, offset int) ([]*domain.Project, error)

	// UpdateProject applies the non-nil fields of input to the project.
	UpdateProject(ctx context.Context, id uuid.UUID, input UpdateProjectInput) (*domain.Project, error)

	// DeleteProject soft-deletes a project.
	DeleteProject(ctx context.Context, id uuid.UUID) error

	// AddVersion appends a new essay draft to the project, advancing the
	// version counters, atomically.
	AddVersion(ctx context.Context, projectID uuid.UUID, content string) (*domain.EssayVersion, error)

	// GetVersion retrieves one version of a project by number.
	GetVersion(ctx context.Context, projectID uuid.UUID, versionNumber int) (*domain.EssayVersion, error)

	// ListVersions retrieves all versions of a project in ascending order.
	ListVersions(ctx context.Context, projectID uuid.UUID) ([]*domain.EssayVersion, error)
}

type projectServiceImpl struct {
	db       *sql.DB
	projects store.ProjectStore
	versions store.EssayVersionStore
	logger   *slog.Logger
}

// NewProjectService creates a ProjectService.
// It returns an error if any of the required dependencies are nil.
func NewProjectService(
	db *sql.DB,
	projects store.ProjectStore,
	versions store.EssayVersionStore,
	logger *slog.Logger,
) (ProjectService, error) {
	if db == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if projects == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "projects store cannot be nil"}
	}
	if versions == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "versions store cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &projectServiceImpl{
		db:       db,
		projects: projects,
		versions: versions,
		logger:   logger.With(slog.String("component", "project_service")),
	}, nil
}

// CreateProject implements ProjectService.CreateProject
func (s *projectServiceImpl) CreateProject(
	ctx context.Context,
	input CreateProjectInput,
) (*domain.Project, *domain.EssayVersion, error) {
	project, err := domain.NewProject(
		input.Title,
		input.Prompt,
		domain.ParseExamType(input.ExamType),
		input.Category,
		input.TargetScore,
	)
	if err != nil {
		return nil, nil, wrapError("create_project", "invalid project data", err)
	}
	project.ChartImage = input.ChartImage
	if input.Content != "" {
		project.Status = domain.ProjectStatusSubmitted
	}

	var version *domain.EssayVersion
	if input.Content != "" {
		version, err = domain.NewEssayVersion(project.ID, 1, input.Content)
		if err != nil {
			return nil, nil, wrapError("create_project", "invalid essay content", err)
		}
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.projects.WithTx(tx).Create(ctx, project); err != nil {
			return err
		}
		if version != nil {
			if err := s.versions.WithTx(tx).Create(ctx, version); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, wrapError("create_project", "failed to save project", err)
	}

	s.logger.Info("project created",
		slog.String("project_id", project.ID.String()),
		slog.String("exam_type", string(project.ExamType)),
		slog.Bool("with_content", version != nil))
	return project, version, nil
}

// GetProject implements ProjectService.GetProject
func (s *projectServiceImpl) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError("get_project", "failed to retrieve project", err)
	}
	return project, nil
}

// ListProjects implements ProjectService.ListProjects
func (s *projectServiceImpl) ListProjects(ctx context.Context, limit, offset int) ([]*domain.Project, error) {
	projects, err := s.projects.List(ctx, limit, offset)
	if err != nil {
		return nil, wrapError("list_projects", "failed to list projects", err)
	}
	return projects, nil
}

// UpdateProject implements ProjectService.UpdateProject
func (s *projectServiceImpl) UpdateProject(
	ctx context.Context,
	id uuid.UUID,
	input UpdateProjectInput,
) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError("update_project", "failed to retrieve project", err)
	}

	if input.Title != nil {
		project.Title = *input.Title
	}
	if input.Prompt != nil {
		project.Prompt = *input.Prompt
	}
	if input.Category != nil {
		project.Category = *input.Category
	}
	if input.TargetScore != nil {
		project.TargetScore = *input.TargetScore
	}
	if input.ChartImage != nil {
		project.ChartImage = *input.ChartImage
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, wrapError("update_project", "failed to save project", err)
	}
	return project, nil
}

// DeleteProject implements ProjectService.DeleteProject
func (s *projectServiceImpl) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return wrapError("delete_project", "failed to delete project", err)
	}
	s.logger.Info("project deleted", slog.String("project_id", id.String()))
	return nil
}

// AddVersion implements ProjectService.AddVersion
func (s *projectServiceImpl) AddVersion(
	ctx context.Context,
	projectID uuid.UUID,
	content string,
) (*domain.EssayVersion, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, wrapError("add_version", "failed to retrieve project", err)
	}

	project.AddVersion()
	version, err := domain.NewEssayVersion(projectID, project.CurrentVersion, content)
	if err != nil {
		return nil, wrapError("add_version", "invalid essay content", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.versions.WithTx(tx).Create(ctx, version); err != nil {
			return err
		}
		return s.projects.WithTx(tx).Update(ctx, project)
	})
	if err != nil {
		return nil, wrapError("add_version", "failed to save version", err)
	}

	s.logger.Info("essay version added",
		slog.String("project_id", projectID.String()),
		slog.Int("version_number", version.VersionNumber))
	return version, nil
}

// GetVersion implements ProjectService.GetVersion
func (s *projectServiceImpl) GetVersion(
	ctx context.Context,
	projectID uuid.UUID,
	versionNumber int,
) (*domain.EssayVersion, error) {
	version, err := s.versions.GetByProjectAndNumber(ctx, projectID, versionNumber)
	if err != nil {
		return nil, wrapError("get_version", "failed to retrieve version", err)
	}
	return version, nil
}

// ListVersions implements ProjectService.ListVersions
func (s *projectServiceImpl) ListVersions(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*domain.EssayVersion, error) {
	versions, err := s.versions.ListByProject(ctx, projectID)
	if err != nil {
		return nil, wrapError("list_versions", "failed to list versions", err)
	}
	return versions, nil
}
