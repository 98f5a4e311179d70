package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/inkgrade/essay-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Transactional paths (CreateProject, AddVersion) need a real database and
// are covered by the postgres integration tests; these tests exercise the
// read and single-write paths against fakes. The placeholder *sql.DB is
// never touched.
func newProjectFixture(t *testing.T) (service.ProjectService, *fakeProjectStore, *fakeVersionStore) {
	t.Helper()
	projects := newFakeProjectStore()
	versions := newFakeVersionStore()
	svc, err := service.NewProjectService(new(sql.DB), projects, versions, newTestLogger())
	require.NoError(t, err)
	return svc, projects, versions
}

func seedProject(t *testing.T, projects *fakeProjectStore) *domain.Project {
	t.Helper()
	project, err := domain.NewProject("Task 1 letter", "Write a letter...", domain.ExamTypeIELTS, "task1", "6.5")
	require.NoError(t, err)
	require.NoError(t, projects.Create(context.Background(), project))
	return project
}

func TestGetProject(t *testing.T) {
	t.Parallel()

	svc, projects, _ := newProjectFixture(t)
	project := seedProject(t, projects)

	got, err := svc.GetProject(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)

	_, err = svc.GetProject(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestUpdateProjectAppliesOnlyProvidedFields(t *testing.T) {
	t.Parallel()

	svc, projects, _ := newProjectFixture(t)
	project := seedProject(t, projects)

	newTitle := "Renamed"
	newTarget := "7.5"
	updated, err := svc.UpdateProject(context.Background(), project.ID, service.UpdateProjectInput{
		Title:       &newTitle,
		TargetScore: &newTarget,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "7.5", updated.TargetScore)
	assert.Equal(t, "Write a letter...", updated.Prompt)
	assert.Equal(t, "task1", updated.Category)
}

func TestUpdateProjectUnknownID(t *testing.T) {
	t.Parallel()

	svc, _, _ := newProjectFixture(t)
	title := "x"
	_, err := svc.UpdateProject(context.Background(), uuid.New(), service.UpdateProjectInput{Title: &title})
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestDeleteProject(t *testing.T) {
	t.Parallel()

	svc, projects, _ := newProjectFixture(t)
	project := seedProject(t, projects)

	require.NoError(t, svc.DeleteProject(context.Background(), project.ID))
	_, err := svc.GetProject(context.Background(), project.ID)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)

	assert.ErrorIs(t, svc.DeleteProject(context.Background(), uuid.New()), service.ErrProjectNotFound)
}

func TestGetAndListVersions(t *testing.T) {
	t.Parallel()

	svc, projects, versions := newProjectFixture(t)
	project := seedProject(t, projects)

	v1, err := domain.NewEssayVersion(project.ID, 1, "Draft one.")
	require.NoError(t, err)
	require.NoError(t, versions.Create(context.Background(), v1))

	got, err := svc.GetVersion(context.Background(), project.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, v1.ID, got.ID)

	_, err = svc.GetVersion(context.Background(), project.ID, 2)
	assert.ErrorIs(t, err, service.ErrVersionNotFound)

	list, err := svc.ListVersions(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNewProjectServiceValidation(t *testing.T) {
	t.Parallel()

	_, err := service.NewProjectService(nil, newFakeProjectStore(), newFakeVersionStore(), nil)
	assert.Error(t, err)

	_, err = service.NewProjectService(new(sql.DB), nil, newFakeVersionStore(), nil)
	assert.Error(t, err)

	_, err = service.NewProjectService(new(sql.DB), newFakeProjectStore(), nil, nil)
	assert.Error(t, err)
}
