package api_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/inkgrade/essay-api/internal/service"
)

// fakeProjectService implements service.ProjectService over an in-memory map.
type fakeProjectService struct {
	mu        sync.Mutex
	projects  map[uuid.UUID]*domain.Project
	versions  map[uuid.UUID][]*domain.EssayVersion
	createErr error
}

func newFakeProjectService() *fakeProjectService {
	return &fakeProjectService{
		projects: make(map[uuid.UUID]*domain.Project),
		versions: make(map[uuid.UUID][]*domain.EssayVersion),
	}
}

func (s *fakeProjectService) CreateProject(
	ctx context.Context,
	input service.CreateProjectInput,
) (*domain.Project, *domain.EssayVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, nil, s.createErr
	}

	project, err := domain.NewProject(
		input.Title, input.Prompt, domain.ParseExamType(input.ExamType), input.Category, input.TargetScore)
	if err != nil {
		return nil, nil, err
	}
	s.projects[project.ID] = project

	var version *domain.EssayVersion
	if input.Content != "" {
		version, err = domain.NewEssayVersion(project.ID, 1, input.Content)
		if err != nil {
			return nil, nil, err
		}
		s.versions[project.ID] = append(s.versions[project.ID], version)
	}
	return project, version, nil
}

func (s *fakeProjectService) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, service.ErrProjectNotFound
	}
	return p, nil
}

func (s *fakeProjectService) ListProjects(ctx context.Context, limit, offset int) ([]*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeProjectService) UpdateProject(
	ctx context.Context,
	id uuid.UUID,
	input service.UpdateProjectInput,
) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, service.ErrProjectNotFound
	}
	if input.Title != nil {
		p.Title = *input.Title
	}
	return p, nil
}

func (s *fakeProjectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return service.ErrProjectNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *fakeProjectService) AddVersion(
	ctx context.Context,
	projectID uuid.UUID,
	content string,
) (*domain.EssayVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[projectID]; !ok {
		return nil, service.ErrProjectNotFound
	}
	version, err := domain.NewEssayVersion(projectID, len(s.versions[projectID])+1, content)
	if err != nil {
		return nil, err
	}
	s.versions[projectID] = append(s.versions[projectID], version)
	return version, nil
}

func (s *fakeProjectService) GetVersion(
	ctx context.Context,
	projectID uuid.UUID,
	versionNumber int,
) (*domain.EssayVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.versions[projectID] {
		if v.VersionNumber == versionNumber {
			return v, nil
		}
	}
	return nil, service.ErrVersionNotFound
}

func (s *fakeProjectService) ListVersions(ctx context.Context, projectID uuid.UUID) ([]*domain.EssayVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions[projectID], nil
}

// fakeFeedbackService implements service.FeedbackService with canned results.
type fakeFeedbackService struct {
	mu       sync.Mutex
	feedback *domain.Feedback
	progress *service.ProgressInfo
	startErr error
	started  int
}

func (s *fakeFeedbackService) StartGeneration(
	ctx context.Context,
	req service.GenerationRequest,
) (*domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startErr != nil {
		return nil, s.startErr
	}
	s.started++
	return s.feedback, nil
}

func (s *fakeFeedbackService) GetFeedback(ctx context.Context, feedbackID uuid.UUID) (*domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.feedback == nil || s.feedback.ID != feedbackID {
		return nil, service.ErrFeedbackNotFound
	}
	return s.feedback, nil
}

func (s *fakeFeedbackService) GetByVersion(
	ctx context.Context,
	projectID uuid.UUID,
	versionNumber int,
) (*domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.feedback == nil {
		return nil, service.ErrFeedbackNotFound
	}
	return s.feedback, nil
}

func (s *fakeFeedbackService) Progress(ctx context.Context, feedbackID uuid.UUID) (*service.ProgressInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress == nil {
		return nil, service.ErrFeedbackNotFound
	}
	return s.progress, nil
}

// fakeAuthService accepts one code and one token.
type fakeAuthService struct {
	code  string
	token string
}

func (s *fakeAuthService) ValidateAccessCode(ctx context.Context, code string) (*service.Token, error) {
	if code != s.code {
		return nil, service.ErrInvalidAccessCode
	}
	return &service.Token{Value: s.token}, nil
}

func (s *fakeAuthService) VerifyToken(ctx context.Context, tokenString string) error {
	if tokenString != s.token {
		return service.ErrInvalidToken
	}
	return nil
}

var _ service.ProjectService = (*fakeProjectService)(nil)
var _ service.FeedbackService = (*fakeFeedbackService)(nil)
var _ service.AuthService = (*fakeAuthService)(nil)
