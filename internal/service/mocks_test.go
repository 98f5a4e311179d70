package service_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/inkgrade/essay-api/internal/llm"
	"github.com/inkgrade/essay-api/internal/store"
	"github.com/inkgrade/essay-api/internal/task"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProjectStore is an in-memory ProjectStore.
type fakeProjectStore struct {
	mu       sync.Mutex
	projects map[uuid.UUID]*domain.Project
	getErr   error
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[uuid.UUID]*domain.Project)}
}

func (s *fakeProjectStore) Create(ctx context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p
	return nil
}

func (s *fakeProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	p, ok := s.projects[id]
	if !ok {
		return nil, store.ErrProjectNotFound
	}
	return p, nil
}

func (s *fakeProjectStore) List(ctx context.Context, limit, offset int) ([]*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeProjectStore) Update(ctx context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; !ok {
		return store.ErrProjectNotFound
	}
	s.projects[p.ID] = p
	return nil
}

func (s *fakeProjectStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProjectStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return store.ErrProjectNotFound
	}
	p.Status = status
	return nil
}

func (s *fakeProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return store.ErrProjectNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *fakeProjectStore) WithTx(tx *sql.Tx) store.ProjectStore { return s }

// fakeVersionStore is an in-memory EssayVersionStore.
type fakeVersionStore struct {
	mu       sync.Mutex
	versions map[uuid.UUID]*domain.EssayVersion
}

func newFakeVersionStore() *fakeVersionStore {
	return &fakeVersionStore{versions: make(map[uuid.UUID]*domain.EssayVersion)}
}

func (s *fakeVersionStore) Create(ctx context.Context, v *domain.EssayVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[v.ID] = v
	return nil
}

func (s *fakeVersionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.EssayVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.versions[id]
	if !ok {
		return nil, store.ErrVersionNotFound
	}
	return v, nil
}

func (s *fakeVersionStore) GetByProjectAndNumber(
	ctx context.Context,
	projectID uuid.UUID,
	versionNumber int,
) (*domain.EssayVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.versions {
		if v.ProjectID == projectID && v.VersionNumber == versionNumber {
			return v, nil
		}
	}
	return nil, store.ErrVersionNotFound
}

func (s *fakeVersionStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.EssayVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.EssayVersion
	for _, v := range s.versions {
		if v.ProjectID == projectID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *fakeVersionStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProjectStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.versions[id]
	if !ok {
		return store.ErrVersionNotFound
	}
	v.Status = status
	return nil
}

func (s *fakeVersionStore) WithTx(tx *sql.Tx) store.EssayVersionStore { return s }

// fakeFeedbackStore is an in-memory FeedbackStore keyed by feedback ID.
type fakeFeedbackStore struct {
	mu        sync.Mutex
	feedbacks map[uuid.UUID]*domain.Feedback
	updateErr error
}

func newFakeFeedbackStore() *fakeFeedbackStore {
	return &fakeFeedbackStore{feedbacks: make(map[uuid.UUID]*domain.Feedback)}
}

func (s *fakeFeedbackStore) Create(ctx context.Context, f *domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.feedbacks {
		if existing.EssayVersionID == f.EssayVersionID {
			return store.ErrFeedbackExists
		}
	}
	s.feedbacks[f.ID] = f
	return nil
}

func (s *fakeFeedbackStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.feedbacks[id]
	if !ok {
		return nil, store.ErrFeedbackNotFound
	}
	return f, nil
}

func (s *fakeFeedbackStore) GetByVersionID(ctx context.Context, versionID uuid.UUID) (*domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.feedbacks {
		if f.EssayVersionID == versionID {
			return f, nil
		}
	}
	return nil, store.ErrFeedbackNotFound
}

func (s *fakeFeedbackStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Feedback
	for _, f := range s.feedbacks {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeFeedbackStore) Update(ctx context.Context, f *domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.feedbacks[f.ID]; !ok {
		return store.ErrFeedbackNotFound
	}
	s.feedbacks[f.ID] = f
	return nil
}

func (s *fakeFeedbackStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FeedbackStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.feedbacks[id]
	if !ok {
		return store.ErrFeedbackNotFound
	}
	f.Status = status
	return nil
}

func (s *fakeFeedbackStore) WithTx(tx *sql.Tx) store.FeedbackStore { return s }

// fakeExampleStore is an in-memory ExampleEssayStore.
type fakeExampleStore struct {
	mu       sync.Mutex
	examples map[string]*domain.ExampleEssay
}

func newFakeExampleStore() *fakeExampleStore {
	return &fakeExampleStore{examples: make(map[string]*domain.ExampleEssay)}
}

func exampleKey(projectID uuid.UUID, versionNumber int) string {
	return fmt.Sprintf("%s:%d", projectID, versionNumber)
}

func (s *fakeExampleStore) Upsert(ctx context.Context, e *domain.ExampleEssay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.examples[exampleKey(e.ProjectID, e.VersionNumber)] = e
	return nil
}

func (s *fakeExampleStore) GetByProjectAndNumber(
	ctx context.Context,
	projectID uuid.UUID,
	versionNumber int,
) (*domain.ExampleEssay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.examples[exampleKey(projectID, versionNumber)]
	if !ok {
		return nil, store.ErrExampleNotFound
	}
	return e, nil
}

func (s *fakeExampleStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ExampleEssay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.ExampleEssay
	for _, e := range s.examples {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeExampleStore) WithTx(tx *sql.Tx) store.ExampleEssayStore { return s }

// fakeSettingsStore is an in-memory SettingsStore.
type fakeSettingsStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{values: make(map[string]string)}
}

func (s *fakeSettingsStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.values[key]
	if !ok {
		return "", store.ErrSettingNotFound
	}
	return v, nil
}

func (s *fakeSettingsStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *fakeSettingsStore) All(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out, nil
}

func (s *fakeSettingsStore) WithTx(tx *sql.Tx) store.SettingsStore { return s }

// fakePromptLogStore is an in-memory PromptLogStore.
type fakePromptLogStore struct {
	mu      sync.Mutex
	entries []*domain.PromptLog
}

func newFakePromptLogStore() *fakePromptLogStore {
	return &fakePromptLogStore{}
}

func (s *fakePromptLogStore) Create(ctx context.Context, entry *domain.PromptLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *fakePromptLogStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PromptLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, store.ErrLogNotFound
}

func (s *fakePromptLogStore) ListByProject(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*domain.PromptLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.PromptLog
	for _, e := range s.entries {
		if e.ProjectID != nil && *e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakePromptLogStore) List(ctx context.Context, limit, offset int) ([]*domain.PromptLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.PromptLog(nil), s.entries...), nil
}

func (s *fakePromptLogStore) WithTx(tx *sql.Tx) store.PromptLogStore { return s }

func (s *fakePromptLogStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// fakeProvider returns canned results for the example essay path.
type fakeProvider struct {
	exampleResult *llm.ExampleEssayResult
	exampleErr    error
}

func (p *fakeProvider) Name() string          { return "fake" }
func (p *fakeProvider) ModelName() string     { return "fake-model" }
func (p *fakeProvider) ValidateConfig() error { return nil }

func (p *fakeProvider) GenerateFeedback(ctx context.Context, req llm.FeedbackRequest) (*llm.FeedbackResult, *llm.Exchange, error) {
	return nil, nil, errors.New("not implemented")
}

func (p *fakeProvider) GetAnnotations(ctx context.Context, req llm.AnnotationRequest) ([]domain.Annotation, *llm.Exchange, error) {
	return nil, nil, errors.New("not implemented")
}

func (p *fakeProvider) GetExampleEssay(ctx context.Context, req llm.ExampleEssayRequest) (*llm.ExampleEssayResult, *llm.Exchange, error) {
	exchange := &llm.Exchange{
		SystemPrompt: "system",
		UserPrompt:   req.Prompt,
		RawResponse:  "{}",
	}
	return p.exampleResult, exchange, p.exampleErr
}

// fakeOrchestrator records Run invocations and signals completion.
type fakeOrchestrator struct {
	mu   sync.Mutex
	runs []task.Request
	done chan struct{}
	err  error
}

func newFakeOrchestrator() *fakeOrchestrator {
	return &fakeOrchestrator{done: make(chan struct{}, 8)}
}

func (o *fakeOrchestrator) Run(ctx context.Context, req task.Request) error {
	o.mu.Lock()
	o.runs = append(o.runs, req)
	err := o.err
	o.mu.Unlock()
	o.done <- struct{}{}
	return err
}

func (o *fakeOrchestrator) runCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.runs)
}

func (o *fakeOrchestrator) lastRun() task.Request {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.runs[len(o.runs)-1]
}
