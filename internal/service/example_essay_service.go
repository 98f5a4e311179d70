package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/inkgrade/essay-api/internal/llm"
	"github.com/inkgrade/essay-api/internal/store"
)

// ExampleEssayService exposes the model essays produced alongside feedback
// and supports generating one on demand, outside a feedback run.
type ExampleEssayService interface {
	// GetExample retrieves the example essay for a project version.
	GetExample(ctx context.Context, projectID uuid.UUID, versionNumber int) (*domain.ExampleEssay, error)

	// ListExamples retrieves all example essays for a project in ascending
	// version order.
	ListExamples(ctx context.Context, projectID uuid.UUID) ([]*domain.ExampleEssay, error)

	// Generate calls the LLM synchronously and upserts the example essay for
	// the version, replacing any prior one.
	Generate(ctx context.Context, projectID uuid.UUID, versionNumber int) (*domain.ExampleEssay, error)
}

type exampleEssayServiceImpl struct {
	examples   store.ExampleEssayStore
	projects   store.ProjectStore
	versions   store.EssayVersionStore
	promptLogs store.PromptLogStore
	provider   llm.Provider
	logger     *slog.Logger
}

// NewExampleEssayService creates an ExampleEssayService.
// It returns an error if any of the required dependencies are nil.
func NewExampleEssayService(
	examples store.ExampleEssayStore,
	projects store.ProjectStore,
	versions store.EssayVersionStore,
	promptLogs store.PromptLogStore,
	provider llm.Provider,
	logger *slog.Logger,
) (ExampleEssayService, error) {
	if examples == nil || projects == nil || versions == nil || promptLogs == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "stores cannot be nil"}
	}
	if provider == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "provider cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &exampleEssayServiceImpl{
		examples:   examples,
		projects:   projects,
		versions:   versions,
		promptLogs: promptLogs,
		provider:   provider,
		logger:     logger.With(slog.String("component", "example_essay_service")),
	}, nil
}

// GetExample implements ExampleEssayService.GetExample
func (s *exampleEssayServiceImpl) GetExample(
	ctx context.Context,
	projectID uuid.UUID,
	versionNumber int,
) (*domain.ExampleEssay, error) {
	example, err := s.examples.GetByProjectAndNumber(ctx, projectID, versionNumber)
	if err != nil {
		return nil, wrapError("get_example", "failed to retrieve example essay", err)
	}
	return example, nil
}

// ListExamples implements ExampleEssayService.ListExamples
func (s *exampleEssayServiceImpl) ListExamples(
	ctx context.Context,
	projectID uuid.UUID,
) ([]*domain.ExampleEssay, error) {
	examples, err := s.examples.ListByProject(ctx, projectID)
	if err != nil {
		return nil, wrapError("list_examples", "failed to list example essays", err)
	}
	return examples, nil
}

// Generate implements ExampleEssayService.Generate
func (s *exampleEssayServiceImpl) Generate(
	ctx context.Context,
	projectID uuid.UUID,
	versionNumber int,
) (*domain.ExampleEssay, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, wrapError("generate_example", "failed to retrieve project", err)
	}
	version, err := s.versions.GetByProjectAndNumber(ctx, projectID, versionNumber)
	if err != nil {
		return nil, wrapError("generate_example", "failed to retrieve version", err)
	}

	result, exchange, callErr := s.provider.GetExampleEssay(ctx, llm.ExampleEssayRequest{
		Prompt:      project.Prompt,
		Essay:       version.Content,
		ExamType:    project.ExamType,
		TargetScore: project.TargetScore,
	})
	s.logExchange(ctx, project.ID, versionNumber, exchange, callErr)
	if callErr != nil {
		return nil, wrapError("generate_example", "example essay generation failed", callErr)
	}

	example, err := domain.NewExampleEssay(
		project.ID, versionNumber, result.Content, result.Improvement, domain.ProjectStatusCompleted)
	if err != nil {
		return nil, wrapError("generate_example", "invalid example essay", err)
	}
	if err := s.examples.Upsert(ctx, example); err != nil {
		return nil, wrapError("generate_example", "failed to save example essay", err)
	}

	s.logger.Info("example essay generated",
		slog.String("project_id", project.ID.String()),
		slog.Int("version_number", versionNumber),
		slog.Int("word_count", example.WordCount))
	return example, nil
}

// logExchange persists the vendor round trip best-effort; a failed write
// warns and is swallowed.
func (s *exampleEssayServiceImpl) logExchange(
	ctx context.Context,
	projectID uuid.UUID,
	versionNumber int,
	exchange *llm.Exchange,
	callErr error,
) {
	if exchange == nil {
		return
	}

	entry := domain.NewPromptLog(s.provider.Name(), s.provider.ModelName(), "example_essay")
	entry.ProjectID = &projectID
	entry.VersionNumber = versionNumber
	entry.SystemPrompt = exchange.SystemPrompt
	entry.UserPrompt = exchange.UserPrompt
	entry.RawResponse = exchange.RawResponse
	entry.TokenUsage = exchange.Usage
	entry.Duration = exchange.Duration
	if callErr != nil {
		entry.ErrorText = callErr.Error()
	}

	if err := s.promptLogs.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write prompt log", slog.String("error", err.Error()))
	}
}
