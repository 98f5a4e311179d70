package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/inkgrade/essay-api/internal/llm"
	"github.com/inkgrade/essay-api/internal/platform/logger"
	"github.com/inkgrade/essay-api/internal/store"
)

// Task operation names used for prompt logging.
const (
	opFeedback     = "feedback"
	opAnnotation   = "annotation"
	opExampleEssay = "example_essay"
)

// FeedbackTaskID returns the stable executor ID for a version's scoring task.
func FeedbackTaskID(projectID uuid.UUID, versionNumber int) string {
	return fmt.Sprintf("feedback_%s_%d", projectID, versionNumber)
}

// AnnotationTaskID returns the stable executor ID for one paragraph's
// annotation task.
func AnnotationTaskID(projectID uuid.UUID, versionNumber, paragraphIndex int) string {
	return fmt.Sprintf("annotation_%s_%d_%d", projectID, versionNumber, paragraphIndex)
}

// ExampleEssayTaskID returns the stable executor ID for a version's example
// essay task.
func ExampleEssayTaskID(projectID uuid.UUID, versionNumber int) string {
	return fmt.Sprintf("example_%s_%d", projectID, versionNumber)
}

// AnnotationResult pairs a paragraph's annotations with the paragraph's
// position, so the orchestrator can concatenate across paragraphs in index
// order no matter when each task completed.
type AnnotationResult struct {
	ParagraphIndex int
	Annotations    []domain.Annotation
}

// taskEnv is what every task closure needs: the vendor strategy to call and
// the log sink for the exchange.
type taskEnv struct {
	provider   llm.Provider
	promptLogs store.PromptLogStore
	logger     *slog.Logger
}

// logExchange persists the vendor round trip best-effort. A failed log write
// warns and is swallowed; it never fails the task.
func (env taskEnv) logExchange(
	ctx context.Context,
	operation string,
	projectID uuid.UUID,
	versionNumber int,
	exchange *llm.Exchange,
	taskErr error,
) {
	if env.promptLogs == nil || exchange == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, env.logger)

	entry := domain.NewPromptLog(env.provider.Name(), env.provider.ModelName(), operation)
	entry.ProjectID = &projectID
	entry.VersionNumber = versionNumber
	entry.SystemPrompt = exchange.SystemPrompt
	entry.UserPrompt = exchange.UserPrompt
	entry.RawResponse = exchange.RawResponse
	entry.TokenUsage = exchange.Usage
	entry.Duration = exchange.Duration
	if taskErr != nil {
		entry.ErrorText = taskErr.Error()
	}

	if err := env.promptLogs.Create(ctx, entry); err != nil {
		log.Warn("failed to write prompt log",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
	}
}

// newFeedbackTask wraps the scoring call for the whole essay. Its failure is
// fatal to the submission: without scores there is nothing to persist.
func newFeedbackTask(env taskEnv, project *domain.Project, version *domain.EssayVersion) Func {
	return func(ctx context.Context) (any, error) {
		result, exchange, err := env.provider.GenerateFeedback(ctx, llm.FeedbackRequest{
			Prompt:      project.Prompt,
			Essay:       version.Content,
			ExamType:    project.ExamType,
			TargetScore: project.TargetScore,
		})
		env.logExchange(ctx, opFeedback, project.ID, version.VersionNumber, exchange, err)
		if err != nil {
			return nil, fmt.Errorf("feedback generation failed: %w", err)
		}
		return result, nil
	}
}

// newAnnotationTask wraps the annotation call for one paragraph. Annotation
// tasks run independently of the feedback task. Annotations whose quoted
// span is not found verbatim in the paragraph are kept but counted in a
// warning, since the presentation layer cannot highlight them.
func newAnnotationTask(
	env taskEnv,
	project *domain.Project,
	version *domain.EssayVersion,
	paragraph string,
	paragraphIndex int,
) Func {
	return func(ctx context.Context) (any, error) {
		log := logger.FromContextOrDefault(ctx, env.logger)

		annotations, exchange, err := env.provider.GetAnnotations(ctx, llm.AnnotationRequest{
			Prompt:         project.Prompt,
			Paragraph:      paragraph,
			ParagraphIndex: paragraphIndex,
			ExamType:       project.ExamType,
		})
		env.logExchange(ctx, opAnnotation, project.ID, version.VersionNumber, exchange, err)
		if err != nil {
			return nil, fmt.Errorf("annotation of paragraph %d failed: %w", paragraphIndex, err)
		}

		unverified := 0
		for _, a := range annotations {
			if !a.VerifyAgainst(paragraph) {
				unverified++
			}
		}
		if unverified > 0 {
			log.Warn("annotations do not quote the paragraph verbatim",
				slog.Int("paragraph_index", paragraphIndex),
				slog.Int("unverified", unverified),
				slog.Int("total", len(annotations)))
		}

		return AnnotationResult{
			ParagraphIndex: paragraphIndex,
			Annotations:    annotations,
		}, nil
	}
}

// newExampleEssayTask wraps the example essay call. Its failure degrades the
// submission (no example) but never fails it.
func newExampleEssayTask(env taskEnv, project *domain.Project, version *domain.EssayVersion) Func {
	return func(ctx context.Context) (any, error) {
		result, exchange, err := env.provider.GetExampleEssay(ctx, llm.ExampleEssayRequest{
			Prompt:      project.Prompt,
			Essay:       version.Content,
			ExamType:    project.ExamType,
			TargetScore: project.TargetScore,
		})
		env.logExchange(ctx, opExampleEssay, project.ID, version.VersionNumber, exchange, err)
		if err != nil {
			return nil, fmt.Errorf("example essay generation failed: %w", err)
		}
		return result, nil
	}
}
