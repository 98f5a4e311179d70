package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/inkgrade/essay-api/internal/llm"
	"github.com/inkgrade/essay-api/internal/platform/logger"
	"github.com/inkgrade/essay-api/internal/store"
)

// ErrFeedbackTaskFailed indicates the mandatory scoring task produced no
// result, which fails the whole submission.
var ErrFeedbackTaskFailed = errors.New("task: feedback task produced no result")

// Concurrency bounds enforced around the configured setting.
const (
	defaultMaxConcurrency = 1
	maxAllowedConcurrency = 20
)

// ConcurrencyConfig supplies the configured concurrency limit. A submission
// never fails because this could not be read; implementations return the
// default instead of an error.
type ConcurrencyConfig interface {
	MaxConcurrentTasks(ctx context.Context) int
}

// placeholder used when a vendor returns scores but an empty critique text.
const missingCritique = "No feedback available."

// Orchestrator drives one essay submission end to end: it builds the task
// set, runs it under the bounded executor, reduces the per-task outcomes
// into one aggregate feedback record and persists it.
type Orchestrator struct {
	feedbacks   store.FeedbackStore
	versions    store.EssayVersionStore
	projects    store.ProjectStore
	examples    store.ExampleEssayStore
	promptLogs  store.PromptLogStore
	provider    llm.Provider
	concurrency ConcurrencyConfig
	tracker     ProgressTracker
	logger      *slog.Logger
}

// NewOrchestrator wires an orchestrator from its collaborators.
func NewOrchestrator(
	feedbacks store.FeedbackStore,
	versions store.EssayVersionStore,
	projects store.ProjectStore,
	examples store.ExampleEssayStore,
	promptLogs store.PromptLogStore,
	provider llm.Provider,
	concurrency ConcurrencyConfig,
	tracker ProgressTracker,
	log *slog.Logger,
) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		feedbacks:   feedbacks,
		versions:    versions,
		projects:    projects,
		examples:    examples,
		promptLogs:  promptLogs,
		provider:    provider,
		concurrency: concurrency,
		tracker:     tracker,
		logger:      log.With(slog.String("component", "feedback_orchestrator")),
	}
}

// Request identifies one submission to orchestrate. The feedback row already
// exists (pending or being re-run); the caller has already answered the HTTP
// request, so failures surface only through status and progress polling.
type Request struct {
	Feedback             *domain.Feedback
	Project              *domain.Project
	Version              *domain.EssayVersion
	GenerateExampleEssay bool
}

// Run executes the full orchestration for one submission. On any error the
// feedback row is moved to FAILED best-effort and the progress entry is
// cleared; the error return is for the caller's log only.
func (o *Orchestrator) Run(ctx context.Context, req Request) (err error) {
	log := logger.FromContextOrDefault(ctx, o.logger).With(
		slog.String("feedback_id", req.Feedback.ID.String()),
		slog.String("project_id", req.Project.ID.String()),
		slog.Int("version_number", req.Version.VersionNumber))

	defer o.tracker.Delete(req.Feedback.ID)
	defer func() {
		if err != nil {
			log.Error("feedback orchestration failed", slog.String("error", err.Error()))
			o.markFailed(ctx, req.Feedback)
		}
	}()

	// Step 1: stamp the start and move feedback and version into their
	// in-flight states.
	startedAt := time.Now().UTC()
	req.Feedback.StartedAt = &startedAt
	req.Feedback.Status = domain.FeedbackStatusInProgress
	if err := o.feedbacks.Update(ctx, req.Feedback); err != nil {
		return fmt.Errorf("failed to mark feedback in progress: %w", err)
	}
	if err := o.versions.UpdateStatus(ctx, req.Version.ID, domain.ProjectStatusProcessing); err != nil {
		return fmt.Errorf("failed to mark version processing: %w", err)
	}

	// Step 2: paragraph split. Zero paragraphs is fine; the submission then
	// carries only the feedback (and optional example) tasks.
	paragraphs := req.Version.Paragraphs()

	// Step 3: concurrency limit from configuration, clamped to sane bounds.
	maxConcurrency := defaultMaxConcurrency
	if o.concurrency != nil {
		maxConcurrency = clampConcurrency(o.concurrency.MaxConcurrentTasks(ctx))
	}

	// Step 4: build the task set in deterministic order: feedback first,
	// then annotations by paragraph index, then the example essay.
	executor, err := NewExecutor(maxConcurrency, o.logger)
	if err != nil {
		return err
	}

	env := taskEnv{
		provider:   o.provider,
		promptLogs: o.promptLogs,
		logger:     o.logger,
	}

	feedbackID := FeedbackTaskID(req.Project.ID, req.Version.VersionNumber)
	if err := executor.AddTask(feedbackID, newFeedbackTask(env, req.Project, req.Version)); err != nil {
		return err
	}
	for i, paragraph := range paragraphs {
		id := AnnotationTaskID(req.Project.ID, req.Version.VersionNumber, i)
		if err := executor.AddTask(id, newAnnotationTask(env, req.Project, req.Version, paragraph, i)); err != nil {
			return err
		}
	}
	exampleID := ""
	if req.GenerateExampleEssay {
		exampleID = ExampleEssayTaskID(req.Project.ID, req.Version.VersionNumber)
		if err := executor.AddTask(exampleID, newExampleEssayTask(env, req.Project, req.Version)); err != nil {
			return err
		}
	}

	// Step 5: publish the task count, then drain the queue.
	total := len(executor.queue)
	o.tracker.Set(req.Feedback.ID, Progress{
		Stage:      StageExecuting,
		TotalItems: total,
	})
	executor.OnSettled(func(completed, totalTasks int) {
		o.tracker.Set(req.Feedback.ID, Progress{
			Stage:       StageExecuting,
			TotalItems:  totalTasks,
			CurrentItem: completed,
		})
	})

	log.Info("executing feedback task set",
		slog.Int("tasks", total),
		slog.Int("paragraphs", len(paragraphs)),
		slog.Int("max_concurrency", maxConcurrency),
		slog.String("vendor", o.provider.Name()))

	if err := executor.ExecuteAll(ctx); err != nil {
		return err
	}

	o.tracker.Set(req.Feedback.ID, Progress{
		Stage:       StageAggregating,
		TotalItems:  total,
		CurrentItem: total,
	})

	// Step 6: the scoring result is mandatory.
	raw, ok := executor.Result(feedbackID)
	if !ok {
		if taskErr := executor.Err(feedbackID); taskErr != nil {
			return fmt.Errorf("%w: %v", ErrFeedbackTaskFailed, taskErr)
		}
		return ErrFeedbackTaskFailed
	}
	feedbackResult, ok := raw.(*llm.FeedbackResult)
	if !ok {
		return fmt.Errorf("%w: unexpected result type %T", ErrFeedbackTaskFailed, raw)
	}

	// Step 7: concatenate annotations by ascending paragraph index, never by
	// completion order. A failed paragraph contributes nothing.
	annotations := []domain.Annotation{}
	for i := range paragraphs {
		id := AnnotationTaskID(req.Project.ID, req.Version.VersionNumber, i)
		if taskErr := executor.Err(id); taskErr != nil {
			log.Warn("annotation task failed; paragraph contributes no annotations",
				slog.Int("paragraph_index", i),
				slog.String("error", taskErr.Error()))
			continue
		}
		result, ok := executor.Result(id)
		if !ok {
			continue
		}
		annotationResult, ok := result.(AnnotationResult)
		if !ok {
			log.Warn("annotation task returned unexpected type",
				slog.Int("paragraph_index", i))
			continue
		}
		annotations = append(annotations, annotationResult.Annotations...)
	}

	// Step 8: the example essay degrades gracefully.
	if req.GenerateExampleEssay {
		o.persistExampleEssay(ctx, log, executor, exampleID, req)
	}

	// Step 9: reduce into the aggregate feedback row and persist it, then
	// move version and project to reviewed. The writes are not transactional;
	// a crash between them leaves a stale status, which the next submission
	// corrects.
	req.Feedback.SetScores(
		feedbackResult.ScoreTR,
		feedbackResult.ScoreCC,
		feedbackResult.ScoreLR,
		feedbackResult.ScoreGRA,
	)
	if req.Feedback.OverallScore == 0 &&
		feedbackResult.ScoreTR == 0 && feedbackResult.ScoreCC == 0 &&
		feedbackResult.ScoreLR == 0 && feedbackResult.ScoreGRA == 0 {
		log.Warn("all sub-scores are zero; persisting anyway")
	}

	req.Feedback.FeedbackTR = critiqueOr(feedbackResult.FeedbackTR)
	req.Feedback.FeedbackCC = critiqueOr(feedbackResult.FeedbackCC)
	req.Feedback.FeedbackLR = critiqueOr(feedbackResult.FeedbackLR)
	req.Feedback.FeedbackGRA = critiqueOr(feedbackResult.FeedbackGRA)
	req.Feedback.OverallFeedback = critiqueOr(feedbackResult.OverallFeedback)
	req.Feedback.Annotations = annotations
	req.Feedback.Status = domain.FeedbackStatusCompleted
	completedAt := time.Now().UTC()
	req.Feedback.CompletedAt = &completedAt

	if err := o.feedbacks.Update(ctx, req.Feedback); err != nil {
		return fmt.Errorf("failed to persist feedback: %w", err)
	}
	if err := o.versions.UpdateStatus(ctx, req.Version.ID, domain.ProjectStatusReviewed); err != nil {
		return fmt.Errorf("failed to mark version reviewed: %w", err)
	}
	if err := o.projects.UpdateStatus(ctx, req.Project.ID, domain.ProjectStatusReviewed); err != nil {
		return fmt.Errorf("failed to mark project reviewed: %w", err)
	}

	log.Info("feedback orchestration completed",
		slog.Float64("overall_score", req.Feedback.OverallScore),
		slog.Int("annotations", len(annotations)),
		slog.Duration("elapsed", completedAt.Sub(startedAt)))
	return nil
}

// persistExampleEssay upserts the example essay result, if the task
// succeeded. Failures on either the task or the write are logged and
// swallowed.
func (o *Orchestrator) persistExampleEssay(
	ctx context.Context,
	log *slog.Logger,
	executor *Executor,
	exampleID string,
	req Request,
) {
	if taskErr := executor.Err(exampleID); taskErr != nil {
		log.Warn("example essay task failed; continuing without example",
			slog.String("error", taskErr.Error()))
		return
	}
	raw, ok := executor.Result(exampleID)
	if !ok {
		return
	}
	result, ok := raw.(*llm.ExampleEssayResult)
	if !ok {
		log.Warn("example essay task returned unexpected type")
		return
	}

	example, err := domain.NewExampleEssay(
		req.Project.ID,
		req.Version.VersionNumber,
		result.Content,
		result.Improvement,
		domain.ProjectStatusCompleted,
	)
	if err != nil {
		log.Warn("example essay result invalid", slog.String("error", err.Error()))
		return
	}
	if err := o.examples.Upsert(ctx, example); err != nil {
		log.Warn("failed to persist example essay", slog.String("error", err.Error()))
	}
}

// markFailed moves the feedback row to FAILED. It is best-effort: status
// writes on the failure path must not produce further failures, and they run
// detached from any cancelled request context.
func (o *Orchestrator) markFailed(ctx context.Context, feedback *domain.Feedback) {
	detached := context.WithoutCancel(ctx)
	if err := o.feedbacks.UpdateStatus(detached, feedback.ID, domain.FeedbackStatusFailed); err != nil {
		o.logger.Error("failed to mark feedback as failed",
			slog.String("feedback_id", feedback.ID.String()),
			slog.String("error", err.Error()))
	}
}

func critiqueOr(critique string) string {
	if critique == "" {
		return missingCritique
	}
	return critique
}

func clampConcurrency(v int) int {
	if v < 1 {
		return defaultMaxConcurrency
	}
	if v > maxAllowedConcurrency {
		return maxAllowedConcurrency
	}
	return v
}
