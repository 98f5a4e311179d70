package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/inkgrade/essay-api/internal/platform/logger"
	"github.com/inkgrade/essay-api/internal/store"
	"github.com/inkgrade/essay-api/internal/task"
)

// OrchestratorRunner drives one submission end to end. Implemented by
// task.Orchestrator; abstracted so tests can substitute a fake.
type OrchestratorRunner interface {
	Run(ctx context.Context, req task.Request) error
}

// GenerationRequest identifies the version to score.
type GenerationRequest struct {
	ProjectID            uuid.UUID
	VersionNumber        int
	GenerateExampleEssay bool
}

// ProgressInfo combines the persisted feedback status with the in-memory
// progress descriptor. InFlight is false when no tracker entry exists; a
// poller seeing that with status still IN_PROGRESS is looking at a restarted
// server and should fall back to the status field.
type ProgressInfo struct {
	FeedbackID  uuid.UUID             `json:"feedback_id"`
	Status      domain.FeedbackStatus `json:"status"`
	InFlight    bool                  `json:"in_flight"`
	Stage       task.Stage            `json:"stage,omitempty"`
	TotalItems  int                   `json:"total_items,omitempty"`
	CurrentItem int                   `json:"current_item,omitempty"`
}

// FeedbackService starts and observes feedback generation runs.
type FeedbackService interface {
	// StartGeneration finds or creates the feedback row for the version and
	// launches orchestration in the background. The caller responds 202
	// immediately; outcome is observable only via Status and Progress.
	// Returns ErrGenerationInProgress if a run is already active for the row.
	StartGeneration(ctx context.Context, req GenerationRequest) (*domain.Feedback, error)

	// GetFeedback retrieves a feedback row by ID.
	GetFeedback(ctx context.Context, feedbackID uuid.UUID) (*domain.Feedback, error)

	// GetByVersion retrieves the feedback row for a project version.
	GetByVersion(ctx context.Context, projectID uuid.UUID, versionNumber int) (*domain.Feedback, error)

	// Progress reports the polling view for a feedback row.
	Progress(ctx context.Context, feedbackID uuid.UUID) (*ProgressInfo, error)
}

type feedbackServiceImpl struct {
	projects     store.ProjectStore
	versions     store.EssayVersionStore
	feedbacks    store.FeedbackStore
	orchestrator OrchestratorRunner
	tracker      task.ProgressTracker
	logger       *slog.Logger
}

// NewFeedbackService creates a FeedbackService.
// It returns an error if any of the required dependencies are nil.
func NewFeedbackService(
	projects store.ProjectStore,
	versions store.EssayVersionStore,
	feedbacks store.FeedbackStore,
	orchestrator OrchestratorRunner,
	tracker task.ProgressTracker,
	log *slog.Logger,
) (FeedbackService, error) {
	if projects == nil || versions == nil || feedbacks == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "stores cannot be nil"}
	}
	if orchestrator == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "orchestrator cannot be nil"}
	}
	if tracker == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "tracker cannot be nil"}
	}
	if log == nil {
		log = slog.Default()
	}

	return &feedbackServiceImpl{
		projects:     projects,
		versions:     versions,
		feedbacks:    feedbacks,
		orchestrator: orchestrator,
		tracker:      tracker,
		logger:       log.With(slog.String("component", "feedback_service")),
	}, nil
}

// StartGeneration implements FeedbackService.StartGeneration
func (s *feedbackServiceImpl) StartGeneration(
	ctx context.Context,
	req GenerationRequest,
) (*domain.Feedback, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	project, err := s.projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, wrapError("start_generation", "failed to retrieve project", err)
	}
	version, err := s.versions.GetByProjectAndNumber(ctx, req.ProjectID, req.VersionNumber)
	if err != nil {
		return nil, wrapError("start_generation", "failed to retrieve version", err)
	}

	// One live feedback row per version: reuse and reset the existing row on
	// resubmission rather than inserting a second one.
	feedback, err := s.feedbacks.GetByVersionID(ctx, version.ID)
	switch {
	case err == nil:
		if feedback.Status == domain.FeedbackStatusInProgress {
			return nil, ErrGenerationInProgress
		}
		resetFeedback(feedback)
		if err := s.feedbacks.Update(ctx, feedback); err != nil {
			return nil, wrapError("start_generation", "failed to reset feedback", err)
		}
	case errors.Is(err, store.ErrFeedbackNotFound):
		feedback, err = domain.NewFeedback(project.ID, version.ID, version.VersionNumber)
		if err != nil {
			return nil, wrapError("start_generation", "failed to build feedback", err)
		}
		if err := s.feedbacks.Create(ctx, feedback); err != nil {
			return nil, wrapError("start_generation", "failed to create feedback", err)
		}
	default:
		return nil, wrapError("start_generation", "failed to look up feedback", err)
	}

	log.Info("feedback generation accepted",
		slog.String("feedback_id", feedback.ID.String()),
		slog.String("project_id", project.ID.String()),
		slog.Int("version_number", version.VersionNumber),
		slog.Bool("example_essay", req.GenerateExampleEssay))

	// The HTTP response goes out before orchestration finishes, so the run
	// must not die with the request context.
	runCtx := context.WithoutCancel(ctx)
	orchestration := task.Request{
		Feedback:             feedback,
		Project:              project,
		Version:              version,
		GenerateExampleEssay: req.GenerateExampleEssay,
	}
	go func() {
		if err := s.orchestrator.Run(runCtx, orchestration); err != nil {
			s.logger.Error("background orchestration failed",
				slog.String("feedback_id", feedback.ID.String()),
				slog.String("error", err.Error()))
		}
	}()

	return feedback, nil
}

// resetFeedback returns a previously-run row to its pending shape so the new
// run's results replace the old ones wholesale.
func resetFeedback(f *domain.Feedback) {
	f.Status = domain.FeedbackStatusPending
	f.ScoreTR, f.ScoreCC, f.ScoreLR, f.ScoreGRA, f.OverallScore = 0, 0, 0, 0, 0
	f.FeedbackTR = domain.PendingCritique
	f.FeedbackCC = domain.PendingCritique
	f.FeedbackLR = domain.PendingCritique
	f.FeedbackGRA = domain.PendingCritique
	f.OverallFeedback = domain.PendingCritique
	f.Annotations = []domain.Annotation{}
	f.StartedAt = nil
	f.CompletedAt = nil
}

// GetFeedback implements FeedbackService.GetFeedback
func (s *feedbackServiceImpl) GetFeedback(ctx context.Context, feedbackID uuid.UUID) (*domain.Feedback, error) {
	feedback, err := s.feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, wrapError("get_feedback", "failed to retrieve feedback", err)
	}
	return feedback, nil
}

// GetByVersion implements FeedbackService.GetByVersion
func (s *feedbackServiceImpl) GetByVersion(
	ctx context.Context,
	projectID uuid.UUID,
	versionNumber int,
) (*domain.Feedback, error) {
	version, err := s.versions.GetByProjectAndNumber(ctx, projectID, versionNumber)
	if err != nil {
		return nil, wrapError("get_feedback_by_version", "failed to retrieve version", err)
	}
	feedback, err := s.feedbacks.GetByVersionID(ctx, version.ID)
	if err != nil {
		return nil, wrapError("get_feedback_by_version", "failed to retrieve feedback", err)
	}
	return feedback, nil
}

// Progress implements FeedbackService.Progress
func (s *feedbackServiceImpl) Progress(ctx context.Context, feedbackID uuid.UUID) (*ProgressInfo, error) {
	feedback, err := s.feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, wrapError("get_progress", "failed to retrieve feedback", err)
	}

	info := &ProgressInfo{
		FeedbackID: feedback.ID,
		Status:     feedback.Status,
	}
	if progress, ok := s.tracker.Get(feedbackID); ok {
		info.InFlight = true
		info.Stage = progress.Stage
		info.TotalItems = progress.TotalItems
		info.CurrentItem = progress.CurrentItem
	}
	return info, nil
}
