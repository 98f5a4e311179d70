// Package llm integrates the LLM vendors that score essays, annotate
// paragraphs and write example essays. Each vendor is a Provider strategy
// selected by name through NewProvider; all OpenAI-compatible vendors share
// one chat client and Gemini rides its own SDK.
package llm

import (
	"context"
	"errors"
	"time"

	"github.com/inkgrade/essay-api/internal/domain"
)

// Sentinel errors returned by providers.
var (
	// ErrMissingAPIKey indicates the provider was configured without credentials.
	ErrMissingAPIKey = errors.New("llm: missing API key")

	// ErrUnknownVendor indicates the requested vendor name has no registered strategy.
	ErrUnknownVendor = errors.New("llm: unknown vendor")

	// ErrEmptyResponse indicates the vendor returned no usable content.
	ErrEmptyResponse = errors.New("llm: empty response")

	// ErrMalformedResponse indicates the vendor's output could not be parsed
	// even after repair.
	ErrMalformedResponse = errors.New("llm: malformed response")
)

// Config carries the settings a provider needs to talk to its vendor.
type Config struct {
	// APIKey authenticates against the vendor.
	APIKey string

	// BaseURL overrides the vendor's default endpoint. Optional.
	BaseURL string

	// ModelName overrides the vendor's default model identifier. Optional.
	ModelName string

	// Timeout bounds each outbound call. Zero means the vendor default.
	Timeout time.Duration
}

// FeedbackRequest asks for a full four-criteria assessment of an essay.
type FeedbackRequest struct {
	Prompt      string
	Essay       string
	ExamType    domain.ExamType
	TargetScore string
}

// FeedbackResult is the parsed assessment: one score and one critique per
// criterion. The overall band is derived by the caller, never by the vendor.
type FeedbackResult struct {
	ScoreTR  float64
	ScoreCC  float64
	ScoreLR  float64
	ScoreGRA float64

	FeedbackTR      string
	FeedbackCC      string
	FeedbackLR      string
	FeedbackGRA     string
	OverallFeedback string
}

// AnnotationRequest asks for inline annotations on a single paragraph.
type AnnotationRequest struct {
	Prompt         string
	Paragraph      string
	ParagraphIndex int
	ExamType       domain.ExamType
}

// ExampleEssayRequest asks for an improved example essay for the same task.
type ExampleEssayRequest struct {
	Prompt      string
	Essay       string
	ExamType    domain.ExamType
	TargetScore string
}

// ExampleEssayResult is the parsed example essay.
type ExampleEssayResult struct {
	Content     string
	Improvement string
}

// Exchange records one round trip with a vendor for prompt logging.
// A non-nil Exchange may accompany an error so the failed call can still
// be logged.
type Exchange struct {
	SystemPrompt string
	UserPrompt   string
	RawResponse  string
	Usage        domain.TokenUsage
	Duration     time.Duration
}

// Provider is the strategy interface implemented per vendor.
type Provider interface {
	// Name returns the vendor key, e.g. "doubao".
	Name() string

	// ModelName returns the concrete model identifier in use.
	ModelName() string

	// ValidateConfig reports whether the provider is usable as configured.
	ValidateConfig() error

	// GenerateFeedback scores the essay on all four criteria.
	GenerateFeedback(ctx context.Context, req FeedbackRequest) (*FeedbackResult, *Exchange, error)

	// GetAnnotations produces inline annotations for one paragraph.
	GetAnnotations(ctx context.Context, req AnnotationRequest) ([]domain.Annotation, *Exchange, error)

	// GetExampleEssay writes an improved example essay for the task.
	GetExampleEssay(ctx context.Context, req ExampleEssayRequest) (*ExampleEssayResult, *Exchange, error)
}
