package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/inkgrade/essay-api/internal/llm/prompts"
	"github.com/inkgrade/essay-api/internal/platform/logger"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// geminiProvider integrates Google's Gemini models through the genai SDK.
// Gemini does not speak the chat completions wire format, so it gets its own
// strategy instead of riding chatProvider.
type geminiProvider struct {
	model  string
	apiKey string
	client *genai.Client
	logger *slog.Logger
}

func newGeminiProvider(cfg Config, log *slog.Logger) (*geminiProvider, error) {
	model := cfg.ModelName
	if model == "" {
		model = defaultGeminiModel
	}
	if log == nil {
		log = slog.Default()
	}

	p := &geminiProvider{
		model:  model,
		apiKey: cfg.APIKey,
		logger: log.With(
			slog.String("component", "llm_provider"),
			slog.String("vendor", "gemini")),
	}

	if cfg.APIKey != "" {
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		p.client = client
	}

	return p, nil
}

// Ensure geminiProvider implements the Provider interface
var _ Provider = (*geminiProvider)(nil)

func (p *geminiProvider) Name() string      { return "gemini" }
func (p *geminiProvider) ModelName() string { return p.model }

// ValidateConfig implements Provider.ValidateConfig
func (p *geminiProvider) ValidateConfig() error {
	if p.apiKey == "" || p.client == nil {
		return fmt.Errorf("%w: vendor gemini", ErrMissingAPIKey)
	}
	return nil
}

// complete performs one generation round trip against Gemini.
func (p *geminiProvider) complete(ctx context.Context, system, user string) (*Exchange, error) {
	log := logger.FromContextOrDefault(ctx, p.logger)

	exchange := &Exchange{
		SystemPrompt: system,
		UserPrompt:   user,
	}
	start := time.Now()
	defer func() { exchange.Duration = time.Since(start) }()

	if err := p.ValidateConfig(); err != nil {
		return exchange, err
	}

	log.Debug("sending gemini generation request", slog.String("model", p.model))

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(user),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: system}},
			},
			Temperature: genai.Ptr[float32](0.7),
		})
	if err != nil {
		return exchange, fmt.Errorf("gemini request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return exchange, ErrEmptyResponse
	}
	exchange.RawResponse = text

	if um := resp.UsageMetadata; um != nil {
		exchange.Usage = domain.TokenUsage{
			PromptTokens:     int(um.PromptTokenCount),
			CompletionTokens: int(um.CandidatesTokenCount),
			TotalTokens:      int(um.TotalTokenCount),
		}
	}
	return exchange, nil
}

// GenerateFeedback implements Provider.GenerateFeedback
func (p *geminiProvider) GenerateFeedback(
	ctx context.Context,
	req FeedbackRequest,
) (*FeedbackResult, *Exchange, error) {
	system, user, err := prompts.Feedback(req.Prompt, req.Essay, req.ExamType, req.TargetScore)
	if err != nil {
		return nil, nil, err
	}

	exchange, err := p.complete(ctx, system, user)
	if err != nil {
		return nil, exchange, err
	}

	result, err := parseFeedback(exchange.RawResponse)
	if err != nil {
		return nil, exchange, err
	}
	return result, exchange, nil
}

// GetAnnotations implements Provider.GetAnnotations
func (p *geminiProvider) GetAnnotations(
	ctx context.Context,
	req AnnotationRequest,
) ([]domain.Annotation, *Exchange, error) {
	system, user, err := prompts.Annotation(req.Prompt, req.Paragraph, req.ParagraphIndex, req.ExamType)
	if err != nil {
		return nil, nil, err
	}

	exchange, err := p.complete(ctx, system, user)
	if err != nil {
		return nil, exchange, err
	}

	annotations, err := parseAnnotations(exchange.RawResponse)
	if err != nil {
		return nil, exchange, err
	}
	return annotations, exchange, nil
}

// GetExampleEssay implements Provider.GetExampleEssay
func (p *geminiProvider) GetExampleEssay(
	ctx context.Context,
	req ExampleEssayRequest,
) (*ExampleEssayResult, *Exchange, error) {
	system, user, err := prompts.ExampleEssay(req.Prompt, req.Essay, req.ExamType, req.TargetScore)
	if err != nil {
		return nil, nil, err
	}

	exchange, err := p.complete(ctx, system, user)
	if err != nil {
		return nil, exchange, err
	}

	result, err := parseExampleEssay(exchange.RawResponse)
	if err != nil {
		return nil, exchange, err
	}
	return result, exchange, nil
}
