package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/inkgrade/essay-api/internal/domain"
	"github.com/inkgrade/essay-api/internal/llm/prompts"
	"github.com/inkgrade/essay-api/internal/platform/logger"
)

const defaultChatTimeout = 120 * time.Second

// chatProvider speaks the OpenAI-compatible chat completions API. Doubao,
// Kimi and Tongyi all expose this surface, so they share the implementation
// and differ only in endpoint and default model.
type chatProvider struct {
	vendor     string
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func newChatProvider(vendor, defaultBaseURL, defaultModel string, cfg Config, log *slog.Logger) *chatProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.ModelName
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultChatTimeout
	}
	if log == nil {
		log = slog.Default()
	}

	return &chatProvider{
		vendor:     vendor,
		model:      model,
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger: log.With(
			slog.String("component", "llm_provider"),
			slog.String("vendor", vendor)),
	}
}

// Ensure chatProvider implements the Provider interface
var _ Provider = (*chatProvider)(nil)

func (p *chatProvider) Name() string      { return p.vendor }
func (p *chatProvider) ModelName() string { return p.model }

// ValidateConfig implements Provider.ValidateConfig
func (p *chatProvider) ValidateConfig() error {
	if p.apiKey == "" {
		return fmt.Errorf("%w: vendor %s", ErrMissingAPIKey, p.vendor)
	}
	if p.baseURL == "" {
		return fmt.Errorf("llm: vendor %s has no base URL", p.vendor)
	}
	return nil
}

// chatMessage mirrors the wire format of the chat completions API.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// complete performs one chat completion round trip. The returned Exchange is
// non-nil even on failure so the caller can log the attempt.
func (p *chatProvider) complete(ctx context.Context, system, user string) (*Exchange, error) {
	log := logger.FromContextOrDefault(ctx, p.logger)

	exchange := &Exchange{
		SystemPrompt: system,
		UserPrompt:   user,
	}
	start := time.Now()
	defer func() { exchange.Duration = time.Since(start) }()

	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
		Stream:      false,
	})
	if err != nil {
		return exchange, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	endpoint := p.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return exchange, fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	log.Debug("sending chat completion request",
		slog.String("vendor", p.vendor),
		slog.String("model", p.model))

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return exchange, fmt.Errorf("chat request to %s failed: %w", p.vendor, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return exchange, fmt.Errorf("failed to read chat response: %w", err)
	}
	exchange.RawResponse = string(respBody)

	if resp.StatusCode != http.StatusOK {
		log.Warn("chat completion returned non-OK status",
			slog.String("vendor", p.vendor),
			slog.Int("status", resp.StatusCode))
		return exchange, fmt.Errorf("chat request to %s failed with status %d: %s",
			p.vendor, resp.StatusCode, truncate(string(respBody), 512))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return exchange, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if parsed.Error != nil {
		return exchange, fmt.Errorf("chat request to %s failed: %s", p.vendor, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return exchange, ErrEmptyResponse
	}

	exchange.RawResponse = parsed.Choices[0].Message.Content
	exchange.Usage = domain.TokenUsage{
		PromptTokens:     parsed.Usage.PromptTokens,
		CompletionTokens: parsed.Usage.CompletionTokens,
		TotalTokens:      parsed.Usage.TotalTokens,
	}
	return exchange, nil
}

// GenerateFeedback implements Provider.GenerateFeedback
func (p *chatProvider) GenerateFeedback(
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
func (p *chatProvider) GetAnnotations(
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
func (p *chatProvider) GetExampleEssay(
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

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
