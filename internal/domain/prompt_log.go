package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenUsage is the per-call token accounting reported by an LLM vendor.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates another call's usage into u.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// PromptLog records one outbound LLM call: the prompts sent, the raw
// response, token usage and timing. Logs are written best-effort by the
// task layer and queried read-only from the API.
type PromptLog struct {
	ID          uuid.UUID `json:"id"`
	ServiceType string    `json:"service_type"`
	ModelName   string    `json:"model_name"`
	Operation   string    `json:"operation"`

	ProjectID     *uuid.UUID `json:"project_id,omitempty"`
	VersionNumber int        `json:"version_number,omitempty"`

	SystemPrompt string `json:"system_prompt"`
	UserPrompt   string `json:"user_prompt"`
	RawResponse  string `json:"raw_response"`
	ErrorText    string `json:"error_text,omitempty"`

	TokenUsage TokenUsage    `json:"token_usage"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"created_at"`
}

// NewPromptLog creates a PromptLog stamped with the current time.
func NewPromptLog(serviceType, modelName, operation string) *PromptLog {
	return &PromptLog{
		ID:          uuid.New(),
		ServiceType: serviceType,
		ModelName:   modelName,
		Operation:   operation,
		CreatedAt:   time.Now().UTC(),
	}
}
