package llm

import (
	"context"
)

// Generation defaults shared by all providers
const (
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 1000
)

// Provider is a text-generation backend: one payload in, generated text out.
// Implementations make exactly one outbound call per Generate and never retry.
type Provider interface {
	// Generate sends the request and returns non-empty text or a *BackendError
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// GenerationRequest contains all parameters needed for one generation
type GenerationRequest struct {
	Model           string // empty means the provider's configured model
	SystemPrompt    string // ignored by single-prompt backends
	Prompt          string
	Temperature     float64
	MaxOutputTokens int
}

// NewGenerationRequest builds a request with the default sampling parameters
func NewGenerationRequest(systemPrompt, prompt string) *GenerationRequest {
	return &GenerationRequest{
		SystemPrompt:    systemPrompt,
		Prompt:          prompt,
		Temperature:     DefaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

// Usage is token accounting normalized across providers
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// GenerationResponse contains the result from the backend
type GenerationResponse struct {
	Text  string `json:"text"`
	Model string `json:"model"`
	Usage Usage  `json:"usage"`
}
