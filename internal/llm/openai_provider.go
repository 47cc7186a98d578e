package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	providerNameOpenAI = "openai"

	// DefaultOpenAIModel is used when no model is configured
	DefaultOpenAIModel = "gpt-4o-mini"
)

// OpenAIConfig configures the chat-completion backend
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional; points the client at a compatible endpoint
}

// OpenAIProvider implements the Provider interface using OpenAI's chat completions API
type OpenAIProvider struct {
	client *openai.Client
	apiKey string
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider. The client never retries,
// so one Generate is one outbound request.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	client := openai.NewClient(opts...)
	return &OpenAIProvider{
		client: &client,
		apiKey: cfg.APIKey,
		model:  model,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// Generate sends one system message and one user message and returns the
// first choice's content.
func (p *OpenAIProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	params := p.buildRequestParams(request)
	log.Printf("🎥 OPENAI GENERATION REQUEST STARTED (Model: %s)", params.Model)

	transaction := sentry.StartTransaction(ctx, "openai.generate")
	defer transaction.Finish()
	transaction.SetTag("model", string(params.Model))
	transaction.SetTag("provider", providerNameOpenAI)

	span := transaction.StartChild("openai.api_call")
	apiStartTime := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		backendErr := p.classifyError(err)
		log.Printf("❌ OPENAI REQUEST FAILED after %v: %v", apiDuration, backendErr)
		transaction.SetTag("success", "false")
		sentry.CaptureException(backendErr)
		return nil, backendErr
	}

	log.Printf("⏱️  OPENAI API CALL COMPLETED in %v", apiDuration)

	response, err := p.processResponse(resp, params.Model)
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, err
	}

	transaction.SetTag("success", "true")
	transaction.SetData("total_tokens", response.Usage.TotalTokens)
	return response, nil
}

func (p *OpenAIProvider) buildRequestParams(request *GenerationRequest) openai.ChatCompletionNewParams {
	model := request.Model
	if model == "" {
		model = p.model
	}

	temperature := request.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	maxTokens := request.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxOutputTokens
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if request.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(request.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(request.Prompt))

	return openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	}
}

func (p *OpenAIProvider) processResponse(resp *openai.ChatCompletion, model string) (*GenerationResponse, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, newBackendError(providerNameOpenAI, ErrorKindEmpty, 0, "response contained no choices", p.apiKey, nil)
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return nil, newBackendError(providerNameOpenAI, ErrorKindEmpty, 0, "response contained no text", p.apiKey, nil)
	}

	if resp.Model != "" {
		model = resp.Model
	}

	return &GenerationResponse{
		Text:  text,
		Model: model,
		Usage: Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:  int(resp.Usage.TotalTokens),
		},
	}, nil
}

// classifyError maps SDK errors to a BackendError. Status errors carry the
// backend's own message when it sent one; the raw SDK error is not kept
// because its text embeds the response body.
func (p *OpenAIProvider) classifyError(err error) *BackendError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = fmt.Sprintf("request failed with status %d", apiErr.StatusCode)
		}
		return newBackendError(providerNameOpenAI, ErrorKindStatus, apiErr.StatusCode, message, p.apiKey, nil)
	}
	return newBackendError(providerNameOpenAI, ErrorKindTransport, 0, err.Error(), p.apiKey, err)
}
