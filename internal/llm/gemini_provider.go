package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"

	// DefaultGeminiModel is used when no model is configured
	DefaultGeminiModel = "gemini-2.5-flash"
)

// GeminiConfig configures the Gemini backend
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional; used to target a test server
}

// GeminiProvider implements the Provider interface using Google's Gemini API.
// The composed prompt is sent as a single user text; there is no system role.
type GeminiProvider struct {
	client *genai.Client
	apiKey string
	model  string
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %s", scrubSecret(err.Error(), cfg.APIKey))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiProvider{
		client: client,
		apiKey: cfg.APIKey,
		model:  model,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// Generate implements non-streaming generation using Gemini's API
func (p *GeminiProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	model := request.Model
	if model == "" {
		model = p.model
	}
	log.Printf("🎥 GEMINI GENERATION REQUEST STARTED (Model: %s)", model)

	transaction := sentry.StartTransaction(ctx, "gemini.generate")
	defer transaction.Finish()
	transaction.SetTag("model", model)
	transaction.SetTag("provider", providerNameGemini)

	span := transaction.StartChild("gemini.api_call")
	apiStartTime := time.Now()
	result, err := p.client.Models.GenerateContent(ctx, model, genai.Text(request.Prompt), nil)
	apiDuration := time.Since(apiStartTime)
	span.Finish()

	if err != nil {
		backendErr := p.classifyError(err)
		log.Printf("❌ GEMINI REQUEST FAILED after %v: %v", apiDuration, backendErr)
		transaction.SetTag("success", "false")
		sentry.CaptureException(backendErr)
		return nil, backendErr
	}

	log.Printf("⏱️  GEMINI API CALL COMPLETED in %v", apiDuration)

	response, err := p.processGeminiResponse(result, model)
	if err != nil {
		transaction.SetTag("success", "false")
		return nil, err
	}

	transaction.SetTag("success", "true")
	return response, nil
}

// processGeminiResponse concatenates the text parts of the first candidate
func (p *GeminiProvider) processGeminiResponse(result *genai.GenerateContentResponse, model string) (*GenerationResponse, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, newBackendError(providerNameGemini, ErrorKindEmpty, 0, "response contained no candidates", p.apiKey, nil)
	}

	candidate := result.Candidates[0]
	var text strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" && !part.Thought {
				text.WriteString(part.Text)
			}
		}
	}

	output := text.String()
	if strings.TrimSpace(output) == "" {
		return nil, newBackendError(providerNameGemini, ErrorKindEmpty, 0, "response contained no text", p.apiKey, nil)
	}

	response := &GenerationResponse{
		Text:  output,
		Model: model,
	}
	if result.ModelVersion != "" {
		response.Model = result.ModelVersion
	}
	if usage := result.UsageMetadata; usage != nil {
		response.Usage = Usage{
			InputTokens:  int(usage.PromptTokenCount),
			OutputTokens: int(usage.CandidatesTokenCount),
			TotalTokens:  int(usage.TotalTokenCount),
		}
	}
	return response, nil
}

func (p *GeminiProvider) classifyError(err error) *BackendError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = fmt.Sprintf("request failed with status %d", apiErr.Code)
		}
		return newBackendError(providerNameGemini, ErrorKindStatus, apiErr.Code, message, p.apiKey, nil)
	}
	return newBackendError(providerNameGemini, ErrorKindTransport, 0, err.Error(), p.apiKey, err)
}
