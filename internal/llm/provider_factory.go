package llm

import (
	"context"
	"fmt"
	"strings"
)

// ProviderFactory creates the configured generation backend
type ProviderFactory struct {
	openai OpenAIConfig
	gemini GeminiConfig
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(openaiConfig OpenAIConfig, geminiConfig GeminiConfig) *ProviderFactory {
	return &ProviderFactory{
		openai: openaiConfig,
		gemini: geminiConfig,
	}
}

// GetProvider returns the provider for the given backend name
func (f *ProviderFactory) GetProvider(ctx context.Context, providerName string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(providerName)) {
	case providerNameOpenAI, "":
		if f.openai.APIKey == "" {
			return nil, fmt.Errorf("openai API key not configured")
		}
		return NewOpenAIProvider(f.openai), nil

	case providerNameGemini:
		if f.gemini.APIKey == "" {
			return nil, fmt.Errorf("gemini API key not configured")
		}
		return NewGeminiProvider(ctx, f.gemini)

	default:
		return nil, fmt.Errorf("unknown provider: %s (allowed: %s)", providerName, strings.Join(SupportedProviders(), ", "))
	}
}

// SupportedProviders lists the backend names GetProvider accepts
func SupportedProviders() []string {
	return []string{providerNameOpenAI, providerNameGemini}
}
