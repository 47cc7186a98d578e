package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerationRequest(t *testing.T) {
	request := NewGenerationRequest("system", "prompt")
	assert.Equal(t, "system", request.SystemPrompt)
	assert.Equal(t, "prompt", request.Prompt)
	assert.Empty(t, request.Model)
	assert.InDelta(t, DefaultTemperature, request.Temperature, 0.0001)
	assert.Equal(t, DefaultMaxOutputTokens, request.MaxOutputTokens)
}

func TestBackendError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name string
		err  *BackendError
		want string
	}{
		{
			name: "with status",
			err:  newBackendError("openai", ErrorKindStatus, 429, "rate limited", "", nil),
			want: "openai backend status error (status 429): rate limited",
		},
		{
			name: "transport",
			err:  newBackendError("gemini", ErrorKindTransport, 0, cause.Error(), "", cause),
			want: "gemini backend transport error: dial tcp: connection refused",
		},
		{
			name: "secret scrubbed",
			err:  newBackendError("openai", ErrorKindStatus, 401, "bad key sk-abc and sk-abc again", "sk-abc", nil),
			want: "openai backend status error (status 401): bad key [REDACTED] and [REDACTED] again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	wrapped := newBackendError("gemini", ErrorKindTransport, 0, "x", "", cause)
	assert.ErrorIs(t, wrapped, cause)
}

func TestAsBackendError(t *testing.T) {
	_, ok := AsBackendError(errors.New("plain"))
	assert.False(t, ok)

	_, ok = AsBackendError(nil)
	assert.False(t, ok)

	original := newBackendError("openai", ErrorKindEmpty, 0, "no text", "", nil)
	found, ok := AsBackendError(errors.Join(errors.New("context"), original))
	require.True(t, ok)
	assert.Same(t, original, found)
}

func TestProviderFactory_GetProvider(t *testing.T) {
	factory := NewProviderFactory(
		OpenAIConfig{APIKey: "openai-key"},
		GeminiConfig{APIKey: "gemini-key"},
	)

	tests := []struct {
		name     string
		provider string
		wantName string
		wantErr  bool
	}{
		{name: "openai", provider: "openai", wantName: "openai"},
		{name: "openai case insensitive", provider: " OpenAI ", wantName: "openai"},
		{name: "default is openai", provider: "", wantName: "openai"},
		{name: "gemini", provider: "gemini", wantName: "gemini"},
		{name: "unknown", provider: "claude", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := factory.GetProvider(context.Background(), tt.provider)
			if tt.wantErr {
				require.Error(t, err)
				assert.EqualError(t, err, "unknown provider: claude (allowed: openai, gemini)")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, provider.Name())
		})
	}
}

func TestProviderFactory_MissingKeys(t *testing.T) {
	factory := NewProviderFactory(OpenAIConfig{}, GeminiConfig{})

	_, err := factory.GetProvider(context.Background(), "openai")
	assert.EqualError(t, err, "openai API key not configured")

	_, err = factory.GetProvider(context.Background(), "gemini")
	assert.EqualError(t, err, "gemini API key not configured")
}

func TestSupportedProviders(t *testing.T) {
	assert.Equal(t, []string{"openai", "gemini"}, SupportedProviders())
}
