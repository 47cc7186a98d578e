package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGeminiKey = "gemini-test-secret-key"

func newGeminiTestServer(t *testing.T, status int, body string, calls *int32, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), "unexpected path %s", r.URL.Path)
		if captured != nil {
			payload := map[string]any{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			*captured = payload
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func newTestGeminiProvider(t *testing.T, baseURL string) *GeminiProvider {
	t.Helper()
	provider, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  testGeminiKey,
		BaseURL: baseURL + "/",
	})
	require.NoError(t, err)
	return provider
}

func TestNewGeminiProvider(t *testing.T) {
	provider, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "test-api-key"})
	require.NoError(t, err)
	require.NotNil(t, provider)
	assert.Equal(t, "gemini", provider.Name())
	assert.Equal(t, DefaultGeminiModel, provider.model)
	assert.NotNil(t, provider.client)
}

func TestGeminiProvider_Generate_Success(t *testing.T) {
	var calls int32
	var captured map[string]any
	server := newGeminiTestServer(t, http.StatusOK, `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "Night-vision CCTV view "}, {"text": "of a parking lot.\n"}]}}],
		"usageMetadata": {"promptTokenCount": 80, "candidatesTokenCount": 20, "totalTokenCount": 100}
	}`, &calls, &captured)
	defer server.Close()

	provider := newTestGeminiProvider(t, server.URL)
	resp, err := provider.Generate(context.Background(), NewGenerationRequest("ignored system text", "describe the parking lot"))
	require.NoError(t, err)

	assert.Equal(t, "Night-vision CCTV view of a parking lot.\n", resp.Text, "backend text is returned unchanged")
	assert.Equal(t, DefaultGeminiModel, resp.Model)
	assert.Equal(t, Usage{InputTokens: 80, OutputTokens: 20, TotalTokens: 100}, resp.Usage)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	require.NotNil(t, captured)
	_, hasSystem := captured["systemInstruction"]
	assert.False(t, hasSystem, "single-prompt backend must not send a system instruction")

	raw, err := json.Marshal(captured["contents"])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "describe the parking lot")
	assert.NotContains(t, string(raw), "ignored system text")
}

func TestGeminiProvider_Generate_StatusError(t *testing.T) {
	var calls int32
	server := newGeminiTestServer(t, http.StatusBadRequest,
		`{"error": {"code": 400, "message": "API key not valid: `+testGeminiKey+`", "status": "INVALID_ARGUMENT"}}`,
		&calls, nil)
	defer server.Close()

	_, err := newTestGeminiProvider(t, server.URL).Generate(context.Background(), NewGenerationRequest("", "p"))
	require.Error(t, err)

	backendErr, ok := AsBackendError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorKindStatus, backendErr.Kind)
	assert.Equal(t, http.StatusBadRequest, backendErr.StatusCode)
	assert.NotContains(t, err.Error(), testGeminiKey)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGeminiProvider_Generate_EmptyResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no candidates", body: `{"candidates": []}`},
		{name: "no parts", body: `{"candidates": [{"content": {"role": "model", "parts": []}}]}`},
		{name: "blank text", body: `{"candidates": [{"content": {"role": "model", "parts": [{"text": "  "}]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := newGeminiTestServer(t, http.StatusOK, tt.body, &calls, nil)
			defer server.Close()

			_, err := newTestGeminiProvider(t, server.URL).Generate(context.Background(), NewGenerationRequest("", "p"))
			backendErr, ok := AsBackendError(err)
			require.True(t, ok)
			assert.Equal(t, ErrorKindEmpty, backendErr.Kind)
		})
	}
}

func TestGeminiProvider_Generate_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	_, err := newTestGeminiProvider(t, baseURL).Generate(context.Background(), NewGenerationRequest("", "p"))
	backendErr, ok := AsBackendError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorKindTransport, backendErr.Kind)
	assert.NotContains(t, err.Error(), testGeminiKey)
}
