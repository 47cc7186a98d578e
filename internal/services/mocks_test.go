package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Tototoyo/cctv-pr/internal/llm"
	"github.com/Tototoyo/cctv-pr/internal/models"
)

// MockProvider is an llm.Provider driven by function fields
type MockProvider struct {
	GenerateFunc func(ctx context.Context, request *llm.GenerationRequest) (*llm.GenerationResponse, error)
	NameFunc     func() string

	mu       sync.Mutex
	requests []*llm.GenerationRequest
}

func (m *MockProvider) Generate(ctx context.Context, request *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, request)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, request)
	}
	return &llm.GenerationResponse{Text: "mock prompt", Model: "mock-model"}, nil
}

func (m *MockProvider) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "mock"
}

func (m *MockProvider) Requests() []*llm.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*llm.GenerationRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// textProvider returns a provider that always answers with text
func textProvider(text string) *MockProvider {
	return &MockProvider{
		GenerateFunc: func(_ context.Context, _ *llm.GenerationRequest) (*llm.GenerationResponse, error) {
			return &llm.GenerationResponse{
				Text:  text,
				Model: "mock-model",
				Usage: llm.Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
			}, nil
		},
	}
}

// MockRepository is a PromptRepository driven by function fields. Without
// overrides it behaves like an in-memory store.
type MockRepository struct {
	InsertFunc func(ctx context.Context, prompt *models.SavedPrompt) error
	ListFunc   func(ctx context.Context, limit int) ([]models.SavedPrompt, error)
	DeleteFunc func(ctx context.Context, id string) error

	mu       sync.Mutex
	inserted []models.SavedPrompt
	limits   []int
	nextID   int
}

func (m *MockRepository) Insert(ctx context.Context, prompt *models.SavedPrompt) error {
	if m.InsertFunc != nil {
		if err := m.InsertFunc(ctx, prompt); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if prompt.ID == "" {
		prompt.ID = fmt.Sprintf("id-%d", m.nextID)
	}
	if prompt.CreatedAt.IsZero() {
		prompt.CreatedAt = time.Now()
	}
	m.inserted = append(m.inserted, *prompt)
	return nil
}

func (m *MockRepository) ListRecent(ctx context.Context, limit int) ([]models.SavedPrompt, error) {
	m.mu.Lock()
	m.limits = append(m.limits, limit)
	m.mu.Unlock()

	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SavedPrompt, 0, len(m.inserted))
	for i := len(m.inserted) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.inserted[i])
	}
	return out, nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.inserted {
		if p.ID == id {
			m.inserted = append(m.inserted[:i], m.inserted[i+1:]...)
			return nil
		}
	}
	return ErrPromptNotFound
}

func (m *MockRepository) Inserted() []models.SavedPrompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SavedPrompt, len(m.inserted))
	copy(out, m.inserted)
	return out
}

func (m *MockRepository) Limits() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.limits...)
}

type recordedCall struct {
	name    string
	success bool
}

// MockRecorder captures metric calls
type MockRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (m *MockRecorder) RecordGeneration(_ context.Context, backend, _ string, _ time.Duration, success bool, _, _, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, recordedCall{name: "generation:" + backend, success: success})
}

func (m *MockRecorder) RecordPersistence(_ context.Context, operation string, _ time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, recordedCall{name: "store:" + operation, success: success})
}

func (m *MockRecorder) Calls() []recordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedCall(nil), m.calls...)
}

func sampleOptions() models.GeneratorOptions {
	return models.GeneratorOptions{
		Scene:           "A courier drops a parcel by the entrance",
		Location:        "Office Building Lobby",
		TimeOfDay:       "Morning Rush (7-9 AM)",
		Weather:         "Rainy",
		VisualArtifacts: []string{"Date/Time overlay", "Camera ID overlay"},
	}
}
