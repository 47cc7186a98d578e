package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Tototoyo/cctv-pr/internal/llm"
	"github.com/Tototoyo/cctv-pr/internal/logger"
	"github.com/Tototoyo/cctv-pr/internal/models"
	"github.com/Tototoyo/cctv-pr/internal/observability"
	"github.com/Tototoyo/cctv-pr/internal/prompt"
)

// GenerationStatus is the orchestrator's observable phase
type GenerationStatus string

const (
	StatusIdle       GenerationStatus = "idle"
	StatusGenerating GenerationStatus = "generating"
	StatusSucceeded  GenerationStatus = "succeeded"
	StatusFailed     GenerationStatus = "failed"
)

// GenerationState is a snapshot of the orchestrator. Succeeded and failed are
// terminal for one run only; the next run re-enters generating.
type GenerationState struct {
	Status       GenerationStatus `json:"status"`
	LastError    string           `json:"last_error,omitempty"`
	LastText     string           `json:"last_text,omitempty"`
	LastRecordID string           `json:"last_record_id,omitempty"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// GenerationResult is what a successful run returns
type GenerationResult struct {
	Text   string              `json:"text"`
	Record *models.SavedPrompt `json:"record,omitempty"`
	Saved  bool                `json:"saved"`
	Model  string              `json:"model"`
	Usage  llm.Usage           `json:"usage"`
}

// GenerationRecorder receives one call per backend generation
type GenerationRecorder interface {
	RecordGeneration(ctx context.Context, backend, model string, duration time.Duration, success bool, inputTokens, outputTokens, totalTokens int)
}

// RecordsChangedListener is told that the set of saved prompts may have changed
type RecordsChangedListener func(result GenerationResult)

// GenerationService sequences compose, generate and save for one run at a time
type GenerationService struct {
	provider llm.Provider
	builder  *prompt.Builder
	gateway  *PromptGateway
	recorder GenerationRecorder
	langfuse *observability.LangfuseClient

	mu       sync.Mutex
	inFlight bool
	state    GenerationState

	listenersMu sync.RWMutex
	listeners   []RecordsChangedListener
}

// NewGenerationService creates the orchestrator. recorder and langfuse may be nil.
func NewGenerationService(
	provider llm.Provider,
	gateway *PromptGateway,
	recorder GenerationRecorder,
	langfuse *observability.LangfuseClient,
) *GenerationService {
	if langfuse == nil {
		langfuse = observability.Disabled()
	}
	return &GenerationService{
		provider: provider,
		builder:  prompt.NewPromptBuilder(),
		gateway:  gateway,
		recorder: recorder,
		langfuse: langfuse,
		state: GenerationState{
			Status:    StatusIdle,
			UpdatedAt: time.Now(),
		},
	}
}

// BackendName returns the name of the configured generation backend
func (s *GenerationService) BackendName() string {
	return s.provider.Name()
}

// State returns a snapshot of the current generation state
func (s *GenerationService) State() GenerationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener called after every successful run
func (s *GenerationService) Subscribe(listener RecordsChangedListener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// RunGeneration composes the payload from opts, calls the backend once and
// saves the result. Backend failures return a *llm.BackendError; a failed
// save is logged and reported through Saved=false only. A call made while
// another is in flight returns ErrGenerationInProgress without side effects.
func (s *GenerationService) RunGeneration(ctx context.Context, opts models.GeneratorOptions) (*GenerationResult, error) {
	if !s.begin() {
		return nil, ErrGenerationInProgress
	}
	defer func() {
		if r := recover(); r != nil {
			s.finish(GenerationState{Status: StatusFailed, LastError: "internal error"})
			panic(r)
		}
	}()

	opts = opts.Clone()
	payload := s.builder.Compose(opts)
	request := llm.NewGenerationRequest(s.builder.SystemInstruction(), payload)
	backend := s.provider.Name()

	logFields := logger.Fields{
		"backend":    backend,
		"location":   opts.Location,
		"time":       opts.TimeOfDay,
		"weather":    opts.Weather,
		"artifacts":  len(opts.VisualArtifacts),
		"request_id": requestIDFromContext(ctx),
	}
	logger.Info("Generation started", logFields)

	trace := s.langfuse.StartTrace(ctx, "cctv-prompt-generation", map[string]interface{}{
		"backend":  backend,
		"location": opts.Location,
	})
	defer trace.Finish()

	start := time.Now()
	resp, err := s.generate(ctx, request)
	duration := time.Since(start)

	completion := observability.Completion{
		Backend:      backend,
		SystemPrompt: request.SystemPrompt,
		Prompt:       request.Prompt,
		Err:          err,
	}
	if resp != nil {
		completion.Model = resp.Model
		completion.Output = resp.Text
		completion.InputTokens = resp.Usage.InputTokens
		completion.OutputTokens = resp.Usage.OutputTokens
		completion.TotalTokens = resp.Usage.TotalTokens
	}
	gen := trace.Generation(backend, nil)
	gen.LogCompletion(completion)
	gen.Finish()

	if err != nil {
		s.recordGeneration(ctx, backend, "", duration, false, llm.Usage{})
		logger.Error("Generation failed", err, logFields)
		s.finish(GenerationState{Status: StatusFailed, LastError: err.Error()})
		return nil, err
	}

	s.recordGeneration(ctx, backend, resp.Model, duration, true, resp.Usage)
	logger.LogGenerationRequest(backend, resp.Model, duration, resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.Usage.TotalTokens, logFields)

	// save is detached from request cancellation
	saved := s.gateway.Save(context.WithoutCancel(ctx), opts, resp.Text)

	result := GenerationResult{
		Text:  resp.Text,
		Saved: saved.OK(),
		Model: resp.Model,
		Usage: resp.Usage,
	}
	state := GenerationState{Status: StatusSucceeded, LastText: resp.Text}
	if saved.OK() {
		result.Record = saved.Record
		state.LastRecordID = saved.Record.ID
	} else {
		logger.Warn("Generated prompt was not saved", logger.Fields{"backend": backend, "error": saved.Err})
	}

	s.finish(state)
	s.notify(result)
	return &result, nil
}

// generate calls the backend and normalizes every failure to a *llm.BackendError
func (s *GenerationService) generate(ctx context.Context, request *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	backend := s.provider.Name()

	resp, err := s.provider.Generate(ctx, request)
	if err != nil {
		if _, ok := llm.AsBackendError(err); ok {
			return nil, err
		}
		return nil, &llm.BackendError{
			Backend: backend,
			Kind:    llm.ErrorKindTransport,
			Message: err.Error(),
			Err:     err,
		}
	}

	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return nil, &llm.BackendError{
			Backend: backend,
			Kind:    llm.ErrorKindEmpty,
			Message: "backend returned no text",
		}
	}
	return resp, nil
}

func (s *GenerationService) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	s.state = GenerationState{
		Status:       StatusGenerating,
		LastText:     s.state.LastText,
		LastRecordID: s.state.LastRecordID,
		UpdatedAt:    time.Now(),
	}
	return true
}

func (s *GenerationService) finish(state GenerationState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state.Status == StatusFailed {
		state.LastText = s.state.LastText
		state.LastRecordID = s.state.LastRecordID
	}
	state.UpdatedAt = time.Now()
	s.state = state
	s.inFlight = false
}

func (s *GenerationService) notify(result GenerationResult) {
	s.listenersMu.RLock()
	listeners := make([]RecordsChangedListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.RUnlock()

	for _, listener := range listeners {
		listener(result)
	}
}

func (s *GenerationService) recordGeneration(ctx context.Context, backend, model string, duration time.Duration, success bool, usage llm.Usage) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordGeneration(ctx, backend, model, duration, success, usage.InputTokens, usage.OutputTokens, usage.TotalTokens)
}

type requestIDKey struct{}

// WithRequestID attaches the HTTP request id to ctx for log correlation
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
