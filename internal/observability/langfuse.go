package observability

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Tototoyo/cctv-pr/internal/config"
	langfuse "github.com/henomis/langfuse-go"
	"github.com/henomis/langfuse-go/model"
)

// LangfuseClient wraps the Langfuse client with our configuration
type LangfuseClient struct {
	client  *langfuse.Langfuse
	enabled bool
	ctx     context.Context
}

// InitializeLangfuse creates the Langfuse client. The SDK reads its host and
// keys from LANGFUSE_HOST, LANGFUSE_PUBLIC_KEY and LANGFUSE_SECRET_KEY.
func InitializeLangfuse(ctx context.Context, cfg *config.Config) *LangfuseClient {
	if !cfg.LangfuseEnabled || cfg.LangfuseSecretKey == "" {
		log.Println("⚠️  Langfuse not configured (LANGFUSE_ENABLED=false or LANGFUSE_SECRET_KEY not set)")
		return Disabled()
	}

	if os.Getenv("LANGFUSE_HOST") == "" {
		_ = os.Setenv("LANGFUSE_HOST", cfg.LangfuseHost)
	}

	log.Printf("✅ Langfuse initialized (host: %s)", cfg.LangfuseHost)
	return &LangfuseClient{
		client:  langfuse.New(ctx),
		enabled: true,
		ctx:     ctx,
	}
}

// Disabled returns a client whose traces are all no-ops
func Disabled() *LangfuseClient {
	return &LangfuseClient{enabled: false, ctx: context.Background()}
}

// IsEnabled returns whether Langfuse is enabled
func (c *LangfuseClient) IsEnabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// StartTrace starts a new trace in Langfuse
func (c *LangfuseClient) StartTrace(ctx context.Context, name string, metadata map[string]interface{}) *Trace {
	if !c.IsEnabled() {
		return &Trace{enabled: false, ctx: ctx}
	}

	trace, err := c.client.Trace(&model.Trace{
		Name:     name,
		Metadata: metadata,
	})
	if err != nil {
		log.Printf("⚠️  Failed to create Langfuse trace: %v", err)
		return &Trace{enabled: false, ctx: ctx}
	}

	return &Trace{
		trace:   trace,
		enabled: true,
		ctx:     ctx,
		client:  c.client,
	}
}

// Trace represents a Langfuse trace
type Trace struct {
	trace   *model.Trace
	enabled bool
	ctx     context.Context
	client  *langfuse.Langfuse
}

// Generation creates a new generation span within the trace
func (t *Trace) Generation(name string, metadata map[string]interface{}) *Generation {
	if !t.enabled {
		return &Generation{enabled: false}
	}

	now := time.Now()
	gen, err := t.client.Generation(&model.Generation{
		TraceID:   t.trace.ID,
		Name:      name,
		StartTime: &now,
		Metadata:  metadata,
	}, nil)
	if err != nil {
		log.Printf("⚠️  Failed to create Langfuse generation: %v", err)
		return &Generation{enabled: false}
	}

	return &Generation{
		generation: gen,
		enabled:    true,
		client:     t.client,
	}
}

// Finish flushes queued events to Langfuse. The flush runs detached from
// request cancellation.
func (t *Trace) Finish() {
	if t.enabled && t.client != nil {
		t.client.Flush(context.WithoutCancel(t.ctx))
	}
}

// Generation represents a Langfuse generation span
type Generation struct {
	generation *model.Generation
	enabled    bool
	client     *langfuse.Langfuse
}

// Completion describes one finished backend call
type Completion struct {
	Backend      string
	Model        string
	SystemPrompt string
	Prompt       string
	Output       string
	InputTokens  int
	OutputTokens int
	TotalTokens  int
	Err          error
}

// LogCompletion records the input, output, usage and cost of one call
func (g *Generation) LogCompletion(completion Completion) {
	if !g.enabled || g.generation == nil {
		return
	}

	input := []map[string]interface{}{}
	if completion.SystemPrompt != "" {
		input = append(input, map[string]interface{}{"role": "system", "content": completion.SystemPrompt})
	}
	input = append(input, map[string]interface{}{"role": "user", "content": completion.Prompt})

	cost := CalculateCost(completion.Model, completion.InputTokens, completion.OutputTokens)
	metadata := map[string]interface{}{
		"backend":  completion.Backend,
		"cost_usd": cost,
	}

	g.generation.Input = input
	g.generation.Model = completion.Model
	if completion.Output != "" {
		g.generation.Output = completion.Output
	}
	if completion.Err != nil {
		g.generation.Level = model.ObservationLevel("ERROR")
		metadata["error"] = completion.Err.Error()
	}
	g.generation.Usage = model.Usage{
		Input:     completion.InputTokens,
		Output:    completion.OutputTokens,
		Total:     completion.TotalTokens,
		Unit:      model.ModelUsageUnitTokens,
		TotalCost: cost,
	}
	g.generation.Metadata = metadata
}

// Finish completes the generation and sends it to Langfuse
func (g *Generation) Finish() {
	if g.enabled && g.generation != nil && g.client != nil {
		now := time.Now()
		g.generation.EndTime = &now
		if _, err := g.client.GenerationEnd(g.generation); err != nil {
			log.Printf("⚠️  Failed to end Langfuse generation: %v", err)
		}
	}
}
