package metrics

import (
	"context"
	"time"
)

// Recorder fans generation and store metrics out to Sentry and CloudWatch
type Recorder struct {
	sentry     *SentryMetrics
	cloudwatch *Client
}

// NewRecorder creates a recorder; a nil CloudWatch client disables that sink
func NewRecorder(sentryMetrics *SentryMetrics, cloudwatchClient *Client) *Recorder {
	if sentryMetrics == nil {
		sentryMetrics = &SentryMetrics{}
	}
	if cloudwatchClient == nil {
		cloudwatchClient = &Client{}
	}
	return &Recorder{
		sentry:     sentryMetrics,
		cloudwatch: cloudwatchClient,
	}
}

// RecordGeneration records the outcome of one backend call
func (r *Recorder) RecordGeneration(ctx context.Context, backend, model string, duration time.Duration, success bool, inputTokens, outputTokens, totalTokens int) {
	r.sentry.RecordGenerationDuration(ctx, backend, duration, success)
	r.cloudwatch.RecordGenerationDuration(backend, duration, success)

	if success {
		r.sentry.RecordTokenUsage(ctx, backend, model, inputTokens, outputTokens, totalTokens)
		r.cloudwatch.RecordTokenUsage(model, inputTokens, outputTokens, totalTokens)
	}
}

// RecordPersistence records one prompt store operation
func (r *Recorder) RecordPersistence(ctx context.Context, operation string, duration time.Duration, success bool) {
	r.sentry.RecordPersistence(ctx, operation, duration, success)
	r.cloudwatch.RecordPersistence(operation, success)
}
