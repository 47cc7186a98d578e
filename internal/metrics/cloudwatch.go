package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	namespace                = "CCTVPrompt/API"
	httpStatusServerError    = 500
	cloudwatchTimeoutSeconds = 5
)

// putMetricDataAPI is the slice of the CloudWatch client this package uses
type putMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Client wraps CloudWatch client for custom metrics
type Client struct {
	client      putMetricDataAPI
	enabled     bool
	environment string
	wg          sync.WaitGroup
}

// NewClient creates a new CloudWatch metrics client
func NewClient(ctx context.Context, environment string) (*Client, error) {
	// Only enable in production
	if environment != "production" {
		log.Printf("📊 CloudWatch Metrics: DISABLED (environment: %s)", environment)
		return &Client{
			enabled:     false,
			environment: environment,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to load AWS config for CloudWatch: %v", err)
		return &Client{enabled: false, environment: environment}, nil
	}

	log.Printf("📊 CloudWatch Metrics: ✅ ENABLED (namespace: %s)", namespace)
	return newClientWithAPI(cloudwatch.NewFromConfig(cfg), environment), nil
}

func newClientWithAPI(api putMetricDataAPI, environment string) *Client {
	return &Client{
		client:      api,
		enabled:     true,
		environment: environment,
	}
}

// Enabled reports whether metrics are being sent
func (m *Client) Enabled() bool {
	return m != nil && m.enabled
}

// Wait blocks until all in-flight metric submissions have finished
func (m *Client) Wait() {
	if m != nil {
		m.wg.Wait()
	}
}

// RecordAPIRequest records an API request metric
func (m *Client) RecordAPIRequest(endpoint string, statusCode int, duration time.Duration) {
	metricName := "APIRequests"
	if statusCode >= httpStatusServerError {
		metricName = "APIErrors"
	}

	m.send(m.dimensions("Endpoint", endpoint),
		datum{metricName, 1, types.StandardUnitCount},
		datum{"APILatency", float64(duration.Milliseconds()), types.StandardUnitMilliseconds},
	)
}

// RecordGenerationDuration records one backend generation and its outcome
func (m *Client) RecordGenerationDuration(backend string, duration time.Duration, success bool) {
	outcome := "GenerationSuccess"
	if !success {
		outcome = "GenerationFailure"
	}

	m.send(append(m.dimensions("Backend", backend), types.Dimension{
		Name:  aws.String("Success"),
		Value: aws.String(boolToString(success)),
	}),
		datum{"GenerationDuration", float64(duration.Milliseconds()), types.StandardUnitMilliseconds},
		datum{outcome, 1, types.StandardUnitCount},
	)
}

// RecordTokenUsage records token counts reported by the backend
func (m *Client) RecordTokenUsage(model string, inputTokens, outputTokens, totalTokens int) {
	if totalTokens == 0 {
		return
	}
	m.send(m.dimensions("Model", model),
		datum{"Tokens/Total", float64(totalTokens), types.StandardUnitCount},
		datum{"Tokens/Input", float64(inputTokens), types.StandardUnitCount},
		datum{"Tokens/Output", float64(outputTokens), types.StandardUnitCount},
	)
}

// RecordPersistence records a prompt store operation
func (m *Client) RecordPersistence(operation string, success bool) {
	metricName := "StoreOperations"
	if !success {
		metricName = "StoreErrors"
	}
	m.send(m.dimensions("Operation", operation), datum{metricName, 1, types.StandardUnitCount})
}

type datum struct {
	name  string
	value float64
	unit  types.StandardUnit
}

func (m *Client) dimensions(name, value string) []types.Dimension {
	return []types.Dimension{
		{
			Name:  aws.String(name),
			Value: aws.String(value),
		},
		{
			Name:  aws.String("Environment"),
			Value: aws.String(m.environment),
		},
	}
}

// send submits metrics asynchronously so request handling never waits on CloudWatch
func (m *Client) send(dimensions []types.Dimension, data ...datum) {
	if !m.Enabled() {
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for _, d := range data {
			if err := m.putMetric(d.name, d.value, d.unit, dimensions); err != nil {
				log.Printf("Failed to record %s metric: %v", d.name, err)
			}
		}
	}()
}

// putMetric sends a metric to CloudWatch
func (m *Client) putMetric(
	metricName string,
	value float64,
	unit types.StandardUnit,
	dimensions []types.Dimension,
) error {
	if !m.enabled || m.client == nil {
		return nil
	}

	timeout := time.Duration(cloudwatchTimeoutSeconds) * time.Second
	cwCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, err := m.client.PutMetricData(cwCtx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: dimensions,
			},
		},
	})

	return err
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
