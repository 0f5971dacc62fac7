package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/honeyvig/voicescribe/transcription"

// TranscriptionMetrics holds the instrument set recorded by the pipeline.
// Instruments come from the global meter provider, so they are no-ops until
// Init enables export.
type TranscriptionMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	retries  metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

// NewTranscriptionMetrics creates the pipeline instrument set.
func NewTranscriptionMetrics() (*TranscriptionMetrics, error) {
	meter := Meter(meterName)

	requests, err := meter.Int64Counter("transcription.requests",
		metric.WithDescription("Completed transcription requests by provider and outcome"))
	if err != nil {
		return nil, fmt.Errorf("creating requests counter: %w", err)
	}

	duration, err := meter.Float64Histogram("transcription.duration",
		metric.WithDescription("End-to-end transcription duration"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	retries, err := meter.Int64Counter("transcription.retries",
		metric.WithDescription("Provider call retries after transient failures"))
	if err != nil {
		return nil, fmt.Errorf("creating retries counter: %w", err)
	}

	inFlight, err := meter.Int64UpDownCounter("transcription.in_flight",
		metric.WithDescription("Provider calls currently in flight"))
	if err != nil {
		return nil, fmt.Errorf("creating in-flight counter: %w", err)
	}

	return &TranscriptionMetrics{
		requests: requests,
		duration: duration,
		retries:  retries,
		inFlight: inFlight,
	}, nil
}

// RecordRequest records one completed request with its outcome code.
func (m *TranscriptionMetrics) RecordRequest(ctx context.Context, provider, outcome string, seconds float64) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, seconds, attrs)
}

// RecordRetry records one retry of a provider call.
func (m *TranscriptionMetrics) RecordRetry(ctx context.Context, provider string) {
	m.retries.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
}

// AddInFlight adjusts the in-flight gauge by delta.
func (m *TranscriptionMetrics) AddInFlight(ctx context.Context, provider string, delta int64) {
	m.inFlight.Add(ctx, delta, metric.WithAttributes(attribute.String("provider", provider)))
}
