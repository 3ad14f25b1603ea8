package telemetry

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the app. A nil *Metrics records nothing.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Business metrics
	FetchTotal              metric.Int64Counter
	SaveTotal               metric.Int64Counter
	ValidationFailuresTotal metric.Int64Counter
}

// InitMetrics initializes all custom metrics against the global meter provider.
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/WailSalutem-Health-Care/health-record-editor")

	httpRequestsTotal, err := meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	httpDurationMs, err := meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	fetchTotal, err := meter.Int64Counter(
		"health_record_fetch_total",
		metric.WithDescription("Health record fetches by outcome"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, err
	}

	saveTotal, err := meter.Int64Counter(
		"health_record_save_total",
		metric.WithDescription("Section saves by section and outcome"),
		metric.WithUnit("{save}"),
	)
	if err != nil {
		return nil, err
	}

	validationFailuresTotal, err := meter.Int64Counter(
		"health_record_validation_failures_total",
		metric.WithDescription("Rejected saves by violated rule"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	log.Debug().Msg("custom metrics initialized")

	return &Metrics{
		HTTPRequestsTotal:       httpRequestsTotal,
		HTTPDurationMs:          httpDurationMs,
		FetchTotal:              fetchTotal,
		SaveTotal:               saveTotal,
		ValidationFailuresTotal: validationFailuresTotal,
	}, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPDurationMs.Record(ctx, durationMs, metric.WithAttributes(attrs...))
}

// RecordFetch records the outcome of one fetch: "applied", "stale", "canceled" or "failed".
func (m *Metrics) RecordFetch(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.FetchTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordSave records a save attempt for a section: "saved" or "rejected".
func (m *Metrics) RecordSave(ctx context.Context, section, outcome string) {
	if m == nil {
		return
	}
	m.SaveTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("section", section),
		attribute.String("outcome", outcome),
	))
}

// RecordValidationFailure records which rule rejected a save.
func (m *Metrics) RecordValidationFailure(ctx context.Context, rule string) {
	if m == nil {
		return
	}
	m.ValidationFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("rule", rule),
	))
}
