package telemetry

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds the OpenTelemetry instruments of the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	visitsTracked metric.Int64Counter
	visitFailures metric.Int64Counter
	healthChecks  metric.Int64Counter
}

// NewMetrics creates all instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	visitsTracked, err := meter.Int64Counter("shlink.visits.tracked",
		metric.WithDescription("Number of visits recorded or queued for recording"),
		metric.WithUnit("{visit}"),
	)
	if err != nil {
		return nil, err
	}

	visitFailures, err := meter.Int64Counter("shlink.visits.failed",
		metric.WithDescription("Number of visits that could not be recorded or queued"),
		metric.WithUnit("{visit}"),
	)
	if err != nil {
		return nil, err
	}

	healthChecks, err := meter.Int64Counter("shlink.health.checks",
		metric.WithDescription("Number of health checks by result"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		visitsTracked: visitsTracked,
		visitFailures: visitFailures,
		healthChecks:  healthChecks,
	}, nil
}

// NewOTLPProvider creates a meter provider pushing to an OTLP/HTTP collector every 15 seconds.
func NewOTLPProvider(ctx context.Context, endpoint string) (*sdkmetric.MeterProvider, error) {
	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(trimScheme(endpoint)),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter,
				sdkmetric.WithInterval(15*time.Second),
			),
		),
	), nil
}

// VisitTracked counts a visit for the given mode ("sync" or "async").
func (m *Metrics) VisitTracked(ctx context.Context, mode string) {
	if m == nil {
		return
	}

	m.visitsTracked.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
}

// VisitFailed counts a visit that was lost.
func (m *Metrics) VisitFailed(ctx context.Context, mode string) {
	if m == nil {
		return
	}

	m.visitFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
}

// HealthChecked implements health.Recorder.
func (m *Metrics) HealthChecked(ctx context.Context, pass bool) {
	if m == nil {
		return
	}

	result := "fail"
	if pass {
		result = "pass"
	}

	m.healthChecks.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func trimScheme(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")

	return strings.TrimPrefix(endpoint, "http://")
}
