package telemetry_test

import (
	"context"
	"testing"

	"github.com/serroba/shlink-go/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Sum[int64] {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]metricdata.Sum[int64]{}

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				sums[m.Name] = sum
			}
		}
	}

	return sums
}

func valueFor(sum metricdata.Sum[int64], key, value string) int64 {
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			return dp.Value
		}
	}

	return 0
}

func TestMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := telemetry.NewMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.VisitTracked(ctx, "sync")
	metrics.VisitTracked(ctx, "sync")
	metrics.VisitTracked(ctx, "async")
	metrics.VisitFailed(ctx, "async")
	metrics.HealthChecked(ctx, true)
	metrics.HealthChecked(ctx, false)
	metrics.HealthChecked(ctx, false)

	sums := collect(t, reader)

	assert.Equal(t, int64(2), valueFor(sums["shlink.visits.tracked"], "mode", "sync"))
	assert.Equal(t, int64(1), valueFor(sums["shlink.visits.tracked"], "mode", "async"))
	assert.Equal(t, int64(1), valueFor(sums["shlink.visits.failed"], "mode", "async"))
	assert.Equal(t, int64(1), valueFor(sums["shlink.health.checks"], "result", "pass"))
	assert.Equal(t, int64(2), valueFor(sums["shlink.health.checks"], "result", "fail"))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var metrics *telemetry.Metrics

	assert.NotPanics(t, func() {
		metrics.VisitTracked(context.Background(), "sync")
		metrics.VisitFailed(context.Background(), "sync")
		metrics.HealthChecked(context.Background(), true)
	})
}
