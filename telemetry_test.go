package goseq

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// dispatchThrough runs n dispatches through a middleware with a no-op core.
func dispatchThrough(t *testing.T, mw DispatchMiddleware, n int, core DispatchFunc) {
	t.Helper()
	if core == nil {
		core = func(ctx context.Context, d Dispatch) error { return nil }
	}
	handler := mw(core)
	for i := 0; i < n; i++ {
		_ = handler(context.Background(), Dispatch{
			RunnerID:    "runner-1",
			Sequence:    int64(i + 1),
			MessageKind: "goseq.stepMsg",
		})
	}
}

func findFamily(families []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func TestMetricsMiddlewareCountsDispatches(t *testing.T) {
	reg := prometheus.NewRegistry()
	dispatchThrough(t, MetricsMiddleware(reg), 3, nil)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := findFamily(families, "goseq_dispatches_total")
	require.NotNil(t, counts)
	require.Len(t, counts.Metric, 1)
	assert.Equal(t, float64(3), counts.Metric[0].GetCounter().GetValue())

	durations := findFamily(families, "goseq_dispatch_duration_seconds")
	require.NotNil(t, durations)
	require.Len(t, durations.Metric, 1)
	assert.Equal(t, uint64(3), durations.Metric[0].GetHistogram().GetSampleCount())
}

func TestMetricsMiddlewareThroughRunner(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRunner(stepProgram(), nil, WithMiddleware(MetricsMiddleware(reg)))
	r.Send(stepMsg{add: 1})
	r.Send(stepMsg{finish: true})

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	counts := findFamily(families, "goseq_dispatches_total")
	require.NotNil(t, counts)
	require.Len(t, counts.Metric, 1)
	assert.Equal(t, float64(2), counts.Metric[0].GetCounter().GetValue())
}

func TestTracingMiddlewareSpansPerDispatch(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	dispatchThrough(t, TracingMiddleware(tp), 2, nil)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	for _, span := range spans {
		assert.Equal(t, "goseq.dispatch", span.Name())
	}
}

func TestTracingMiddlewareRecordsErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	boom := errors.New("boom")

	dispatchThrough(t, TracingMiddleware(tp), 1, func(ctx context.Context, d Dispatch) error {
		return boom
	})

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.NotEmpty(t, spans[0].Events())
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestMeterMiddlewareCountsDispatches(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	dispatchThrough(t, MeterMiddleware(mp), 4, nil)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "goseq.dispatches" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	assert.Equal(t, int64(4), total)
}
