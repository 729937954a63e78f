package goseq

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName identifies this module to telemetry backends.
const instrumentationName = "github.com/davidroman0O/goseq"

// MetricsMiddleware records dispatch counts and update latency to a
// Prometheus registerer.
func MetricsMiddleware(reg prometheus.Registerer) DispatchMiddleware {
	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "goseq_dispatches_total",
		Help: "Messages dispatched, by runner and message kind.",
	}, []string{"runner", "message"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "goseq_dispatch_duration_seconds",
		Help:    "Time spent in update per dispatch.",
		Buckets: prometheus.DefBuckets,
	}, []string{"runner"})
	reg.MustRegister(dispatches, duration)

	return func(next DispatchFunc) DispatchFunc {
		return func(ctx context.Context, d Dispatch) error {
			start := time.Now()
			err := next(ctx, d)
			dispatches.WithLabelValues(d.RunnerID, d.MessageKind).Inc()
			duration.WithLabelValues(d.RunnerID).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// TracingMiddleware opens a span around every dispatch.
func TracingMiddleware(tp trace.TracerProvider) DispatchMiddleware {
	tracer := tp.Tracer(instrumentationName)

	return func(next DispatchFunc) DispatchFunc {
		return func(ctx context.Context, d Dispatch) error {
			ctx, span := tracer.Start(ctx, "goseq.dispatch", trace.WithAttributes(
				attribute.String("goseq.runner_id", d.RunnerID),
				attribute.String("goseq.message", d.MessageKind),
				attribute.Int64("goseq.sequence", d.Sequence),
			))
			defer span.End()

			err := next(ctx, d)
			if err != nil {
				span.RecordError(err)
			}
			return err
		}
	}
}

// MeterMiddleware counts dispatches through an OpenTelemetry meter
// provider. An instrument registration failure yields a pass-through
// middleware rather than breaking dispatch.
func MeterMiddleware(mp metric.MeterProvider) DispatchMiddleware {
	meter := mp.Meter(instrumentationName)
	counter, err := meter.Int64Counter("goseq.dispatches",
		metric.WithDescription("Messages dispatched."))
	if err != nil {
		return func(next DispatchFunc) DispatchFunc { return next }
	}

	return func(next DispatchFunc) DispatchFunc {
		return func(ctx context.Context, d Dispatch) error {
			counter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("goseq.runner_id", d.RunnerID),
				attribute.String("goseq.message", d.MessageKind),
			))
			return next(ctx, d)
		}
	}
}
