package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Observability owns the OpenTelemetry meter and tracer. Instruments are
// exported through the default Prometheus registry, so they appear on /metrics
// next to the promauto collectors. Spans carry IDs for log correlation; no
// span exporter is configured by default.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	meter          otelmetric.Meter
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
	recommendation otelmetric.Int64Counter
	computeLatency otelmetric.Float64Histogram
}

// New registers the exporter and instruments. A failing exporter yields a
// usable Observability whose Record methods do nothing. opts are passed to the
// exporter; tests use prometheus.WithRegisterer to avoid the default registry.
func New(serviceName string, opts ...prometheus.Option) (*Observability, error) {
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return &Observability{}, err
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	provider := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	otel.SetMeterProvider(provider)

	tp := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)

	meter := provider.Meter(serviceName)
	o := &Observability{
		meterProvider:  provider,
		tracerProvider: tp,
		tracer:         tp.Tracer(serviceName),
		meter:          meter,
	}

	o.jobCounter, _ = meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	o.jobDuration, _ = meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	o.recommendation, _ = meter.Int64Counter(
		"recommendations.computed",
		otelmetric.WithDescription("Recommendations computed by the engine"),
	)
	o.computeLatency, _ = meter.Float64Histogram(
		"recommendations.duration",
		otelmetric.WithDescription("Engine compute latency"),
		otelmetric.WithUnit("ms"),
	)
	return o, nil
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o == nil || o.jobCounter == nil {
		return
	}
	o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string) {
	if o == nil || o.jobDuration == nil {
		return
	}
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

// RecordRecommendation counts one engine computation by origin (api, cli,
// worker) and footwear preference.
func (o *Observability) RecordRecommendation(ctx context.Context, origin, footwear string, duration time.Duration) {
	if o == nil || o.recommendation == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("origin", origin),
		attribute.String("footwear", footwear),
	)
	o.recommendation.Add(ctx, 1, attrs)
	if o.computeLatency != nil {
		o.computeLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	}
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		if err := o.tracerProvider.Shutdown(ctx); err != nil {
			return err
		}
	}
	return o.meterProvider.Shutdown(ctx)
}
