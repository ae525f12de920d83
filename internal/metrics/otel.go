package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope of the OpenTelemetry instruments.
const MeterName = "polyexpr"

// OTelRecorder implements Recorder using OpenTelemetry counters.
type OTelRecorder struct {
	documents   metric.Int64Counter
	docErrors   metric.Int64Counter
	latency     metric.Float64Histogram
	bindings    metric.Int64Counter
	rewrites    metric.Int64Counter
	diagnostics metric.Int64Counter
	functions   metric.Int64Counter
}

var _ Recorder = (*OTelRecorder)(nil)

// NewOTelRecorder creates the instruments on meter. A nil meter uses the
// global provider:
//
//	otel.SetMeterProvider(yourProvider)
func NewOTelRecorder(meter metric.Meter) (*OTelRecorder, error) {
	if meter == nil {
		meter = otel.Meter(MeterName)
	}

	var (
		r   OTelRecorder
		err error
	)
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&r.documents, "polyexpr.documents", "Number of transformed documents"},
		{&r.docErrors, "polyexpr.document.errors", "Number of documents that failed to transform"},
		{&r.bindings, "polyexpr.bindings", "Number of parsed binding expressions"},
		{&r.rewrites, "polyexpr.rewrites", "Number of bindings replaced by synthesized calls"},
		{&r.diagnostics, "polyexpr.diagnostics", "Number of non-fatal diagnostics"},
		{&r.functions, "polyexpr.functions.injected", "Number of functions injected into declarations"},
	}
	for _, c := range counters {
		*c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("failed to create counter %s: %w", c.name, err)
		}
	}

	r.latency, err = meter.Float64Histogram("polyexpr.document.latency_ms",
		metric.WithDescription("Document transform latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram: %w", err)
	}
	return &r, nil
}

// RecordDocument records a document transform.
func (r *OTelRecorder) RecordDocument(module string, duration time.Duration, err error) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("module", module))

	r.documents.Add(ctx, 1, attrs)
	r.latency.Record(ctx, float64(duration)/float64(time.Millisecond), attrs)
	if err != nil {
		r.docErrors.Add(ctx, 1, attrs)
	}
}

// RecordBinding records a classified binding.
func (r *OTelRecorder) RecordBinding(kind string) {
	r.bindings.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordRewrite records a rewritten binding.
func (r *OTelRecorder) RecordRewrite(module string) {
	r.rewrites.Add(context.Background(), 1, metric.WithAttributes(attribute.String("module", module)))
}

// RecordDiagnostic records a diagnostic.
func (r *OTelRecorder) RecordDiagnostic(kind string) {
	r.diagnostics.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordInjection records injected functions.
func (r *OTelRecorder) RecordInjection(module string, functions int) {
	r.functions.Add(context.Background(), int64(functions), metric.WithAttributes(attribute.String("module", module)))
}
