package commands

import (
	"context"
	"fmt"
	"sort"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/livefir/polyexpr/internal/metrics"
)

// telemetry is the per-run metrics pipeline of a command: the in-process
// collector for the summary line, teed to OpenTelemetry instruments on a
// private meter provider that is read back for the verbose report.
type telemetry struct {
	collector *metrics.Collector
	recorder  metrics.Recorder
	reader    *sdkmetric.ManualReader
	provider  *sdkmetric.MeterProvider
}

func newTelemetry() *telemetry {
	t := &telemetry{
		collector: metrics.NewCollector(),
		reader:    sdkmetric.NewManualReader(),
	}
	t.provider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(t.reader))
	t.recorder = t.collector

	otelRecorder, err := metrics.NewOTelRecorder(t.provider.Meter(metrics.MeterName))
	if err != nil {
		warnColor.Fprintf(stderr, "metrics: %v\n", err)
		return t
	}
	t.recorder = metrics.Multi(t.collector, otelRecorder)
	return t
}

func (t *telemetry) shutdown() {
	if err := t.provider.Shutdown(context.Background()); err != nil {
		warnColor.Fprintf(stderr, "metrics: %v\n", err)
	}
}

// instrumentTotal is one OpenTelemetry instrument summed over its attributes
type instrumentTotal struct {
	name  string
	unit  string
	count uint64
	sum   float64
	// histogram is set for distributions, where count is the number of
	// observations and sum their total
	histogram bool
}

// instruments collects the reader and sums every instrument, sorted by name
func (t *telemetry) instruments(ctx context.Context) ([]instrumentTotal, error) {
	var rm metricdata.ResourceMetrics
	if err := t.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("failed to collect metrics: %w", err)
	}

	var totals []instrumentTotal
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			total := instrumentTotal{name: m.Name, unit: m.Unit}
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					total.sum += float64(dp.Value)
				}
			case metricdata.Histogram[float64]:
				total.histogram = true
				for _, dp := range data.DataPoints {
					total.count += dp.Count
					total.sum += dp.Sum
				}
			default:
				continue
			}
			totals = append(totals, total)
		}
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].name < totals[j].name
	})
	return totals, nil
}

func (t *telemetry) printSummary() {
	m := t.collector.GetMetrics()
	detailColor.Fprintf(stderr, "%d documents, %d bindings, %d rewritten, %d functions injected, %d diagnostics in %v\n",
		m.Documents, m.BindingsSeen, m.Rewrites, m.FunctionsInjected, m.Diagnostics, m.TotalDuration)

	totals, err := t.instruments(context.Background())
	if err != nil {
		warnColor.Fprintf(stderr, "metrics: %v\n", err)
		return
	}
	for _, total := range totals {
		if total.histogram {
			detailColor.Fprintf(stderr, "  %s count=%d sum=%.3f%s\n", total.name, total.count, total.sum, total.unit)
			continue
		}
		detailColor.Fprintf(stderr, "  %s %.0f\n", total.name, total.sum)
	}
}
