package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector provides simple built-in metrics collection with no external dependencies
type Collector struct {
	transformMetrics *TransformMetrics
	bindingCounters  map[string]*int64
	diagCounters     map[string]*int64
	mu               sync.RWMutex
	startTime        time.Time
}

var _ Recorder = (*Collector)(nil)

// TransformMetrics tracks transform activity across documents
type TransformMetrics struct {
	// Documents
	Documents      int64         `json:"documents"`
	DocumentErrors int64         `json:"document_errors"`
	TotalDuration  time.Duration `json:"total_duration"`

	// Bindings
	BindingsSeen int64 `json:"bindings_seen"`
	Rewrites     int64 `json:"rewrites"`
	Diagnostics  int64 `json:"diagnostics"`

	// Script injection
	Injections        int64 `json:"injections"`
	FunctionsInjected int64 `json:"functions_injected"`

	// Uptime
	StartTime time.Time     `json:"start_time"`
	Uptime    time.Duration `json:"uptime"`
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	now := time.Now()
	return &Collector{
		transformMetrics: &TransformMetrics{StartTime: now},
		bindingCounters:  make(map[string]*int64),
		diagCounters:     make(map[string]*int64),
		startTime:        now,
	}
}

// RecordDocument records a processed document
func (c *Collector) RecordDocument(_ string, duration time.Duration, err error) {
	atomic.AddInt64(&c.transformMetrics.Documents, 1)
	atomic.AddInt64((*int64)(&c.transformMetrics.TotalDuration), int64(duration))
	if err != nil {
		atomic.AddInt64(&c.transformMetrics.DocumentErrors, 1)
	}
}

// RecordBinding records a classified binding expression
func (c *Collector) RecordBinding(kind string) {
	atomic.AddInt64(&c.transformMetrics.BindingsSeen, 1)
	c.increment(&c.bindingCounters, kind)
}

// RecordRewrite records a binding replaced by a synthesized call
func (c *Collector) RecordRewrite(_ string) {
	atomic.AddInt64(&c.transformMetrics.Rewrites, 1)
}

// RecordDiagnostic records a non-fatal diagnostic
func (c *Collector) RecordDiagnostic(kind string) {
	atomic.AddInt64(&c.transformMetrics.Diagnostics, 1)
	c.increment(&c.diagCounters, kind)
}

// RecordInjection records functions injected into a declaration script
func (c *Collector) RecordInjection(_ string, functions int) {
	atomic.AddInt64(&c.transformMetrics.Injections, 1)
	atomic.AddInt64(&c.transformMetrics.FunctionsInjected, int64(functions))
}

func (c *Collector) increment(counters *map[string]*int64, name string) {
	c.mu.RLock()
	counter, exists := (*counters)[name]
	c.mu.RUnlock()
	if exists {
		atomic.AddInt64(counter, 1)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if counter, exists := (*counters)[name]; exists {
		atomic.AddInt64(counter, 1)
	} else {
		var newCounter int64 = 1
		(*counters)[name] = &newCounter
	}
}

// GetMetrics returns current transform metrics
func (c *Collector) GetMetrics() TransformMetrics {
	c.mu.RLock()
	start := c.startTime
	c.mu.RUnlock()

	return TransformMetrics{
		Documents:         atomic.LoadInt64(&c.transformMetrics.Documents),
		DocumentErrors:    atomic.LoadInt64(&c.transformMetrics.DocumentErrors),
		TotalDuration:     time.Duration(atomic.LoadInt64((*int64)(&c.transformMetrics.TotalDuration))),
		BindingsSeen:      atomic.LoadInt64(&c.transformMetrics.BindingsSeen),
		Rewrites:          atomic.LoadInt64(&c.transformMetrics.Rewrites),
		Diagnostics:       atomic.LoadInt64(&c.transformMetrics.Diagnostics),
		Injections:        atomic.LoadInt64(&c.transformMetrics.Injections),
		FunctionsInjected: atomic.LoadInt64(&c.transformMetrics.FunctionsInjected),
		StartTime:         start,
		Uptime:            time.Since(start),
	}
}

// GetBindingCounts returns the number of bindings seen per classification
func (c *Collector) GetBindingCounts() map[string]int64 {
	return c.snapshot(&c.bindingCounters)
}

// GetDiagnosticCounts returns the number of diagnostics per kind
func (c *Collector) GetDiagnosticCounts() map[string]int64 {
	return c.snapshot(&c.diagCounters)
}

func (c *Collector) snapshot(counters *map[string]*int64) map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]int64, len(*counters))
	for name, counter := range *counters {
		result[name] = atomic.LoadInt64(counter)
	}
	return result
}

// Reset resets all metrics to zero
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	atomic.StoreInt64(&c.transformMetrics.Documents, 0)
	atomic.StoreInt64(&c.transformMetrics.DocumentErrors, 0)
	atomic.StoreInt64((*int64)(&c.transformMetrics.TotalDuration), 0)
	atomic.StoreInt64(&c.transformMetrics.BindingsSeen, 0)
	atomic.StoreInt64(&c.transformMetrics.Rewrites, 0)
	atomic.StoreInt64(&c.transformMetrics.Diagnostics, 0)
	atomic.StoreInt64(&c.transformMetrics.Injections, 0)
	atomic.StoreInt64(&c.transformMetrics.FunctionsInjected, 0)

	c.bindingCounters = make(map[string]*int64)
	c.diagCounters = make(map[string]*int64)

	c.startTime = time.Now()
	c.transformMetrics.StartTime = c.startTime
}

// GetErrorRate returns the percentage of documents that failed
func (c *Collector) GetErrorRate() float64 {
	documents := atomic.LoadInt64(&c.transformMetrics.Documents)
	errors := atomic.LoadInt64(&c.transformMetrics.DocumentErrors)

	if documents == 0 {
		return 0.0
	}

	return float64(errors) / float64(documents) * 100.0
}

// GetRewriteRatio returns the percentage of classified bindings that were
// rewritten
func (c *Collector) GetRewriteRatio() float64 {
	seen := atomic.LoadInt64(&c.transformMetrics.BindingsSeen)
	rewrites := atomic.LoadInt64(&c.transformMetrics.Rewrites)

	if seen == 0 {
		return 0.0
	}

	return float64(rewrites) / float64(seen) * 100.0
}
