// Package metrics counts what the transform does: documents processed,
// bindings classified and rewritten, diagnostics raised, functions injected.
package metrics

import "time"

// Recorder receives transform events.
// Use NewCollector() for in-process counters, NewOTelRecorder() to export
// through OpenTelemetry, or Noop{} when disabled.
type Recorder interface {
	// RecordDocument records one transformed document and its outcome.
	RecordDocument(module string, duration time.Duration, err error)

	// RecordBinding records one parsed binding expression by classification.
	RecordBinding(kind string)

	// RecordRewrite records one binding replaced by a synthesized call.
	RecordRewrite(module string)

	// RecordDiagnostic records one non-fatal diagnostic by kind.
	RecordDiagnostic(kind string)

	// RecordInjection records functions injected into a declaration script.
	RecordInjection(module string, functions int)
}

// Noop is a Recorder that does nothing.
type Noop struct{}

var _ Recorder = Noop{}

// RecordDocument does nothing.
func (Noop) RecordDocument(_ string, _ time.Duration, _ error) {}

// RecordBinding does nothing.
func (Noop) RecordBinding(_ string) {}

// RecordRewrite does nothing.
func (Noop) RecordRewrite(_ string) {}

// RecordDiagnostic does nothing.
func (Noop) RecordDiagnostic(_ string) {}

// RecordInjection does nothing.
func (Noop) RecordInjection(_ string, _ int) {}

type multi []Recorder

// Multi fans events out to every recorder.
func Multi(recorders ...Recorder) Recorder {
	return multi(recorders)
}

func (m multi) RecordDocument(module string, duration time.Duration, err error) {
	for _, r := range m {
		r.RecordDocument(module, duration, err)
	}
}

func (m multi) RecordBinding(kind string) {
	for _, r := range m {
		r.RecordBinding(kind)
	}
}

func (m multi) RecordRewrite(module string) {
	for _, r := range m {
		r.RecordRewrite(module)
	}
}

func (m multi) RecordDiagnostic(kind string) {
	for _, r := range m {
		r.RecordDiagnostic(kind)
	}
}

func (m multi) RecordInjection(module string, functions int) {
	for _, r := range m {
		r.RecordInjection(module, functions)
	}
}
