// Package diag collects non-fatal diagnostics raised while rewriting a
// document and mirrors them to a structured logger.
package diag

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Kind classifies a diagnostic.
type Kind string

const (
	// ParseFailure: binding text is not a valid expression, literal or
	// wildcard path. The text is left unchanged.
	ParseFailure Kind = "parse-failure"
	// InvalidTwoWay: a two-way binding holds an expression that cannot be
	// written back, such as a function call.
	InvalidTwoWay Kind = "invalid-two-way"
	// ModuleMismatch: the declaration's `is` differs from the dom-module id.
	ModuleMismatch Kind = "module-mismatch"
	// MissingDeclarationID: the declaration object has no string `is` property.
	MissingDeclarationID Kind = "missing-declaration-id"
	// MissingHostScript: functions were synthesized but there is no
	// declaration to inject them into.
	MissingHostScript Kind = "missing-host-script"
)

// Diagnostic is a single non-fatal problem found in a document.
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	Module  string `json:"module,omitempty"`
	Expr    string `json:"expr,omitempty"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Expr != "" {
		return fmt.Sprintf("%s: %s: %s", d.Kind, d.Message, d.Expr)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Reporter accumulates diagnostics for one document.
type Reporter struct {
	logger      zerolog.Logger
	module      string
	diagnostics []Diagnostic
}

// NewReporter returns a Reporter that tags diagnostics with module and logs
// each one at warn level.
func NewReporter(logger zerolog.Logger, module string) *Reporter {
	return &Reporter{
		logger: logger.With().Str("module", module).Logger(),
		module: module,
	}
}

// Report records a diagnostic. expr may be empty.
func (r *Reporter) Report(kind Kind, expr string, format string, args ...interface{}) {
	d := Diagnostic{
		Kind:    kind,
		Module:  r.module,
		Expr:    expr,
		Message: fmt.Sprintf(format, args...),
	}
	r.diagnostics = append(r.diagnostics, d)

	event := r.logger.Warn().Str("kind", string(kind))
	if expr != "" {
		event = event.Str("expr", expr)
	}
	event.Msg(d.Message)
}

// Diagnostics returns everything reported so far, in report order.
func (r *Reporter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}
