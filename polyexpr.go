// Package polyexpr rewrites Polymer data-binding expressions so that only
// the basic forms the binding system evaluates itself remain.
//
// Polymer 1.x bindings accept a property path (`[[user.name]]`), a computed
// binding (`[[_format(user.name)]]`) or either of them negated
// (`[[!user.active]]`). Anything else, such as `[[a + b]]`, is replaced by a
// call to a synthesized pure function:
//
//	<span>[[a + b]]</span>  ->  <span>[[__c_0(a,b)]]</span>
//
// and the function is injected into the component declaration:
//
//	Polymer({
//	//### auto-generated *Computed Bindings*
//	'__c_0': function __c_0(a,b){ return a + b; },
//	//###
//	  is: 'x-sum', ...
//
// Transform is idempotent: its output contains only basic bindings, so
// running it again changes nothing.
package polyexpr

import (
	"github.com/rs/zerolog"

	"github.com/livefir/polyexpr/internal/binding"
	"github.com/livefir/polyexpr/internal/diag"
	"github.com/livefir/polyexpr/internal/metrics"
	"github.com/livefir/polyexpr/internal/script"
)

// Options configures a transform. The zero value is ready to use.
type Options struct {
	// Globals are identifiers, besides the built-in sandbox globals such as
	// Math and Date, that are never treated as component state.
	Globals []string

	// RegisterFunc is the component registration function. Default "Polymer".
	RegisterFunc string

	// FunctionPrefix prefixes synthesized function names. Default "__c_".
	FunctionPrefix string

	// AllowMissingScript returns rewritten markup with a diagnostic when
	// functions were synthesized but no declaration exists to hold them.
	// Without it the transform fails with ErrMissingHostScript.
	AllowMissingScript bool

	// Minify minifies the output markup.
	Minify bool

	// Logger receives diagnostics at warn level and per-document details at
	// debug level. Nil disables logging.
	Logger *zerolog.Logger

	// Metrics receives transform events. Nil disables metrics.
	Metrics metrics.Recorder
}

func (o Options) withDefaults() Options {
	if o.RegisterFunc == "" {
		o.RegisterFunc = script.DefaultRegisterFunc
	}
	if o.FunctionPrefix == "" {
		o.FunctionPrefix = binding.DefaultPrefix
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	if o.Metrics == nil {
		o.Metrics = metrics.Noop{}
	}
	return o
}

type (
	// FunctionDef is a synthesized function: name, parameters and the
	// returned expression.
	FunctionDef = binding.FunctionDef

	// Diagnostic is a non-fatal problem found in a document.
	Diagnostic = diag.Diagnostic

	// DiagnosticKind classifies a Diagnostic.
	DiagnosticKind = diag.Kind
)

// Diagnostic kinds.
const (
	DiagParseFailure         = diag.ParseFailure
	DiagInvalidTwoWay        = diag.InvalidTwoWay
	DiagModuleMismatch       = diag.ModuleMismatch
	DiagMissingDeclarationID = diag.MissingDeclarationID
	DiagMissingHostScript    = diag.MissingHostScript
)

// Result is the outcome of transforming one document.
type Result struct {
	// HTML is the rewritten markup.
	HTML string
	// ModuleID is the id of the document's dom-module, empty if it has none.
	ModuleID string
	// Functions are the functions synthesized for this document, in the
	// order their names were allocated.
	Functions []FunctionDef
	// Rewritten counts the bindings replaced by synthesized calls.
	Rewritten int
	// Injected reports whether Functions were written into the declaration.
	Injected bool
	// Diagnostics are the non-fatal problems found, in document order.
	Diagnostics []Diagnostic
}
