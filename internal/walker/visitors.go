package walker

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/livefir/polyexpr/internal/binding"
	"github.com/livefir/polyexpr/internal/diag"
	"github.com/livefir/polyexpr/internal/expr"
)

// Collect runs the collection pass: every path root written through a
// two-way binding, and every declared property, becomes component state in
// scope. Roots that name an iteration variable visible at the binding are
// local to their repeating template and are not collected. Nothing is
// mutated.
func Collect(hosts []*html.Node, scope *binding.Scope, declared []string) {
	scope.Bind(declared...)
	Walk(hosts, scope, VisitorFunc(collect))
}

func collect(text string, node *html.Node, scope *binding.Scope) (string, bool) {
	occurrences := binding.Scan(text, binding.TwoWay)
	if len(occurrences) == 0 {
		return text, false
	}

	iteration := binding.ResolveIterationScope(node)
	bind := func(path string) {
		if root := binding.Root(path); !iteration.Has(root) {
			scope.Bind(root)
		}
	}
	for _, occ := range occurrences {
		if binding.IsWildcardPath(occ.Expr) {
			bind(strings.TrimSpace(occ.Expr))
			continue
		}
		n, err := occ.Parse()
		if err != nil || n == nil {
			continue
		}
		if !binding.TwoWay.Admits(binding.Classify(n)) {
			continue
		}
		for _, path := range binding.ExtractPaths(n) {
			bind(path)
		}
	}
	return text, false
}

// Stats counts what the transform pass saw.
type Stats struct {
	// Bindings counts parsed binding expressions by classification.
	Bindings map[binding.Kind]int
	// Accepted counts bindings accepted unchanged without being parsed as
	// expressions: wildcard paths and literals.
	Accepted int
	// Rewritten counts one-way bindings replaced by a synthesized call.
	Rewritten int
	// Invalid counts bindings that produced a diagnostic.
	Invalid int
}

// Transformer is the transform-pass visitor. One-way bindings that are not
// basic expressions are replaced by calls to synthesized functions; two-way
// bindings are only checked.
type Transformer struct {
	reporter *diag.Reporter
	stats    Stats
}

// NewTransformer returns a Transformer reporting problems to reporter.
func NewTransformer(reporter *diag.Reporter) *Transformer {
	return &Transformer{
		reporter: reporter,
		stats:    Stats{Bindings: make(map[binding.Kind]int)},
	}
}

// Rewrite runs the transform pass over hosts and returns the pass counters.
func Rewrite(hosts []*html.Node, scope *binding.Scope, reporter *diag.Reporter) Stats {
	t := NewTransformer(reporter)
	Walk(hosts, scope, t)
	return t.Stats()
}

// Stats returns a copy of the counters gathered so far.
func (t *Transformer) Stats() Stats {
	out := t.stats
	out.Bindings = make(map[binding.Kind]int, len(t.stats.Bindings))
	for k, v := range t.stats.Bindings {
		out.Bindings[k] = v
	}
	return out
}

// Visit implements Visitor.
func (t *Transformer) Visit(text string, node *html.Node, scope *binding.Scope) (string, bool) {
	changed := false
	out := binding.Replace(text, binding.OneWay, func(occ binding.Occurrence) string {
		n, ok := t.check(occ)
		if !ok {
			return occ.Match
		}
		t.stats.Rewritten++
		changed = true
		return "[[" + binding.Synthesize(occ.Expr, n, node, scope) + "]]"
	})

	for _, occ := range binding.Scan(out, binding.TwoWay) {
		if _, ok := t.check(occ); ok {
			t.stats.Invalid++
			t.reporter.Report(diag.InvalidTwoWay, occ.Match,
				"two-way binding must be a property path or its negation")
		}
	}
	return out, changed
}

// check parses and classifies occ. It returns the expression and true only
// when occ is a well-formed expression its binding mode does not admit.
func (t *Transformer) check(occ binding.Occurrence) (n expr.Node, needsRewrite bool) {
	n, err := occ.Parse()
	if err != nil {
		t.stats.Invalid++
		t.reporter.Report(diag.ParseFailure, occ.Match, "invalid data binding expression: %v", err)
		return nil, false
	}
	if n == nil {
		t.stats.Accepted++
		return nil, false
	}

	kind := binding.Classify(n)
	t.stats.Bindings[kind]++
	return n, !occ.Mode.Admits(kind)
}
