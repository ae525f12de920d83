package binding

import (
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/livefir/polyexpr/internal/expr"
	"github.com/livefir/polyexpr/internal/markup"
)

// Separator replaces "." when a dotted path becomes a parameter name.
const Separator = "__"

// sandboxGlobals are the identifiers binding expressions may use without
// them being component state.
var sandboxGlobals = map[string]bool{
	"Array":              true,
	"Date":               true,
	"JSON":               true,
	"Math":               true,
	"NaN":                true,
	"RegExp":             true,
	"decodeURI":          true,
	"decodeURIComponent": true,
	"encodeURI":          true,
	"encodeURIComponent": true,
	"isFinite":           true,
	"isNaN":              true,
	"null":               true,
	"parseFloat":         true,
	"parseInt":           true,
	"undefined":          true,
}

// SandboxGlobals returns the built-in global allow-list, sorted.
func SandboxGlobals() []string {
	names := make([]string, 0, len(sandboxGlobals))
	for name := range sandboxGlobals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsGlobal reports whether root is a sandbox global or one of extra.
func IsGlobal(root string, extra []string) bool {
	if sandboxGlobals[root] {
		return true
	}
	for _, name := range extra {
		if name == root {
			return true
		}
	}
	return false
}

// IterationScope is the set of item and index variable names visible at a
// node through its enclosing repeating templates.
type IterationScope map[string]struct{}

// Has reports whether name is an iteration variable.
func (s IterationScope) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the variable names, sorted.
func (s IterationScope) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveIterationScope walks from n's parent to the root and unions the
// variables of every repeating template on the way. Nested repeats compose;
// there is no shadowing.
func ResolveIterationScope(n *html.Node) IterationScope {
	scope := IterationScope{}
	if n == nil {
		return scope
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if markup.IsRepeat(p) {
			item, index := markup.RepeatVariables(p)
			scope[item] = struct{}{}
			scope[index] = struct{}{}
		}
	}
	return scope
}

// Ref is one reference to a dotted identifier path inside an expression.
type Ref struct {
	Path string
	Span expr.Span
}

// Refs returns every path reference in n in source order, duplicates
// included. Member chains collapse into one dotted path. A method call
// contributes its receiver path rather than the method itself, so
// `price.toFixed(2)` references `price`.
func Refs(n expr.Node) []Ref {
	return collectRefs(n, nil)
}

func collectRefs(n expr.Node, refs []Ref) []Ref {
	switch n := n.(type) {
	case *expr.Identifier:
		return append(refs, Ref{Path: n.Name, Span: n.Pos})
	case *expr.ThisExpr:
		return append(refs, Ref{Path: "this", Span: n.Pos})
	case *expr.MemberExpr:
		if path, ok := memberPath(n); ok {
			return append(refs, Ref{Path: path, Span: n.Pos})
		}
		refs = collectRefs(n.Object, refs)
		if n.Computed {
			refs = collectRefs(n.Property, refs)
		}
		return refs
	case *expr.CallExpr:
		if member, ok := n.Callee.(*expr.MemberExpr); ok && !member.Computed {
			refs = collectRefs(member.Object, refs)
		} else {
			refs = collectRefs(n.Callee, refs)
		}
		for _, arg := range n.Args {
			refs = collectRefs(arg, refs)
		}
		return refs
	case *expr.UnaryExpr:
		return collectRefs(n.Operand, refs)
	case *expr.BinaryExpr:
		return collectRefs(n.Right, collectRefs(n.Left, refs))
	case *expr.LogicalExpr:
		return collectRefs(n.Right, collectRefs(n.Left, refs))
	case *expr.ConditionalExpr:
		refs = collectRefs(n.Test, refs)
		refs = collectRefs(n.Consequent, refs)
		return collectRefs(n.Alternate, refs)
	case *expr.ArrayExpr:
		for _, el := range n.Elements {
			refs = collectRefs(el, refs)
		}
		return refs
	default:
		return refs
	}
}

// memberPath collapses an identifier, `this`, or a non-computed member chain
// rooted at either into a dotted path.
func memberPath(n expr.Node) (string, bool) {
	switch n := n.(type) {
	case *expr.Identifier:
		return n.Name, true
	case *expr.ThisExpr:
		return "this", true
	case *expr.MemberExpr:
		if n.Computed {
			return "", false
		}
		property, ok := n.Property.(*expr.Identifier)
		if !ok {
			return "", false
		}
		object, ok := memberPath(n.Object)
		if !ok {
			return "", false
		}
		return object + "." + property.Name, true
	default:
		return "", false
	}
}

// ExtractPaths returns the distinct dotted paths referenced in n, in order
// of first appearance.
func ExtractPaths(n expr.Node) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, ref := range Refs(n) {
		if !seen[ref.Path] {
			seen[ref.Path] = true
			paths = append(paths, ref.Path)
		}
	}
	return paths
}

// Root returns the first segment of a dotted path.
func Root(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}

// Flatten turns a dotted path into an identifier: "a.b.c" -> "a__b__c".
func Flatten(path string) string {
	return strings.ReplaceAll(path, ".", Separator)
}
