// Package binding classifies data-binding expressions and synthesizes pure
// helper functions for the ones the binding system cannot evaluate itself.
package binding

import (
	"github.com/livefir/polyexpr/internal/expr"
)

// Kind is the classification of a binding expression.
type Kind string

const (
	// KindPropertyPath is a property or sub-property path: `users`, `address.street`.
	KindPropertyPath Kind = "property-path"
	// KindComputedCall is a call to a named function: `_computeName(first, last)`.
	KindComputedCall Kind = "computed-call"
	// KindNegatedPath is either of the above preceded by `!`.
	KindNegatedPath Kind = "negated-path"
	// KindOther is anything else and needs a synthesized function.
	KindOther Kind = "other"
)

// Mode identifies the binding delimiter.
type Mode int

const (
	// OneWay is a `[[...]]` binding.
	OneWay Mode = iota
	// TwoWay is a `{{...}}` binding.
	TwoWay
)

func (m Mode) String() string {
	if m == TwoWay {
		return "two-way"
	}
	return "one-way"
}

// Admits reports whether an expression of kind k may appear unchanged in a
// binding of mode m. Two-way bindings must be writable, so they reject calls.
func (m Mode) Admits(k Kind) bool {
	switch k {
	case KindPropertyPath, KindNegatedPath:
		return true
	case KindComputedCall:
		return m == OneWay
	default:
		return false
	}
}

// Classify returns the kind of n. It is total: every node maps to exactly
// one Kind.
func Classify(n expr.Node) Kind {
	switch {
	case isPropertyPath(n):
		return KindPropertyPath
	case isComputedCall(n):
		return KindComputedCall
	case isNegated(n):
		return KindNegatedPath
	default:
		return KindOther
	}
}

// isPropertyPath matches an identifier or a non-computed member chain rooted
// at one. Bracket access is not part of the path grammar.
func isPropertyPath(n expr.Node) bool {
	switch n := n.(type) {
	case *expr.Identifier:
		return true
	case *expr.MemberExpr:
		return !n.Computed && isPropertyPath(n.Object)
	default:
		return false
	}
}

// isComputedCall matches a call whose callee is a bare identifier.
func isComputedCall(n expr.Node) bool {
	call, ok := n.(*expr.CallExpr)
	if !ok {
		return false
	}
	_, ok = call.Callee.(*expr.Identifier)
	return ok
}

func isNegated(n expr.Node) bool {
	unary, ok := n.(*expr.UnaryExpr)
	if !ok || unary.Op != "!" {
		return false
	}
	return isPropertyPath(unary.Operand) || isComputedCall(unary.Operand)
}
