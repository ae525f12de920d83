package binding

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/livefir/polyexpr/internal/expr"
)

var (
	oneWayPattern = regexp.MustCompile(`(?s)\[\[(.+?)\]\]`)
	twoWayPattern = regexp.MustCompile(`(?s)\{\{(.+?)\}\}`)

	// wildcardOrArrayItem is the loose test applied after a parse failure.
	wildcardOrArrayItem = regexp.MustCompile(`\.[*0-9]`)
	// pathWithSegments matches a dotted path whose segments may be `*` or
	// array indexes, e.g. `items.*` or `users.0.name`.
	pathWithSegments = regexp.MustCompile(`^\s*[A-Za-z_$][A-Za-z0-9_$]*(\.([A-Za-z_$][A-Za-z0-9_$]*|\*|[0-9]+))+\s*$`)
)

// Occurrence is one delimited binding inside a text node or attribute value.
type Occurrence struct {
	Mode Mode
	// Match is the full text including delimiters.
	Match string
	// Inner is the text between the delimiters.
	Inner string
	// Expr is the expression part of Inner. For two-way bindings a trailing
	// `::event` suffix is removed.
	Expr string
	// Event is the two-way `::event` suffix without the colons, if any.
	Event string
}

func pattern(mode Mode) *regexp.Regexp {
	if mode == TwoWay {
		return twoWayPattern
	}
	return oneWayPattern
}

func newOccurrence(mode Mode, match string) Occurrence {
	inner := match[2 : len(match)-2]
	o := Occurrence{Mode: mode, Match: match, Inner: inner, Expr: inner}
	if mode == TwoWay {
		if i := strings.Index(inner, "::"); i >= 0 {
			o.Expr = inner[:i]
			o.Event = inner[i+2:]
		}
	}
	return o
}

// Scan returns the occurrences of mode in text, in order.
func Scan(text string, mode Mode) []Occurrence {
	matches := pattern(mode).FindAllString(text, -1)
	occurrences := make([]Occurrence, 0, len(matches))
	for _, m := range matches {
		occurrences = append(occurrences, newOccurrence(mode, m))
	}
	return occurrences
}

// Replace calls fn for every occurrence of mode in text and substitutes the
// returned string for the occurrence's full match.
func Replace(text string, mode Mode, fn func(Occurrence) string) string {
	return pattern(mode).ReplaceAllStringFunc(text, func(match string) string {
		return fn(newOccurrence(mode, match))
	})
}

// IsWildcardPath reports whether s is a property path containing a wildcard
// (`items.*`) or array item (`items.0`) segment. Such paths are valid
// bindings but not valid expressions.
func IsWildcardPath(s string) bool {
	return pathWithSegments.MatchString(s) && wildcardOrArrayItem.MatchString(s)
}

// Parse parses the expression of o. Text accepted without being an
// expression, a wildcard path or a JSON literal, yields a nil node and a nil
// error. Any other parse failure is returned.
func (o Occurrence) Parse() (expr.Node, error) {
	if IsWildcardPath(o.Expr) {
		return nil, nil
	}

	n, err := expr.Parse(o.Expr)
	if err == nil {
		return n, nil
	}

	if json.Valid([]byte(o.Match)) || json.Valid([]byte(o.Expr)) || wildcardOrArrayItem.MatchString(o.Expr) {
		return nil, nil
	}
	return nil, err
}
