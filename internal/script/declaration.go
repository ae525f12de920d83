// Package script finds the component registration call in a document's
// scripts and injects synthesized functions into its declaration object.
package script

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/livefir/polyexpr/internal/binding"
	"github.com/livefir/polyexpr/internal/diag"
	"github.com/livefir/polyexpr/internal/markup"
)

const (
	// DefaultRegisterFunc is the registration function of Polymer 1.x.
	DefaultRegisterFunc = "Polymer"

	// BeginMarker and EndMarker frame the injected entries.
	BeginMarker = "//### auto-generated *Computed Bindings*"
	EndMarker   = "//###"
)

// Declaration is a registration call `Register({ ... })` found in a script.
type Declaration struct {
	// Script is the <script> element holding the call.
	Script *html.Node
	// ModuleID is the string value of the object's `is` property.
	ModuleID string
	// HasID is false when the object has no string `is` property.
	HasID bool
	// Properties lists the keys of the object's `properties` object.
	Properties []string

	registerFunc string
}

// Locate returns the declaration in the first script whose text contains a
// call to registerFunc with an object literal argument.
func Locate(root *html.Node, registerFunc string) (*Declaration, bool) {
	if registerFunc == "" {
		registerFunc = DefaultRegisterFunc
	}
	prefilter := regexp.MustCompile(`\b` + regexp.QuoteMeta(registerFunc) + `\s*\(\s*\{`)

	var found *Declaration
	markup.Find(root, func(n *html.Node) bool {
		if !markup.IsElement(n, "script") {
			return false
		}
		text, ok := markup.TextChild(n)
		if !ok || !prefilter.MatchString(text.Data) {
			return false
		}
		tokens := tokenize(text.Data)
		open := findCall(tokens, registerFunc)
		if open < 0 {
			return false
		}
		found = newDeclaration(n, tokens, open)
		found.registerFunc = registerFunc
		return true
	})
	return found, found != nil
}

// findCall returns the index of the `{` token opening the object argument of
// the first `registerFunc({` call, or -1. Member calls such as
// `window.Polymer({` do not count.
func findCall(tokens []token, registerFunc string) int {
	for i := 0; i+2 < len(tokens); i++ {
		if tokens[i].text != registerFunc || tokens[i+1].text != "(" || tokens[i+2].text != "{" {
			continue
		}
		if i > 0 && (tokens[i-1].text == "." || tokens[i-1].text == "?.") {
			continue
		}
		return i + 2
	}
	return -1
}

func newDeclaration(n *html.Node, tokens []token, open int) *Declaration {
	d := &Declaration{Script: n}
	entries, _ := objectEntries(tokens, open)
	for _, e := range entries {
		switch e.key {
		case "is":
			if e.value >= 0 && e.value+1 < len(tokens) && isEntryEnd(tokens[e.value+1].text) {
				d.ModuleID, d.HasID = unquote(tokens[e.value].text)
			}
		case "properties":
			if e.value >= 0 && tokens[e.value].text == "{" {
				props, _ := objectEntries(tokens, e.value)
				for _, p := range props {
					d.Properties = append(d.Properties, p.key)
				}
			}
		}
	}
	return d
}

func isEntryEnd(s string) bool {
	return s == "," || s == "}"
}

type entry struct {
	key string
	// value is the index of the first token of the value, or -1 for
	// shorthand and method entries.
	value int
}

// objectEntries reads the entries of the object literal whose `{` is at
// tokens[open]. It returns them with the index of the closing `}`, or -1 if
// the object is not closed.
func objectEntries(tokens []token, open int) ([]entry, int) {
	var entries []entry
	i := open + 1
	for i < len(tokens) {
		if tokens[i].text == "}" {
			return entries, i
		}

		e := entry{value: -1}
		switch t := tokens[i].text; {
		case t == "[":
			i = skipBalanced(tokens, i)
		case t == "...":
		default:
			if v, ok := unquote(t); ok {
				e.key = v
			} else {
				e.key = t
			}
		}
		i++
		if i < len(tokens) && tokens[i].text == ":" {
			e.value = i + 1
		}

		// Skip to the comma or brace ending this entry.
		for i < len(tokens) && !isEntryEnd(tokens[i].text) {
			switch tokens[i].text {
			case "{", "[", "(":
				i = skipBalanced(tokens, i)
			}
			i++
		}
		if e.key != "" {
			entries = append(entries, e)
		}
		if i < len(tokens) && tokens[i].text == "," {
			i++
		}
	}
	return entries, -1
}

// skipBalanced returns the index of the token closing the bracket at
// tokens[i], or the last index if it is never closed.
func skipBalanced(tokens []token, i int) int {
	depth := 0
	for ; i < len(tokens); i++ {
		switch tokens[i].text {
		case "{", "[", "(":
			depth++
		case "}", "]", ")":
			depth--
		}
		if depth == 0 {
			return i
		}
	}
	return len(tokens) - 1
}

// Validate reports a diagnostic when the declaration does not name moduleID.
func (d *Declaration) Validate(moduleID string, r *diag.Reporter) bool {
	if !d.HasID {
		r.Report(diag.MissingDeclarationID, "",
			"%s declaration has no string 'is' property", d.registerFunc)
		return false
	}
	if d.ModuleID != moduleID {
		r.Report(diag.ModuleMismatch, "",
			"unexpected DOM module %q with %s component %q", moduleID, d.registerFunc, d.ModuleID)
		return false
	}
	return true
}

// Inject inserts one `'name': function ...,` entry per function right after
// the declaration object's opening brace, framed by the marker comments.
func (d *Declaration) Inject(funcs []binding.FunctionDef) error {
	if len(funcs) == 0 {
		return nil
	}
	text, ok := markup.TextChild(d.Script)
	if !ok {
		return fmt.Errorf("failed to inject bindings: script has no text")
	}

	tokens := tokenize(text.Data)
	open := findCall(tokens, d.registerFunc)
	if open < 0 {
		return fmt.Errorf("failed to inject bindings: %s call not found", d.registerFunc)
	}
	offset := tokens[open].end

	var b strings.Builder
	b.WriteString(text.Data[:offset])
	b.WriteString("\n" + BeginMarker + "\n")
	for _, f := range funcs {
		fmt.Fprintf(&b, "'%s': %s,\n", f.Name, f.Source())
	}
	b.WriteString(EndMarker + "\n")
	b.WriteString(text.Data[offset:])
	text.Data = b.String()
	return nil
}
