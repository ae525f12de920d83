package binding

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/livefir/polyexpr/internal/expr"
)

// FunctionDef is a synthesized pure function. It is only ever serialized
// into the component script, never evaluated.
type FunctionDef struct {
	Name   string
	Params []string
	// Body is the expression returned by the function, with every
	// parameterized path flattened.
	Body string
}

// Source renders f as a JavaScript function declaration:
//
//	function __c_0(a,b){ return a + b; }
func (f FunctionDef) Source() string {
	return fmt.Sprintf("function %s(%s){ return %s; }", f.Name, strings.Join(f.Params, ","), f.Body)
}

type edit struct {
	span expr.Span
	text string
}

// Synthesize turns the complex expression text, parsed as n, into a function
// stored in scope and returns the call text that replaces it.
//
// Only paths rooted at a bound identifier or an iteration variable visible
// at node become parameters; other roots are left as free references. Each
// distinct path becomes one parameter named by the flattened path, renamed
// with a numeric suffix if that name is already an identifier of the
// expression. The call passes the dotted paths:
//
//	a + b.c  ->  __c_0(a,b.c)  with  function __c_0(a,b__c){ return a + b__c; }
func Synthesize(text string, n expr.Node, node *html.Node, scope *Scope) string {
	iteration := ResolveIterationScope(node)
	refs := Refs(n)

	// Every identifier written in the expression keeps its name, so a
	// flattened path must not take one of them.
	taken := make(map[string]bool)
	for _, ref := range refs {
		taken[Root(ref.Path)] = true
	}

	var (
		params []string
		args   []string
		edits  []edit
		names  = make(map[string]string)
	)
	for _, ref := range refs {
		root := Root(ref.Path)
		if scope.IsGlobal(root) {
			continue
		}
		if !scope.IsBound(root) && !iteration.Has(root) {
			continue
		}

		name, ok := names[ref.Path]
		if !ok {
			name = paramName(ref.Path, taken)
			taken[name] = true
			names[ref.Path] = name
			params = append(params, name)
			args = append(args, ref.Path)
		}
		edits = append(edits, edit{span: ref.Span, text: name})
	}

	f := FunctionDef{
		Name:   scope.nextName(),
		Params: params,
		Body:   functionBody(applyEdits(text, edits)),
	}
	scope.addFunction(f)

	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(args, ","))
}

// paramName returns the parameter name for path: the path itself for a bare
// identifier, otherwise the flattened path, suffixed with _1, _2, ... while
// it clashes with a taken name.
func paramName(path string, taken map[string]bool) string {
	if !strings.Contains(path, ".") {
		return path
	}
	flat := Flatten(path)
	name := flat
	for i := 1; taken[name]; i++ {
		name = fmt.Sprintf("%s_%d", flat, i)
	}
	return name
}

func applyEdits(text string, edits []edit) string {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].span.Start < edits[j].span.Start
	})

	var b strings.Builder
	last := 0
	for _, e := range edits {
		if e.span.Start < last {
			continue
		}
		b.WriteString(text[last:e.span.Start])
		b.WriteString(e.text)
		last = e.span.End
	}
	b.WriteString(text[last:])
	return b.String()
}

func functionBody(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasSuffix(s, ";") {
		s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	}
	return s
}
