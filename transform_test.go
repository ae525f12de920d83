package polyexpr

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livefir/polyexpr/internal/metrics"
)

const sumModule = `<dom-module id="x-sum"><template><span>[[a + b]]</span></template><script>
  Polymer({
    is: 'x-sum',
    properties: { a: Number, b: Number }
  });
</script></dom-module>`

func module(id, template, script string) string {
	return `<dom-module id="` + id + `"><template>` + template + `</template>` +
		`<script>` + script + `</script></dom-module>`
}

func diagnosticKinds(res *Result) []DiagnosticKind {
	var kinds []DiagnosticKind
	for _, d := range res.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}

func TestTransform_SynthesizesAndInjects(t *testing.T) {
	res, err := Transform(sumModule, Options{})
	require.NoError(t, err)

	assert.Equal(t, "x-sum", res.ModuleID)
	assert.Equal(t, 1, res.Rewritten)
	assert.True(t, res.Injected)
	assert.Empty(t, res.Diagnostics)
	require.Len(t, res.Functions, 1)
	assert.Equal(t, "function __c_0(a,b){ return a + b; }", res.Functions[0].Source())

	want := `<dom-module id="x-sum"><template><span>[[__c_0(a,b)]]</span></template><script>
  Polymer({
//### auto-generated *Computed Bindings*
'__c_0': function __c_0(a,b){ return a + b; },
//###

    is: 'x-sum',
    properties: { a: Number, b: Number }
  });
</script></dom-module>`
	assert.Equal(t, want, res.HTML)
}

func TestTransform_BasicBindingsUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"computed binding", `<span>[[_compute(a, b.c)]]</span>`},
		{"wildcard path", `<span>[[items.*]]</span>`},
		{"array item", `<span>[[items.0.name]]</span>`},
		{"property path", `<span>[[user.name]]</span>`},
		{"negation", `<span hidden$="[[!user.active]]"></span>`},
		{"two-way path", `<x-input value="{{foo.bar}}"></x-input>`},
		{"two-way with event", `<x-input value="{{foo.bar::change}}"></x-input>`},
		{"text without bindings", `<p>Hello</p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := module("x-a", tt.template, `Polymer({is: 'x-a'});`)
			res, err := Transform(src, Options{})
			require.NoError(t, err)

			assert.Equal(t, src, res.HTML)
			assert.Empty(t, res.Functions)
			assert.False(t, res.Injected)
			assert.Empty(t, res.Diagnostics)
		})
	}
}

func TestTransform_Idempotent(t *testing.T) {
	inputs := []string{
		sumModule,
		module("x-list", `<template is="dom-repeat" items="{{items}}" as="row">`+
			`<div class$="[[row.kind + '-' + index]]">[[row.price * qty]]</div></template>`+
			`<input value="{{qty::input}}">`,
			`Polymer({is: 'x-list', properties: {items: Array}});`),
		module("x-mixed", `<p>[[a]] [[b + 1]] [[f(a)]] [[items.*]]</p><p>[[Math.max(a, b)]]</p>`,
			`Polymer({is: 'x-mixed', properties: {a: Number, b: Number}});`),
		`<p>no module [[a + b]]</p>`,
	}

	for i, src := range inputs {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			first, err := Transform(src, Options{})
			require.NoError(t, err)

			second, err := Transform(first.HTML, Options{})
			require.NoError(t, err)

			assert.Equal(t, first.HTML, second.HTML)
			assert.Empty(t, second.Functions)
		})
	}
}

func TestTransform_CounterMonotonic(t *testing.T) {
	const n = 6
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "<p>[[a + %d]]</p>", i)
	}

	res, err := Transform(module("x-n", b.String(), `Polymer({is: 'x-n', properties: {a: Number}});`), Options{})
	require.NoError(t, err)

	require.Len(t, res.Functions, n)
	for i, f := range res.Functions {
		name := fmt.Sprintf("__c_%d", i)
		assert.Equal(t, name, f.Name)
		assert.Contains(t, res.HTML, fmt.Sprintf("<p>[[%s(a)]]</p>", name))
		assert.Contains(t, res.HTML, fmt.Sprintf("'%s': function %s(a){ return a + %d; },", name, name, i))
	}
}

func TestTransform_SynthesisSoundness(t *testing.T) {
	src := module("x-s", `<span>[[a + b.c]]</span>`, `Polymer({is: 'x-s', properties: {a: String}});`)

	res, err := Transform(src, Options{})
	require.NoError(t, err)

	require.Len(t, res.Functions, 1)
	assert.Equal(t, []string{"a"}, res.Functions[0].Params)
	assert.Equal(t, "a + b.c", res.Functions[0].Body)
	assert.Contains(t, res.HTML, `[[__c_0(a)]]`)
}

func TestTransform_TwoWayBindingsAreState(t *testing.T) {
	src := module("x-t",
		`<input value="{{first::input}}"><input value="{{user.last::input}}"><span>[[first + ' ' + user.last]]</span>`,
		`Polymer({is: 'x-t'});`)

	res, err := Transform(src, Options{})
	require.NoError(t, err)

	require.Len(t, res.Functions, 1)
	assert.Equal(t, []string{"first", "user__last"}, res.Functions[0].Params)
	assert.Contains(t, res.HTML, `<span>[[__c_0(first,user.last)]]</span>`)
}

func TestTransform_NestedRepeatScope(t *testing.T) {
	src := module("x-grid",
		`<template is="dom-repeat" items="{{groups}}" as="group">`+
			`<template is="dom-repeat" items="[[group.rows]]" as="row">`+
			`<span>[[group.name + '/' + row.name]]</span>`+
			`</template></template>`,
		`Polymer({is: 'x-grid'});`)

	res, err := Transform(src, Options{})
	require.NoError(t, err)

	assert.Empty(t, res.Diagnostics)
	require.Len(t, res.Functions, 1)
	assert.Equal(t, []string{"group__name", "row__name"}, res.Functions[0].Params)
	assert.Contains(t, res.HTML, `items="[[group.rows]]"`)
}

func TestTransform_ParenthesizedMemberChain(t *testing.T) {
	tests := []struct {
		name     string
		template string
		props    string
		wantCall string
		wantFunc string
	}{
		{
			name:     "parenthesized identifier",
			template: `<span>[[(a).b + c]]</span>`,
			props:    `a: Object, c: Number`,
			wantCall: `[[__c_0(a.b,c)]]`,
			wantFunc: `function __c_0(a__b,c){ return a__b + c; }`,
		},
		{
			name:     "parenthesized path",
			template: `<span>[[(user.name).length + a]]</span>`,
			props:    `user: Object, a: Number`,
			wantCall: `[[__c_0(user.name.length,a)]]`,
			wantFunc: `function __c_0(user__name__length,a){ return user__name__length + a; }`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := module("x-p", tt.template, `Polymer({is: 'x-p', properties: {`+tt.props+`}});`)
			res, err := Transform(src, Options{})
			require.NoError(t, err)

			require.Len(t, res.Functions, 1)
			assert.Equal(t, tt.wantFunc, res.Functions[0].Source())
			assert.Contains(t, res.HTML, tt.wantCall)
			assert.Contains(t, res.HTML, "'__c_0': "+tt.wantFunc+",")
		})
	}
}

func TestTransform_FlattenedNameClash(t *testing.T) {
	src := module("x-c", `<span>[[a.b + a__b]]</span>`, `Polymer({is: 'x-c', properties: {a: Object, a__b: Number}});`)

	res, err := Transform(src, Options{})
	require.NoError(t, err)

	require.Len(t, res.Functions, 1)
	assert.Equal(t, "function __c_0(a__b_1,a__b){ return a__b_1 + a__b; }", res.Functions[0].Source())
	assert.Contains(t, res.HTML, `[[__c_0(a.b,a__b)]]`)
}

func TestTransform_RepeatTwoWayVariableStaysLocal(t *testing.T) {
	src := module("x-r",
		`<template is="dom-repeat" items="[[rows]]"><input value="{{item.v::input}}"></template>`+
			`<span>[[item.v + 1]]</span>`,
		`Polymer({is: 'x-r'});`)

	res, err := Transform(src, Options{})
	require.NoError(t, err)

	require.Len(t, res.Functions, 1)
	assert.Empty(t, res.Functions[0].Params)
	assert.Equal(t, "item.v + 1", res.Functions[0].Body)
	assert.Contains(t, res.HTML, `<span>[[__c_0()]]</span>`)
}

func TestTransform_BracketAccess(t *testing.T) {
	t.Run("closing brackets end the binding", func(t *testing.T) {
		src := module("x-b", `<span>[[a[0]]]</span>`, `Polymer({is: 'x-b', properties: {a: Array}});`)
		res, err := Transform(src, Options{})
		require.NoError(t, err)

		assert.Equal(t, []DiagnosticKind{DiagParseFailure}, diagnosticKinds(res))
		assert.Equal(t, "[[a[0]]", res.Diagnostics[0].Expr)
		assert.Empty(t, res.Functions)
		assert.Equal(t, src, res.HTML)
	})

	t.Run("separated brackets are rewritten", func(t *testing.T) {
		src := module("x-b", `<span>[[a[0] ]]</span>`, `Polymer({is: 'x-b', properties: {a: Array}});`)
		res, err := Transform(src, Options{})
		require.NoError(t, err)

		assert.Empty(t, res.Diagnostics)
		require.Len(t, res.Functions, 1)
		assert.Equal(t, "function __c_0(a){ return a[0]; }", res.Functions[0].Source())
		assert.Contains(t, res.HTML, `<span>[[__c_0(a)]]</span>`)
	})
}

func TestTransform_Diagnostics(t *testing.T) {
	tests := []struct {
		name     string
		template string
		script   string
		want     []DiagnosticKind
	}{
		{
			name:     "invalid two-way",
			template: `<x-a value="{{isDone(foo)}}"></x-a>`,
			script:   `Polymer({is: 'x-d'});`,
			want:     []DiagnosticKind{DiagInvalidTwoWay},
		},
		{
			name:     "parse failure",
			template: `<span>[[a +]]</span>`,
			script:   `Polymer({is: 'x-d'});`,
			want:     []DiagnosticKind{DiagParseFailure},
		},
		{
			name:     "module mismatch",
			template: `<span>[[a + 1]]</span>`,
			script:   `Polymer({is: 'x-other', properties: {a: Number}});`,
			want:     []DiagnosticKind{DiagModuleMismatch},
		},
		{
			name:     "missing declaration id",
			template: `<span>[[a]]</span>`,
			script:   `Polymer({properties: {a: Number}});`,
			want:     []DiagnosticKind{DiagMissingDeclarationID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := module("x-d", tt.template, tt.script)
			res, err := Transform(src, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, diagnosticKinds(res))
			for _, d := range res.Diagnostics {
				assert.Equal(t, "x-d", d.Module)
			}
		})
	}
}

func TestTransform_InvalidBindingTextPreserved(t *testing.T) {
	src := module("x-d", `<x-a value="{{isDone(foo)}}"></x-a><span>[[a +]]</span>`, `Polymer({is: 'x-d'});`)
	res, err := Transform(src, Options{})
	require.NoError(t, err)
	assert.Equal(t, src, res.HTML)
}

func TestTransform_MissingHostScript(t *testing.T) {
	src := `<dom-module id="x-m"><template><span>[[a + b]]</span></template></dom-module>`

	_, err := Transform(src, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingHostScript))

	res, err := Transform(src, Options{AllowMissingScript: true})
	require.NoError(t, err)
	assert.Equal(t, []DiagnosticKind{DiagMissingHostScript}, diagnosticKinds(res))
	assert.False(t, res.Injected)
	assert.Contains(t, res.HTML, `[[__c_0()]]`)

	// Nothing to inject, so no script is needed.
	plain := `<dom-module id="x-m"><template><span>[[a]]</span></template></dom-module>`
	res, err = Transform(plain, Options{})
	require.NoError(t, err)
	assert.Equal(t, plain, res.HTML)
}

func TestTransform_NoModule(t *testing.T) {
	src := `<template><span>[[a + b]]</span></template>`

	res, err := Transform(src, Options{})
	require.NoError(t, err)
	assert.Equal(t, src, res.HTML)
	assert.Empty(t, res.ModuleID)
	assert.Empty(t, res.Functions)
}

func TestTransform_Options(t *testing.T) {
	src := `<dom-module id="x-o"><template><span>[[moment(date).format(fmt) + suffix]]</span></template>` +
		`<script>Component({is: 'x-o', properties: {date: Date, fmt: String, suffix: String}});</script></dom-module>`

	res, err := Transform(src, Options{
		Globals:        []string{"moment"},
		RegisterFunc:   "Component",
		FunctionPrefix: "_expr",
	})
	require.NoError(t, err)

	require.Len(t, res.Functions, 1)
	f := res.Functions[0]
	assert.Equal(t, "_expr0", f.Name)
	assert.Equal(t, []string{"date", "fmt", "suffix"}, f.Params)
	assert.True(t, res.Injected)
	assert.Contains(t, res.HTML, `'_expr0': function _expr0(date,fmt,suffix){ return moment(date).format(fmt) + suffix; },`)
	assert.Contains(t, res.HTML, `[[_expr0(date,fmt,suffix)]]`)
}

func TestTransform_FullDocument(t *testing.T) {
	src := `<!DOCTYPE html><html><head></head><body>` + sumModule + `</body></html>`

	res, err := Transform(src, Options{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.HTML, "<!DOCTYPE html><html><head></head><body><dom-module"))
	assert.Contains(t, res.HTML, `[[__c_0(a,b)]]`)
}

func TestTransform_Minify(t *testing.T) {
	res, err := Transform(sumModule, Options{Minify: true})
	require.NoError(t, err)
	assert.Contains(t, res.HTML, `[[__c_0(a,b)]]`)
	assert.Contains(t, res.HTML, `__c_0`)
}

func TestTransform_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	src := module("x-l", `<span>[[a +]]</span><span>[[a * 2]]</span>`, `Polymer({is: 'x-l', properties: {a: Number}});`)
	_, err := Transform(src, Options{Logger: &logger})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"kind":"parse-failure"`)
	assert.Contains(t, out, `"module":"x-l"`)
	assert.Contains(t, out, `"message":"document transformed"`)
	assert.Contains(t, out, `"functions":1`)
}

func TestTransform_Metrics(t *testing.T) {
	collector := metrics.NewCollector()

	src := module("x-m", `<span>[[a]]</span><span>[[a * 2]]</span><span>[[a +]]</span>`,
		`Polymer({is: 'x-m', properties: {a: Number}});`)
	_, err := Transform(src, Options{Metrics: collector})
	require.NoError(t, err)

	_, err = Transform(`<dom-module id="x-e"><template>[[a + 1]]</template></dom-module>`, Options{Metrics: collector})
	require.Error(t, err)

	m := collector.GetMetrics()
	assert.Equal(t, int64(2), m.Documents)
	assert.Equal(t, int64(1), m.DocumentErrors)
	assert.Equal(t, int64(2), m.Rewrites)
	assert.Equal(t, int64(1), m.Injections)
	assert.Equal(t, int64(1), m.FunctionsInjected)
	assert.Equal(t, int64(1), collector.GetDiagnosticCounts()["parse-failure"])
	assert.Equal(t, int64(1), collector.GetBindingCounts()["property-path"])
	assert.Equal(t, int64(2), collector.GetBindingCounts()["other"])
}
