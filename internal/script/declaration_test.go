package script

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/livefir/polyexpr/internal/binding"
	"github.com/livefir/polyexpr/internal/diag"
	"github.com/livefir/polyexpr/internal/markup"
)

func locate(t *testing.T, src, register string) (*Declaration, *markup.Document) {
	t.Helper()
	doc, err := markup.Parse(src)
	require.NoError(t, err)
	d, ok := Locate(doc.Root, register)
	require.True(t, ok, "declaration not found")
	return d, doc
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name      string
		script    string
		register  string
		wantID    string
		wantHasID bool
		wantProps []string
	}{
		{
			name:      "plain declaration",
			script:    `Polymer({ is: 'x-foo' });`,
			wantID:    "x-foo",
			wantHasID: true,
		},
		{
			name: "declared properties",
			script: `Polymer({
  is: "x-foo",
  properties: {
    first: String,
    'last': { type: String, value: function() { return {a: 1}; } },
    items: { type: Array, observer: '_itemsChanged' }
  },
  _itemsChanged: function(items) { if (items.length / 2 > 1) { return; } }
});`,
			wantID:    "x-foo",
			wantHasID: true,
			wantProps: []string{"first", "last", "items"},
		},
		{
			name:      "is after other entries",
			script:    `Polymer({ behaviors: [A, B], listeners: {'tap': '_onTap'}, is: 'x-bar' });`,
			wantID:    "x-bar",
			wantHasID: true,
		},
		{
			name:   "computed is",
			script: `var name = 'x-foo'; Polymer({ is: name });`,
		},
		{
			name:   "is expression",
			script: `Polymer({ is: 'x-' + suffix });`,
		},
		{
			name:      "regular expression with braces",
			script:    `var re = /Polymer\(\{/; Polymer({ pattern: /[}{]+/g, is: 'x-re' });`,
			wantID:    "x-re",
			wantHasID: true,
		},
		{
			name:      "member call skipped",
			script:    `window.Polymer({ is: 'x-no' }); Polymer({ is: 'x-yes' });`,
			wantID:    "x-yes",
			wantHasID: true,
		},
		{
			name:      "custom registration function",
			script:    `Component({ is: 'x-custom', properties: { value: Number } });`,
			register:  "Component",
			wantID:    "x-custom",
			wantHasID: true,
			wantProps: []string{"value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := locate(t, `<dom-module id="x-foo"><script>`+tt.script+`</script></dom-module>`, tt.register)
			assert.Equal(t, tt.wantID, d.ModuleID)
			assert.Equal(t, tt.wantHasID, d.HasID)
			assert.Equal(t, tt.wantProps, d.Properties)
		})
	}
}

func TestLocate_NotFound(t *testing.T) {
	tests := []string{
		`<dom-module id="x-foo"><template></template></dom-module>`,
		`<script>Polymer.dom(this.root);</script>`,
		`<script>// Polymer({ is: 'x-foo' })
</script>`,
		`<script>var s = "Polymer({";</script>`,
		`<script src="x-foo.js"></script>`,
	}

	for _, src := range tests {
		doc, err := markup.Parse(src)
		require.NoError(t, err)
		_, ok := Locate(doc.Root, "")
		assert.False(t, ok, src)
	}
}

func TestLocate_FirstMatchingScript(t *testing.T) {
	d, doc := locate(t, `<script>console.log("setup");</script>`+
		`<dom-module id="x-a"><script>Polymer({is: 'x-a'});</script></dom-module>`+
		`<script>Polymer({is: 'x-b'});</script>`, "")

	assert.Equal(t, "x-a", d.ModuleID)
	module := markup.Find(doc.Root, func(n *html.Node) bool { return markup.IsElement(n, "dom-module") })
	assert.Equal(t, module, d.Script.Parent)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		moduleID string
		wantOK   bool
		wantKind diag.Kind
	}{
		{name: "match", script: `Polymer({is: 'x-foo'})`, moduleID: "x-foo", wantOK: true},
		{name: "mismatch", script: `Polymer({is: 'x-bar'})`, moduleID: "x-foo", wantKind: diag.ModuleMismatch},
		{name: "missing", script: `Polymer({properties: {}})`, moduleID: "x-foo", wantKind: diag.MissingDeclarationID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := locate(t, `<script>`+tt.script+`</script>`, "")
			r := diag.NewReporter(zerolog.Nop(), tt.moduleID)

			assert.Equal(t, tt.wantOK, d.Validate(tt.moduleID, r))
			if tt.wantOK {
				assert.Empty(t, r.Diagnostics())
				return
			}
			require.Len(t, r.Diagnostics(), 1)
			assert.Equal(t, tt.wantKind, r.Diagnostics()[0].Kind)
		})
	}
}

func TestInject(t *testing.T) {
	d, doc := locate(t, `<dom-module id="x-foo"><script>
  Polymer({ is: 'x-foo' });
</script></dom-module>`, "")

	err := d.Inject([]binding.FunctionDef{
		{Name: "__c_0", Params: []string{"a", "b"}, Body: "a + b"},
		{Name: "__c_1", Params: []string{"user__name"}, Body: "user__name.toUpperCase()"},
	})
	require.NoError(t, err)

	out, err := doc.Render()
	require.NoError(t, err)
	assert.Equal(t, `<dom-module id="x-foo"><script>
  Polymer({
//### auto-generated *Computed Bindings*
'__c_0': function __c_0(a,b){ return a + b; },
'__c_1': function __c_1(user__name){ return user__name.toUpperCase(); },
//###
 is: 'x-foo' });
</script></dom-module>`, out)

	again, ok := Locate(doc.Root, "")
	require.True(t, ok)
	assert.Equal(t, "x-foo", again.ModuleID)
}

func TestInject_NoFunctions(t *testing.T) {
	d, doc := locate(t, `<script>Polymer({is: 'x-foo'});</script>`, "")
	require.NoError(t, d.Inject(nil))

	out, err := doc.Render()
	require.NoError(t, err)
	assert.Equal(t, `<script>Polymer({is: 'x-foo'});</script>`, out)
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{`'x-foo'`, "x-foo", true},
		{`"x-foo"`, "x-foo", true},
		{`'it\'s'`, "it's", true},
		{`"say \"hi\""`, `say "hi"`, true},
		{`'a"b\n'`, "a\"b\n", true},
		{`x-foo`, "", false},
		{`'open`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := unquote(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
