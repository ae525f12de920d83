package polyexpr

import (
	"fmt"
	"sort"
	"time"

	"github.com/livefir/polyexpr/internal/binding"
	"github.com/livefir/polyexpr/internal/diag"
	"github.com/livefir/polyexpr/internal/markup"
	"github.com/livefir/polyexpr/internal/script"
	"github.com/livefir/polyexpr/internal/walker"
)

// Transform rewrites the complex bindings of one component document.
//
// The document is parsed once and walked twice. The first pass collects
// component state: every path written through a two-way binding and every
// key of the declaration's `properties`. The second pass rewrites one-way
// bindings that are not basic, which depends on the complete state. The
// synthesized functions are then injected into the declaration and the tree
// is serialized.
//
// A document without a dom-module id is returned re-serialized but
// otherwise unchanged.
func Transform(src string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	start := time.Now()

	res, err := transform(src, opts)

	module := ""
	if res != nil {
		module = res.ModuleID
	}
	opts.Metrics.RecordDocument(module, time.Since(start), err)
	return res, err
}

func transform(src string, opts Options) (*Result, error) {
	doc, err := markup.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarkupParse, err)
	}

	moduleID := markup.ModuleID(doc.Root)
	logger := opts.Logger.With().Str("module", moduleID).Logger()
	if moduleID == "" {
		logger.Debug().Msg("no dom-module id, document left unchanged")
		out, err := render(doc, opts)
		if err != nil {
			return nil, err
		}
		return &Result{HTML: out}, nil
	}

	scope := binding.NewScope(moduleID,
		binding.WithPrefix(opts.FunctionPrefix),
		binding.WithGlobals(opts.Globals...),
	)
	reporter := diag.NewReporter(*opts.Logger, moduleID)

	decl, found := script.Locate(doc.Root, opts.RegisterFunc)
	var declared []string
	if found {
		declared = decl.Properties
	}

	hosts := walker.HostTemplates(doc.Root)
	walker.Collect(hosts, scope, declared)
	stats := walker.Rewrite(hosts, scope, reporter)
	recordStats(opts, moduleID, stats)

	res := &Result{
		ModuleID:  moduleID,
		Functions: scope.Functions(),
		Rewritten: stats.Rewritten,
	}

	if found {
		decl.Validate(moduleID, reporter)
	}
	if len(res.Functions) > 0 {
		if !found {
			if !opts.AllowMissingScript {
				recordDiagnostics(opts, reporter.Diagnostics())
				return nil, fmt.Errorf("%w: module %s needs %d functions and has no %s({...}) call",
					ErrMissingHostScript, moduleID, len(res.Functions), opts.RegisterFunc)
			}
			reporter.Report(diag.MissingHostScript, "",
				"%d synthesized functions have no %s({...}) call to be injected into",
				len(res.Functions), opts.RegisterFunc)
		} else {
			if err := decl.Inject(res.Functions); err != nil {
				return nil, err
			}
			res.Injected = true
			opts.Metrics.RecordInjection(moduleID, len(res.Functions))
		}
	}

	res.Diagnostics = reporter.Diagnostics()
	recordDiagnostics(opts, res.Diagnostics)

	res.HTML, err = render(doc, opts)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Int("rewritten", res.Rewritten).
		Int("functions", len(res.Functions)).
		Bool("injected", res.Injected).
		Int("diagnostics", len(res.Diagnostics)).
		Msg("document transformed")
	return res, nil
}

func render(doc *markup.Document, opts Options) (string, error) {
	out, err := doc.Render()
	if err != nil {
		return "", err
	}
	if opts.Minify {
		out = markup.Minify(out)
	}
	return out, nil
}

func recordStats(opts Options, moduleID string, stats walker.Stats) {
	kinds := make([]string, 0, len(stats.Bindings))
	for kind := range stats.Bindings {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		for i := 0; i < stats.Bindings[binding.Kind(kind)]; i++ {
			opts.Metrics.RecordBinding(kind)
		}
	}
	for i := 0; i < stats.Rewritten; i++ {
		opts.Metrics.RecordRewrite(moduleID)
	}
}

func recordDiagnostics(opts Options, diagnostics []Diagnostic) {
	for _, d := range diagnostics {
		opts.Metrics.RecordDiagnostic(string(d.Kind))
	}
}
