package commands

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/livefir/polyexpr"
)

// Check transforms files without writing anything and reports every
// diagnostic. It fails when any file has diagnostics or cannot be
// transformed.
func Check(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if len(f.files) == 0 {
		return fmt.Errorf("at least one input file required: polyexpr check [flags] <file>...")
	}
	if f.outDir != "" {
		return fmt.Errorf("-o is not supported by check")
	}

	opts, err := f.options()
	if err != nil {
		return err
	}
	tel := newTelemetry()
	defer tel.shutdown()
	opts.Metrics = tel.recorder

	files, readErr := readFiles(f.files)
	results, err := polyexpr.ProcessFiles(files, opts)
	errs := multierror.Append(readErr, err)

	diagnostics := 0
	for i, file := range files {
		if results[i] == nil {
			continue
		}
		printDiagnostics(file.Path, results[i].Diagnostics)
		diagnostics += len(results[i].Diagnostics)
		if f.verbose && len(results[i].Diagnostics) == 0 {
			successColor.Fprintf(stderr, "✓ %s\n", file.Path)
		}
	}

	if f.verbose {
		tel.printSummary()
	}
	if err := reportErrors(errs.ErrorOrNil()); err != nil {
		return err
	}
	if diagnostics > 0 {
		return fmt.Errorf("%d diagnostic(s) found", diagnostics)
	}
	return nil
}
