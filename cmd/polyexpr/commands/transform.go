package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/livefir/polyexpr"
)

// Transform rewrites component files. With a single input and no -o the
// result goes to stdout; otherwise every file is written to the -o directory
// under its base name.
func Transform(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if len(f.files) == 0 {
		return fmt.Errorf("at least one input file required: polyexpr transform [flags] <file>...")
	}
	if f.outDir == "" && len(f.files) > 1 {
		return fmt.Errorf("-o <dir> required with more than one input file")
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

	for i, file := range files {
		if results[i] == nil {
			continue
		}
		printDiagnostics(file.Path, results[i].Diagnostics)

		if f.outDir == "" {
			if _, err := stdout.Write(file.Contents); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			continue
		}
		out, err := writeOutput(f.outDir, file)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if f.verbose {
			successColor.Fprintf(stderr, "✓ %s -> %s (%d rewritten)\n", file.Path, out, results[i].Rewritten)
		}
	}

	if f.verbose {
		tel.printSummary()
	}
	return reportErrors(errs.ErrorOrNil())
}

// readFiles loads every path. Unreadable files are reported and skipped.
func readFiles(paths []string) ([]*polyexpr.File, error) {
	var (
		files []*polyexpr.File
		errs  *multierror.Error
	)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = multierror.Append(errs, &polyexpr.FileError{Path: path, Err: err})
			continue
		}
		files = append(files, &polyexpr.File{Path: path, Contents: data})
	}
	return files, errs.ErrorOrNil()
}

func writeOutput(dir string, file *polyexpr.File) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	out := filepath.Join(dir, filepath.Base(file.Path))
	if err := os.WriteFile(out, file.Contents, 0644); err != nil {
		return "", &polyexpr.FileError{Path: out, Err: err}
	}
	return out, nil
}

func printDiagnostics(path string, diagnostics []polyexpr.Diagnostic) {
	for _, d := range diagnostics {
		warnColor.Fprintf(stderr, "%s: %s\n", path, d)
	}
}

// reportErrors prints every error of a batch and returns a short summary
// error, so that main only prints one line
func reportErrors(err error) error {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return err
	}
	for _, e := range merr.Errors {
		errorColor.Fprintf(stderr, "✗ %v\n", e)
	}
	return fmt.Errorf("%d file(s) failed", len(merr.Errors))
}
