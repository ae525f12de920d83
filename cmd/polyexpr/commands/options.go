package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/livefir/polyexpr"
	"github.com/livefir/polyexpr/internal/config"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	detailColor  = color.New(color.Faint)
)

// runFlags are the flags shared by transform and check
type runFlags struct {
	configPath         string
	globals            []string
	outDir             string
	minify             bool
	allowMissingScript bool
	verbose            bool
	files              []string
}

// parseFlags accepts both -flag and --flag spellings, and -flag=value as
// well as -flag value
func parseFlags(args []string) (*runFlags, error) {
	f := &runFlags{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			f.files = append(f.files, arg)
			continue
		}
		if arg == "--" {
			f.files = append(f.files, args[i+1:]...)
			break
		}

		name := strings.TrimLeft(arg, "-")
		value, hasValue := "", false
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name, value, hasValue = name[:eq], name[eq+1:], true
		}
		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("flag -%s requires a value", name)
			}
			i++
			return args[i], nil
		}

		var err error
		switch name {
		case "config", "c":
			f.configPath, err = takeValue()
		case "globals", "g":
			var v string
			v, err = takeValue()
			for _, g := range strings.Split(v, ",") {
				if g = strings.TrimSpace(g); g != "" {
					f.globals = append(f.globals, g)
				}
			}
		case "o", "out":
			f.outDir, err = takeValue()
		case "minify":
			f.minify = true
		case "allow-missing-script":
			f.allowMissingScript = true
		case "v", "verbose":
			f.verbose = true
		default:
			return nil, fmt.Errorf("unknown flag: %s", arg)
		}
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

// options merges the config file with the command line flags
func (f *runFlags) options() (polyexpr.Options, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return polyexpr.Options{}, fmt.Errorf("failed to load config: %w", err)
	}
	for _, g := range f.globals {
		if err := cfg.AddGlobal(g); err != nil {
			return polyexpr.Options{}, fmt.Errorf("invalid -globals: %w", err)
		}
	}
	if f.minify {
		cfg.Minify = true
	}
	if f.allowMissingScript {
		cfg.AllowMissingScript = true
	}

	opts := cfg.ToOptions()
	logger := newLogger(f.verbose)
	opts.Logger = &logger
	return opts, nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: color.NoColor}).
		Level(level).
		With().Timestamp().Logger()
}
