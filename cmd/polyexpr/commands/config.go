package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/livefir/polyexpr/internal/config"
)

// Config handles configuration file commands
func Config(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("command required: init, show")
	}

	switch args[0] {
	case "init":
		return configInit(args[1:])
	case "show":
		return configShow(args[1:])
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// configInit writes a default config file, refusing to overwrite one
func configInit(args []string) error {
	path := config.ConfigFileName
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := config.Save(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	successColor.Fprintf(stdout, "✓ Created %s\n", path)
	return nil
}

// configShow prints the effective configuration
func configShow(args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	globals := "(none)"
	if len(cfg.Globals) > 0 {
		globals = strings.Join(cfg.Globals, ", ")
	}

	fmt.Fprintln(stdout, "Configuration:")
	fmt.Fprintf(stdout, "  Globals:              %s\n", globals)
	fmt.Fprintf(stdout, "  Register function:    %s\n", cfg.RegisterFunc)
	fmt.Fprintf(stdout, "  Function prefix:      %s\n", cfg.FunctionPrefix)
	fmt.Fprintf(stdout, "  Allow missing script: %t\n", cfg.AllowMissingScript)
	fmt.Fprintf(stdout, "  Minify:               %t\n", cfg.Minify)
	return nil
}
