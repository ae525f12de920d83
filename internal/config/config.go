// Package config loads and saves the polyexpr.yaml configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/livefir/polyexpr"
)

const (
	// ConfigFileName is the name of the config file looked up in the
	// working directory when no path is given
	ConfigFileName = "polyexpr.yaml"

	// DefaultRegisterFunc is the component registration call
	DefaultRegisterFunc = "Polymer"

	// DefaultFunctionPrefix is the prefix of synthesized function names
	DefaultFunctionPrefix = "__c_"
)

// Config represents the polyexpr configuration
type Config struct {
	// Globals are extra identifiers treated as sandbox globals
	Globals []string `yaml:"globals,omitempty" validate:"dive,jsident"`

	// RegisterFunc is the component registration function
	RegisterFunc string `yaml:"register_func,omitempty" validate:"required,jsident"`

	// FunctionPrefix is prepended to the counter of synthesized functions
	FunctionPrefix string `yaml:"function_prefix,omitempty" validate:"required,jsident"`

	// AllowMissingScript keeps rewritten markup when no declaration script
	// exists instead of failing the document
	AllowMissingScript bool `yaml:"allow_missing_script,omitempty"`

	// Minify minifies the rewritten markup
	Minify bool `yaml:"minify,omitempty"`
}

var (
	jsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	// jsident: the value must be usable as a JavaScript identifier
	if err := v.RegisterValidation("jsident", func(fl validator.FieldLevel) bool {
		return jsIdentifier.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Globals:        []string{},
		RegisterFunc:   DefaultRegisterFunc,
		FunctionPrefix: DefaultFunctionPrefix,
	}
}

// Load loads the configuration from path. An empty path means
// ConfigFileName in the working directory. If the file doesn't exist,
// returns a default config
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigFileName
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults for fields cleared by the file
	if config.RegisterFunc == "" {
		config.RegisterFunc = DefaultRegisterFunc
	}
	if config.FunctionPrefix == "" {
		config.FunctionPrefix = DefaultFunctionPrefix
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// Save writes the configuration to path, creating its directory
func Save(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks every field against its validation tag
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "jsident":
			msgs = append(msgs, fmt.Sprintf("%s: %q is not a valid JavaScript identifier", fe.Namespace(), fe.Value()))
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Namespace()))
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// AddGlobal adds an extra sandbox global, ignoring duplicates
func (c *Config) AddGlobal(name string) error {
	if !jsIdentifier.MatchString(name) {
		return fmt.Errorf("%q is not a valid JavaScript identifier", name)
	}
	for _, g := range c.Globals {
		if g == name {
			return nil
		}
	}
	c.Globals = append(c.Globals, name)
	return nil
}

// ToOptions converts the configuration into transform options
func (c *Config) ToOptions() polyexpr.Options {
	return polyexpr.Options{
		Globals:            append([]string(nil), c.Globals...),
		RegisterFunc:       c.RegisterFunc,
		FunctionPrefix:     c.FunctionPrefix,
		AllowMissingScript: c.AllowMissingScript,
		Minify:             c.Minify,
	}
}
