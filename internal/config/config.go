package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/stmtparse/internal/assemble"
	"github.com/cleared-dev/stmtparse/internal/classify"
	"github.com/cleared-dev/stmtparse/internal/layout"
	"github.com/cleared-dev/stmtparse/internal/statement"
)

// FileName is the default config file name.
const FileName = "stmtparse.yaml"

// Config represents the top-level stmtparse.yaml configuration.
type Config struct {
	Template TemplateConfig           `yaml:"template"`
	Guard    statement.TextLayerGuard `yaml:"guard"`
	Policy   statement.Policy         `yaml:"policy"`
	Workers  int                      `yaml:"workers"`
	Logging  LoggingConfig            `yaml:"logging"`
}

// TemplateConfig describes one statement layout family.
type TemplateConfig struct {
	Name             string              `yaml:"name"`
	Boundaries       classify.Boundaries `yaml:"boundaries"`
	RowTolerance     float64             `yaml:"row_tolerance"`
	StartMarkers     []string            `yaml:"table_start_markers"`
	EndMarkers       []string            `yaml:"table_end_markers"`
	DropDescriptions []string            `yaml:"drop_descriptions"`
}

// LoggingConfig selects the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// Load reads a stmtparse.yaml file from disk. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration for DBS/POSB consolidated statements.
func Default() *Config {
	return &Config{
		Template: TemplateConfig{
			Name:         "dbs-posb",
			Boundaries:   classify.DBSBoundaries(),
			RowTolerance: layout.DefaultTolerance,
			StartMarkers: []string{"CURRENCY:"},
			EndMarkers: []string{
				"Balance Carried Forward",
				"Total Balance Carried Forward",
				"Messages For",
				"Transaction Details as of",
				"Page",
			},
			DropDescriptions: []string{},
		},
		Guard:   statement.DefaultGuard(),
		Policy:  statement.DefaultPolicy(),
		Workers: 4,
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Validate checks boundaries, penalties and scalar settings.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Template.Boundaries.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Policy.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("policy: %w", err))
	}
	if c.Template.RowTolerance < 0 {
		errs = append(errs, fmt.Errorf("row_tolerance must be non-negative, got %v", c.Template.RowTolerance))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be non-negative, got %d", c.Workers))
	}
	if c.Guard.MinTextChars < 0 {
		errs = append(errs, fmt.Errorf("guard.min_text_chars must be non-negative, got %d", c.Guard.MinTextChars))
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// ParserOptions converts the config into statement.Options.
func (c *Config) ParserOptions(log *zap.Logger) statement.Options {
	return statement.Options{
		Boundaries:   c.Template.Boundaries,
		RowTolerance: c.Template.RowTolerance,
		Assemble: assemble.Options{
			StartMarkers: c.Template.StartMarkers,
			EndMarkers:   c.Template.EndMarkers,
		},
		DropDescriptions: c.Template.DropDescriptions,
		Guard:            c.Guard,
		Policy:           c.Policy,
		Workers:          c.Workers,
		Logger:           log,
	}
}

// NewParser builds a Parser from the config.
func (c *Config) NewParser(log *zap.Logger) (*statement.Parser, error) {
	return statement.NewParser(c.ParserOptions(log))
}
