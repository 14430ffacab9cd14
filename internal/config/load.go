// Package config loads and validates the ambient YAML configuration that
// drives the command-line entrypoint: logging level, source file paths,
// error-handling policy, optional export sink, and optional record filter.
//
// Grounded on the teacher's internal/config/{types,load,validation}.go:
// same yaml.v3-based load-then-default-then-validate shape, trimmed to
// this domain's much smaller configuration surface.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"flatfile-parser/internal/logging"
	"flatfile-parser/internal/util"
)

// Load reads, parses, defaults, and validates the YAML configuration file
// at filename.
func Load(filename string) (*Config, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		logging.Logf(logging.Debug, "failed to parse '%s', content was: %s", filename, util.Snippet(raw))
		if util.LooksLikeJSON(string(raw)) {
			return nil, fmt.Errorf("failed to parse YAML in '%s': %w (file looks like JSON; this loader only accepts YAML)", filename, err)
		}
		return nil, fmt.Errorf("failed to parse YAML in '%s': %w", filename, err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.ErrorHandling == nil {
		cfg.ErrorHandling = &ErrorHandlingConfig{Mode: ErrorHandlingModeHalt}
	} else if cfg.ErrorHandling.Mode == "" {
		cfg.ErrorHandling.Mode = ErrorHandlingModeHalt
	}
	if cfg.Export != nil && cfg.Export.Type == "" {
		cfg.Export.Type = ExportTypeNone
	}
}
