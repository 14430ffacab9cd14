package config

import (
	"fmt"
	"strings"

	"github.com/Knetic/govaluate"

	"flatfile-parser/internal/logging"
)

var (
	knownLogLevels   = []string{"none", "error", "warn", "warning", "info", "debug"}
	knownErrorModes  = []string{ErrorHandlingModeHalt, ErrorHandlingModeSkip}
	knownExportTypes = []string{ExportTypeNone, ExportTypeXLSX, ExportTypePostgres}
)

func isValidEnumValue(value string, allowedValues []string) bool {
	lowerValue := strings.ToLower(value)
	for _, allowed := range allowedValues {
		if lowerValue == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// Validate performs comprehensive validation of the loaded configuration,
// aggregating every problem found rather than stopping at the first.
func Validate(cfg *Config) error {
	var allErrors []string

	if !isValidEnumValue(cfg.Logging.Level, knownLogLevels) {
		allErrors = append(allErrors, fmt.Sprintf("- Config.Logging.Level: invalid log level '%s', must be one of %v", cfg.Logging.Level, knownLogLevels))
	}

	if cfg.Source.DataFile == "" {
		allErrors = append(allErrors, "- Config.Source.DataFile: is required")
	}
	if cfg.Source.SchemaFile == "" {
		allErrors = append(allErrors, "- Config.Source.SchemaFile: is required")
	}

	if cfg.Filter != "" {
		if _, err := govaluate.NewEvaluableExpression(cfg.Filter); err != nil {
			allErrors = append(allErrors, fmt.Sprintf("- Config.Filter: invalid expression syntax: %v", err))
		}
	}

	if cfg.ErrorHandling != nil {
		allErrors = append(allErrors, validateErrorHandling(cfg.ErrorHandling)...)
	}

	if cfg.Export != nil {
		allErrors = append(allErrors, validateExport(cfg.Export)...)
	}

	if len(allErrors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(allErrors, "\n"))
	}
	logging.Logf(logging.Debug, "Configuration validation successful.")
	return nil
}

func validateErrorHandling(cfg *ErrorHandlingConfig) []string {
	var errs []string
	if !isValidEnumValue(cfg.Mode, knownErrorModes) {
		errs = append(errs, fmt.Sprintf("- Config.ErrorHandling.Mode: invalid mode '%s', must be one of %v", cfg.Mode, knownErrorModes))
	}
	if cfg.Mode == ErrorHandlingModeHalt && cfg.ErrorFile != "" {
		logging.Logf(logging.Warning, "Validation: Config.ErrorHandling.ErrorFile is specified but ignored when mode is '%s'", ErrorHandlingModeHalt)
	}
	return errs
}

func validateExport(cfg *ExportConfig) []string {
	var errs []string
	lcType := strings.ToLower(cfg.Type)
	if !isValidEnumValue(lcType, knownExportTypes) {
		errs = append(errs, fmt.Sprintf("- Config.Export.Type: invalid export type '%s', must be one of %v", cfg.Type, knownExportTypes))
		return errs
	}

	switch lcType {
	case ExportTypeXLSX:
		if cfg.File == "" {
			errs = append(errs, "- Config.Export.File: is required for export type 'xlsx'")
		}
	case ExportTypePostgres:
		if cfg.Postgres == nil {
			errs = append(errs, "- Config.Export.Postgres: is required for export type 'postgres'")
		} else {
			if cfg.Postgres.TargetTable == "" {
				errs = append(errs, "- Config.Export.Postgres.TargetTable: is required")
			}
			if cfg.Postgres.ConnEnv == "" {
				errs = append(errs, "- Config.Export.Postgres.ConnEnv: is required")
			}
		}
	}
	return errs
}
