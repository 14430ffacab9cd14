package config

// Default and mode constants for the flat-file parser's configuration.
const (
	ErrorHandlingModeHalt = "halt" // Stop processing on the first record error.
	ErrorHandlingModeSkip = "skip" // Log the error, skip the record, continue.

	ExportTypeNone     = ""
	ExportTypeXLSX     = "xlsx"
	ExportTypePostgres = "postgres"

	DefaultLogLevel = "info"
)

// Config is the overall structure for the flat-file parser's YAML
// configuration file.
type Config struct {
	// Logging configures the verbosity of the ambient logger.
	Logging LoggingConfig `yaml:"logging"`
	// Source points at the data file and its schema file.
	Source SourceConfig `yaml:"source"`
	// ErrorHandling governs what the CLI does with per-record validation
	// errors; it does not change the validator's own contract.
	ErrorHandling *ErrorHandlingConfig `yaml:"errorHandling,omitempty"`
	// Export optionally sends validated records to a downstream sink.
	Export *ExportConfig `yaml:"export,omitempty"`
	// Filter is an optional govaluate expression evaluated against a
	// validated record's cell values and linetype. Records for which the
	// expression evaluates to false are excluded from Export and counted
	// separately in the run summary.
	Filter string `yaml:"filter,omitempty"`
}

// LoggingConfig holds settings related to logging verbosity.
type LoggingConfig struct {
	// Level defines the logging detail (none, error, warn, info, debug).
	// Defaults to "info".
	Level string `yaml:"level"`
}

// SourceConfig points at the two inputs the parser needs.
type SourceConfig struct {
	// DataFile is the path to the fixed-width data file. Environment
	// variables are expanded. Required.
	DataFile string `yaml:"dataFile"`
	// SchemaFile is the path to the XML schema file. Environment variables
	// are expanded. Required.
	SchemaFile string `yaml:"schemaFile"`
}

// ErrorHandlingConfig defines how record-level validation errors are
// handled by the CLI. This is purely a consumer-side policy: the validator
// itself always returns an error value and never halts on its own.
type ErrorHandlingConfig struct {
	// Mode is "halt" (default) to stop at the first error, or "skip" to
	// log it and continue.
	Mode string `yaml:"mode"`
	// ErrorFile, if set, appends each skipped record's line number and
	// message as a CSV row. Environment variables are expanded.
	ErrorFile string `yaml:"errorFile,omitempty"`
}

// ExportConfig optionally routes validated records to a downstream sink in
// addition to the run summary written to the log.
type ExportConfig struct {
	// Type selects the sink: "" (none), "xlsx", or "postgres".
	Type string `yaml:"type"`
	// File is the output path for the "xlsx" sink. Environment variables
	// are expanded.
	File string `yaml:"file,omitempty"`
	// Postgres holds connection and destination details for the
	// "postgres" sink.
	Postgres *PostgresExportConfig `yaml:"postgres,omitempty"`
}

// PostgresExportConfig configures the optional Postgres export sink.
type PostgresExportConfig struct {
	// TargetTable is the destination table name. Required when Type is
	// "postgres".
	TargetTable string `yaml:"targetTable"`
	// ConnEnv names the environment variable holding the connection
	// string (a DSN or URL understood by pgx). The connection string
	// itself is never written to the config file.
	ConnEnv string `yaml:"connEnv"`
}
