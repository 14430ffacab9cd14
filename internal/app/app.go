// Package app is the command-line entrypoint's execution logic: parse
// flags, load configuration, drive the parser façade's record iterator,
// apply the configured error-handling and filter policy, and hand kept
// records to the optional export sink.
//
// Grounded on the teacher's internal/app/app.go AppRunner: same flag-set
// shape (a YAML config path plus override flags), same ErrUsage/
// ErrConfigNotFound error taxonomy, same "log, then return the error up to
// main" style.
package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"flatfile-parser/internal/config"
	"flatfile-parser/internal/export"
	"flatfile-parser/internal/logging"
	"flatfile-parser/internal/parser"
	"flatfile-parser/internal/util"
	"flatfile-parser/internal/validator"
)

var (
	ErrUsage          = errors.New("usage error")
	ErrConfigNotFound = errors.New("configuration file not found")
)

// Factory variables, overridable in tests the way the teacher overrides
// its reader/writer/processor constructors.
var (
	newParserFunc = parser.New
	osStatFunc    = os.Stat
)

// AppRunner encapsulates the CLI's execution logic.
type AppRunner struct{}

// NewAppRunner constructs an AppRunner.
func NewAppRunner() *AppRunner {
	return &AppRunner{}
}

const usageText = `Usage:
  flatfile-parser [options]

Options:
  -config string    YAML configuration file (default "config/flatfile-config.yaml")
  -input string     Override the data file path from config
  -schema string    Override the schema file path from config
  -loglevel string  Logging level: none, error, warn, info, debug (default "info")
  -help             Show this help text
`

// Usage writes the CLI's help text to writer.
func (a *AppRunner) Usage(writer io.Writer) {
	fmt.Fprint(writer, usageText)
}

// Run parses args, loads configuration, and drives one parse run to
// completion.
func (a *AppRunner) Run(args []string) error {
	fs := flag.NewFlagSet("flatfile-parser", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configFile := fs.String("config", "config/flatfile-config.yaml", "YAML configuration file")
	flagDataFile := fs.String("input", "", "Override data file path from config")
	flagSchemaFile := fs.String("schema", "", "Override schema file path from config")
	logLevelStr := fs.String("loglevel", "info", "Logging level")
	helpFlag := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			a.Usage(os.Stderr)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *helpFlag {
		a.Usage(os.Stderr)
		return nil
	}

	logging.SetupLogging(*logLevelStr)

	if _, err := osStatFunc(*configFile); err != nil {
		if os.IsNotExist(err) {
			logging.Logf(logging.Error, "Config file '%s' not found.", *configFile)
			return ErrConfigNotFound
		}
		return fmt.Errorf("failed to stat config file '%s': %w", *configFile, err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		logging.Logf(logging.Error, "Error loading/validating config '%s': %v", *configFile, err)
		return err
	}
	if !isFlagSet(fs, "loglevel") {
		logging.SetupLogging(cfg.Logging.Level)
	}

	dataFile := cfg.Source.DataFile
	if *flagDataFile != "" {
		dataFile = *flagDataFile
	}
	schemaFile := cfg.Source.SchemaFile
	if *flagSchemaFile != "" {
		schemaFile = *flagSchemaFile
	}

	p, err := newParserFunc(parser.Config{FilePath: util.ExpandEnvUniversal(dataFile), FileSchema: util.ExpandEnvUniversal(schemaFile)})
	if err != nil {
		return fmt.Errorf("failed to construct parser: %w", err)
	}
	defer p.Close()

	var filter *export.Filter
	if cfg.Filter != "" {
		filter, err = export.NewFilter(cfg.Filter)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	var sink recordSink
	if cfg.Export != nil {
		switch cfg.Export.Type {
		case config.ExportTypeXLSX:
			sink = export.NewXLSXDump(util.ExpandEnvUniversal(cfg.Export.File))
		case config.ExportTypePostgres:
			sink = export.NewPostgresLoader(cfg.Export.Postgres.ConnEnv, cfg.Export.Postgres.TargetTable)
		}
	}
	if sink != nil {
		defer func() {
			if cerr := sink.Close(); cerr != nil {
				logging.Logf(logging.Error, "Failed to close export sink: %v", cerr)
			}
		}()
	}

	var errWriter *errorCSVWriter
	mode := config.ErrorHandlingModeHalt
	if cfg.ErrorHandling != nil {
		mode = cfg.ErrorHandling.Mode
		if cfg.ErrorHandling.ErrorFile != "" && mode != config.ErrorHandlingModeHalt {
			path := util.ExpandEnvUniversal(cfg.ErrorHandling.ErrorFile)
			if dir := filepath.Dir(path); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create directory for error file '%s': %w", path, err)
				}
			}
			errWriter, err = newErrorCSVWriter(path)
			if err != nil {
				return fmt.Errorf("failed to create error writer for '%s': %w", path, err)
			}
			defer errWriter.Close()
		}
	}

	var validCount, errCount, filteredCount int
	for res, verr := range p.Records() {
		if verr != nil {
			errCount++
			logging.Logf(logging.Warning, "Record %d: %s", verr.LineNumber, verr.Message)
			if errWriter != nil {
				if werr := errWriter.Write(verr.LineNumber, verr.Message); werr != nil {
					logging.Logf(logging.Error, "Failed to write record %d to error file: %v", verr.LineNumber, werr)
				}
			}
			if mode == config.ErrorHandlingModeHalt {
				return fmt.Errorf("halting on record %d: %s", verr.LineNumber, verr.Message)
			}
			continue
		}

		if filter != nil {
			keep, ferr := filter.Match(res)
			if ferr != nil {
				logging.Logf(logging.Warning, "Record %d: %v", res.LineNumber, ferr)
				filteredCount++
				continue
			}
			if !keep {
				filteredCount++
				continue
			}
		}

		validCount++
		if sink != nil {
			if err := sink.Write(res); err != nil {
				return fmt.Errorf("export sink failed on record %d: %w", res.LineNumber, err)
			}
		}
	}

	logging.Logf(logging.Info, "Processed %d valid record(s), %d error(s), %d filtered out.", validCount, errCount, filteredCount)
	return nil
}

type recordSink interface {
	Write(res *validator.Result) error
	Close() error
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
