package main

import (
	"errors"
	"fmt"
	"os"

	"flatfile-parser/internal/app"
	"flatfile-parser/internal/logging"
)

// main is the entry point for the flatfile-parser command.
func main() {
	runner := app.NewAppRunner()

	err := runner.Run(os.Args[1:])
	if err != nil {
		printUsage := errors.Is(err, app.ErrUsage) || errors.Is(err, app.ErrConfigNotFound)
		if printUsage {
			fmt.Fprintln(os.Stderr, "")
			runner.Usage(os.Stderr)
		}

		if logging.GetLevel() < logging.Error {
			logging.SetLevel(logging.Error)
		}
		logging.Logf(logging.Error, "flatfile-parser failed: %v", err)
		os.Exit(1)
	}

	logging.Logf(logging.Info, "flatfile-parser completed successfully.")
}
