package app

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sync"
)

// errorCSVWriter appends (line number, diagnostic message) rows to a CSV
// file in append mode, writing a header only when the file is new or
// empty. Grounded on the teacher's internal/io/csv.go CSVErrorWriter,
// trimmed from an arbitrary-record+error-column shape down to this
// domain's fixed two-column shape (a validator.Error has no record map to
// project).
type errorCSVWriter struct {
	filePath string
	file     *os.File
	writer   *csv.Writer
	mu       sync.Mutex
	headerWritten bool
	closed        bool
}

func newErrorCSVWriter(filePath string) (*errorCSVWriter, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("errorCSVWriter: failed to open/create '%s': %w", filePath, err)
	}
	return &errorCSVWriter{
		filePath: filePath,
		file:     f,
		writer:   csv.NewWriter(f),
	}, nil
}

// Write appends one diagnostic row. Errors are swallowed to a log line by
// the caller rather than aborting the run, since a failure to log an
// error should not itself halt processing.
func (w *errorCSVWriter) Write(lineNumber uint64, message string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return errors.New("errorCSVWriter: write called on closed writer")
	}

	if !w.headerWritten {
		info, statErr := w.file.Stat()
		if statErr != nil || info.Size() == 0 {
			if err := w.writer.Write([]string{"line_number", "error_message"}); err != nil {
				return fmt.Errorf("errorCSVWriter: failed to write header: %w", err)
			}
			w.writer.Flush()
		}
		w.headerWritten = true
	}

	if err := w.writer.Write([]string{fmt.Sprintf("%d", lineNumber), message}); err != nil {
		return fmt.Errorf("errorCSVWriter: failed to write row: %w", err)
	}
	w.writer.Flush()
	return w.writer.Error()
}

func (w *errorCSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	w.writer.Flush()
	flushErr := w.writer.Error()
	closeErr := w.file.Close()
	if flushErr != nil {
		return fmt.Errorf("errorCSVWriter: flush error on close for '%s': %w", w.filePath, flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("errorCSVWriter: close error for '%s': %w", w.filePath, closeErr)
	}
	return nil
}
