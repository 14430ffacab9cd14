// Package parser is the façade: it wires the schema loader (C2), the record
// reader (C3), and the validator (C4) into two single-pass iterators over a
// data file.
//
// Grounded on _examples/original_source/src/parser.rs's Parser/ParserConfig,
// generalized from its channel/worker-pool start() into the "iterator
// composition" pattern spec.md §9 calls for: Lines yields raw records,
// Records composes Lines with the validator. Consumers that want
// parallelism bridge Lines into their own fan-out, as the teacher's
// internal/processor does for its own worker pool.
package parser

import (
	"fmt"
	"io"
	"iter"
	"os"

	"flatfile-parser/internal/logging"
	"flatfile-parser/internal/reader"
	"flatfile-parser/internal/schema"
	"flatfile-parser/internal/validator"
)

// Config mirrors spec.md §6's configuration object: exactly the data file
// and the schema file.
type Config struct {
	FilePath   string
	FileSchema string
}

// Parser owns the open data file, the loaded schema, and the underlying
// record reader. Close releases the file handle.
type Parser struct {
	schema *schema.Schema
	file   *os.File
	reader *reader.Reader
}

// New loads the schema and opens the data file. Either failure aborts
// construction; there is no partially-valid Parser.
func New(cfg Config) (*Parser, error) {
	sch, err := schema.Load(cfg.FileSchema)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to load schema: %w", err)
	}

	f, err := os.Open(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to open data file: %w", err)
	}

	rd, err := reader.New(f, sch.NewlineCharacters())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("parser: failed to construct reader: %w", err)
	}

	logging.Logf(logging.Info, "parser: opened %s against schema %s", cfg.FilePath, cfg.FileSchema)

	return &Parser{schema: sch, file: f, reader: rd}, nil
}

// Schema exposes the loaded schema, e.g. for a consumer that wants to
// inspect line types before iterating.
func (p *Parser) Schema() *schema.Schema {
	return p.schema
}

// Close releases the underlying file handle. It is safe to call once the
// caller is done draining either iterator.
func (p *Parser) Close() error {
	return p.file.Close()
}

// Lines returns a single-pass, forward-only iterator over the raw records
// read from the file, each paired with an error that is non-nil for I/O or
// UTF-8 failures on that specific record. The stream does not terminate on
// a per-record error.
func (p *Parser) Lines() iter.Seq2[reader.Record, error] {
	return func(yield func(reader.Record, error) bool) {
		for {
			rec, err := p.reader.Next()
			if err == io.EOF {
				return
			}
			if !yield(rec, err) {
				return
			}
		}
	}
}

// Records composes Lines with the validator: each raw record is validated
// against the schema and surfaced as either a *validator.Result or a
// *validator.Error. A record that failed to read at all (I/O/UTF-8 error)
// is surfaced as a synthetic validator.Error carrying that message.
func (p *Parser) Records() iter.Seq2[*validator.Result, *validator.Error] {
	return func(yield func(*validator.Result, *validator.Error) bool) {
		for rec, err := range p.Lines() {
			if err != nil {
				verr := &validator.Error{
					LineNumber: rec.Number,
					Code:       "err:000",
					Message:    fmt.Sprintf("[err:000]|line|read|%s", err),
				}
				if !yield(nil, verr) {
					return
				}
				continue
			}

			res, verr := validator.Validate(p.schema, rec.Number, rec.Text)
			if !yield(res, verr) {
				return
			}
		}
	}
}
