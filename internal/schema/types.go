// Package schema parses the XML-declared flat-file schema into an in-memory
// model with precomputed field offsets, compiled regular expressions, and
// structural-error detection.
//
// Grounded on _examples/original_source/src/schema.rs, restructured per the
// "sum-typed schema variant" redesign pattern: Schema carries an explicit
// Kind tag instead of two optional struct fields that happen to be mutually
// exclusive.
package schema

import (
	"regexp"

	"flatfile-parser/internal/decimalformat"
)

// Kind discriminates which schema variant is populated.
type Kind int

const (
	// KindFixedWidth is the only implemented variant.
	KindFixedWidth Kind = iota
	// KindCSV is reserved by the schema model but not implemented; see
	// Load, which rejects a <csvschema> root with ErrUnimplementedSchemaKind.
	KindCSV
)

func (k Kind) String() string {
	switch k {
	case KindFixedWidth:
		return "fixedwidth"
	case KindCSV:
		return "csv"
	default:
		return "unknown"
	}
}

// Schema is the root schema container. Exactly one of FixedWidth or CSV is
// populated, selected by Kind. Once Load returns, a Schema and everything it
// points to (lines, cells, compiled regexes) is immutable and safe to share
// across goroutines — Clone only exists to make that sharing explicit at
// call sites that want their own value, not because deep copies are needed.
type Schema struct {
	Kind       Kind
	FixedWidth *FixedWidthSchema
	CSV        *CSVSchema
}

// FixedWidthSchema is the implemented schema variant: a line separator and
// an ordered sequence of line definitions.
type FixedWidthSchema struct {
	// LineSeparator is the raw, unescaped lineseparator attribute text.
	// Escape interpretation (\n, \r, \t, \f, \0) is the record reader's job.
	LineSeparator string
	Lines         []*LineDef
}

// CSVSchema is reserved for a future delimited-schema variant.
type CSVSchema struct{}

// LineDef describes one named record shape ("line type").
type LineDef struct {
	LineType     string
	MaxLength    int // 0 means "no constraint"
	MinLength    int // reserved, unused by the validator
	Occurs       string
	PadCharacter string
	Cells        []*CellDef
}

// CellDef describes one fixed byte range within a line.
type CellDef struct {
	Name          string
	Length        int
	Start         int // cumulative sum of preceding cell lengths in the line
	End           int // Start + Length
	Alignment     string // "", "left", "right", or "center"
	PadCharacter  string // inherits from the enclosing line if not set
	Format        *Format
	LineCondition *LineCondition
}

// FormatKind is the recognized kind of a <format> element.
type FormatKind string

const (
	FormatDate   FormatKind = "date"
	FormatString FormatKind = "string"
	FormatNumber FormatKind = "number"
)

// Format is a per-cell validation constraint.
type Format struct {
	Kind    FormatKind
	Pattern string

	// StringRegex is populated at load time for FormatString (a bad regex
	// is a load-time structural error).
	StringRegex *regexp.Regexp

	// Number is left nil by Load; the validator resolves a FormatNumber
	// cell through decimalformat.Compile on every call instead of caching
	// it here, since Compile has its own process-wide cache and a Schema
	// must stay immutable once loaded.
	Number *decimalformat.DecimalFormat
}

// LineCondition is a per-cell predicate used to discriminate line type.
type LineCondition struct {
	MatchType    string // currently only "string" is interpreted
	MatchPattern string
}
