// Package validator selects a record's line type and validates its cells
// against the schema, producing either an ordered field-value map or a
// stable, coded diagnostic.
//
// Grounded on _examples/original_source/src/parser.rs's worker function:
// find_matching_schema_line_type and validate_line are ported as
// selectLine and validateCell, preserving the line_condition_met
// last-write-wins quirk and the skip-not-disqualify handling of a failed
// format check inside a line condition.
package validator

import (
	"fmt"
	"strings"
	"time"

	"flatfile-parser/internal/decimalformat"
	"flatfile-parser/internal/orderedmap"
	"flatfile-parser/internal/schema"
)

// Result is a successfully validated record.
type Result struct {
	LineNumber uint64
	LineType   string
	CellValues *orderedmap.Map
}

// Error is the stable, coded diagnostic for a record that failed
// validation. Code is one of the "err:NNN" identifiers from the error
// handling design; Message is the full rendered diagnostic.
type Error struct {
	LineNumber uint64
	Code       string
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(lineNumber uint64, code, body string) *Error {
	return &Error{
		LineNumber: lineNumber,
		Code:       code,
		Message:    fmt.Sprintf("[%s]|%s", code, body),
	}
}

// Validate selects the matching line type for text per the schema's
// conditioned lines (falling back to the default line), then validates
// every cell in declaration order. The first cell failure short-circuits
// the remaining cells of this record; it never affects any other record.
func Validate(sch *schema.Schema, lineNumber uint64, text string) (*Result, *Error) {
	line := selectLine(sch, text)
	if line == nil {
		return nil, newError(lineNumber, "err:001", "line|no match found for schema line type")
	}

	if line.MaxLength > 0 && len(text) != line.MaxLength {
		return nil, newError(lineNumber, "err:002",
			fmt.Sprintf("line|maxlength|the line has length %d but was expected %d", len(text), line.MaxLength))
	}

	values := orderedmap.New(len(line.Cells))
	for _, cell := range line.Cells {
		trimmed, verr := validateCell(cell, lineNumber, text)
		if verr != nil {
			return nil, verr
		}
		values.Set(cell.Name, trimmed)
	}

	return &Result{
		LineNumber: lineNumber,
		LineType:   line.LineType,
		CellValues: values,
	}, nil
}

// selectLine mirrors find_matching_schema_line_type: iterate the
// conditioned lines in schema order, evaluate every conditioned cell, and
// keep only the *last* evaluated condition's outcome — not an AND-reduction
// across cells. A format failure on a conditioned cell skips that cell's
// contribution without disqualifying the line.
func selectLine(sch *schema.Schema, text string) *schema.LineDef {
	for _, line := range sch.LineConditions() {
		lineConditionMet := false
		for _, cell := range line.Cells {
			if cell.LineCondition == nil {
				continue
			}
			if cell.Start < 0 || cell.End > len(text) || cell.Start > cell.End {
				continue
			}
			raw := text[cell.Start:cell.End]

			if _, err := validateFormat(cell, raw); err != nil {
				continue
			}

			cond := cell.LineCondition
			if cond.MatchType == "" || cond.MatchType == "string" {
				lineConditionMet = raw == cond.MatchPattern
			}
		}
		if lineConditionMet {
			return line
		}
	}
	return sch.DefaultLine()
}

func validateCell(cell *schema.CellDef, lineNumber uint64, text string) (string, *Error) {
	if cell.Start < 0 || cell.End > len(text) || cell.Start > cell.End {
		return "", newError(lineNumber, "err:003",
			fmt.Sprintf("%s|range|invalid %d-%d", cell.Name, cell.Start, cell.End))
	}

	raw := text[cell.Start:cell.End]
	trimmed := trim(raw, effectiveAlignment(cell), cell.PadCharacter)

	if cell.Format != nil {
		if _, err := validateFormat(cell, trimmed); err != nil {
			return "", formatError(cell, lineNumber, err)
		}
	}

	return trimmed, nil
}

// effectiveAlignment defaults to "right" for number-format cells and "left"
// otherwise, per spec's alignment-resolution rule.
func effectiveAlignment(cell *schema.CellDef) string {
	if cell.Alignment != "" {
		return cell.Alignment
	}
	if cell.Format != nil && cell.Format.Kind == schema.FormatNumber {
		return "right"
	}
	return "left"
}

func trim(s, alignment, padChar string) string {
	if padChar == "" {
		return s
	}
	switch alignment {
	case "right":
		return trimLeftChars(s, padChar)
	case "center":
		return trimLeftChars(trimRightChars(s, padChar), padChar)
	default: // "left"
		return trimRightChars(s, padChar)
	}
}

func trimLeftChars(s, cutset string) string {
	i := 0
	for i < len(s) {
		r, size := decodeRuneInSet(s[i:], cutset)
		if r < 0 {
			break
		}
		i += size
	}
	return s[i:]
}

func trimRightChars(s, cutset string) string {
	j := len(s)
	for j > 0 {
		size := lastRuneMatchSize(s[:j], cutset)
		if size == 0 {
			break
		}
		j -= size
	}
	return s[:j]
}

func decodeRuneInSet(s, cutset string) (rune, int) {
	for _, c := range cutset {
		cs := string(c)
		if len(s) >= len(cs) && s[:len(cs)] == cs {
			return c, len(cs)
		}
	}
	return -1, 0
}

func lastRuneMatchSize(s, cutset string) int {
	for _, c := range cutset {
		cs := string(c)
		if len(s) >= len(cs) && s[len(s)-len(cs):] == cs {
			return len(cs)
		}
	}
	return 0
}

// validateFormat dispatches per-kind and returns the validation error, if
// any, without constructing a *Error (selectLine needs the bare error to
// decide skip-vs-disqualify; validateCell wraps it via formatError).
func validateFormat(cell *schema.CellDef, value string) (string, error) {
	f := cell.Format
	if f == nil {
		return value, nil
	}
	switch f.Kind {
	case schema.FormatDate:
		layout := chronoToGoLayout(f.Pattern)
		if _, err := time.Parse(layout, value); err != nil {
			return value, fmt.Errorf("date|pattern:%s", f.Pattern)
		}
	case schema.FormatString:
		if f.StringRegex == nil {
			return value, fmt.Errorf("string|pattern:%s|no compiled regex", f.Pattern)
		}
		if !f.StringRegex.MatchString(value) {
			return value, fmt.Errorf("string|pattern:%s", f.Pattern)
		}
	case schema.FormatNumber:
		df, err := decimalformat.Compile(f.Pattern)
		if err != nil {
			return value, fmt.Errorf("number|pattern:%s|%w", f.Pattern, err)
		}
		if err := df.Validate(value); err != nil {
			return value, fmt.Errorf("number|pattern:%s", f.Pattern)
		}
	}
	return value, nil
}

func formatError(cell *schema.CellDef, lineNumber uint64, err error) *Error {
	switch cell.Format.Kind {
	case schema.FormatDate:
		return newError(lineNumber, "err:004", fmt.Sprintf("%s|date|pattern:%s", cell.Name, cell.Format.Pattern))
	case schema.FormatString:
		if cell.Format.StringRegex == nil {
			return newError(lineNumber, "err:006", fmt.Sprintf("%s|string|pattern:%s|no compiled regex", cell.Name, cell.Format.Pattern))
		}
		return newError(lineNumber, "err:005", fmt.Sprintf("%s|string|pattern:%s", cell.Name, cell.Format.Pattern))
	case schema.FormatNumber:
		return newError(lineNumber, "err:007", fmt.Sprintf("%s|number|pattern:%s", cell.Name, cell.Format.Pattern))
	default:
		return newError(lineNumber, "err:000", fmt.Sprintf("%s|unknown format: %v", cell.Name, err))
	}
}

// chronoToGoLayout translates the chrono-style directives spec.md §4.4
// names (%Y, %m, %d, …) into Go's reference-time layout string.
func chronoToGoLayout(pattern string) string {
	replacer := strings.NewReplacer(
		"%Y", "2006",
		"%y", "06",
		"%m", "01",
		"%d", "02",
		"%H", "15",
		"%M", "04",
		"%S", "05",
	)
	return replacer.Replace(pattern)
}
