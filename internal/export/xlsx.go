// Package export holds optional downstream sinks for validated records:
// an XLSX dump and a Postgres bulk loader. Neither is part of the parsing
// core; both are consumers of internal/parser.Parser.Records(), mirroring
// how the out-of-scope report generator is described in spec.md §6 as an
// external collaborator over the same iterator.
//
// Grounded on the teacher's internal/io/{xlsx,postgres}.go writers,
// adapted from a slice-of-map batch write into a streaming consumer of
// ordered per-record cell values, grouped by line type (one sheet or one
// table per line type; the line type itself is not written as a column).
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"flatfile-parser/internal/logging"
	"flatfile-parser/internal/validator"
)

// XLSXDump accumulates validated records per line type (each line type gets
// its own sheet, since distinct line types generally have distinct cell
// sets) and writes them out on Close.
type XLSXDump struct {
	path    string
	sheets  map[string][]*validator.Result
	order   []string
	headers map[string][]string
}

// NewXLSXDump prepares a dump that will be written to path on Close.
func NewXLSXDump(path string) *XLSXDump {
	return &XLSXDump{
		path:    path,
		sheets:  make(map[string][]*validator.Result),
		headers: make(map[string][]string),
	}
}

// Write buffers one validated record under its line type's sheet. The
// first record of a given line type fixes that sheet's column order to its
// declaration order (the keys of its ordered cell-values map).
func (d *XLSXDump) Write(res *validator.Result) error {
	if res == nil {
		return fmt.Errorf("export: XLSXDump.Write called with a nil result")
	}
	if _, ok := d.sheets[res.LineType]; !ok {
		d.order = append(d.order, res.LineType)
		d.headers[res.LineType] = append([]string{}, res.CellValues.Keys()...)
	}
	d.sheets[res.LineType] = append(d.sheets[res.LineType], res)
	return nil
}

// Close writes every buffered sheet to the configured path.
func (d *XLSXDump) Close() error {
	dir := filepath.Dir(d.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: failed to create directory for %q: %w", d.path, err)
		}
	}

	f := excelize.NewFile()
	defaultSheet := "Sheet1"

	sort.Strings(d.order)
	for i, lineType := range d.order {
		headers := d.headers[lineType]
		var sheetName string
		if i == 0 {
			sheetName = defaultSheet
			if err := f.SetSheetName(defaultSheet, lineType); err != nil {
				logging.Logf(logging.Warning, "export: could not rename default sheet to %q: %v", lineType, err)
				sheetName = defaultSheet
			} else {
				sheetName = lineType
			}
		} else {
			idx, err := f.NewSheet(lineType)
			if err != nil {
				return fmt.Errorf("export: failed to create sheet %q: %w", lineType, err)
			}
			_ = idx
			sheetName = lineType
		}

		headerRow := make([]interface{}, len(headers))
		for j, h := range headers {
			headerRow[j] = h
		}
		if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
			return fmt.Errorf("export: failed to write header row for sheet %q: %w", sheetName, err)
		}

		for rowIdx, res := range d.sheets[lineType] {
			row := make([]interface{}, len(headers))
			for j, h := range headers {
				v, _ := res.CellValues.Get(h)
				row[j] = v
			}
			startCell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("export: failed to compute cell coordinates: %w", err)
			}
			if err := f.SetSheetRow(sheetName, startCell, &row); err != nil {
				return fmt.Errorf("export: failed to write row %d of sheet %q: %w", rowIdx, sheetName, err)
			}
		}
	}

	if len(d.order) == 0 {
		logging.Logf(logging.Info, "export: no records buffered, writing empty workbook to %s", d.path)
	}

	if err := f.SaveAs(d.path); err != nil {
		return fmt.Errorf("export: failed to save %q: %w", d.path, err)
	}
	logging.Logf(logging.Info, "export: wrote %d line type(s) to %s", len(d.order), d.path)
	return nil
}
