package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"flatfile-parser/internal/orderedmap"
	"flatfile-parser/internal/validator"
)

func TestXLSXDumpWritesSheetPerLineType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	dump := NewXLSXDump(path)

	values := orderedmap.New(2)
	values.Set("Type", "H")
	values.Set("Name", "Alice")
	if err := dump.Write(&validator.Result{LineNumber: 1, LineType: "header", CellValues: values}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := dump.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("header")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("GetRows() = %d rows, want 2 (header + data)", len(rows))
	}
	if rows[0][0] != "Type" || rows[0][1] != "Name" {
		t.Fatalf("header row = %v, want [Type Name]", rows[0])
	}
	if rows[1][0] != "H" || rows[1][1] != "Alice" {
		t.Fatalf("data row = %v, want [H Alice]", rows[1])
	}
}

func TestXLSXDumpRejectsNilResult(t *testing.T) {
	dump := NewXLSXDump(filepath.Join(t.TempDir(), "out.xlsx"))
	if err := dump.Write(nil); err == nil {
		t.Fatal("Write(nil) = nil error, want error")
	}
}
