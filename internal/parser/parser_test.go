package parser

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
	return path
}

func TestParserLinesYieldsEachRecord(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.xml", `<fixedwidthschema lineseparator="\n">
  <line linetype="detail" maxlength="5">
    <cell name="Type" length="1" alignment="left"/>
    <cell name="Name" length="4" alignment="left"/>
  </line>
</fixedwidthschema>`)
	dataPath := writeFile(t, dir, "data.txt", "HJohn\nFJane\n")

	p, err := New(Config{FilePath: dataPath, FileSchema: schemaPath})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer p.Close()

	var lineCount int
	for _, err := range p.Lines() {
		if err != nil {
			t.Fatalf("Lines() yielded error: %v", err)
		}
		lineCount++
	}
	if lineCount != 2 {
		t.Fatalf("Lines() produced %d records, want 2", lineCount)
	}
}

func TestParserRecordsValidates(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.xml", `<fixedwidthschema lineseparator="\n">
  <line linetype="detail" maxlength="5">
    <cell name="Type" length="1" alignment="left"/>
    <cell name="Name" length="4" alignment="left"/>
  </line>
</fixedwidthschema>`)
	dataPath := writeFile(t, dir, "data.txt", "HJohn\nFJane\n")

	p, err := New(Config{FilePath: dataPath, FileSchema: schemaPath})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer p.Close()

	var names []string
	for res, verr := range p.Records() {
		if verr != nil {
			t.Fatalf("Records() yielded error: %v", verr)
		}
		v, _ := res.CellValues.Get("Name")
		names = append(names, v)
	}
	if len(names) != 2 || names[0] != "John" || names[1] != "Jane" {
		t.Fatalf("names = %v, want [John Jane]", names)
	}
}

func TestParserOpenErrorOnMissingSchema(t *testing.T) {
	dir := t.TempDir()
	dataPath := writeFile(t, dir, "data.txt", "x")

	if _, err := New(Config{FilePath: dataPath, FileSchema: filepath.Join(dir, "missing.xml")}); err == nil {
		t.Fatal("New() = nil error, want schema-load failure")
	}
}
