package app

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flatfile-parser/internal/logging"
)

func flagSetForTest() *flag.FlagSet {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("input", "", "")
	fs.String("schema", "", "")
	fs.String("loglevel", "", "")
	fs.Bool("help", false, "")
	return fs
}

const testSchema = `<?xml version="1.0"?>
<fixedwidthschema lineseparator="\n">
  <line linetype="detail" maxlength="6">
    <cell name="Type" length="1" alignment="left"/>
    <cell name="Name" length="5" alignment="left"/>
  </line>
</fixedwidthschema>`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}

func writeAppConfig(t *testing.T, dir, body string) string {
	t.Helper()
	return writeFixture(t, dir, "config.yaml", body)
}

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stderr = w
	t.Cleanup(func() { os.Stderr = orig })
	fn()
	w.Close()
	captured, _ := io.ReadAll(r)
	return string(captured)
}

func TestAppRunnerUsage(t *testing.T) {
	runner := NewAppRunner()
	var buf bytes.Buffer
	runner.Usage(&buf)
	if buf.String() != usageText {
		t.Errorf("Usage() = %q, want %q", buf.String(), usageText)
	}
}

func TestAppRunnerRunHelp(t *testing.T) {
	runner := NewAppRunner()
	stderr := captureStderr(t, func() {
		if err := runner.Run([]string{"-help"}); err != nil {
			t.Errorf("Run() error = %v", err)
		}
	})
	if !strings.Contains(stderr, "Usage:") {
		t.Errorf("stderr = %q, want usage text", stderr)
	}
}

func TestAppRunnerRunInvalidFlag(t *testing.T) {
	runner := NewAppRunner()
	err := runner.Run([]string{"-bogus-flag"})
	if err == nil {
		t.Fatal("Run() error = nil, want ErrUsage")
	}
}

func TestAppRunnerRunConfigNotFound(t *testing.T) {
	runner := NewAppRunner()
	err := runner.Run([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	if err != ErrConfigNotFound {
		t.Errorf("Run() error = %v, want ErrConfigNotFound", err)
	}
}

func TestAppRunnerRunHappyPath(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFixture(t, dir, "schema.xml", testSchema)
	dataPath := writeFixture(t, dir, "data.txt", "DAlice\nDBob  \n")
	cfgPath := writeAppConfig(t, dir, `
logging: { level: debug }
source:
  dataFile: `+dataPath+`
  schemaFile: `+schemaPath+`
`)

	runner := NewAppRunner()
	var logBuf bytes.Buffer
	origLevel := logging.GetLevel()
	logging.SetOutput(&logBuf)
	t.Cleanup(func() { logging.SetOutput(os.Stderr); logging.SetLevel(origLevel) })

	if err := runner.Run([]string{"-config", cfgPath}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(logBuf.String(), "Processed 2 valid record(s), 0 error(s)") {
		t.Errorf("log output = %q, want a summary of 2 valid records", logBuf.String())
	}
}

func TestAppRunnerRunHaltsOnErrorByDefault(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFixture(t, dir, "schema.xml", testSchema)
	// Second line is too short for maxlength=6, so it should fail validation.
	dataPath := writeFixture(t, dir, "data.txt", "DAlice\nDX\n")
	cfgPath := writeAppConfig(t, dir, `
source:
  dataFile: `+dataPath+`
  schemaFile: `+schemaPath+`
`)

	runner := NewAppRunner()
	err := runner.Run([]string{"-config", cfgPath})
	if err == nil {
		t.Fatal("Run() error = nil, want halt error for invalid record")
	}
}

func TestAppRunnerRunSkipModeWritesErrorFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFixture(t, dir, "schema.xml", testSchema)
	dataPath := writeFixture(t, dir, "data.txt", "DAlice\nDX\nDBob  \n")
	errFile := filepath.Join(dir, "errors.csv")
	cfgPath := writeAppConfig(t, dir, `
source:
  dataFile: `+dataPath+`
  schemaFile: `+schemaPath+`
errorHandling:
  mode: skip
  errorFile: `+errFile+`
`)

	runner := NewAppRunner()
	if err := runner.Run([]string{"-config", cfgPath}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	contents, err := os.ReadFile(errFile)
	if err != nil {
		t.Fatalf("failed to read error file: %v", err)
	}
	if !strings.Contains(string(contents), "line_number,error_message") {
		t.Errorf("error file contents = %q, want a header row", string(contents))
	}
}

func TestAppRunnerRunFilterExcludesRecords(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFixture(t, dir, "schema.xml", testSchema)
	dataPath := writeFixture(t, dir, "data.txt", "DAlice\nDBob  \n")
	cfgPath := writeAppConfig(t, dir, `
source:
  dataFile: `+dataPath+`
  schemaFile: `+schemaPath+`
filter: "Name == 'Bob'"
`)

	runner := NewAppRunner()
	var logBuf bytes.Buffer
	origLevel := logging.GetLevel()
	logging.SetOutput(&logBuf)
	t.Cleanup(func() { logging.SetOutput(os.Stderr); logging.SetLevel(origLevel) })

	if err := runner.Run([]string{"-config", cfgPath}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(logBuf.String(), "Processed 1 valid record(s), 0 error(s), 1 filtered out") {
		t.Errorf("log output = %q, want 1 valid and 1 filtered", logBuf.String())
	}
}

func TestAppRunnerRunFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFixture(t, dir, "schema.xml", testSchema)
	dataPath := writeFixture(t, dir, "data.txt", "DAlice\n")
	otherSchemaPath := writeFixture(t, dir, "other-schema.xml", testSchema)
	otherDataPath := writeFixture(t, dir, "other-data.txt", "DBob  \n")
	cfgPath := writeAppConfig(t, dir, `
source:
  dataFile: `+dataPath+`
  schemaFile: `+schemaPath+`
`)

	runner := NewAppRunner()
	var logBuf bytes.Buffer
	origLevel := logging.GetLevel()
	logging.SetOutput(&logBuf)
	t.Cleanup(func() { logging.SetOutput(os.Stderr); logging.SetLevel(origLevel) })

	err := runner.Run([]string{"-config", cfgPath, "-input", otherDataPath, "-schema", otherSchemaPath})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(logBuf.String(), "Processed 1 valid record(s), 0 error(s)") {
		t.Errorf("log output = %q, want 1 valid record from the overridden data file", logBuf.String())
	}
}

func TestIsFlagSet(t *testing.T) {
	cases := []struct {
		name string
		args []string
		flag string
		want bool
	}{
		{"set", []string{"-loglevel=debug"}, "loglevel", true},
		{"not set", []string{"-input=x"}, "loglevel", false},
		{"no args", []string{}, "loglevel", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs := flagSetForTest()
			if err := fs.Parse(tc.args); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := isFlagSet(fs, tc.flag); got != tc.want {
				t.Errorf("isFlagSet(%v, %q) = %v, want %v", tc.args, tc.flag, got, tc.want)
			}
		})
	}
}
