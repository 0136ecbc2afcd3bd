package convert

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"genjson/config"
	"genjson/normalize"
	"genjson/output"
	"genjson/source"
	"genjson/state"
)

const familyCSV = "PersonID,Name,SiblingID,FatherID,Notes\n" +
	"27.0,Öznur,\"3, 4\",,Tom & <Jerry>\n" +
	"28,Ali,\"3, cousin-Anna, 5\",27,\n"

const familyJSON = `[
  {
    "PersonID": 27,
    "Name": "Öznur",
    "SiblingID": [
      3,
      4
    ],
    "FatherID": "",
    "Notes": "Tom & <Jerry>"
  },
  {
    "PersonID": 28,
    "Name": "Ali",
    "SiblingID": [
      3,
      "cousin-Anna",
      5
    ],
    "FatherID": 27,
    "Notes": ""
  }
]`

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	return ctx, env
}

func defaultOptions(env *state.LocalEnv) source.Options {
	return source.Options{
		Format:     env.Cfg.Source.Format,
		Delimiter:  env.Cfg.Source.CSV.DelimiterRune(),
		InferTypes: env.Cfg.Source.CSV.InferTypes,
	}
}

func defaultNormalizer() *normalize.Normalizer {
	return normalize.New(normalize.DefaultFields, normalize.DefaultSeparator)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// newConvertCommand mirrors convert subcommand flags of the program.
func newConvertCommand() *cli.Command {
	return &cli.Command{
		Name:   "convert",
		Action: Run,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from"},
			&cli.StringFlag{Name: "sheet"},
			&cli.StringFlag{Name: "encoding"},
			&cli.StringFlag{Name: "delimiter"},
			&cli.StringSliceFlag{Name: "identifier"},
			&cli.StringSliceFlag{Name: "list"},
			&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}},
		},
	}
}

func TestProcess_CSV(t *testing.T) {
	ctx, env := setupTestEnv(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "family.csv")
	dst := filepath.Join(dir, "family.json")
	writeFile(t, src, familyCSV)

	if err := process(ctx, src, dst, defaultOptions(env), defaultNormalizer(), env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if got := readFile(t, dst); got != familyJSON {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, familyJSON)
	}
}

func TestProcess_CSVKeepsListAndOpaqueText(t *testing.T) {
	ctx, env := setupTestEnv(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "phones.csv")
	dst := filepath.Join(dir, "phones.json")
	writeFile(t, src, "PersonID,SiblingID,Phone,Name\n1,3,007,Ann\n2,5,0123,Bob\n")

	if err := process(ctx, src, dst, defaultOptions(env), defaultNormalizer(), env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	want := `[
  {
    "PersonID": 1,
    "SiblingID": [
      3
    ],
    "Phone": "007",
    "Name": "Ann"
  },
  {
    "PersonID": 2,
    "SiblingID": [
      5
    ],
    "Phone": "0123",
    "Name": "Bob"
  }
]`
	if got := readFile(t, dst); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestProcess_XLSX(t *testing.T) {
	ctx, env := setupTestEnv(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "family.xlsx")
	dst := filepath.Join(dir, "out.json")

	f := excelize.NewFile()
	rows := [][]any{
		{"PersonID", "Name", "SiblingID", "Generation"},
		{27, "Öznur", "3, 4", 1.0},
		{28, "Ali", "", 2.5},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(src); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close workbook: %v", err)
	}

	if err := process(ctx, src, dst, defaultOptions(env), defaultNormalizer(), env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	want := `[
  {
    "PersonID": 27,
    "Name": "Öznur",
    "SiblingID": [
      3,
      4
    ],
    "Generation": 1
  },
  {
    "PersonID": 28,
    "Name": "Ali",
    "SiblingID": "",
    "Generation": 2.5
  }
]`
	if got := readFile(t, dst); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestProcess_NonExistentSource(t *testing.T) {
	ctx, env := setupTestEnv(t)

	dir := t.TempDir()
	dst := filepath.Join(dir, "out.json")

	err := process(ctx, filepath.Join(dir, "missing.csv"), dst, defaultOptions(env), defaultNormalizer(), env.Log)
	if !errors.Is(err, source.ErrSourceNotFound) {
		t.Fatalf("Expected ErrSourceNotFound, got %v", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("output file must not be created")
	}
}

func TestProcess_BadSourceKeepsDestination(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Overwrite = true

	dir := t.TempDir()
	src := filepath.Join(dir, "bad.csv")
	dst := filepath.Join(dir, "out.json")
	writeFile(t, src, "A,A\n1,2\n")
	writeFile(t, dst, "previous")

	err := process(ctx, src, dst, defaultOptions(env), defaultNormalizer(), env.Log)
	if !errors.Is(err, source.ErrSourceRead) {
		t.Fatalf("Expected ErrSourceRead, got %v", err)
	}
	if got := readFile(t, dst); got != "previous" {
		t.Errorf("destination was modified: %q", got)
	}
}

func TestProcess_ExistingDestination(t *testing.T) {
	ctx, env := setupTestEnv(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "family.csv")
	dst := filepath.Join(dir, "family.json")
	writeFile(t, src, familyCSV)
	writeFile(t, dst, "previous")

	err := process(ctx, src, dst, defaultOptions(env), defaultNormalizer(), env.Log)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("Expected existing destination error, got %v", err)
	}
	if got := readFile(t, dst); got != "previous" {
		t.Errorf("destination was modified without overwrite: %q", got)
	}

	env.Overwrite = true
	if err := process(ctx, src, dst, defaultOptions(env), defaultNormalizer(), env.Log); err != nil {
		t.Fatalf("process() with overwrite error = %v", err)
	}
	if got := readFile(t, dst); got != familyJSON {
		t.Errorf("destination was not replaced:\n%s", got)
	}
}

func TestProcess_MissingOutputDirectory(t *testing.T) {
	ctx, env := setupTestEnv(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "family.csv")
	writeFile(t, src, familyCSV)

	err := process(ctx, src, filepath.Join(dir, "no", "such", "out.json"), defaultOptions(env), defaultNormalizer(), env.Log)
	if !errors.Is(err, output.ErrDestinationWrite) {
		t.Fatalf("Expected ErrDestinationWrite, got %v", err)
	}
}

func TestProcess_DestinationDirectory(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"default name", "", "family.json"},
		{"template", "{{ .Name | upper }}-{{ .Format }}-{{ .Records }}", "FAMILY-csv-2.json"},
		{"broken template", "{{ .Name", "family.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, env := setupTestEnv(t)
			env.Cfg.Output.NameTemplate = tt.template

			srcDir, dstDir := t.TempDir(), t.TempDir()
			src := filepath.Join(srcDir, "family.csv")
			writeFile(t, src, familyCSV)

			if err := process(ctx, src, dstDir, defaultOptions(env), defaultNormalizer(), env.Log); err != nil {
				t.Fatalf("process() error = %v", err)
			}
			if got := readFile(t, filepath.Join(dstDir, tt.want)); got != familyJSON {
				t.Errorf("unexpected output:\n%s", got)
			}
		})
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, env := setupTestEnv(t)
	cancelCtx, cancel := context.WithCancel(ctx)
	cancel() // Cancel immediately

	dir := t.TempDir()
	src := filepath.Join(dir, "family.csv")
	dst := filepath.Join(dir, "family.json")
	writeFile(t, src, familyCSV)

	err := process(cancelCtx, src, dst, defaultOptions(env), defaultNormalizer(), env.Log)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled error, got %v", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("output file must not be created")
	}
}

func TestProcess_Report(t *testing.T) {
	ctx, env := setupTestEnv(t)

	dir := t.TempDir()
	rpt, err := (&config.ReporterConfig{Destination: filepath.Join(dir, "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("prepare report: %v", err)
	}
	env.Rpt = rpt

	src := filepath.Join(dir, "family.csv")
	dst := filepath.Join(dir, "family.json")
	writeFile(t, src, familyCSV)

	if err := process(ctx, src, dst, defaultOptions(env), defaultNormalizer(), env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("close report: %v", err)
	}

	zr, err := zip.OpenReader(filepath.Join(dir, "report.zip"))
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{"MANIFEST", "source.csv", "result.json", "table.txt", "records.txt"} {
		if !names[want] {
			t.Errorf("report is missing %s, has %v", want, names)
		}
	}
}

func TestRun_Flags(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "people.txt")
	dst := filepath.Join(dir, "people.json")
	writeFile(t, src, "ID;Kids;SiblingID\n1.0;2,3;4,5\n")

	args := []string{"convert", "--from", "csv", "--delimiter", ";", "--identifier", "ID", "--list", "Kids", src, dst}
	if err := newConvertCommand().Run(ctx, args); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// SiblingID is not classified when columns are given explicitly
	want := `[
  {
    "ID": 1,
    "Kids": [
      2,
      3
    ],
    "SiblingID": "4,5"
  }
]`
	if got := readFile(t, dst); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestRun_Encoding(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "family.csv")
	dst := filepath.Join(dir, "family.json")
	// "Öznur" in windows-1254
	writeFile(t, src, "PersonID,Name\n1,\xd6znur\n")

	args := []string{"convert", "--encoding", "windows-1254", src, dst}
	if err := newConvertCommand().Run(ctx, args); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := readFile(t, dst); !strings.Contains(got, `"Name": "Öznur"`) {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "family.csv")
	writeFile(t, src, familyCSV)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no source", []string{"convert"}, "no input source"},
		{"no destination", []string{"convert", src}, "no destination"},
		{"long delimiter", []string{"convert", "--delimiter", "::", src, filepath.Join(dir, "a.json")}, "single character"},
		{"unknown encoding", []string{"convert", "--encoding", "no-such-charset", src, filepath.Join(dir, "b.json")}, "unknown character set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestEnv(t)
			err := newConvertCommand().Run(ctx, tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRun_Overwrite(t *testing.T) {
	ctx, env := setupTestEnv(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "family.csv")
	dst := filepath.Join(dir, "family.json")
	writeFile(t, src, familyCSV)
	writeFile(t, dst, "previous")

	if err := newConvertCommand().Run(ctx, []string{"convert", "--ow", src, dst}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !env.Overwrite {
		t.Error("overwrite flag was not applied")
	}
	if got := readFile(t, dst); got != familyJSON {
		t.Errorf("destination was not replaced:\n%s", got)
	}
}
