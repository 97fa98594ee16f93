package cli

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/stepdriver-dev/stepdriver/pkg/config"
)

func TestResolveOutputDir_Default(t *testing.T) {
	dir, err := resolveOutputDir("", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(dir, "results/") {
		t.Errorf("expected dir to start with results/, got %s", dir)
	}
	// Should have timestamp subfolder
	parts := strings.Split(dir, "/")
	if len(parts) != 2 {
		t.Errorf("expected results/<timestamp>, got %s", dir)
	}
}

func TestResolveOutputDir_CustomOutput(t *testing.T) {
	dir, err := resolveOutputDir("./my-reports", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(dir, "my-reports/") {
		t.Errorf("expected dir to start with my-reports/, got %s", dir)
	}
}

func TestResolveOutputDir_Flatten(t *testing.T) {
	dir, err := resolveOutputDir("./my-reports", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dir != "my-reports" {
		t.Errorf("expected my-reports, got %s", dir)
	}
}

func TestCollectFiles_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smoke.xlsx")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := collectFiles([]string{path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("expected [%s], got %v", path, files)
	}
}

func TestCollectFiles_Directory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.xlsx", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := collectFiles([]string{dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
	// Sorted, .txt excluded
	if filepath.Base(files[0]) != "a.xlsx" || filepath.Base(files[1]) != "b.xlsx" {
		t.Errorf("expected sorted xlsx files, got %v", files)
	}
}

func TestCollectFiles_Missing(t *testing.T) {
	if _, err := collectFiles([]string{"does-not-exist.xlsx"}); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestCollectFiles_EmptyDirectory(t *testing.T) {
	if _, err := collectFiles([]string{t.TempDir()}); err == nil {
		t.Error("expected error when no xlsx files are found")
	}
}

func TestApplyRunFlags_Overrides(t *testing.T) {
	set := flag.NewFlagSet("run", 0)
	set.Int("workers", 0, "")
	set.String("mode", "", "")
	set.String("output", "", "")
	set.Bool("no-headless", false, "")
	if err := set.Parse([]string{"-workers", "3", "-mode", "case", "-no-headless"}); err != nil {
		t.Fatal(err)
	}
	c := cli.NewContext(nil, set, nil)

	cfg := &config.Config{Workers: 8, Mode: "file", Headless: true, OutputDir: "results"}
	applyRunFlags(c, cfg)

	if cfg.Workers != 3 {
		t.Errorf("workers = %d, want 3", cfg.Workers)
	}
	if cfg.Mode != "case" {
		t.Errorf("mode = %s, want case", cfg.Mode)
	}
	if cfg.Headless {
		t.Error("expected headless to be disabled")
	}
	if cfg.OutputDir != "results" {
		t.Errorf("output dir changed unexpectedly: %s", cfg.OutputDir)
	}
}

func TestRunCommand_NoArgs(t *testing.T) {
	app := &cli.App{
		Flags:    GlobalFlags,
		Commands: []*cli.Command{runCommand},
	}

	err := app.Run([]string{"stepdriver", "run"})
	if err == nil {
		t.Error("expected error when no files are given")
	}
}

func TestGlobalFlags(t *testing.T) {
	names := map[string]bool{}
	for _, f := range GlobalFlags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, want := range []string{"config", "env-file", "objects", "no-ansi"} {
		if !names[want] {
			t.Errorf("missing global flag %q", want)
		}
	}
}
