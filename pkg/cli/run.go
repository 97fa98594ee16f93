package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/stepdriver-dev/stepdriver/pkg/browser"
	"github.com/stepdriver-dev/stepdriver/pkg/config"
	"github.com/stepdriver-dev/stepdriver/pkg/core"
	"github.com/stepdriver-dev/stepdriver/pkg/executor"
	"github.com/stepdriver-dev/stepdriver/pkg/logger"
	"github.com/stepdriver-dev/stepdriver/pkg/objects"
	"github.com/stepdriver-dev/stepdriver/pkg/report"
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "Execute spreadsheet test cases",
	ArgsUsage: "<xlsx-file-or-folder>...",
	Description: `Run one or more .xlsx test-case files against the configured
application.

Reports land in the output directory:
  - Default: ./results/<timestamp>/
  - With --output: <output>/<timestamp>/
  - With --output and --flatten: <output>/ (no timestamp subfolder)

Examples:
  stepdriver run testcases.xlsx
  stepdriver run smoke/ regression/ --workers 4
  stepdriver run testcases.xlsx --mode case --no-headless`,
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Worker-pool size (0 = from config)",
			EnvVars: []string{"MAX_WORKERS"},
		},
		&cli.StringFlag{
			Name:  "mode",
			Usage: "Parallelism unit: file (one session per spreadsheet) or case",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output directory for reports (default: from config)",
		},
		&cli.BoolFlag{
			Name:  "flatten",
			Usage: "Don't create timestamp subfolder (requires --output)",
		},
		&cli.BoolFlag{
			Name:  "no-headless",
			Usage: "Show the browser window",
		},
		&cli.BoolFlag{
			Name:  "fail-exit",
			Usage: "Exit non-zero when any case fails or errors",
			Value: true,
		},
	},
	Action: runAction,
}

func runAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("at least one .xlsx file or folder is required")
	}

	if globalBool(c, "no-ansi") {
		color.NoColor = true
	}

	if err := config.LoadEnvFile(globalString(c, "env-file")); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	cfg, err := loadConfig(globalString(c, "config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyRunFlags(c, cfg)

	files, err := collectFiles(c.Args().Slice())
	if err != nil {
		return err
	}

	outputDir, err := resolveOutputDir(cfg.OutputDir, c.Bool("flatten"))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	runLog, err := logger.New(filepath.Join(outputDir, "test_execution.log"))
	if err != nil {
		fmt.Printf("Warning: failed to open run log: %v\n", err)
		runLog = logger.Discard()
	}
	defer runLog.Close()

	runID := uuid.NewString()
	runLog.Info("=== Run %s started ===", runID)
	runLog.Info("Output directory: %s", outputDir)
	runLog.Info("App URL: %s", cfg.AppURL)
	runLog.Info("Workers: %d, mode: %s, headless: %v", cfg.Workers, cfg.Mode, cfg.Headless)

	repo, err := objects.Load(cfg.ObjectsPath, runLog)
	if err != nil {
		runLog.Error("Object repository load failed: %v", err)
		return fmt.Errorf("failed to load object repository: %w", err)
	}

	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	bold.Println("\nSetup")
	fmt.Println(strings.Repeat("─", 40))
	setupLine("Run ID: %s", runID)
	setupLine("Found %d test file(s)", len(files))
	setupLine("Object repository: %s (%d entries)", cfg.ObjectsPath, repo.Len())
	setupLine("Report directory: %s", outputDir)

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("running"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(true),
	)
	runner := executor.New(browser.NewFactory(cfg, runLog), executor.Config{
		Workers:       cfg.Workers,
		Mode:          cfg.Mode,
		ScreenshotDir: filepath.Join(outputDir, cfg.ScreenshotDir),
		LogDir:        filepath.Join(outputDir, cfg.LogDir),
		Objects:       repo,
		Log:           runLog,
		OnCaseDone: func(core.CaseResult) {
			bar.Add(1)
		},
	})

	bold.Println("\nExecution")
	fmt.Println(strings.Repeat("─", 40))

	start := time.Now()
	results := runner.Run(files)
	bar.Finish()
	fmt.Println()

	printSummary(results, time.Since(start))

	rep := report.Build(results, start.Format("2006-01-02 15:04:05"))
	jsonPath, err := rep.WriteJSON(outputDir)
	if err != nil {
		runLog.Error("JSON report failed: %v", err)
		fmt.Printf("Warning: failed to write JSON report: %v\n", err)
	}
	htmlPath, err := rep.WriteHTML(outputDir)
	if err != nil {
		runLog.Error("HTML report failed: %v", err)
		fmt.Printf("Warning: failed to write HTML report: %v\n", err)
	}

	fmt.Println("  Reports:")
	if htmlPath != "" {
		cyan.Printf("    HTML:   %s\n", htmlPath)
	}
	if jsonPath != "" {
		cyan.Printf("    JSON:   %s\n", jsonPath)
	}
	fmt.Println()

	runLog.Info("=== Run %s finished: %d passed, %d failed, %d errors ===",
		runID,
		results.CountByStatus(core.StatusPassed),
		results.CountByStatus(core.StatusFailed),
		results.CountByStatus(core.StatusError))

	if c.Bool("fail-exit") && !results.Success() {
		return cli.Exit("", 1)
	}
	return nil
}

// loadConfig reads the explicit --config path, or falls back to
// config.yaml in the working directory plus environment variables.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromDir(".")
}

// applyRunFlags lets CLI flags override the loaded configuration.
func applyRunFlags(c *cli.Context, cfg *config.Config) {
	if w := c.Int("workers"); w > 0 {
		cfg.Workers = w
	}
	if m := c.String("mode"); m != "" {
		cfg.Mode = m
	}
	if o := c.String("output"); o != "" {
		cfg.OutputDir = o
	}
	if c.Bool("no-headless") {
		cfg.Headless = false
	}
	if p := globalString(c, "objects"); p != "" {
		cfg.ObjectsPath = p
	}
}

// collectFiles expands directory arguments into their .xlsx members.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.xlsx"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .xlsx files found")
	}
	return files, nil
}

// resolveOutputDir determines the report directory.
//   - No --output: <config output>/<timestamp>/
//   - --output given: <output>/<timestamp>/
//   - --output + --flatten: <output>/
func resolveOutputDir(output string, flatten bool) (string, error) {
	if output == "" {
		output = "./results"
	}
	if flatten {
		return filepath.Clean(output), nil
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(output, timestamp), nil
}

func printSummary(results core.Results, elapsed time.Duration) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	bold := color.New(color.Bold)

	passed := results.CountByStatus(core.StatusPassed)
	failed := results.CountByStatus(core.StatusFailed)
	errored := results.CountByStatus(core.StatusError)

	fmt.Println()
	if passed > 0 {
		green.Printf("  %d case(s) passing", passed)
		fmt.Printf(" (%s)\n", elapsed.Round(time.Millisecond))
	}
	if failed > 0 {
		red.Printf("  %d case(s) failing\n", failed)
	}
	if errored > 0 {
		yellow.Printf("  %d case(s) errored\n", errored)
	}
	fmt.Println()

	tableWidth := 84
	fmt.Println(strings.Repeat("═", tableWidth))
	fmt.Printf("  %-12s %-34s %-8s %10s  %s\n", "ID", "Test", "Status", "Duration", "File")
	fmt.Println(strings.Repeat("─", tableWidth))
	for _, res := range results {
		name := res.TestName
		if len(name) > 34 {
			name = name[:31] + "..."
		}
		statusColor := green
		switch res.Status {
		case core.StatusFailed:
			statusColor = red
		case core.StatusError:
			statusColor = yellow
		}
		fmt.Printf("  %-12s %-34s ", res.TestID, name)
		statusColor.Printf("%-8s", res.Status)
		fmt.Printf(" %9.2fs  %s\n", res.ExecutionTime, res.File)
	}
	fmt.Println(strings.Repeat("─", tableWidth))
	bold.Printf("  TOTAL %d  ", len(results))
	green.Printf("passed %d  ", passed)
	red.Printf("failed %d  ", failed)
	yellow.Printf("errors %d\n", errored)
	fmt.Println(strings.Repeat("═", tableWidth))
	fmt.Println()
}

func setupLine(format string, v ...interface{}) {
	color.New(color.FgGreen).Print("  ✓ ")
	fmt.Printf(format+"\n", v...)
}

// globalString reads a global flag from the current or parent context.
func globalString(c *cli.Context, name string) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	if lineage := c.Lineage(); len(lineage) > 1 && lineage[1] != nil {
		return lineage[1].String(name)
	}
	return c.String(name)
}

func globalBool(c *cli.Context, name string) bool {
	if c.IsSet(name) {
		return c.Bool(name)
	}
	if lineage := c.Lineage(); len(lineage) > 1 && lineage[1] != nil {
		return lineage[1].Bool(name)
	}
	return c.Bool(name)
}
