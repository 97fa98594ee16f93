// Package cli provides the command-line interface for stepdriver.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config.yaml (default: ./config.yaml if present)",
		EnvVars: []string{"STEPDRIVER_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "env-file",
		Usage:   "Dotenv file with APP_URL, APP_USERNAME, APP_PASSWORD",
		Value:   ".env",
		EnvVars: []string{"STEPDRIVER_ENV_FILE"},
	},
	&cli.StringFlag{
		Name:    "objects",
		Usage:   "Path to the object repository JSON",
		EnvVars: []string{"STEPDRIVER_OBJECTS"},
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "stepdriver",
		Usage:   "Keyword-driven web test runner",
		Version: Version,
		Description: `Stepdriver executes spreadsheet test cases against a live web
application. Each cell holds one plain-language step (click, fill,
verify, ...) resolved through a shared object repository.

Examples:
  stepdriver run testcases.xlsx
  stepdriver run suites/ --workers 4 --mode case
  stepdriver objects list`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			runCommand,
			objectsCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
