package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/stepdriver-dev/stepdriver/pkg/logger"
	"github.com/stepdriver-dev/stepdriver/pkg/objects"
)

var objectsCommand = &cli.Command{
	Name:  "objects",
	Usage: "Inspect and edit the object repository",
	Subcommands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "List every object name and its locator",
			Action: objectsList,
		},
		{
			Name:      "add",
			Usage:     "Add or replace an object",
			ArgsUsage: "<name> <locator>",
			Action:    objectsAdd,
		},
		{
			Name:      "remove",
			Usage:     "Remove an object",
			ArgsUsage: "<name>",
			Action:    objectsRemove,
		},
	},
}

func repositoryPath(c *cli.Context) (string, error) {
	if path := globalString(c, "objects"); path != "" {
		return path, nil
	}
	cfg, err := loadConfig(globalString(c, "config"))
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.ObjectsPath, nil
}

func openRepository(c *cli.Context) (*objects.Repository, error) {
	path, err := repositoryPath(c)
	if err != nil {
		return nil, err
	}
	return objects.Load(path, logger.Discard())
}

func objectsList(c *cli.Context) error {
	repo, err := openRepository(c)
	if err != nil {
		return err
	}

	names := repo.Names()
	if len(names) == 0 {
		fmt.Println("Object repository is empty.")
		return nil
	}

	bold := color.New(color.Bold)
	bold.Printf("%-36s %s\n", "NAME", "LOCATOR")
	for _, name := range names {
		locator, _ := repo.Get(name)
		fmt.Printf("%-36s %s\n", name, locator)
	}
	fmt.Printf("\n%d object(s)\n", len(names))
	return nil
}

func objectsAdd(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: objects add <name> <locator>")
	}
	path, err := repositoryPath(c)
	if err != nil {
		return err
	}
	// add may start a brand-new repository; the file appears on Upsert.
	repo, err := objects.Load(path, logger.Discard())
	if errors.Is(err, os.ErrNotExist) {
		repo = objects.New(path, logger.Discard())
	} else if err != nil {
		return err
	}
	name, locator := c.Args().Get(0), c.Args().Get(1)
	if err := repo.Upsert(name, locator); err != nil {
		return fmt.Errorf("failed to save object: %w", err)
	}
	color.New(color.FgGreen).Printf("✓ %s = %s\n", name, locator)
	return nil
}

func objectsRemove(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: objects remove <name>")
	}
	repo, err := openRepository(c)
	if err != nil {
		return err
	}
	name := c.Args().Get(0)
	if _, ok := repo.Get(name); !ok {
		return fmt.Errorf("object %q not found", name)
	}
	if err := repo.Remove(name); err != nil {
		return fmt.Errorf("failed to save repository: %w", err)
	}
	color.New(color.FgGreen).Printf("✓ removed %s\n", name)
	return nil
}
