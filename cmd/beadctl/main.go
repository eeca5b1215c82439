// Command beadctl exports and imports the bead chain as JSONL, one
// bead per line, for backup and cross-node migration.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/rawblock/boar-agent/internal/cliutil"
)

func main() {
	app := &cli.App{
		Name:  "beadctl",
		Usage: "export or import the bead chain as JSONL",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the agent's YAML config"},
		},
		Commands: []*cli.Command{
			{
				Name:      "export",
				Usage:     "write the whole chain to a JSONL file",
				ArgsUsage: "<output-file>",
				Action:    runExport,
			},
			{
				Name:      "import",
				Usage:     "load beads from a JSONL file, skipping ids already present",
				ArgsUsage: "<input-file>",
				Action:    runImport,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "beadctl:", err)
		os.Exit(1)
	}
}

func runExport(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("beadctl export: missing output file", 1)
	}

	ctx := context.Background()
	store, _, err := cliutil.OpenChain(ctx, c.String("config"))
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("beadctl: create %s: %w", path, err)
	}
	defer f.Close()

	if err := store.ExportJSONL(ctx, f); err != nil {
		return fmt.Errorf("beadctl: export: %w", err)
	}
	return nil
}

func runImport(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("beadctl import: missing input file", 1)
	}

	ctx := context.Background()
	store, _, err := cliutil.OpenChain(ctx, c.String("config"))
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("beadctl: open %s: %w", path, err)
	}
	defer f.Close()

	imported, skipped, err := store.ImportJSONL(ctx, f)
	if err != nil {
		return fmt.Errorf("beadctl: import: %w", err)
	}
	fmt.Printf("imported=%d skipped=%d\n", imported, skipped)
	return nil
}
