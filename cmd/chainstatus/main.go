// Command chainstatus reports on the bead chain's integrity and
// recent activity: `--verify` walks the full chain checking hash
// linkage and signatures, `--recent N` prints the last N bead types
// and timestamps.
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
		Name:  "chainstatus",
		Usage: "inspect the bead chain's integrity and recent activity",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the agent's YAML config"},
			&cli.BoolFlag{Name: "verify", Usage: "scan the full chain and check hash/signature linkage"},
			&cli.IntFlag{Name: "recent", Value: 0, Usage: "print the N most recently written beads"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "chainstatus:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	ctx := context.Background()

	store, _, err := cliutil.OpenChain(ctx, c.String("config"))
	if err != nil {
		return err
	}
	defer store.Close()

	exitCode := 0

	if c.Bool("verify") {
		result, err := store.VerifyChain(ctx)
		if err != nil {
			return fmt.Errorf("chainstatus: verify: %w", err)
		}
		fmt.Printf("beads_scanned=%d valid=%t signature_failures=%d\n", result.BeadsScanned, result.Valid, result.SignatureFailures)
		if !result.Valid {
			fmt.Printf("first_break_seq=%d reason=%q\n", result.FirstBreakSeq, result.FirstBreakReason)
			exitCode = 1
		} else if result.SignatureFailures > 0 {
			exitCode = 2
		}
	}

	if n := c.Int("recent"); n > 0 {
		beads, err := store.QueryRecent(ctx, n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chainstatus: recent beads unavailable: %v\n", err)
		} else {
			for _, b := range beads {
				fmt.Printf("%s %s %s\n", b.BeadID, b.BeadType, b.KnowledgeTimeRecordedAt.Format("2006-01-02T15:04:05Z07:00"))
			}
		}
	}

	if exitCode != 0 {
		return cli.Exit("", exitCode)
	}
	return nil
}
