// Command guardcheck evaluates the killswitch, drawdown, and
// daily-risk preconditions against the persisted state and reports
// whether a heartbeat cycle would currently be allowed to enter new
// positions, without running one.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rawblock/boar-agent/internal/cliutil"
	"github.com/rawblock/boar-agent/internal/config"
	"github.com/rawblock/boar-agent/internal/guards"
	"github.com/rawblock/boar-agent/internal/statestore"
)

func main() {
	app := &cli.App{
		Name:  "guardcheck",
		Usage: "exit 0 if entries are clear, 1 if blocked, 2 if warned",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the agent's YAML config"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "guardcheck:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	store := statestore.New(cliutil.GetEnvOrDefault("BOAR_STATE_FILE", cfg.StateFilePath))
	state, err := store.Read()
	if err != nil {
		return fmt.Errorf("guardcheck: read state: %w", err)
	}

	result := guards.Aggregate(
		guards.CheckKillswitch(cfg.KillswitchPath),
		guards.CheckDrawdown(&state, cfg.Risk.Portfolio, time.Now()),
		guards.CheckDailyRisk(&state, cfg.Risk),
	)
	if err := store.Write(state); err != nil {
		return fmt.Errorf("guardcheck: persist state: %w", err)
	}

	fmt.Printf("%s %s\n", result.Verdict, result.Reason)
	switch result.Verdict {
	case guards.VerdictBlock:
		return cli.Exit("", 1)
	case guards.VerdictWarn:
		return cli.Exit("", 2)
	default:
		return nil
	}
}
