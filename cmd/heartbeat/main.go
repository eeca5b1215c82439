// Command heartbeat runs the agent's 9-step decision cycle (spec.md
// §4.5) once and exits, grounded on cmd/engine/main.go's env-driven
// bootstrap idiom. It is meant to be invoked on a schedule by the
// operator's own process supervisor, not to loop internally.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/rawblock/boar-agent/internal/cliutil"
	"github.com/rawblock/boar-agent/internal/feeds"
	"github.com/rawblock/boar-agent/internal/guards"
	"github.com/rawblock/boar-agent/internal/logging"
	"github.com/rawblock/boar-agent/internal/notify"
	"github.com/rawblock/boar-agent/internal/orchestrator"
	"github.com/rawblock/boar-agent/internal/statestore"
)

func main() {
	app := &cli.App{
		Name:  "heartbeat",
		Usage: "run one heartbeat cycle of the trading agent",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the agent's YAML config"},
			&cli.BoolFlag{Name: "dry-run", Usage: "score and emit beads but never advance daily exposure counters"},
			&cli.BoolFlag{Name: "verbose", Usage: "emit development-mode (console) logs instead of JSON"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "heartbeat:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	ctx := context.Background()

	store, cfg, err := cliutil.OpenChain(ctx, c.String("config"))
	if err != nil {
		return err
	}
	defer store.Close()

	log, err := logging.New(c.Bool("verbose"))
	if err != nil {
		return fmt.Errorf("heartbeat: init logging: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	limiter := feeds.NewRateLimiter(60, 10)
	var sink notify.Sink
	if url := os.Getenv("BOAR_WEBHOOK_URL"); url != "" {
		sink = notify.NewWebhookSink(url)
	}

	cycle := &orchestrator.Cycle{
		Config:    cfg,
		Chain:     store,
		State:     statestore.New(cliutil.GetEnvOrDefault("BOAR_STATE_FILE", cfg.StateFilePath)),
		Oracle:    feeds.NewOracleClient(cliutil.RequireEnv("BOAR_ORACLE_URL"), os.Getenv("BOAR_ORACLE_API_KEY"), limiter),
		Narrative: feeds.NewNarrativeClient(cliutil.RequireEnv("BOAR_NARRATIVE_URL"), os.Getenv("BOAR_NARRATIVE_API_KEY"), limiter),
		Prices:    feeds.NewPriceClient(cliutil.RequireEnv("BOAR_PRICE_URL"), os.Getenv("BOAR_PRICE_API_KEY"), limiter),
		Metadata:  feeds.NewMetadataClient(cliutil.RequireEnv("BOAR_METADATA_URL"), os.Getenv("BOAR_METADATA_API_KEY"), limiter),
		Gateway:   guards.NewGatewayHealth(2*time.Minute, 3),
		Notifier:  notify.New(sink, 500),
		Log:       log,
		DryRun:    c.Bool("dry-run"),
	}

	result, err := cycle.Run(ctx)
	if err != nil {
		return fmt.Errorf("heartbeat: cycle failed: %w", err)
	}

	out, err := json.Marshal(result.Heartbeat)
	if err != nil {
		return fmt.Errorf("heartbeat: marshal result: %w", err)
	}
	fmt.Println(string(out))

	if result.Heartbeat.Mode == "read_only" {
		return cli.Exit("", 1)
	}
	if len(result.Heartbeat.SourceFailures) > 0 {
		return cli.Exit("", 2)
	}
	return nil
}
