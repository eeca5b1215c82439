// Package orchestrator implements the heartbeat cycle of spec.md §4.5:
// one pass of watchdog, oracle query, narrative scan, scoring, and bead
// emission, closing with an atomic state write. Step ordering inside
// Run is load-bearing — exits run before entries, and the state write
// is always last so a crash mid-cycle discards only that cycle.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rawblock/boar-agent/internal/chain"
	"github.com/rawblock/boar-agent/internal/config"
	"github.com/rawblock/boar-agent/internal/feeds"
	"github.com/rawblock/boar-agent/internal/guards"
	"github.com/rawblock/boar-agent/internal/notify"
	"github.com/rawblock/boar-agent/internal/scoring"
	"github.com/rawblock/boar-agent/internal/statestore"
	"github.com/rawblock/boar-agent/internal/warden"
	"github.com/rawblock/boar-agent/pkg/models"
)

const (
	modeNormal      = "normal"
	modeObserveOnly = "observe_only"
	modeReadOnly    = "read_only"
)

// Cycle wires together every dependency one heartbeat needs. Reasoner
// defaults to NoOpReasoner when nil; Notifier, Gateway and Log may be
// nil, in which case notifying, the gateway check and logging are
// skipped. The other dependencies are required.
type Cycle struct {
	Config     config.Config
	Chain      *chain.Store
	State      *statestore.Store
	Oracle     feeds.OracleSource
	Narrative  feeds.NarrativeSource
	Prices     feeds.PriceSource
	Metadata   feeds.MetadataSource
	Reasoner   Reasoner
	Notifier   *notify.Notifier
	Gateway    *guards.GatewayHealth
	Log        *zap.Logger
	DryRun     bool
}

// Result is what one cycle returns to its caller (the heartbeat CLI).
type Result struct {
	Heartbeat models.HeartbeatContent
	// HeartbeatBead is the zero value when the cycle halted before
	// reaching a chain write (killswitch, or state load failure).
	HeartbeatBead models.Bead
}

// Run executes exactly one heartbeat cycle against the configured time
// budget. It never returns an error for ordinary provider failures —
// those are folded into observe-only mode and the heartbeat's own
// diagnostics — only for conditions that prevent producing a heartbeat
// at all (state load or persist failure). An active killswitch is not
// an error: Run returns a read_only heartbeat with no bead and nil.
func (c *Cycle) Run(ctx context.Context) (Result, error) {
	if c.Reasoner == nil {
		c.Reasoner = NoOpReasoner{}
	}
	started := time.Now()
	cycleID, err := models.NewBeadID()
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: generate cycle id: %w", err)
	}
	log := c.Log
	if log != nil {
		log = log.With(zap.String("cycle_id", cycleID))
	}

	budget := time.Duration(c.Config.CycleBudgetSeconds) * time.Second
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	funnel := map[string]int{}
	var sourceFailures []string

	// Step 0: killswitch short-circuits before any state is touched.
	if kr := guards.CheckKillswitch(c.Config.KillswitchPath); kr.Verdict == guards.VerdictBlock {
		if c.Notifier != nil {
			c.Notifier.Critical(ctx, "killswitch active: "+kr.Reason)
		}
		return Result{Heartbeat: models.HeartbeatContent{
			CycleID:    cycleID,
			StartedAt:  started.Unix(),
			DurationMs: time.Since(started).Milliseconds(),
			Mode:       modeReadOnly,
		}}, nil
	}

	// Step 1: load state under exclusive lock.
	state, err := c.State.Read()
	if err != nil {
		if c.Notifier != nil {
			c.Notifier.Critical(ctx, "state load failed, halting cycle: "+err.Error())
		}
		return Result{}, fmt.Errorf("orchestrator: load state: %w", err)
	}
	state.ResetDailyCountersIfNeeded(started)

	mode := modeNormal

	// Step 2: verify chain integrity from the last anchor forward.
	if verify, err := c.Chain.VerifyFromAnchor(ctx); err == nil && !verify.Valid {
		mode = modeReadOnly
		if c.Notifier != nil {
			c.Notifier.Critical(ctx, fmt.Sprintf("chain integrity broken at seq %d: %s", verify.FirstBreakSeq, verify.FirstBreakReason))
		}
	}

	// Step 3: position watchdog — exits always run, even in read-only
	// or observe-only mode, so open risk is never left unmonitored.
	watchdogCtx, watchdogCancel := context.WithTimeout(ctx, time.Duration(c.Config.WatchdogBudgetSeconds)*time.Second)
	watchdogResult := runWatchdog(watchdogCtx, c.Chain, &state, c.Prices, c.Config.MaxConcurrentFetches, started)
	watchdogCancel()
	funnel["exits_emitted"] = len(watchdogResult.Exits)

	if mode == modeReadOnly {
		return c.finish(ctx, cycleID, started, mode, &state, funnel, nil, log)
	}

	guardResult := guards.Aggregate(
		guards.CheckDrawdown(&state, c.Config.Risk.Portfolio, started),
		guards.CheckDailyRisk(&state, c.Config.Risk),
	)
	if c.Gateway != nil {
		if gr := c.Gateway.Check(started); gr.Verdict == guards.VerdictBlock {
			sourceFailures = append(sourceFailures, "gateway")
			if c.Notifier != nil {
				c.Notifier.Warn(ctx, "gateway health check blocked: "+gr.Reason)
			}
		}
	}

	// Step 4: oracle query, watching currently open positions plus
	// whatever the prior cycle already knew about.
	oracleCtx, oracleCancel := context.WithTimeout(ctx, time.Duration(c.Config.OracleBudgetSeconds)*time.Second)
	watchedMints := make([]string, 0, len(state.OpenPositions))
	for mint := range state.OpenPositions {
		watchedMints = append(watchedMints, mint)
	}
	snapshot, oracleErr := c.Oracle.FetchOracleSnapshot(oracleCtx, watchedMints)
	oracleCancel()
	if oracleErr != nil {
		sourceFailures = append(sourceFailures, "oracle")
		if log != nil {
			log.Warn("oracle fetch failed", zap.Error(oracleErr))
		}
	}

	// Step 5: narrative scan.
	narrativeCtx, narrativeCancel := context.WithTimeout(ctx, budgetRemainder(ctx, 20*time.Second))
	candidates, narrativeErr := c.Narrative.ScanCandidates(narrativeCtx)
	narrativeCancel()
	if narrativeErr != nil {
		sourceFailures = append(sourceFailures, "narrative")
		if log != nil {
			log.Warn("narrative scan failed", zap.Error(narrativeErr))
		}
	}

	// Step 6: partial-data guard.
	dataCompleteness := 1.0
	switch {
	case oracleErr != nil && narrativeErr != nil:
		mode = modeObserveOnly
		if c.Notifier != nil {
			c.Notifier.Critical(ctx, "oracle and narrative sources both failed, no entries this cycle")
		}
	case oracleErr != nil:
		dataCompleteness = 0.7
	case narrativeErr != nil:
		dataCompleteness = 0.8
	}
	if guardResult.Verdict == guards.VerdictBlock {
		mode = modeObserveOnly
		if c.Notifier != nil {
			c.Notifier.Warn(ctx, "entry guard blocked this cycle: "+guardResult.Reason)
		}
	}

	var rejections, proposals []models.Bead
	if mode == modeNormal {
		rejections, proposals = c.runEntryPipeline(ctx, &state, snapshot, candidates, dataCompleteness, guardResult.SizingMultiplier, started, funnel)
	}
	funnel["proposals_emitted"] = len(proposals)
	funnel["rejections_emitted"] = len(rejections)

	return c.finish(ctx, cycleID, started, mode, &state, funnel, sourceFailures, log)
}

// budgetRemainder caps d to whatever remains on ctx's deadline, falling
// back to d when ctx carries no deadline.
func budgetRemainder(ctx context.Context, d time.Duration) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return d
	}
	remaining := time.Until(deadline)
	if remaining < d {
		return remaining
	}
	return d
}

// runEntryPipeline implements spec.md §4.5 step 7: warden, red flags,
// scoring, optional reasoner upgrade, per candidate, then step 8's bead
// emission. It is only called in normal mode.
func (c *Cycle) runEntryPipeline(
	ctx context.Context,
	state *models.State,
	snapshot feeds.OracleSnapshot,
	candidates []feeds.NarrativeCandidate,
	dataCompleteness float64,
	sizingMultiplier float64,
	now time.Time,
	funnel map[string]int,
) (rejections, proposals []models.Bead) {
	mints := candidateMints(snapshot, candidates)
	if len(mints) == 0 {
		return nil, nil
	}

	narrativeByMint := make(map[string]feeds.NarrativeCandidate, len(candidates))
	for _, cand := range candidates {
		narrativeByMint[cand.TokenMint] = cand
	}

	metas, metaErrs := feeds.FetchAll(ctx, mints, c.Config.MaxConcurrentFetches, func(ctx context.Context, mint string) (feeds.TokenMetadata, error) {
		return c.Metadata.FetchMetadata(ctx, mint)
	})

	edgeBankAccum := loadEdgeBank(ctx, c.Chain, models.PlayAccumulation)
	edgeBankGraduation := loadEdgeBank(ctx, c.Chain, models.PlayGraduation)

	for i, mint := range mints {
		funnel["candidates_scored"]++

		input := buildBaseSignalInput(mint, snapshot, narrativeByMint, dataCompleteness, *state, now)
		playType := scoring.DetectPlayType(input)

		wardenCfg := c.Config.RugWarden
		if playType == models.PlayGraduation {
			wardenCfg = c.Config.RugWardenGraduation
		}
		var preFetchedLiquidity *float64
		if p, ok := snapshot.PulseSignals[mint]; ok && p.LiquidityUSD > 0 {
			preFetchedLiquidity = &p.LiquidityUSD
		}
		wardenData := toWardenProviderData(metas[i], metaErrs[i], preFetchedLiquidity)
		wardenVerdict, _ := warden.Evaluate(wardenData, playType, wardenCfg)
		input.WardenVerdict = wardenVerdict

		edgeBank := edgeBankAccum
		if playType == models.PlayGraduation {
			edgeBank = edgeBankGraduation
		}
		input.AutopsyMatchPct = edgeBank.matchPct
		input.AutopsyBeadCount = edgeBank.beadCount

		score := scoring.Score(input, c.Config.Conviction)
		score.PositionSizeSOL *= sizingMultiplier
		score = applyReasonerUpgrade(ctx, c.Reasoner, input, score, wardenVerdict)

		factBead, err := c.Chain.Write(ctx, models.Bead{
			BeadType:                models.BeadFact,
			TemporalClass:           models.TemporalObservation,
			WorldTimeValidFrom:      &now,
			WorldTimeValidTo:        &now,
			KnowledgeTimeRecordedAt: now,
			Content:                 models.FactContent{Source: "oracle+narrative+metadata", Payload: map[string]any{"signal_input": input}},
			TokenMint:               mint,
		})
		if err != nil {
			if c.Log != nil {
				c.Log.Warn("fact bead write failed", zap.String("token_mint", mint), zap.Error(err))
			}
			continue
		}

		signalBead, err := c.Chain.Write(ctx, models.Bead{
			BeadType:      models.BeadSignal,
			TemporalClass: models.TemporalDerived,
			Lineage:       []string{factBead.BeadID},
			Content:       models.SignalContent{TokenMint: mint, PlayType: playType, Score: score},
			TokenMint:     mint,
		})
		if err != nil {
			if c.Log != nil {
				c.Log.Warn("signal bead write failed", zap.String("token_mint", mint), zap.Error(err))
			}
			continue
		}

		switch score.Recommendation {
		case models.RecAutoExecute, models.RecWatchlist, models.RecPaperTrade:
			funnel["proposal_"+string(score.Recommendation)]++
			bead, err := c.Chain.Write(ctx, models.Bead{
				BeadType:      models.BeadProposal,
				TemporalClass: models.TemporalDerived,
				Lineage:       []string{signalBead.BeadID},
				Content: models.ProposalContent{
					TokenMint:       mint,
					Recommendation:  string(score.Recommendation),
					PositionSizeSOL: score.PositionSizeSOL,
					Reasoning:       score.Reasoning,
				},
				TokenMint: mint,
			})
			if err == nil {
				proposals = append(proposals, bead)
				if score.Recommendation == models.RecAutoExecute && !c.DryRun {
					state.DailyExposureSOL += score.PositionSizeSOL
					if playType == models.PlayGraduation {
						state.DailyGraduationCount++
					}
				}
			}
		default:
			category := models.RejectionLowScore
			if score.Recommendation == models.RecVeto {
				category = models.RejectionVeto
			}
			bead, err := c.Chain.Write(ctx, models.Bead{
				BeadType:      models.BeadProposalRejected,
				TemporalClass: models.TemporalDerived,
				Lineage:       []string{signalBead.BeadID},
				Content: models.ProposalRejectedContent{
					TokenMint: mint,
					Category:  category,
					Reasoning: score.Reasoning,
				},
				TokenMint: mint,
			})
			if err == nil {
				rejections = append(rejections, bead)
			}
		}
	}
	return rejections, proposals
}

// finish implements step 9: persist state atomically, then emit one
// HEARTBEAT bead carrying this cycle's diagnostics.
func (c *Cycle) finish(
	ctx context.Context,
	cycleID string,
	started time.Time,
	mode string,
	state *models.State,
	funnel map[string]int,
	sourceFailures []string,
	log *zap.Logger,
) (Result, error) {
	if err := c.State.Write(*state); err != nil {
		if c.Notifier != nil {
			c.Notifier.Critical(ctx, "state persist failed: "+err.Error())
		}
		return Result{}, fmt.Errorf("orchestrator: persist state: %w", err)
	}

	oracleFailed, narrativeFailed := false, false
	for _, s := range sourceFailures {
		switch s {
		case "oracle":
			oracleFailed = true
		case "narrative":
			narrativeFailed = true
		}
	}
	dataCompleteness := 1.0
	switch {
	case oracleFailed && narrativeFailed:
		dataCompleteness = 0.0
	case oracleFailed:
		dataCompleteness = 0.7
	case narrativeFailed:
		dataCompleteness = 0.8
	}

	content := models.HeartbeatContent{
		CycleID:             cycleID,
		StartedAt:           started.Unix(),
		DurationMs:          time.Since(started).Milliseconds(),
		Mode:                mode,
		CandidatesScored:    funnel["candidates_scored"],
		ProposalsEmitted:    funnel["proposals_emitted"],
		RejectionsEmitted:   funnel["rejections_emitted"],
		ExitsEmitted:        funnel["exits_emitted"],
		SourceFailures:      sourceFailures,
		DataCompleteness:    dataCompleteness,
		StateHash:           stateHashOf(*state),
		FunnelDiagnostics:   funnel,
		PreviousHeartbeatID: state.LastHeartbeatID,
	}

	lineage := []string{}
	if state.LastHeartbeatID != "" {
		lineage = []string{state.LastHeartbeatID}
	}
	bead, err := c.Chain.Write(ctx, models.Bead{
		BeadType:      models.BeadHeartbeat,
		TemporalClass: models.TemporalDerived,
		Lineage:       lineage,
		Content:       content,
	})
	if err != nil {
		if log != nil {
			log.Error("heartbeat bead write failed", zap.Error(err))
		}
		return Result{Heartbeat: content}, nil
	}

	state.LastHeartbeatID = bead.BeadID
	state.LastHeartbeatAt = started
	_ = c.State.Write(*state)

	return Result{Heartbeat: content, HeartbeatBead: bead}, nil
}
