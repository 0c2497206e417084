package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"BreakoutRadar/internal/cache"
	"BreakoutRadar/internal/model"
	"BreakoutRadar/internal/provider"
	"BreakoutRadar/internal/recorder"
	"BreakoutRadar/internal/signal"
	"BreakoutRadar/internal/srlevels"
)

// Config holds the walk-forward simulation parameters.
type Config struct {
	InitialCapital  float64   `yaml:"initial_capital"`
	RiskPct         float64   `yaml:"risk_pct"`          // fraction of capital risked per trade
	MaxPositionPct  float64   `yaml:"max_position_pct"`  // position value cap as fraction of capital
	MaxHoldingBars  int       `yaml:"max_holding_bars"`  // time exit horizon
	Stride          int       `yaml:"stride"`            // bars between evaluations while scanning
	CheckpointEvery int       `yaml:"checkpoint_every"`  // instruments between checkpoints
	WarmupBars      int       `yaml:"warmup_bars"`       // bars skipped before the first evaluation
	Start           time.Time `yaml:"start"`
	End             time.Time `yaml:"end"`
}

// DefaultConfig returns the standard simulation parameters.
func DefaultConfig() Config {
	return Config{
		InitialCapital:  100000,
		RiskPct:         0.02,
		MaxPositionPct:  0.10,
		MaxHoldingBars:  30,
		Stride:          5,
		CheckpointEvery: 5,
		WarmupBars:      60,
	}
}

// Validate fails fast on parameters the simulation cannot run with.
func (c Config) Validate() error {
	if c.InitialCapital <= 0 {
		return model.NewConfigurationError("initial_capital", "must be positive")
	}
	if c.RiskPct <= 0 || c.RiskPct >= 1 {
		return model.NewConfigurationError("risk_pct", "must be within (0,1)")
	}
	if c.MaxPositionPct <= 0 || c.MaxPositionPct > 1 {
		return model.NewConfigurationError("max_position_pct", "must be within (0,1]")
	}
	if c.MaxHoldingBars <= 0 {
		return model.NewConfigurationError("max_holding_bars", "must be positive")
	}
	if c.Stride <= 0 {
		return model.NewConfigurationError("stride", "must be positive")
	}
	if c.CheckpointEvery <= 0 {
		return model.NewConfigurationError("checkpoint_every", "must be positive")
	}
	if !c.End.IsZero() && !c.Start.IsZero() && !c.End.After(c.Start) {
		return model.NewConfigurationError("end", "must be after start")
	}
	return nil
}

// Simulator replays history instrument by instrument, invoking the signal
// pipeline at a fixed stride and simulating the resulting trades against a
// shared capital ledger. Instruments are processed sequentially: capital
// evolution is ordered, which is also what makes an interrupted-and-resumed
// run reproduce a single pass exactly.
type Simulator struct {
	base        provider.PriceSeriesProvider
	benchmark   string
	store       CheckpointStore
	rec         recorder.Recorder
	analyzerCfg srlevels.AnalyzerConfig
	signalCfg   signal.Config
	cfg         Config
	log         zerolog.Logger
}

// NewSimulator validates the configuration and wires the dependencies.
func NewSimulator(base provider.PriceSeriesProvider, benchmarkSymbol string, store CheckpointStore, rec recorder.Recorder, analyzerCfg srlevels.AnalyzerConfig, signalCfg signal.Config, cfg Config, log zerolog.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Simulator{
		base:        base,
		benchmark:   benchmarkSymbol,
		store:       store,
		rec:         rec,
		analyzerCfg: analyzerCfg,
		signalCfg:   signalCfg,
		cfg:         cfg,
		log:         log.With().Str("component", "backtest").Logger(),
	}, nil
}

// Run executes (or resumes) the walk-forward simulation over the instrument
// list. A per-instrument failure increments the error counter and processing
// continues; cancellation is honored between instruments.
func (s *Simulator) Run(ctx context.Context, runID string, symbols []string) (*model.BacktestState, error) {
	if runID == "" {
		runID = uuid.NewString()
	}

	state := &model.BacktestState{
		RunID:         runID,
		LastProcessed: -1,
		Capital:       s.cfg.InitialCapital,
	}
	if s.store != nil {
		if prev, ok, err := s.store.Load(runID); err != nil {
			return nil, fmt.Errorf("load checkpoint: %w", err)
		} else if ok {
			state = prev
			s.log.Info().Str("run_id", runID).Int("last_processed", state.LastProcessed).
				Float64("capital", state.Capital).Msg("resuming from checkpoint")
		}
	}

	ledger := NewLedger(s.cfg.InitialCapital)
	ledger.Restore(state.Capital, state.EquityCurve)

	for i := state.LastProcessed + 1; i < len(symbols); i++ {
		if err := ctx.Err(); err != nil {
			// Persist progress before bailing so the run can resume.
			s.checkpoint(state)
			return state, err
		}
		symbol := symbols[i]

		if err := s.processInstrument(ctx, runID, symbol, ledger, state); err != nil {
			state.Errors++
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("instrument failed, continuing")
		}

		state.LastProcessed = i
		state.Capital = ledger.Capital()
		state.EquityCurve = ledger.EquityCurve()
		state.MaxDrawdownPct = ledger.MaxDrawdownPct()

		if (i+1)%s.cfg.CheckpointEvery == 0 {
			s.checkpoint(state)
		}
	}

	s.checkpoint(state)
	if err := s.rec.RecordRun(state); err != nil {
		s.log.Warn().Err(err).Msg("record run failed")
	}
	return state, nil
}

func (s *Simulator) checkpoint(state *model.BacktestState) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(state.RunID, state); err != nil {
		s.log.Error().Err(err).Str("run_id", state.RunID).Msg("checkpoint save failed")
	}
}

// processInstrument walks one instrument's history: SCANNING until a signal
// appears, IN_TRADE until an exit event, then SCANNING again.
func (s *Simulator) processInstrument(ctx context.Context, runID, symbol string, ledger *Ledger, state *model.BacktestState) error {
	pre, daily, err := s.preload(ctx, symbol)
	if err != nil {
		return err
	}

	gen, err := signal.NewGenerator(pre, s.benchmark, s.analyzerCfg, cache.NewTTLCache(64, time.Hour), s.signalCfg, s.log)
	if err != nil {
		return err
	}

	i := s.cfg.WarmupBars
	for i < len(daily) {
		asOf := daily[i].Time

		eval, err := gen.Evaluate(ctx, symbol, asOf)
		if err != nil {
			// Hard error for this date; count it and keep scanning.
			state.Errors++
			s.log.Debug().Err(err).Str("symbol", symbol).Time("as_of", asOf).Msg("evaluation error")
			i += s.cfg.Stride
			continue
		}
		if !eval.Passed() {
			i += s.cfg.Stride
			continue
		}

		sig := eval.Signal
		state.SignalsFound++
		if err := s.rec.RecordSignal(sig); err != nil {
			s.log.Warn().Err(err).Msg("record signal failed")
		}

		qty := PositionSize(ledger.Capital(), sig.Entry, sig.Entry-sig.Stop, s.cfg.RiskPct, s.cfg.MaxPositionPct)
		if qty == 0 {
			i += s.cfg.Stride
			continue
		}

		trade, exitIdx := s.simulateTrade(sig, qty, daily, i)
		ledger.Apply(trade.PnL)
		state.Trades = append(state.Trades, trade)
		if err := s.rec.RecordTrade(runID, &trade); err != nil {
			s.log.Warn().Err(err).Msg("record trade failed")
		}

		// Back to scanning after the exit bar.
		i = exitIdx + 1
	}
	return nil
}

// simulateTrade walks bars after entry and applies the exit rules in priority
// order: stop before target within the same bar, then the time horizon.
func (s *Simulator) simulateTrade(sig *model.Signal, qty int, daily []model.PriceBar, entryIdx int) (model.Trade, int) {
	entryBar := daily[entryIdx]
	trade := model.Trade{
		Symbol:     sig.Symbol,
		EntryDate:  entryBar.Time,
		EntryPrice: sig.Entry,
		Quantity:   qty,
	}

	exitIdx := len(daily) - 1
	exitPrice := daily[exitIdx].Close
	reason := model.ExitTime

	for j := entryIdx + 1; j < len(daily); j++ {
		bar := daily[j]
		held := j - entryIdx
		if bar.Low <= sig.Stop {
			exitIdx, exitPrice, reason = j, sig.Stop, model.ExitStop
			break
		}
		if bar.High >= sig.Target {
			exitIdx, exitPrice, reason = j, sig.Target, model.ExitTarget
			break
		}
		if held >= s.cfg.MaxHoldingBars {
			exitIdx, exitPrice, reason = j, bar.Close, model.ExitTime
			break
		}
	}

	trade.ExitDate = daily[exitIdx].Time
	trade.ExitPrice = exitPrice
	trade.ExitReason = reason
	trade.PnL = (exitPrice - sig.Entry) * float64(qty)
	trade.PnLPct = (exitPrice - sig.Entry) / sig.Entry * 100
	if risk := sig.Entry - sig.Stop; risk > 0 {
		trade.RMultiple = (exitPrice - sig.Entry) / risk
	}
	return trade, exitIdx
}

// preload fetches every timeframe once and returns an in-memory provider plus
// the daily bars restricted to the simulation window.
func (s *Simulator) preload(ctx context.Context, symbol string) (*provider.Preloaded, []model.PriceBar, error) {
	end := s.cfg.End
	if end.IsZero() {
		end = time.Now().UTC()
	}
	start := s.cfg.Start
	if start.IsZero() {
		start = end.AddDate(-2, 0, 0)
	}
	// Extra lookback ahead of the window so early evaluations have history.
	fetchStart := start.AddDate(-1, 0, 0)

	pre := provider.NewPreloaded()
	var daily []model.PriceBar
	for _, tf := range []model.Timeframe{model.TimeframeWeekly, model.TimeframeDaily, model.TimeframeHourly} {
		bars, err := s.base.Bars(ctx, symbol, tf, fetchStart, end)
		if err != nil {
			if tf == model.TimeframeDaily {
				return nil, nil, fmt.Errorf("fetch %s %s: %w", symbol, tf, err)
			}
			continue // optional granularity
		}
		pre.Put(symbol, tf, bars)
		if tf == model.TimeframeDaily {
			for _, b := range bars {
				if !b.Time.Before(start) && !b.Time.After(end) {
					daily = append(daily, b)
				}
			}
		}
	}
	if len(daily) == 0 {
		return nil, nil, fmt.Errorf("no daily bars for %s in window", symbol)
	}

	benchBars, err := s.base.Bars(ctx, s.benchmark, model.TimeframeDaily, fetchStart, end)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch benchmark %s: %w", s.benchmark, err)
	}
	pre.Put(s.benchmark, model.TimeframeDaily, benchBars)

	return pre, daily, nil
}
