package signal

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"BreakoutRadar/internal/cache"
	"BreakoutRadar/internal/calculator"
	"BreakoutRadar/internal/model"
	"BreakoutRadar/internal/provider"
	"BreakoutRadar/internal/srlevels"
)

// Config holds the gate thresholds and level parameters.
type Config struct {
	MinBeta           float64 `yaml:"min_beta"`
	MinADX            float64 `yaml:"min_adx"`
	MinMacroScore     float64 `yaml:"min_macro_score"`
	MinQualityScore   float64 `yaml:"min_quality_score"`
	MinConfluenceHits int     `yaml:"min_confluence_hits"`
	VolumeMultiplier  float64 `yaml:"volume_multiplier"`
	BetaLookback      int     `yaml:"beta_lookback"`
	RSWindow          int     `yaml:"rs_window"`
	ATRPeriod         int     `yaml:"atr_period"`
	ADXPeriod         int     `yaml:"adx_period"`
	BreakoutLookback  int     `yaml:"breakout_lookback"`
	TargetRMultiple   float64 `yaml:"target_r_multiple"`
	LookbackBars      int     `yaml:"lookback_bars"`
}

// DefaultConfig returns the standard gate thresholds.
func DefaultConfig() Config {
	return Config{
		MinBeta:           0.9,
		MinADX:            18,
		MinMacroScore:     50,
		MinQualityScore:   50,
		MinConfluenceHits: 2,
		VolumeMultiplier:  1.5,
		BetaLookback:      60,
		RSWindow:          30,
		ATRPeriod:         14,
		ADXPeriod:         14,
		BreakoutLookback:  20,
		TargetRMultiple:   2.5,
		LookbackBars:      300,
	}
}

// Validate fails fast on thresholds no gate could meaningfully apply.
func (c Config) Validate() error {
	if c.MinBeta < 0 {
		return model.NewConfigurationError("min_beta", "must not be negative")
	}
	if c.MinADX < 0 || c.MinADX > 100 {
		return model.NewConfigurationError("min_adx", "must be within [0,100]")
	}
	if c.MinQualityScore < 0 {
		return model.NewConfigurationError("min_quality_score", "must not be negative")
	}
	if c.MinConfluenceHits < 0 || c.MinConfluenceHits > 7 {
		return model.NewConfigurationError("min_confluence_hits", "must be within [0,7]")
	}
	if c.VolumeMultiplier <= 0 {
		return model.NewConfigurationError("volume_multiplier", "must be positive")
	}
	if c.ATRPeriod <= 0 || c.ADXPeriod <= 0 || c.BreakoutLookback <= 0 {
		return model.NewConfigurationError("periods", "must be positive")
	}
	if c.TargetRMultiple <= 0 {
		return model.NewConfigurationError("target_r_multiple", "must be positive")
	}
	return nil
}

// Generator decides pass/fail for one instrument on one evaluation date
// through sequential, short-circuiting gates, and computes entry/stop/target
// when every gate passes.
type Generator struct {
	provider  provider.PriceSeriesProvider
	benchmark string
	analyzer  *srlevels.Analyzer
	cache     cache.Cache
	cfg       Config
	log       zerolog.Logger
}

// NewGenerator validates the configuration and wires the dependencies.
// The cache may be nil, in which case beta/RS are recomputed per evaluation.
func NewGenerator(p provider.PriceSeriesProvider, benchmarkSymbol string, analyzerCfg srlevels.AnalyzerConfig, c cache.Cache, cfg Config, log zerolog.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	analyzer, err := srlevels.NewAnalyzer(analyzerCfg)
	if err != nil {
		return nil, err
	}
	return &Generator{
		provider:  p,
		benchmark: benchmarkSymbol,
		analyzer:  analyzer,
		cache:     c,
		cfg:       cfg,
		log:       log.With().Str("component", "signal").Logger(),
	}, nil
}

// Evaluate runs the full gate pipeline for symbol as of asOf. Gate failures
// come back as a Rejection inside the Evaluation; only provider-boundary
// problems surface as errors.
func (g *Generator) Evaluate(ctx context.Context, symbol string, asOf time.Time) (*Evaluation, error) {
	// Clamp the data source to the evaluation date so bars after asOf are
	// unreachable no matter what the underlying provider returns.
	src := provider.NewHistoricalProvider(g.provider, asOf)

	series, err := g.fetchSeries(ctx, src, symbol, asOf)
	if err != nil {
		return nil, err
	}
	daily := series[model.TimeframeDaily]
	weekly := series[model.TimeframeWeekly]
	if daily == nil || daily.Len() == 0 {
		return nil, fmt.Errorf("no daily series for %s", symbol)
	}
	current, _ := daily.Last()

	benchDaily, err := src.Bars(ctx, g.benchmark, model.TimeframeDaily, lookbackStart(asOf, g.cfg.LookbackBars), asOf)
	if err != nil {
		return nil, fmt.Errorf("benchmark series: %w", err)
	}

	// Gate 1: volatility (beta vs benchmark).
	beta := g.betaOrNeutral(symbol, asOf, daily.Bars, benchDaily)
	if beta <= g.cfg.MinBeta {
		return rejected(symbol, GateVolatility, fmt.Sprintf("beta %.2f below %.2f", beta, g.cfg.MinBeta))
	}

	// Gate 2: trend strength (ADX on the working timeframe).
	adx, err := calculator.ADX(daily.Bars, g.cfg.ADXPeriod)
	if err != nil {
		if model.IsDataError(err) {
			return rejected(symbol, GateTrend, "insufficient history for ADX")
		}
		return nil, err
	}
	if adx <= g.cfg.MinADX {
		return rejected(symbol, GateTrend, fmt.Sprintf("ADX %.1f below %.1f", adx, g.cfg.MinADX))
	}

	// Gate 3: macro trend on the higher timeframe.
	macroScore, macroOK := g.macroTrend(weekly, current.Close)
	if !macroOK {
		return rejected(symbol, GateMacro, fmt.Sprintf("macro trend score %.0f below %.0f", macroScore, g.cfg.MinMacroScore))
	}

	// Gate 4: breakout on the working timeframe.
	bk, rej := g.breakout(daily.Bars, current)
	if rej != nil {
		return &Evaluation{Symbol: symbol, Rejection: rej}, nil
	}

	// Gate 5: S/R quality against the aggregate multi-timeframe zone set.
	levels, err := g.analyzer.Analyze(series)
	if err != nil {
		return nil, err
	}
	quality := srlevels.ScoreBreakoutQuality(current.Close, srlevels.AllZones(levels))
	if quality.Score < g.cfg.MinQualityScore {
		return rejected(symbol, GateQuality, fmt.Sprintf("quality %.0f below %.0f", quality.Score, g.cfg.MinQualityScore))
	}

	// Gate 6: confluence tally.
	confluences := g.analyzer.FindConfluences(levels)
	rs, rsImproving := g.relStrength(symbol, asOf, daily.Bars, benchDaily)
	hits := 0
	for _, ok := range []bool{
		macroOK,
		true, // breakout confirmed by gate 4
		true, // volume confirmed by gate 4
		len(confluences) > 0,
		rs > 1.0,
		rsImproving,
		adx > 25,
	} {
		if ok {
			hits++
		}
	}
	if hits < g.cfg.MinConfluenceHits {
		return rejected(symbol, GateConfluence, fmt.Sprintf("%d confluence factors, need %d", hits, g.cfg.MinConfluenceHits))
	}

	sig, rej := g.computeLevels(symbol, current, daily.Bars, bk, quality, confluences)
	if rej != nil {
		return &Evaluation{Symbol: symbol, Rejection: rej}, nil
	}
	sig.StrengthScore = strengthScore(macroScore, bk.volumeRatio, adx)
	sig.QualityScore = quality.Score

	g.log.Debug().Str("symbol", symbol).Float64("entry", sig.Entry).
		Float64("stop", sig.Stop).Float64("target", sig.Target).
		Float64("strength", sig.StrengthScore).Msg("signal generated")

	return &Evaluation{Symbol: symbol, Signal: sig}, nil
}

func (g *Generator) fetchSeries(ctx context.Context, src provider.PriceSeriesProvider, symbol string, asOf time.Time) (map[model.Timeframe]*model.PriceSeries, error) {
	out := make(map[model.Timeframe]*model.PriceSeries)
	for _, tf := range []model.Timeframe{model.TimeframeWeekly, model.TimeframeDaily, model.TimeframeHourly} {
		bars, err := src.Bars(ctx, symbol, tf, lookbackStart(asOf, g.cfg.LookbackBars), asOf)
		if err != nil {
			if tf == model.TimeframeDaily {
				return nil, fmt.Errorf("fetch %s %s: %w", symbol, tf, err)
			}
			// Higher/lower granularity series are optional; they just
			// contribute no zones.
			g.log.Debug().Err(err).Str("symbol", symbol).Str("timeframe", string(tf)).Msg("optional series unavailable")
			continue
		}
		out[tf] = &model.PriceSeries{Symbol: symbol, Timeframe: tf, Bars: bars}
	}
	return out, nil
}

// betaOrNeutral memoizes beta per (symbol, date) and substitutes the neutral
// 1.0 on computation failure.
func (g *Generator) betaOrNeutral(symbol string, asOf time.Time, inst, bench []model.PriceBar) float64 {
	key := fmt.Sprintf("beta:%s:%s", symbol, asOf.Format("2006-01-02"))
	if g.cache != nil {
		if v, ok := g.cache.Get(key); ok {
			return v
		}
	}
	beta, err := calculator.Beta(inst, bench, g.cfg.BetaLookback)
	if err != nil {
		g.log.Debug().Err(err).Str("symbol", symbol).Msg("beta unavailable, using neutral 1.0")
		beta = 1.0
	}
	if g.cache != nil {
		g.cache.Put(key, beta)
	}
	return beta
}

func (g *Generator) relStrength(symbol string, asOf time.Time, inst, bench []model.PriceBar) (float64, bool) {
	key := fmt.Sprintf("rs:%s:%s", symbol, asOf.Format("2006-01-02"))
	var rs float64
	cached := false
	if g.cache != nil {
		if v, ok := g.cache.Get(key); ok {
			rs = v
			cached = true
		}
	}
	if !cached {
		v, err := calculator.RelativeStrength(inst, bench, g.cfg.RSWindow)
		if err != nil {
			return 1.0, false // neutral: no edge either way
		}
		rs = v
		if g.cache != nil {
			g.cache.Put(key, rs)
		}
	}
	improving, err := calculator.RelativeStrengthImproving(inst, bench, g.cfg.RSWindow)
	if err != nil {
		improving = false
	}
	return rs, improving
}

// macroTrend scores the higher timeframe: 0/50/75/100 from the ordering of
// price vs EMA20 vs EMA50, plus 15 when the last 8 periods show both higher
// highs and higher lows. Passing requires price above EMA20 and score at or
// above the configured minimum.
func (g *Generator) macroTrend(weekly *model.PriceSeries, price float64) (float64, bool) {
	if weekly == nil || weekly.Len() == 0 {
		return 0, false
	}
	closes := weekly.Closes()
	ema20, err20 := calculator.EMA(closes, 20)
	if err20 != nil {
		return 0, false
	}
	ema50, err50 := calculator.EMA(closes, 50)

	var score float64
	switch {
	case err50 == nil && price > ema20 && ema20 > ema50:
		score = 100
	case err50 == nil && price > ema20 && price > ema50:
		score = 75
	case price > ema20:
		score = 50
	default:
		score = 0
	}
	if hh, err := calculator.HigherHighsAndLows(weekly.Bars, 8); err == nil && hh {
		score += 15
	}
	return score, price > ema20 && score >= g.cfg.MinMacroScore
}

type breakoutContext struct {
	priorResistance float64
	atr             float64
	volumeRatio     float64
}

// breakout checks the three working-timeframe conditions: a new 20-period
// high, a volume surge, and a not-overextended move above prior resistance.
func (g *Generator) breakout(bars []model.PriceBar, current model.PriceBar) (breakoutContext, *Rejection) {
	var bk breakoutContext

	prior, err := calculator.RollingMaxHigh(bars, g.cfg.BreakoutLookback)
	if err != nil {
		return bk, &Rejection{Gate: GateBreakout, Reason: "insufficient history for rolling high"}
	}
	if current.High <= prior {
		return bk, &Rejection{Gate: GateBreakout, Reason: fmt.Sprintf("high %.2f has not cleared prior %d-bar high %.2f", current.High, g.cfg.BreakoutLookback, prior)}
	}

	avgVol, err := calculator.AverageVolume(bars, g.cfg.BreakoutLookback)
	if err != nil || avgVol == 0 {
		return bk, &Rejection{Gate: GateBreakout, Reason: "insufficient history for average volume"}
	}
	ratio := current.Volume / avgVol
	if ratio <= g.cfg.VolumeMultiplier {
		return bk, &Rejection{Gate: GateBreakout, Reason: fmt.Sprintf("volume %.2fx average, need %.2fx", ratio, g.cfg.VolumeMultiplier)}
	}

	atr, err := calculator.ATR(bars, g.cfg.ATRPeriod)
	if err != nil {
		return bk, &Rejection{Gate: GateBreakout, Reason: "insufficient history for ATR"}
	}
	if atr > 0 && current.Close-prior >= 3*atr {
		return bk, &Rejection{Gate: GateBreakout, Reason: fmt.Sprintf("extension %.2f exceeds 3xATR %.2f", current.Close-prior, 3*atr)}
	}

	bk.priorResistance = prior
	bk.atr = atr
	bk.volumeRatio = ratio
	return bk, nil
}

// strengthScore blends the macro trend score, breakout volume strength, and
// normalized ADX with 0.3/0.3/0.4 weights.
func strengthScore(macroScore, volumeRatio, adx float64) float64 {
	macro := math.Min(macroScore, 100)
	volume := math.Min(volumeRatio/3.0*100, 100) // 3x average volume saturates
	trend := math.Min(adx/50.0*100, 100)         // ADX 50 saturates
	return 0.3*macro + 0.3*volume + 0.4*trend
}

func lookbackStart(asOf time.Time, bars int) time.Time {
	// Calendar-day padding so weekends and holidays still leave enough bars.
	return asOf.AddDate(0, 0, -(bars*7)/4)
}
