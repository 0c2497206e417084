package srlevels

import (
	"sort"

	"BreakoutRadar/internal/model"
)

// DefaultConfluenceTolerance is the relative distance within which zones from
// different timeframes count as aligned. Deliberately independent of the
// zone-cluster tolerance.
const DefaultConfluenceTolerance = 0.03

// DefaultMinStrength returns the per-timeframe minimum touch count used to
// discard noise zones.
func DefaultMinStrength() map[model.Timeframe]int {
	return map[model.Timeframe]int{
		model.TimeframeWeekly: 2,
		model.TimeframeDaily:  3,
		model.TimeframeHourly: 2,
	}
}

// AnalyzerConfig holds the tunables for multi-timeframe S/R analysis.
type AnalyzerConfig struct {
	SwingWindow         int
	ZoneTolerance       float64
	ConfluenceTolerance float64
	MinStrength         map[model.Timeframe]int
}

// DefaultAnalyzerConfig returns the standard analysis configuration.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		SwingWindow:         DefaultSwingWindow,
		ZoneTolerance:       DefaultZoneTolerance,
		ConfluenceTolerance: DefaultConfluenceTolerance,
		MinStrength:         DefaultMinStrength(),
	}
}

// Analyzer runs zone detection across several granularities and finds
// confluent zones spanning at least two timeframes.
type Analyzer struct {
	cfg AnalyzerConfig
}

// NewAnalyzer validates the configuration and returns an Analyzer.
func NewAnalyzer(cfg AnalyzerConfig) (*Analyzer, error) {
	if cfg.SwingWindow <= 0 {
		return nil, model.NewConfigurationError("swing_window", "must be positive")
	}
	if cfg.ZoneTolerance <= 0 {
		return nil, model.NewConfigurationError("zone_tolerance", "must be positive")
	}
	if cfg.ConfluenceTolerance <= 0 {
		return nil, model.NewConfigurationError("confluence_tolerance", "must be positive")
	}
	if cfg.MinStrength == nil {
		cfg.MinStrength = DefaultMinStrength()
	}
	return &Analyzer{cfg: cfg}, nil
}

// Analyze detects support and resistance zones per timeframe. A missing or
// short series simply contributes no zones.
func (a *Analyzer) Analyze(series map[model.Timeframe]*model.PriceSeries) ([]model.TimeframeLevels, error) {
	order := []model.Timeframe{model.TimeframeWeekly, model.TimeframeDaily, model.TimeframeHourly}
	var out []model.TimeframeLevels
	for _, tf := range order {
		s, ok := series[tf]
		if !ok || s == nil || len(s.Bars) == 0 {
			continue
		}
		highs, lows, err := DetectSwingPoints(s.Bars, a.cfg.SwingWindow)
		if err != nil {
			return nil, err
		}
		minStr := a.cfg.MinStrength[tf]
		if minStr == 0 {
			minStr = 2
		}
		resistance, err := ClusterZones(highs, a.cfg.ZoneTolerance, minStr, tf, model.ZoneResistance)
		if err != nil {
			return nil, err
		}
		support, err := ClusterZones(lows, a.cfg.ZoneTolerance, minStr, tf, model.ZoneSupport)
		if err != nil {
			return nil, err
		}
		out = append(out, model.TimeframeLevels{Timeframe: tf, Support: support, Resistance: resistance})
	}
	return out, nil
}

// FindConfluences pools same-type zones across timeframes and groups those
// whose levels lie within the confluence tolerance. A group qualifies only if
// it spans at least two distinct timeframes. Results are ordered by distinct
// timeframe count, then combined strength, both descending.
func (a *Analyzer) FindConfluences(levels []model.TimeframeLevels) []model.Confluence {
	var out []model.Confluence
	out = append(out, a.confluencesOf(levels, model.ZoneSupport)...)
	out = append(out, a.confluencesOf(levels, model.ZoneResistance)...)

	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].Timeframes) != len(out[j].Timeframes) {
			return len(out[i].Timeframes) > len(out[j].Timeframes)
		}
		return out[i].Strength > out[j].Strength
	})
	return out
}

func (a *Analyzer) confluencesOf(levels []model.TimeframeLevels, zt model.ZoneType) []model.Confluence {
	var pool []model.SRZone
	for _, tl := range levels {
		if zt == model.ZoneSupport {
			pool = append(pool, tl.Support...)
		} else {
			pool = append(pool, tl.Resistance...)
		}
	}
	if len(pool) < 2 {
		return nil
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].Level < pool[j].Level })

	var out []model.Confluence
	group := []model.SRZone{pool[0]}

	flush := func() {
		c, ok := buildConfluence(group, zt)
		if ok {
			out = append(out, c)
		}
	}

	for _, z := range pool[1:] {
		last := group[len(group)-1].Level
		if last > 0 && (z.Level-last)/last > a.cfg.ConfluenceTolerance {
			flush()
			group = []model.SRZone{z}
			continue
		}
		group = append(group, z)
	}
	flush()
	return out
}

func buildConfluence(group []model.SRZone, zt model.ZoneType) (model.Confluence, bool) {
	seen := map[model.Timeframe]bool{}
	var tfs []model.Timeframe
	var sum float64
	strength := 0
	for _, z := range group {
		sum += z.Level
		strength += z.Strength
		if !seen[z.Timeframe] {
			seen[z.Timeframe] = true
			tfs = append(tfs, z.Timeframe)
		}
	}
	if len(tfs) < 2 {
		return model.Confluence{}, false
	}
	return model.Confluence{
		Level:      sum / float64(len(group)),
		Type:       zt,
		Timeframes: tfs,
		Strength:   strength,
	}, true
}

// AllZones flattens per-timeframe levels into a single zone list.
func AllZones(levels []model.TimeframeLevels) []model.SRZone {
	var out []model.SRZone
	for _, tl := range levels {
		out = append(out, tl.Support...)
		out = append(out, tl.Resistance...)
	}
	return out
}
