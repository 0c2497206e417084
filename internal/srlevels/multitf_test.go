package srlevels

import (
	"testing"

	"github.com/stretchr/testify/require"

	"BreakoutRadar/internal/model"
)

func zone(level float64, strength int, tf model.Timeframe, zt model.ZoneType) model.SRZone {
	return model.SRZone{
		Level: level, Min: level * 0.995, Max: level * 1.005,
		Strength: strength, Timeframe: tf, Type: zt,
	}
}

func TestFindConfluences_RequiresTwoTimeframes(t *testing.T) {
	a, err := NewAnalyzer(DefaultAnalyzerConfig())
	require.NoError(t, err)

	// Two daily resistances close together: same timeframe, no confluence.
	levels := []model.TimeframeLevels{
		{Timeframe: model.TimeframeDaily, Resistance: []model.SRZone{
			zone(100, 3, model.TimeframeDaily, model.ZoneResistance),
			zone(101, 3, model.TimeframeDaily, model.ZoneResistance),
		}},
	}
	require.Empty(t, a.FindConfluences(levels))

	// Move one zone to the weekly timeframe and it qualifies.
	levels = []model.TimeframeLevels{
		{Timeframe: model.TimeframeWeekly, Resistance: []model.SRZone{
			zone(100, 2, model.TimeframeWeekly, model.ZoneResistance),
		}},
		{Timeframe: model.TimeframeDaily, Resistance: []model.SRZone{
			zone(101, 3, model.TimeframeDaily, model.ZoneResistance),
		}},
	}
	out := a.FindConfluences(levels)
	require.Len(t, out, 1)
	require.Equal(t, model.ZoneResistance, out[0].Type)
	require.Len(t, out[0].Timeframes, 2)
	require.Equal(t, 5, out[0].Strength)
	require.InDelta(t, 100.5, out[0].Level, 1e-9)
}

func TestFindConfluences_ToleranceBoundary(t *testing.T) {
	a, err := NewAnalyzer(DefaultAnalyzerConfig())
	require.NoError(t, err)

	// 100 and 104 are 4% apart, beyond the 3% confluence tolerance.
	levels := []model.TimeframeLevels{
		{Timeframe: model.TimeframeWeekly, Support: []model.SRZone{
			zone(100, 2, model.TimeframeWeekly, model.ZoneSupport),
		}},
		{Timeframe: model.TimeframeDaily, Support: []model.SRZone{
			zone(104, 3, model.TimeframeDaily, model.ZoneSupport),
		}},
	}
	require.Empty(t, a.FindConfluences(levels))
}

func TestFindConfluences_Ordering(t *testing.T) {
	a, err := NewAnalyzer(DefaultAnalyzerConfig())
	require.NoError(t, err)

	levels := []model.TimeframeLevels{
		{Timeframe: model.TimeframeWeekly,
			Support:    []model.SRZone{zone(50, 2, model.TimeframeWeekly, model.ZoneSupport)},
			Resistance: []model.SRZone{zone(100, 2, model.TimeframeWeekly, model.ZoneResistance)},
		},
		{Timeframe: model.TimeframeDaily,
			Support:    []model.SRZone{zone(50.5, 3, model.TimeframeDaily, model.ZoneSupport)},
			Resistance: []model.SRZone{zone(100.5, 3, model.TimeframeDaily, model.ZoneResistance)},
		},
		{Timeframe: model.TimeframeHourly,
			Resistance: []model.SRZone{zone(101, 2, model.TimeframeHourly, model.ZoneResistance)},
		},
	}
	out := a.FindConfluences(levels)
	require.Len(t, out, 2)
	// The three-timeframe resistance group outranks the two-timeframe support.
	require.Equal(t, model.ZoneResistance, out[0].Type)
	require.Len(t, out[0].Timeframes, 3)
	require.Equal(t, model.ZoneSupport, out[1].Type)
}

func TestAnalyze_SkipsMissingSeries(t *testing.T) {
	a, err := NewAnalyzer(DefaultAnalyzerConfig())
	require.NoError(t, err)

	highs := []float64{100, 100, 100, 100, 100, 150, 100, 100, 100, 100, 100}
	lows := make([]float64, len(highs))
	for i := range lows {
		lows[i] = 90 - float64(i%3)
	}
	daily := &model.PriceSeries{
		Symbol: "TEST", Timeframe: model.TimeframeDaily,
		Bars: barsFromHL(highs, lows),
	}
	out, err := a.Analyze(map[model.Timeframe]*model.PriceSeries{
		model.TimeframeDaily: daily,
		// weekly and hourly absent
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, model.TimeframeDaily, out[0].Timeframe)
}

func TestNewAnalyzer_RejectsBadConfig(t *testing.T) {
	cfg := DefaultAnalyzerConfig()
	cfg.ZoneTolerance = -1
	_, err := NewAnalyzer(cfg)
	require.Error(t, err)

	var cerr *model.ConfigurationError
	require.ErrorAs(t, err, &cerr)
}
