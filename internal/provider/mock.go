package provider

import (
	"context"
	"fmt"
	"time"

	"BreakoutRadar/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
type MockProvider struct {
	// Series maps symbol -> timeframe -> bars. Missing entries fall back to
	// generated bars around BasePrice when it is non-zero.
	Series    map[string]map[model.Timeframe][]model.PriceBar
	BasePrice float64
	Err       error
}

func (m *MockProvider) Name() string { return "mock" }

// Bars returns the configured series trimmed to [start, end].
func (m *MockProvider) Bars(_ context.Context, symbol string, tf model.Timeframe, start, end time.Time) ([]model.PriceBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if byTF, ok := m.Series[symbol]; ok {
		if bars, ok := byTF[tf]; ok {
			return trimRange(bars, start, end), nil
		}
	}
	if m.BasePrice > 0 {
		return GenerateBars(m.BasePrice, 120, end, tf), nil
	}
	return nil, fmt.Errorf("mock: no series for %s %s", symbol, tf)
}

func trimRange(bars []model.PriceBar, start, end time.Time) []model.PriceBar {
	var out []model.PriceBar
	for _, b := range bars {
		if b.Time.Before(start) || b.Time.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// GenerateBars produces a mild uptrend ending at `end`, useful for smoke tests.
func GenerateBars(basePrice float64, count int, end time.Time, tf model.Timeframe) []model.PriceBar {
	step := 24 * time.Hour
	switch tf {
	case model.TimeframeWeekly:
		step = 7 * 24 * time.Hour
	case model.TimeframeHourly:
		step = time.Hour
	}
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Time:   end.Add(-time.Duration(count-i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
