package provider

import (
	"context"
	"fmt"
	"time"

	"BreakoutRadar/internal/model"
)

// Preloaded serves bars from memory. The backtest harness fetches each
// instrument's history once, then evaluates many dates against this provider
// without touching the network again.
type Preloaded struct {
	series map[string]map[model.Timeframe][]model.PriceBar
}

// NewPreloaded creates an empty in-memory provider.
func NewPreloaded() *Preloaded {
	return &Preloaded{series: make(map[string]map[model.Timeframe][]model.PriceBar)}
}

// Put stores a series, replacing any previous bars for (symbol, timeframe).
func (p *Preloaded) Put(symbol string, tf model.Timeframe, bars []model.PriceBar) {
	byTF, ok := p.series[symbol]
	if !ok {
		byTF = make(map[model.Timeframe][]model.PriceBar)
		p.series[symbol] = byTF
	}
	byTF[tf] = bars
}

func (p *Preloaded) Name() string { return "preloaded" }

// Bars returns the stored series trimmed to [start, end].
func (p *Preloaded) Bars(_ context.Context, symbol string, tf model.Timeframe, start, end time.Time) ([]model.PriceBar, error) {
	byTF, ok := p.series[symbol]
	if !ok {
		return nil, fmt.Errorf("preloaded: no series for %s", symbol)
	}
	bars, ok := byTF[tf]
	if !ok {
		return nil, fmt.Errorf("preloaded: no %s series for %s", tf, symbol)
	}
	return trimRange(bars, start, end), nil
}
