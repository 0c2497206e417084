package provider

import (
	"context"
	"time"

	"BreakoutRadar/internal/model"
)

// HistoricalProvider is a date-bounded view over another provider. The signal
// generator wraps its source with one per evaluation so it only ever sees bars
// up to the evaluation date, instead of swapping data sources at runtime.
type HistoricalProvider struct {
	inner PriceSeriesProvider
	asOf  time.Time
}

// NewHistoricalProvider wraps inner so no bar after asOf is visible.
func NewHistoricalProvider(inner PriceSeriesProvider, asOf time.Time) *HistoricalProvider {
	return &HistoricalProvider{inner: inner, asOf: asOf}
}

func (h *HistoricalProvider) Name() string { return h.inner.Name() + "-historical" }

// AsOf returns the cutoff date.
func (h *HistoricalProvider) AsOf() time.Time { return h.asOf }

// Bars delegates to the inner provider with the end clamped to the cutoff.
func (h *HistoricalProvider) Bars(ctx context.Context, symbol string, tf model.Timeframe, start, end time.Time) ([]model.PriceBar, error) {
	if end.After(h.asOf) {
		end = h.asOf
	}
	bars, err := h.inner.Bars(ctx, symbol, tf, start, end)
	if err != nil {
		return nil, err
	}
	// Inner providers are not required to honor the range exactly.
	out := bars[:0:0]
	for _, b := range bars {
		if b.Time.After(h.asOf) {
			break
		}
		out = append(out, b)
	}
	return out, nil
}
