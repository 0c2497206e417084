package provider

import (
	"context"
	"fmt"
	"time"

	"BreakoutRadar/internal/model"
)

// PriceSeriesProvider supplies ordered, deduplicated, timestamp-monotonic bars
// for one instrument at one granularity. Malformed data is a hard error that
// propagates to the caller.
type PriceSeriesProvider interface {
	Bars(ctx context.Context, symbol string, tf model.Timeframe, start, end time.Time) ([]model.PriceBar, error)
	Name() string
}

// ValidateBars enforces the provider contract: bars must be strictly
// ascending by timestamp with positive prices and a coherent high/low range.
func ValidateBars(bars []model.PriceBar) error {
	var prev time.Time
	for i, b := range bars {
		if i > 0 && !b.Time.After(prev) {
			return fmt.Errorf("bar %d: timestamp %s not after %s", i, b.Time, prev)
		}
		if b.High < b.Low {
			return fmt.Errorf("bar %d: high %.4f below low %.4f", i, b.High, b.Low)
		}
		if b.Close <= 0 || b.Open <= 0 {
			return fmt.Errorf("bar %d: non-positive price", i)
		}
		prev = b.Time
	}
	return nil
}
