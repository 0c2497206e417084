package calculator

import (
	"errors"
	"math"

	"BreakoutRadar/internal/model"
)

// TrueRange returns the true range of bar relative to the previous close.
func TrueRange(bar model.PriceBar, prevClose float64) float64 {
	hl := bar.High - bar.Low
	hc := math.Abs(bar.High - prevClose)
	lc := math.Abs(bar.Low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}

// ATR computes the Wilder-smoothed Average True Range over the given period.
// Requires at least period+1 bars.
func ATR(bars []model.PriceBar, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return 0, model.NewDataError("atr", errors.New("not enough data"))
	}

	// Seed with the average of the first `period` true ranges.
	var sum float64
	for i := 1; i <= period; i++ {
		sum += TrueRange(bars[i], bars[i-1].Close)
	}
	atr := sum / float64(period)

	for i := period + 1; i < len(bars); i++ {
		tr := TrueRange(bars[i], bars[i-1].Close)
		atr = (atr*float64(period-1) + tr) / float64(period)
	}
	return atr, nil
}
