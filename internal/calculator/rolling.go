package calculator

import (
	"errors"
	"math"

	"BreakoutRadar/internal/model"
)

// RollingMaxHigh returns the highest high of the `period` bars preceding the
// last bar (the current bar itself is excluded).
func RollingMaxHigh(bars []model.PriceBar, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return 0, model.NewDataError("rolling max high", errors.New("not enough data"))
	}
	high := math.Inf(-1)
	for i := len(bars) - period - 1; i < len(bars)-1; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
	}
	return high, nil
}

// AverageVolume returns the mean volume of the `period` bars preceding the
// last bar (the current bar itself is excluded).
func AverageVolume(bars []model.PriceBar, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return 0, model.NewDataError("average volume", errors.New("not enough data"))
	}
	var sum float64
	for i := len(bars) - period - 1; i < len(bars)-1; i++ {
		sum += bars[i].Volume
	}
	return sum / float64(period), nil
}

// RecentSwingLow returns the lowest low of the most recent `period` bars.
func RecentSwingLow(bars []model.PriceBar, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period {
		return 0, model.NewDataError("recent swing low", errors.New("not enough data"))
	}
	low := math.Inf(1)
	for i := len(bars) - period; i < len(bars); i++ {
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return low, nil
}

// HigherHighsAndLows reports whether the last `lookback` bars show both a
// higher-high and a higher-low structure versus the preceding `lookback` bars.
func HigherHighsAndLows(bars []model.PriceBar, lookback int) (bool, error) {
	if lookback <= 0 {
		return false, errors.New("lookback must be positive")
	}
	if len(bars) < 2*lookback {
		return false, model.NewDataError("higher highs and lows", errors.New("not enough data"))
	}
	recent := bars[len(bars)-lookback:]
	prior := bars[len(bars)-2*lookback : len(bars)-lookback]

	maxHigh := func(bs []model.PriceBar) float64 {
		m := math.Inf(-1)
		for _, b := range bs {
			if b.High > m {
				m = b.High
			}
		}
		return m
	}
	minLow := func(bs []model.PriceBar) float64 {
		m := math.Inf(1)
		for _, b := range bs {
			if b.Low < m {
				m = b.Low
			}
		}
		return m
	}
	return maxHigh(recent) > maxHigh(prior) && minLow(recent) > minLow(prior), nil
}
