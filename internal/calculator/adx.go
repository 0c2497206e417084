package calculator

import (
	"errors"
	"math"

	"BreakoutRadar/internal/model"
)

// ADX computes the Wilder Average Directional Index over the given period.
// Requires at least 2*period+1 bars: one period to seed the smoothed DM/TR
// averages and another to seed the DX average.
func ADX(bars []model.PriceBar, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < 2*period+1 {
		return 0, model.NewDataError("adx", errors.New("not enough data"))
	}

	n := len(bars)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := make([]float64, n)
	for i := 1; i < n; i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
		tr[i] = TrueRange(bars[i], bars[i-1].Close)
	}

	// Wilder smoothing of the DM and TR streams.
	var smPlus, smMinus, smTR float64
	for i := 1; i <= period; i++ {
		smPlus += plusDM[i]
		smMinus += minusDM[i]
		smTR += tr[i]
	}

	dx := func() float64 {
		if smTR == 0 {
			return 0
		}
		pdi := 100 * smPlus / smTR
		mdi := 100 * smMinus / smTR
		if pdi+mdi == 0 {
			return 0
		}
		return 100 * math.Abs(pdi-mdi) / (pdi + mdi)
	}

	var adx float64
	var dxSum float64
	dxCount := 0
	for i := period + 1; i < n; i++ {
		smPlus = smPlus - smPlus/float64(period) + plusDM[i]
		smMinus = smMinus - smMinus/float64(period) + minusDM[i]
		smTR = smTR - smTR/float64(period) + tr[i]

		d := dx()
		dxCount++
		if dxCount < period {
			dxSum += d
			continue
		}
		if dxCount == period {
			dxSum += d
			adx = dxSum / float64(period)
			continue
		}
		adx = (adx*float64(period-1) + d) / float64(period)
	}
	return adx, nil
}
