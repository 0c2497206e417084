package calculator

import (
	"errors"

	"BreakoutRadar/internal/model"
)

// RelativeStrength returns the ratio of the instrument's return to the
// benchmark's return over the trailing window. A ratio above 1.0 means the
// instrument outperformed the benchmark.
func RelativeStrength(instrument, benchmark []model.PriceBar, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	if len(instrument) < window+1 || len(benchmark) < window+1 {
		return 0, model.NewDataError("relative strength", errors.New("not enough data"))
	}
	ic := extractCloses(instrument)
	bc := extractCloses(benchmark)

	iStart := ic[len(ic)-window-1]
	bStart := bc[len(bc)-window-1]
	if iStart == 0 || bStart == 0 {
		return 0, model.NewComputationError("relative strength", errors.New("zero starting price"))
	}
	iRet := ic[len(ic)-1] / iStart
	bRet := bc[len(bc)-1] / bStart
	if bRet == 0 {
		return 0, model.NewComputationError("relative strength", errors.New("zero benchmark return"))
	}
	return iRet / bRet, nil
}

// RelativeStrengthImproving reports whether the RS ratio over the recent half
// window exceeds the ratio over the full window, i.e. outperformance is
// accelerating.
func RelativeStrengthImproving(instrument, benchmark []model.PriceBar, window int) (bool, error) {
	full, err := RelativeStrength(instrument, benchmark, window)
	if err != nil {
		return false, err
	}
	recent, err := RelativeStrength(instrument, benchmark, window/2)
	if err != nil {
		return false, err
	}
	return recent > full, nil
}
