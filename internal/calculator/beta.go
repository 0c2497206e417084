package calculator

import (
	"errors"

	"BreakoutRadar/internal/model"
)

// periodReturns converts closes into simple period-over-period returns.
func periodReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, closes[i]/closes[i-1]-1)
	}
	return out
}

// Beta computes the sensitivity of the instrument's returns to the benchmark's
// returns over the overlapping tail of the two series. A flat benchmark
// (zero variance) is a ComputationError; callers substitute a neutral 1.0.
func Beta(instrument, benchmark []model.PriceBar, lookback int) (float64, error) {
	if lookback <= 1 {
		return 0, errors.New("lookback must exceed 1")
	}
	ir := periodReturns(extractCloses(instrument))
	br := periodReturns(extractCloses(benchmark))
	n := lookback
	if len(ir) < n || len(br) < n {
		return 0, model.NewDataError("beta", errors.New("not enough overlapping returns"))
	}
	ir = ir[len(ir)-n:]
	br = br[len(br)-n:]

	var meanI, meanB float64
	for i := 0; i < n; i++ {
		meanI += ir[i]
		meanB += br[i]
	}
	meanI /= float64(n)
	meanB /= float64(n)

	var cov, varB float64
	for i := 0; i < n; i++ {
		cov += (ir[i] - meanI) * (br[i] - meanB)
		varB += (br[i] - meanB) * (br[i] - meanB)
	}
	if varB == 0 {
		return 0, model.NewComputationError("beta", errors.New("benchmark variance is zero"))
	}
	return cov / varB, nil
}
