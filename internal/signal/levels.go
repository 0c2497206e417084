package signal

import (
	"fmt"

	"BreakoutRadar/internal/calculator"
	"BreakoutRadar/internal/model"
)

const (
	swingLowPeriod  = 10
	swingLowBuffer  = 0.98  // stop sits 2% under the recent swing low
	atrStopMultiple = 1.5   // ATR distance under entry; the higher of the two candidates wins
	zoneUnderCut    = 0.99  // "just below" a support zone
	resistanceShave = 0.995 // "just below" a resistance level
	capWithinRisk   = 3.0   // resistance within 3x risk caps the target
)

// computeLevels derives entry, stop, and target for a passed pipeline.
// entry = breakout bar close; stop = max(swing low x 0.98, entry - 1.5xATR),
// then widened (never tightened) to just below the nearest support zone when
// that zone sits above the computed stop; target = entry + 2.5xrisk, capped
// just below the nearest resistance when it lies within 3xrisk of entry.
func (g *Generator) computeLevels(symbol string, current model.PriceBar, bars []model.PriceBar, bk breakoutContext, quality model.QualityReport, confluences []model.Confluence) (*model.Signal, *Rejection) {
	entry := current.Close

	stop := entry - atrStopMultiple*bk.atr
	if sl, err := calculator.RecentSwingLow(bars, swingLowPeriod); err == nil {
		if cand := sl * swingLowBuffer; cand > stop {
			stop = cand
		}
	}
	if ns := quality.NearestSupport; ns != nil && ns.Level < entry && ns.Level > stop {
		// The stop would sit above a support shelf; move it under the zone.
		if cand := ns.Min * zoneUnderCut; cand < stop {
			stop = cand
		}
	}
	if stop >= entry {
		return nil, &Rejection{Gate: GateBreakout, Reason: fmt.Sprintf("stop %.2f not below entry %.2f", stop, entry)}
	}

	risk := entry - stop
	target := entry + g.cfg.TargetRMultiple*risk
	if nr := quality.NearestResistance; nr != nil && nr.Level > entry && nr.Level-entry <= capWithinRisk*risk {
		if cand := nr.Level * resistanceShave; cand < target {
			target = cand
		}
	}
	if target <= entry {
		return nil, &Rejection{Gate: GateQuality, Reason: fmt.Sprintf("resistance cap leaves target %.2f at or below entry %.2f", target, entry)}
	}

	return &model.Signal{
		Symbol:      symbol,
		Entry:       entry,
		Stop:        stop,
		Target:      target,
		RiskReward:  (target - entry) / risk,
		Confluences: confluences,
		Time:        current.Time,
	}, nil
}
