package srlevels

import (
	"math"

	"BreakoutRadar/internal/model"
)

// Quality scoring adjustments. The score starts at 100 and is floor-clamped
// at zero; there is no upper clamp.
const (
	qualityBase            = 100.0
	extendedPenalty        = 20.0
	freshBreakoutBonus     = 20.0
	supportTooFarPenalty   = 15.0
	noSupportPenalty       = 25.0
	extendedThreshold      = 0.01 // >1% above the nearest resistance counts as extended
	freshProximity         = 0.03 // resistance within 3% above price
	supportDistanceCeiling = 0.10 // support >10% below price is too far
)

// ScoreBreakoutQuality scores the price's structural context against the
// aggregate zone set. The extension check uses the resistance closest to the
// price on either side; the fresh-breakout bonus and the reported
// NearestResistance use the closest one still above the price.
func ScoreBreakoutQuality(price float64, zones []model.SRZone) model.QualityReport {
	rep := model.QualityReport{Score: qualityBase}

	var nearest *model.SRZone // closest resistance by absolute distance
	for i := range zones {
		z := &zones[i]
		switch z.Type {
		case model.ZoneResistance:
			if nearest == nil || math.Abs(z.Level-price) < math.Abs(nearest.Level-price) {
				nearest = z
			}
			if z.Level > price && (rep.NearestResistance == nil || z.Level < rep.NearestResistance.Level) {
				rep.NearestResistance = z
			}
		case model.ZoneSupport:
			if z.Level < price && (rep.NearestSupport == nil || z.Level > rep.NearestSupport.Level) {
				rep.NearestSupport = z
			}
		}
	}

	if nearest != nil && price > nearest.Level*(1+extendedThreshold) {
		rep.Issues = append(rep.Issues, "already extended")
		rep.Score -= extendedPenalty
	}
	if rep.NearestResistance != nil && rep.NearestResistance.Level <= price*(1+freshProximity) {
		rep.Score += freshBreakoutBonus
	}

	if rep.NearestSupport == nil {
		rep.Issues = append(rep.Issues, "no clear support")
		rep.Score -= noSupportPenalty
	} else if rep.NearestSupport.Level < price*(1-supportDistanceCeiling) {
		rep.Issues = append(rep.Issues, "support too far")
		rep.Score -= supportTooFarPenalty
	}

	if rep.Score < 0 {
		rep.Score = 0
	}
	return rep
}
