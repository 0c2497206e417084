package model

import "time"

// Signal is the final output of the signal pipeline for one instrument on one
// evaluation date. Immutable once produced; Stop < Entry < Target always holds.
type Signal struct {
	Symbol        string
	Entry         float64
	Stop          float64
	Target        float64
	RiskReward    float64
	Confluences   []Confluence
	StrengthScore float64
	QualityScore  float64
	Time          time.Time
}

// QualityReport is the structural context assessment behind a signal.
type QualityReport struct {
	Score             float64
	NearestResistance *SRZone
	NearestSupport    *SRZone
	Issues            []string
}
