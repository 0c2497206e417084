package model

import "time"

// ZoneType distinguishes support from resistance.
type ZoneType string

const (
	ZoneSupport    ZoneType = "support"
	ZoneResistance ZoneType = "resistance"
)

// SwingKind distinguishes swing highs from swing lows.
type SwingKind string

const (
	SwingHigh SwingKind = "high"
	SwingLow  SwingKind = "low"
)

// SwingPoint is a local price extremum detected in a single series.
type SwingPoint struct {
	Time  time.Time
	Price float64
	Kind  SwingKind
}

// SRZone is a clustered price range acting as support or resistance.
// Strength equals the number of swing points merged into the zone.
type SRZone struct {
	Level      float64
	Min        float64
	Max        float64
	Strength   int
	Timeframe  Timeframe
	Type       ZoneType
	FirstTouch time.Time
	LastTouch  time.Time
}

// Confluence is an alignment of same-type zones across at least two distinct
// timeframes. Strength is the sum of member zone strengths.
type Confluence struct {
	Level      float64
	Type       ZoneType
	Timeframes []Timeframe
	Strength   int
}

// TimeframeLevels holds the filtered zones detected on one timeframe.
type TimeframeLevels struct {
	Timeframe  Timeframe
	Support    []SRZone
	Resistance []SRZone
}
