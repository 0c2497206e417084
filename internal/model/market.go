package model

import "time"

// Timeframe identifies the granularity of a price series.
type Timeframe string

const (
	TimeframeWeekly Timeframe = "weekly"
	TimeframeDaily  Timeframe = "daily"
	TimeframeHourly Timeframe = "hourly"
)

// PriceBar represents a single candlestick bar.
type PriceBar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds ordered, timestamp-unique bars for one instrument at one
// granularity. The core treats it as read-only.
type PriceSeries struct {
	Symbol    string
	Timeframe Timeframe
	Bars      []PriceBar
}

// Closes returns the close prices in bar order.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Last returns the most recent bar. The second value is false for an empty series.
func (s *PriceSeries) Last() (PriceBar, bool) {
	if len(s.Bars) == 0 {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}
