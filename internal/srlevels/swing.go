package srlevels

import (
	"BreakoutRadar/internal/model"
)

// DefaultSwingWindow is the number of bars required on each side of a swing point.
const DefaultSwingWindow = 5

// DetectSwingPoints finds local extrema in the series. A bar is a swing high
// when its high is strictly greater than the highs of all `window` bars before
// and after it; symmetric for swing lows using bar lows. Tied values never
// qualify. A series shorter than 2*window+1 bars yields empty lists.
func DetectSwingPoints(bars []model.PriceBar, window int) (highs, lows []model.SwingPoint, err error) {
	if window <= 0 {
		return nil, nil, model.NewConfigurationError("swing_window", "must be positive")
	}
	if len(bars) < 2*window+1 {
		return nil, nil, nil
	}

	for i := window; i < len(bars)-window; i++ {
		isHigh := true
		isLow := true
		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}
			if bars[j].High >= bars[i].High {
				isHigh = false
			}
			if bars[j].Low <= bars[i].Low {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		if isHigh {
			highs = append(highs, model.SwingPoint{Time: bars[i].Time, Price: bars[i].High, Kind: model.SwingHigh})
		}
		if isLow {
			lows = append(lows, model.SwingPoint{Time: bars[i].Time, Price: bars[i].Low, Kind: model.SwingLow})
		}
	}
	return highs, lows, nil
}
