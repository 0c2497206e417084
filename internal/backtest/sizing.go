package backtest

import "math"

// PositionSize computes the share quantity for a trade: 2% of capital at risk
// by default, with the position value further capped at 10% of capital.
// A zero result means the trade is skipped, not an error.
func PositionSize(capital, entry, perShareRisk, riskPct, maxPositionPct float64) int {
	if capital <= 0 || entry <= 0 || perShareRisk <= 0 {
		return 0
	}
	riskBudget := capital * riskPct
	qty := int(math.Floor(riskBudget / perShareRisk))
	if qty <= 0 {
		return 0
	}
	maxValue := capital * maxPositionPct
	if float64(qty)*entry > maxValue {
		qty = int(math.Floor(maxValue / entry))
	}
	if qty < 0 {
		qty = 0
	}
	return qty
}
