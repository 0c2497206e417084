package signal

import "BreakoutRadar/internal/model"

// Gate names, in pipeline order.
const (
	GateVolatility = "volatility"
	GateTrend      = "trend_strength"
	GateMacro      = "macro_trend"
	GateBreakout   = "breakout"
	GateQuality    = "sr_quality"
	GateConfluence = "confluence"
)

// Rejection describes a gate failure. It is a normal outcome, not an error.
type Rejection struct {
	Gate   string
	Reason string
}

// Evaluation is the explicit result of one signal evaluation: either a Signal
// or a Rejection. Genuine errors travel separately as the second return value
// of Generator.Evaluate.
type Evaluation struct {
	Symbol    string
	Signal    *model.Signal
	Rejection *Rejection
}

// Passed reports whether the evaluation produced a signal.
func (e *Evaluation) Passed() bool { return e.Signal != nil }

func rejected(symbol, gate, reason string) (*Evaluation, error) {
	return &Evaluation{Symbol: symbol, Rejection: &Rejection{Gate: gate, Reason: reason}}, nil
}
