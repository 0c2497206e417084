package model

import "time"

// ExitReason indicates why a simulated trade closed.
type ExitReason string

const (
	ExitStop   ExitReason = "STOP"
	ExitTarget ExitReason = "TARGET"
	ExitTime   ExitReason = "TIME"
)

// Trade is a simulated trade produced by the walk-forward simulator.
// Mutated only while open, frozen at exit.
type Trade struct {
	Symbol     string     `json:"symbol"`
	EntryDate  time.Time  `json:"entry_date"`
	EntryPrice float64    `json:"entry_price"`
	ExitDate   time.Time  `json:"exit_date"`
	ExitPrice  float64    `json:"exit_price"`
	ExitReason ExitReason `json:"exit_reason"`
	Quantity   int        `json:"quantity"`
	PnL        float64    `json:"pnl"`
	PnLPct     float64    `json:"pnl_pct"`
	RMultiple  float64    `json:"r_multiple"`
}

// BacktestState is the resumable progress of one backtest run.
type BacktestState struct {
	RunID          string    `json:"run_id"`
	LastProcessed  int       `json:"last_processed_index"`
	Capital        float64   `json:"capital"`
	SignalsFound   int       `json:"signals_found"`
	Errors         int       `json:"errors"`
	Trades         []Trade   `json:"trades"`
	EquityCurve    []float64 `json:"equity_curve"`
	MaxDrawdownPct float64   `json:"max_drawdown_pct"`
	UpdatedAt      time.Time `json:"updated_at"`
}
