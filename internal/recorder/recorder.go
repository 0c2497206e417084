package recorder

import "BreakoutRadar/internal/model"

// Recorder persists emitted signals, simulated trades, and final run states
// for later analysis. It is the results sink of the core; serialization and
// storage choices stay behind this interface.
type Recorder interface {
	RecordSignal(sig *model.Signal) error
	RecordTrade(runID string, trade *model.Trade) error
	RecordRun(state *model.BacktestState) error
	Close() error
}
