package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"BreakoutRadar/internal/model"
)

func testRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "radar.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RecordSignal(t *testing.T) {
	r := testRecorder(t)

	sig := &model.Signal{
		Symbol: "AAPL", Entry: 100, Stop: 97, Target: 107.5,
		RiskReward: 2.5, StrengthScore: 82, QualityScore: 75,
		Time: time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, r.RecordSignal(sig))
	require.NoError(t, r.RecordSignal(sig))

	var count int
	var symbol string
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*), symbol FROM signals`).Scan(&count, &symbol))
	require.Equal(t, 2, count)
	require.Equal(t, "AAPL", symbol)
}

func TestSQLiteRecorder_RecordTrade(t *testing.T) {
	r := testRecorder(t)

	now := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	trade := &model.Trade{
		Symbol: "MSFT", EntryDate: now, EntryPrice: 100,
		ExitDate: now.AddDate(0, 0, 5), ExitPrice: 107.5,
		ExitReason: model.ExitTarget, Quantity: 20,
		PnL: 150, PnLPct: 7.5, RMultiple: 2.5,
	}
	require.NoError(t, r.RecordTrade("run-1", trade))

	var reason string
	var pnl float64
	require.NoError(t, r.db.QueryRow(
		`SELECT exit_reason, pnl FROM trades WHERE run_id = ?`, "run-1").Scan(&reason, &pnl))
	require.Equal(t, string(model.ExitTarget), reason)
	require.Equal(t, 150.0, pnl)
}

func TestSQLiteRecorder_RecordRunUpserts(t *testing.T) {
	r := testRecorder(t)

	state := &model.BacktestState{
		RunID: "run-9", LastProcessed: 4, Capital: 101000,
		SignalsFound: 3, UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, r.RecordRun(state))

	state.LastProcessed = 9
	state.Capital = 103500
	require.NoError(t, r.RecordRun(state))

	var count, last int
	var capital float64
	require.NoError(t, r.db.QueryRow(
		`SELECT COUNT(*), last_processed, capital FROM runs WHERE run_id = ?`, "run-9").
		Scan(&count, &last, &capital))
	require.Equal(t, 1, count, "run rows must upsert, not duplicate")
	require.Equal(t, 9, last)
	require.Equal(t, 103500.0, capital)
}
