package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"BreakoutRadar/internal/model"
)

// SQLiteRecorder persists results to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for concurrent reads while the scanner writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			entry          REAL,
			stop           REAL,
			target         REAL,
			risk_reward    REAL,
			strength_score REAL,
			quality_score  REAL,
			confluences    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(timestamp)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			symbol      TEXT NOT NULL,
			entry_date  INTEGER,
			entry_price REAL,
			exit_date   INTEGER,
			exit_price  REAL,
			exit_reason TEXT,
			quantity    INTEGER,
			pnl         REAL,
			pnl_pct     REAL,
			r_multiple  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id)`,

		`CREATE TABLE IF NOT EXISTS runs (
			run_id           TEXT PRIMARY KEY,
			updated_at       INTEGER NOT NULL,
			last_processed   INTEGER,
			capital          REAL,
			signals_found    INTEGER,
			errors           INTEGER,
			trade_count      INTEGER,
			max_drawdown_pct REAL
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(sig *model.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO signals
		(timestamp, symbol, entry, stop, target, risk_reward, strength_score, quality_score, confluences)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		sig.Time.Unix(), sig.Symbol, sig.Entry, sig.Stop, sig.Target,
		sig.RiskReward, sig.StrengthScore, sig.QualityScore, len(sig.Confluences),
	)
	return err
}

func (r *SQLiteRecorder) RecordTrade(runID string, t *model.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trades
		(run_id, symbol, entry_date, entry_price, exit_date, exit_price, exit_reason, quantity, pnl, pnl_pct, r_multiple)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		runID, t.Symbol, t.EntryDate.Unix(), t.EntryPrice,
		t.ExitDate.Unix(), t.ExitPrice, string(t.ExitReason),
		t.Quantity, t.PnL, t.PnLPct, t.RMultiple,
	)
	return err
}

func (r *SQLiteRecorder) RecordRun(state *model.BacktestState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(run_id, updated_at, last_processed, capital, signals_found, errors, trade_count, max_drawdown_pct)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(run_id) DO UPDATE SET
			updated_at = excluded.updated_at,
			last_processed = excluded.last_processed,
			capital = excluded.capital,
			signals_found = excluded.signals_found,
			errors = excluded.errors,
			trade_count = excluded.trade_count,
			max_drawdown_pct = excluded.max_drawdown_pct`,
		state.RunID, state.UpdatedAt.Unix(), state.LastProcessed, state.Capital,
		state.SignalsFound, state.Errors, len(state.Trades), state.MaxDrawdownPct,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
