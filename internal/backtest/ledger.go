package backtest

import "sync"

// Ledger tracks the shared capital account for one backtest run. Capital
// updates are inherently sequential for one account, so all mutation goes
// through this single guarded type.
type Ledger struct {
	mu          sync.Mutex
	initial     float64
	capital     float64
	peak        float64
	equityCurve []float64
	maxDrawdown float64
}

// NewLedger starts a ledger at the given capital.
func NewLedger(initial float64) *Ledger {
	return &Ledger{initial: initial, capital: initial, peak: initial}
}

// Capital returns the current capital.
func (l *Ledger) Capital() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.capital
}

// Apply adds pnl to capital and records a new equity point.
func (l *Ledger) Apply(pnl float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.capital += pnl
	l.record()
	return l.capital
}

// Restore resets the ledger to a checkpointed capital and equity curve. The
// drawdown peak is re-seeded from the initial capital, the same starting point
// a single uninterrupted pass folds from, so a run checkpointed underwater
// reports the same drawdown after resume.
func (l *Ledger) Restore(capital float64, equityCurve []float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.capital = capital
	l.equityCurve = append([]float64(nil), equityCurve...)
	l.peak = l.initial
	l.maxDrawdown = 0
	for _, e := range l.equityCurve {
		if e > l.peak {
			l.peak = e
		}
		if l.peak > 0 {
			if dd := (l.peak - e) / l.peak; dd > l.maxDrawdown {
				l.maxDrawdown = dd
			}
		}
	}
	if l.capital > l.peak {
		l.peak = l.capital
	}
	if l.peak > 0 {
		if dd := (l.peak - l.capital) / l.peak; dd > l.maxDrawdown {
			l.maxDrawdown = dd
		}
	}
}

// EquityCurve returns a copy of the recorded equity points.
func (l *Ledger) EquityCurve() []float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]float64(nil), l.equityCurve...)
}

// MaxDrawdownPct returns the running peak-to-trough drawdown as a percentage
// of the peak.
func (l *Ledger) MaxDrawdownPct() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxDrawdown * 100
}

func (l *Ledger) record() {
	l.equityCurve = append(l.equityCurve, l.capital)
	if l.capital > l.peak {
		l.peak = l.capital
	}
	if l.peak > 0 {
		if dd := (l.peak - l.capital) / l.peak; dd > l.maxDrawdown {
			l.maxDrawdown = dd
		}
	}
}
