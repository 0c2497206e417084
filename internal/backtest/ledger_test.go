package backtest

import (
	"math"
	"testing"
)

func TestLedger_ApplyAndDrawdown(t *testing.T) {
	l := NewLedger(100)

	l.Apply(10) // 110, new peak
	l.Apply(-11) // 99, drawdown 10% from 110

	if got := l.Capital(); got != 99 {
		t.Errorf("capital = %v, want 99", got)
	}
	if got := l.MaxDrawdownPct(); math.Abs(got-10) > 1e-9 {
		t.Errorf("max drawdown = %v%%, want 10%%", got)
	}
	curve := l.EquityCurve()
	if len(curve) != 2 || curve[0] != 110 || curve[1] != 99 {
		t.Errorf("equity curve = %v, want [110 99]", curve)
	}
}

func TestLedger_RestoreRecomputesDrawdown(t *testing.T) {
	l := NewLedger(100)
	l.Restore(99, []float64{110, 99})

	if got := l.MaxDrawdownPct(); math.Abs(got-10) > 1e-9 {
		t.Errorf("restored max drawdown = %v%%, want 10%%", got)
	}

	// A further loss deepens the drawdown against the restored 110 peak.
	l.Apply(-22) // 77: (110-77)/110 = 30%
	if got := l.MaxDrawdownPct(); math.Abs(got-30) > 1e-9 {
		t.Errorf("max drawdown after loss = %v%%, want 30%%", got)
	}
}

func TestLedger_RestoreUnderwaterKeepsInitialPeak(t *testing.T) {
	// One pass: a single losing trade leaves the run below its starting
	// capital, a 1% drawdown from the initial peak.
	onePass := NewLedger(100000)
	onePass.Apply(-1000)
	if got := onePass.MaxDrawdownPct(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("one-pass max drawdown = %v%%, want 1%%", got)
	}

	// Resume: a fresh ledger restored from the underwater checkpoint must
	// report the same drawdown, not measure from the checkpointed capital.
	resumed := NewLedger(100000)
	resumed.Restore(onePass.Capital(), onePass.EquityCurve())
	if got := resumed.MaxDrawdownPct(); math.Abs(got-1) > 1e-9 {
		t.Errorf("resumed max drawdown = %v%%, want 1%%", got)
	}
	if got := resumed.Capital(); got != 99000 {
		t.Errorf("resumed capital = %v, want 99000", got)
	}

	// A recovery above the initial capital raises the peak as usual.
	resumed.Apply(2000) // 101000
	resumed.Apply(-1010) // (101000-99990)/101000 = 1%
	if got := resumed.MaxDrawdownPct(); math.Abs(got-1) > 1e-9 {
		t.Errorf("max drawdown after recovery = %v%%, want 1%%", got)
	}
}

func TestLedger_CurveCopyIsIsolated(t *testing.T) {
	l := NewLedger(100)
	l.Apply(5)
	curve := l.EquityCurve()
	curve[0] = -1
	if got := l.EquityCurve()[0]; got != 105 {
		t.Errorf("internal curve mutated through the returned copy: %v", got)
	}
}
