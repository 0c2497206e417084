package sink

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"BreakoutRadar/internal/model"
)

// FormatSignal renders a signal as an HTML notification message.
func FormatSignal(sig *model.Signal) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🚀 <b>Breakout setup</b> %s | %s\n\n", sig.Symbol, sig.Time.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Entry:  %.2f\n", sig.Entry))
	b.WriteString(fmt.Sprintf("Stop:   %.2f (risk %.2f)\n", sig.Stop, sig.Entry-sig.Stop))
	b.WriteString(fmt.Sprintf("Target: %.2f (R:R %.1f)\n\n", sig.Target, sig.RiskReward))
	b.WriteString(fmt.Sprintf("Strength: %.0f | S/R quality: %.0f\n", sig.StrengthScore, sig.QualityScore))

	if len(sig.Confluences) > 0 {
		b.WriteString("\n<b>Confluent zones:</b>\n")
		for _, c := range sig.Confluences {
			tfs := make([]string, len(c.Timeframes))
			for i, tf := range c.Timeframes {
				tfs[i] = string(tf)
			}
			b.WriteString(fmt.Sprintf("  %.2f %s [%s] strength %d\n",
				c.Level, c.Type, strings.Join(tfs, "+"), c.Strength))
		}
	}
	return b.String()
}

// FormatBacktestSummary renders the final state of a backtest run.
func FormatBacktestSummary(state *model.BacktestState, initialCapital float64) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Backtest %s</b>\n\n", state.RunID))
	b.WriteString(fmt.Sprintf("Instruments processed: %s\n", humanize.Comma(int64(state.LastProcessed+1))))
	b.WriteString(fmt.Sprintf("Signals found: %d | Trades: %d | Errors: %d\n",
		state.SignalsFound, len(state.Trades), state.Errors))
	b.WriteString(fmt.Sprintf("Capital: %s → %s\n",
		humanize.CommafWithDigits(initialCapital, 2), humanize.CommafWithDigits(state.Capital, 2)))
	b.WriteString(fmt.Sprintf("Max drawdown: %.1f%%\n", state.MaxDrawdownPct))

	wins := 0
	for _, t := range state.Trades {
		if t.PnL > 0 {
			wins++
		}
	}
	if len(state.Trades) > 0 {
		b.WriteString(fmt.Sprintf("Win rate: %.0f%%\n", 100*float64(wins)/float64(len(state.Trades))))
	}
	return b.String()
}
