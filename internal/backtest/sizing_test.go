package backtest

import "testing"

func TestPositionSize(t *testing.T) {
	tests := []struct {
		name           string
		capital        float64
		entry          float64
		perShareRisk   float64
		riskPct        float64
		maxPositionPct float64
		want           int
	}{
		{
			// Risk budget 2000 / 3 = 666 shares, but 666 x 100 breaches the
			// 10% position cap, so the quantity recaps to 10000 / 100.
			name:    "position cap binds",
			capital: 100000, entry: 100, perShareRisk: 3,
			riskPct: 0.02, maxPositionPct: 0.10,
			want: 100,
		},
		{
			name:    "risk budget binds",
			capital: 100000, entry: 10, perShareRisk: 8,
			riskPct: 0.02, maxPositionPct: 0.10,
			want: 250, // floor(2000/8); 250 x 10 = 2500 stays under the cap
		},
		{
			name:    "risk too wide for the budget",
			capital: 1000, entry: 100, perShareRisk: 50,
			riskPct: 0.02, maxPositionPct: 0.10,
			want: 0, // floor(20/50) = 0
		},
		{
			name:    "entry above the whole position budget",
			capital: 1000, entry: 500, perShareRisk: 1,
			riskPct: 0.02, maxPositionPct: 0.10,
			want: 0, // 20 shares by risk, recapped to floor(100/500)
		},
		{
			name:    "zero per-share risk",
			capital: 100000, entry: 100, perShareRisk: 0,
			riskPct: 0.02, maxPositionPct: 0.10,
			want: 0,
		},
		{
			name:    "no capital",
			capital: 0, entry: 100, perShareRisk: 3,
			riskPct: 0.02, maxPositionPct: 0.10,
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PositionSize(tt.capital, tt.entry, tt.perShareRisk, tt.riskPct, tt.maxPositionPct)
			if got != tt.want {
				t.Errorf("PositionSize = %d, want %d", got, tt.want)
			}
		})
	}
}
