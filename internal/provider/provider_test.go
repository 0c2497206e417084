package provider

import (
	"context"
	"testing"
	"time"

	"BreakoutRadar/internal/model"
)

func seqBars(n int, start time.Time) []model.PriceBar {
	bars := make([]model.PriceBar, n)
	for i := 0; i < n; i++ {
		p := 100 + float64(i)
		bars[i] = model.PriceBar{
			Time: start.AddDate(0, 0, i),
			Open: p, High: p + 1, Low: p - 1, Close: p,
			Volume: 1000,
		}
	}
	return bars
}

func TestValidateBars(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid series", func(t *testing.T) {
		if err := ValidateBars(seqBars(5, start)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("duplicate timestamp", func(t *testing.T) {
		bars := seqBars(5, start)
		bars[2].Time = bars[1].Time
		if err := ValidateBars(bars); err == nil {
			t.Error("expected error for duplicate timestamp")
		}
	})

	t.Run("out of order", func(t *testing.T) {
		bars := seqBars(5, start)
		bars[3].Time = start.AddDate(0, 0, -1)
		if err := ValidateBars(bars); err == nil {
			t.Error("expected error for out-of-order timestamp")
		}
	})

	t.Run("high below low", func(t *testing.T) {
		bars := seqBars(3, start)
		bars[1].High, bars[1].Low = bars[1].Low, bars[1].High
		if err := ValidateBars(bars); err == nil {
			t.Error("expected error for inverted range")
		}
	})

	t.Run("non-positive close", func(t *testing.T) {
		bars := seqBars(3, start)
		bars[0].Close = 0
		if err := ValidateBars(bars); err == nil {
			t.Error("expected error for zero close")
		}
	})
}

func TestDedupeBars_LastWriteWins(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := seqBars(3, start)
	dup := bars[1]
	dup.Close = 999
	in := []model.PriceBar{bars[0], bars[1], dup, bars[2]}

	out := dedupeBars(in)
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	if out[1].Close != 999 {
		t.Errorf("duplicate resolution: close = %v, want the later 999", out[1].Close)
	}
}

func TestHistoricalProvider_ClampsToAsOf(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := seqBars(10, start)

	inner := &MockProvider{Series: map[string]map[model.Timeframe][]model.PriceBar{
		"TEST": {model.TimeframeDaily: bars},
	}}
	asOf := start.AddDate(0, 0, 4)
	h := NewHistoricalProvider(inner, asOf)

	got, err := h.Bars(context.Background(), "TEST", model.TimeframeDaily, start, start.AddDate(0, 0, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5 bars up to the cutoff", len(got))
	}
	for _, b := range got {
		if b.Time.After(asOf) {
			t.Errorf("bar at %s leaks past the cutoff %s", b.Time, asOf)
		}
	}
}

func TestPreloaded_TrimsToRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewPreloaded()
	p.Put("TEST", model.TimeframeDaily, seqBars(10, start))

	got, err := p.Bars(context.Background(), "TEST", model.TimeframeDaily,
		start.AddDate(0, 0, 2), start.AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("len = %d, want 5 (inclusive bounds)", len(got))
	}

	if _, err := p.Bars(context.Background(), "OTHER", model.TimeframeDaily, start, start.AddDate(0, 0, 5)); err == nil {
		t.Error("expected error for unknown symbol")
	}
	if _, err := p.Bars(context.Background(), "TEST", model.TimeframeHourly, start, start.AddDate(0, 0, 5)); err == nil {
		t.Error("expected error for missing timeframe")
	}
}

func TestMockProvider_TrimsAndErrs(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &MockProvider{Series: map[string]map[model.Timeframe][]model.PriceBar{
		"TEST": {model.TimeframeDaily: seqBars(10, start)},
	}}

	got, err := m.Bars(context.Background(), "TEST", model.TimeframeDaily, start, start.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("len = %d, want 4", len(got))
	}

	if _, err := m.Bars(context.Background(), "MISSING", model.TimeframeDaily, start, start); err == nil {
		t.Error("expected error when no series and no base price")
	}
}
