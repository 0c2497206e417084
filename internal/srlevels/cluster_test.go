package srlevels

import (
	"math"
	"testing"
	"time"

	"BreakoutRadar/internal/model"
)

func swingsAt(prices ...float64) []model.SwingPoint {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]model.SwingPoint, len(prices))
	for i, p := range prices {
		pts[i] = model.SwingPoint{Time: base.AddDate(0, 0, i), Price: p, Kind: model.SwingHigh}
	}
	return pts
}

func TestClusterZones_MergesNearbyLevels(t *testing.T) {
	zones, err := ClusterZones(swingsAt(99.5, 100.3), DefaultZoneTolerance, 1, model.TimeframeDaily, model.ZoneResistance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(zones) != 1 {
		t.Fatalf("expected one merged zone, got %d", len(zones))
	}
	z := zones[0]
	if math.Abs(z.Level-99.9) > 1e-9 {
		t.Errorf("expected level 99.9, got %.4f", z.Level)
	}
	if z.Strength != 2 {
		t.Errorf("expected strength 2, got %d", z.Strength)
	}
	if z.Min != 99.5 || z.Max != 100.3 {
		t.Errorf("expected band [99.5, 100.3], got [%.1f, %.1f]", z.Min, z.Max)
	}
}

func TestClusterZones_SplitsDistantLevels(t *testing.T) {
	zones, err := ClusterZones(swingsAt(100, 110, 120), 0.02, 1, model.TimeframeDaily, model.ZoneResistance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(zones) != 3 {
		t.Fatalf("expected three zones, got %d", len(zones))
	}
}

func TestClusterZones_MinStrengthFilter(t *testing.T) {
	zones, err := ClusterZones(swingsAt(100, 100.5, 150), 0.02, 2, model.TimeframeWeekly, model.ZoneSupport)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(zones) != 1 {
		t.Fatalf("expected only the two-touch zone to survive, got %d", len(zones))
	}
	if zones[0].Strength != 2 {
		t.Errorf("expected strength 2, got %d", zones[0].Strength)
	}
}

func TestClusterZones_Deterministic(t *testing.T) {
	// Same inputs in a different order must produce identical zones.
	a, err := ClusterZones(swingsAt(99.5, 100.3, 110, 110.2), 0.02, 1, model.TimeframeDaily, model.ZoneResistance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ClusterZones(swingsAt(110.2, 99.5, 110, 100.3), 0.02, 1, model.TimeframeDaily, model.ZoneResistance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("zone counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Level != b[i].Level || a[i].Strength != b[i].Strength {
			t.Errorf("zone %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestClusterZones_Idempotent(t *testing.T) {
	// Re-clustering the centers of already-clustered zones with the same
	// tolerance reproduces the same levels.
	first, err := ClusterZones(swingsAt(99.5, 100.3, 110, 110.2), 0.02, 1, model.TimeframeDaily, model.ZoneResistance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	centers := make([]float64, len(first))
	for i, z := range first {
		centers[i] = z.Level
	}
	second, err := ClusterZones(swingsAt(centers...), 0.02, 1, model.TimeframeDaily, model.ZoneResistance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("re-clustering changed zone count: %d vs %d", len(second), len(first))
	}
	for i := range first {
		if math.Abs(second[i].Level-first[i].Level) > 1e-9 {
			t.Errorf("zone %d level drifted: %.4f vs %.4f", i, second[i].Level, first[i].Level)
		}
	}
}

func TestClusterZones_InvalidTolerance(t *testing.T) {
	if _, err := ClusterZones(swingsAt(100), 0, 1, model.TimeframeDaily, model.ZoneSupport); err == nil {
		t.Fatal("expected configuration error for zero tolerance")
	}
}
