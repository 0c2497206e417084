package srlevels

import (
	"sort"

	"BreakoutRadar/internal/model"
)

// DefaultZoneTolerance is the relative distance within which swing points
// merge into one zone.
const DefaultZoneTolerance = 0.02

// ClusterZones groups swing points into price zones. Points are sorted
// ascending by price and swept sequentially; a new cluster starts whenever the
// next point's relative distance from the last-added price exceeds tolerance.
// Zone strength equals the number of clustered points. Zones below minStrength
// are discarded. The stable sort makes the result deterministic.
func ClusterZones(points []model.SwingPoint, tolerance float64, minStrength int, tf model.Timeframe, zt model.ZoneType) ([]model.SRZone, error) {
	if tolerance <= 0 {
		return nil, model.NewConfigurationError("zone_tolerance", "must be positive")
	}
	if len(points) == 0 {
		return nil, nil
	}

	sorted := make([]model.SwingPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })

	var zones []model.SRZone
	cluster := []model.SwingPoint{sorted[0]}

	flush := func() {
		z := buildZone(cluster, tf, zt)
		if z.Strength >= minStrength {
			zones = append(zones, z)
		}
	}

	for _, p := range sorted[1:] {
		last := cluster[len(cluster)-1].Price
		if last > 0 && (p.Price-last)/last > tolerance {
			flush()
			cluster = []model.SwingPoint{p}
			continue
		}
		cluster = append(cluster, p)
	}
	flush()
	return zones, nil
}

func buildZone(cluster []model.SwingPoint, tf model.Timeframe, zt model.ZoneType) model.SRZone {
	z := model.SRZone{
		Min:        cluster[0].Price,
		Max:        cluster[0].Price,
		Strength:   len(cluster),
		Timeframe:  tf,
		Type:       zt,
		FirstTouch: cluster[0].Time,
		LastTouch:  cluster[0].Time,
	}
	var sum float64
	for _, p := range cluster {
		sum += p.Price
		if p.Price < z.Min {
			z.Min = p.Price
		}
		if p.Price > z.Max {
			z.Max = p.Price
		}
		if p.Time.Before(z.FirstTouch) {
			z.FirstTouch = p.Time
		}
		if p.Time.After(z.LastTouch) {
			z.LastTouch = p.Time
		}
	}
	z.Level = sum / float64(len(cluster))
	return z
}
