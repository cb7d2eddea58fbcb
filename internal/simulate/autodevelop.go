package simulate

import (
	"github.com/talgya/citysim/internal/prng"
	"github.com/talgya/citysim/internal/worldmodel"
)

// autoDevelop runs one day's zone-level upgrade/downgrade Bernoulli trial
// over every RCI tile, ported in spirit from original_source's Sim.cpp
// auto-develop pass: a tile's occupancy ratio and the land value sampled
// under it jointly gate eligibility, and the trial's own success
// probability scales with how far the tile clears its threshold. Returns
// the total upgrade cost billed to the city treasury.
func autoDevelop(w *worldmodel.World, cfg AutoDevelopModel, landValue []float64, rng *prng.Stream) int {
	cost := 0
	n := w.NumTiles()
	for idx := 0; idx < n; idx++ {
		t := w.AtIndex(idx)
		if !t.Overlay.IsZone() {
			continue
		}
		cap := t.Cap()
		if cap <= 0 {
			continue
		}
		occupancy := float64(t.Occupants) / float64(cap)
		lv := 0.5
		if idx < len(landValue) {
			lv = landValue[idx]
		}

		switch {
		case t.Level < 3 && occupancy >= cfg.UpgradeOccupancyThreshold && lv >= cfg.UpgradeLandValueThreshold:
			margin := clampUnit(lv - cfg.UpgradeLandValueThreshold)
			p := cfg.UpgradeBaseChance * (1 + margin)
			if rng.Chance(p) {
				t.Level++
				w.SetIndex(idx, t)
				cost += cfg.UpgradeCostPerLevel * int(t.Level)
			}
		case t.Level > 1 && (occupancy <= cfg.DowngradeOccupancyThreshold || lv <= cfg.DowngradeLandValueThreshold):
			deficit := clampUnit(cfg.DowngradeLandValueThreshold - lv)
			p := cfg.DowngradeBaseChance * (1 + deficit)
			if rng.Chance(p) {
				t.Level--
				w.SetIndex(idx, t)
			}
		}
	}
	return cost
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
