package simulate

import (
	"github.com/talgya/citysim/internal/roadnet"
	"github.com/talgya/citysim/internal/worldmodel"
)

// residentialGrowthRate and residentialDecayRate are the base fraction of
// the gap to target occupancy closed per day, before the (1+level) scale
// (so a level-1 building closes twice this fraction); higher-level
// buildings turn over faster, as in original_source's residential update
// pass.
const (
	residentialGrowthRate = 0.12
	residentialDecayRate  = 0.08
)

// updateResidential moves every Residential tile's occupant count one
// step toward a land-value-weighted demand target: target = cap * land
// value at that tile. Growth when under target, decay when over,
// at a rate proportional to (1+level) so higher-tier buildings fill
// and empty faster than level-1 housing. A tile without road access
// has its target forced to zero, so it only ever decays — it can never
// grow population with no road connecting it to the network.
func updateResidential(w *worldmodel.World, landValue []float64, zoneAccess roadnet.ZoneAccessMap) {
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			idx := w.Index(x, y)
			t := w.AtIndex(idx)
			if t.Overlay != worldmodel.OverlayResidential {
				continue
			}
			cap := t.Cap()
			if cap <= 0 {
				continue
			}
			lv := 0.5
			if idx < len(landValue) {
				lv = landValue[idx]
			}
			target := float64(cap) * lv
			if !zoneAccess.HasAccess(w, x, y) {
				target = 0
			}
			current := float64(t.Occupants)
			levelFactor := 1 + float64(t.Level)

			var next float64
			if current < target {
				next = current + (target-current)*residentialGrowthRate*levelFactor
			} else {
				next = current - (current-target)*residentialDecayRate*levelFactor
			}

			occ := int(next + 0.5)
			// Rounding can cancel a step smaller than one occupant; move by
			// at least one while a whole occupant of gap remains.
			if occ == int(t.Occupants) {
				if target-current >= 1 {
					occ++
				} else if current-target >= 1 {
					occ--
				}
			}
			if occ < 0 {
				occ = 0
			}
			if occ > cap {
				occ = cap
			}
			t.Occupants = uint16(occ)
			w.SetIndex(idx, t)
		}
	}
}
