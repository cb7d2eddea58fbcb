package simulate

import (
	"sort"

	"github.com/talgya/citysim/internal/roadnet"
	"github.com/talgya/citysim/internal/worldmodel"
)

// q16Scale is the fixed-point scale used to rank job sites by desirability.
// Quantizing to an integer before sorting keeps the assignment order
// identical across platforms that would otherwise break float equality
// ties differently.
const q16Scale = 1 << 16

type jobSite struct {
	idx          int
	desirability int64
	cap          int
}

func quantizeQ16(v float64) int64 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int64(v*q16Scale + 0.5)
}

// updateEmployment fills every edge-connected Commercial/Industrial
// tile's Occupants from a citywide labor pool, most-desirable job site
// first (by Q16-quantized land value, tile index breaking ties), and
// returns the total employed headcount and total job capacity across
// the map. A tile without road access gets no Occupants and its
// capacity is excluded from jobsCapacity, matching
// jobsCapacityAccessible's definition.
func updateEmployment(w *worldmodel.World, landValue []float64, totalWorkforce int, zoneAccess roadnet.ZoneAccessMap) (employed, jobsCapacity int) {
	sites := make([]jobSite, 0, 64)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			idx := w.Index(x, y)
			t := w.AtIndex(idx)
			if t.Overlay != worldmodel.OverlayCommercial && t.Overlay != worldmodel.OverlayIndustrial {
				continue
			}
			if !zoneAccess.HasAccess(w, x, y) {
				if t.Occupants != 0 {
					t.Occupants = 0
					w.SetIndex(idx, t)
				}
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
			sites = append(sites, jobSite{idx: idx, desirability: quantizeQ16(lv), cap: cap})
			jobsCapacity += cap
		}
	}

	sort.Slice(sites, func(i, j int) bool {
		if sites[i].desirability != sites[j].desirability {
			return sites[i].desirability > sites[j].desirability
		}
		return sites[i].idx < sites[j].idx
	})

	remaining := totalWorkforce
	for _, site := range sites {
		fill := site.cap
		if fill > remaining {
			fill = remaining
		}
		if fill < 0 {
			fill = 0
		}
		t := w.AtIndex(site.idx)
		t.Occupants = uint16(fill)
		w.SetIndex(site.idx, t)
		employed += fill
		remaining -= fill
	}

	return employed, jobsCapacity
}
