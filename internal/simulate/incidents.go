package simulate

import (
	"github.com/talgya/citysim/internal/prng"
	"github.com/talgya/citysim/internal/worldmodel"
)

// fireIncidentResult summarizes one day's fire incident roll, whether or
// not a fire actually occurred (a zero-value result means no fire).
type fireIncidentResult struct {
	damaged, destroyed, displaced, jobsLostCap, cost int
	originX, originY                                 int
	district                                         uint8
	happinessPenalty                                 float32
	occurred                                         bool
}

// runFireIncident rolls one Bernoulli trial, scaled by population, for a
// fire breaking out somewhere in the city. Active fire stations reduce the
// chance (and its absence inflates it); on a hit it picks the origin zone
// tile by a reservoir sample weighted by occupants (higher-occupancy tiles
// are likelier, but not certain, to be chosen; rng drives the draw so the
// choice stays reproducible), reduces that tile a level (destroying it outright at
// level 1), and tallies the resulting cost/displacement/happiness impact.
func runFireIncident(w *worldmodel.World, cfg FireIncidentSettings, population, fireStations int, rng *prng.Stream) fireIncidentResult {
	var res fireIncidentResult
	if population <= 0 {
		return res
	}
	chance := cfg.BaseChancePerPopulation * float64(population) / 1000.0
	if fireStations <= 0 {
		chance *= cfg.NoStationMultiplier
	} else {
		fac := 1.0 - cfg.StationChanceMitigation*float64(fireStations)
		if fac < cfg.MinChanceFactor {
			fac = cfg.MinChanceFactor
		}
		if fac > 1.0 {
			fac = 1.0
		}
		chance *= fac
	}
	if !rng.Chance(chance) {
		return res
	}

	idx, weightSum := -1, 0.0
	n := w.NumTiles()
	for i := 0; i < n; i++ {
		t := w.AtIndex(i)
		if !t.Overlay.IsZone() || t.Occupants == 0 {
			continue
		}
		weightSum += float64(t.Occupants)
		if weightSum == 0 {
			continue
		}
		if rng.Float64() < float64(t.Occupants)/weightSum {
			idx = i
		}
	}
	if idx < 0 {
		return res
	}

	t := w.AtIndex(idx)
	res.occurred = true
	res.originX, res.originY = idx%w.Width, idx/w.Width
	res.district = t.District

	lostOccupants := int(float64(t.Occupants) * cfg.DestroyBase)
	if lostOccupants < 1 {
		lostOccupants = 1
	}
	if lostOccupants > int(t.Occupants) {
		lostOccupants = int(t.Occupants)
	}
	res.displaced = lostOccupants
	t.Occupants -= uint16(lostOccupants)

	if t.Level > 1 {
		t.Level--
		res.damaged = 1
	} else {
		res.destroyed = 1
		res.jobsLostCap = t.Cap()
		t = worldmodel.Tile{Terrain: t.Terrain, District: t.District}
	}
	w.SetIndex(idx, t)

	res.cost = cfg.CostPerDamagedTile * (res.damaged + res.destroyed)
	res.happinessPenalty = float32(cfg.MaxHappinessPenalty)
	if res.destroyed == 0 {
		res.happinessPenalty = float32(cfg.MaxHappinessPenalty * 0.5)
	}
	return res
}

// trafficIncidentResult summarizes one day's traffic crash roll.
type trafficIncidentResult struct {
	injuries, cost    int
	originX, originY  int
	district          uint8
	happinessPenalty  float32
	occurred          bool
}

// runTrafficIncident rolls one Bernoulli trial, with its chance scaled by
// the road-tile count, for a crash occurring somewhere on the network; on
// a hit the crash tile is sampled weighted toward the busiest roads.
// roadTraffic is indexed in row-major tile order, matching
// flow.TrafficResult.RoadTraffic. Emergency response, scaled by active
// safety-service facilities and their coverage satisfaction, mitigates
// the resulting injuries, cost, and happiness penalty.
func runTrafficIncident(w *worldmodel.World, cfg TrafficIncidentSettings, roadTraffic []uint32, safetyFacilities int, safetySatisfaction float64, rng *prng.Stream) trafficIncidentResult {
	var res trafficIncidentResult
	roadTiles := 0
	var totalTraffic uint64
	for i := 0; i < w.NumTiles(); i++ {
		if w.AtIndex(i).Overlay != worldmodel.OverlayRoad {
			continue
		}
		roadTiles++
		if i < len(roadTraffic) {
			totalTraffic += uint64(roadTraffic[i])
		}
	}
	if roadTiles == 0 {
		return res
	}

	chance := cfg.BaseChancePerRoadTile * float64(roadTiles)
	if !rng.Chance(chance) {
		return res
	}

	idx, weightSum := -1, 0.0
	for i := 0; i < w.NumTiles(); i++ {
		t := w.AtIndex(i)
		if t.Overlay != worldmodel.OverlayRoad {
			continue
		}
		w8 := 1.0
		if i < len(roadTraffic) {
			w8 += float64(roadTraffic[i])
		}
		weightSum += w8
		if rng.Float64() < w8/weightSum {
			idx = i
		}
	}
	if idx < 0 {
		return res
	}

	t := w.AtIndex(idx)
	res.occurred = true
	res.originX, res.originY = idx%w.Width, idx/w.Width
	res.district = t.District
	base := 1 + rng.RangeInt(0, 2)

	responseFactor := 1.0
	if safetyFacilities <= 0 {
		responseFactor *= cfg.NoSafetyServicesMultiplier
	} else {
		sat := safetySatisfaction
		if sat < 0 {
			sat = 0
		}
		if sat > 1 {
			sat = 1
		}
		fac := 1.0 - cfg.SafetySatisfactionMitigation*sat
		if fac < cfg.MinSafetyMitigation {
			fac = cfg.MinSafetyMitigation
		}
		responseFactor *= fac
	}

	res.injuries = int(float64(base)*responseFactor + 0.5)
	if res.injuries < 1 {
		res.injuries = 1
	}
	res.cost = int(float64(cfg.CostPerIncident) * responseFactor)
	res.happinessPenalty = float32(cfg.MaxHappinessPenalty * responseFactor)
	return res
}
