package flow

import (
	"math"
	"sort"

	"github.com/talgya/citysim/internal/roadnet"
	"github.com/talgya/citysim/internal/worldmodel"
)

// TrafficConfig configures commuter traffic assignment.
type TrafficConfig struct {
	RequireOutsideConnection bool
	RoadTileCapacity         int
	IncludeCommercialJobs    bool
	IncludeIndustrialJobs    bool

	CongestionAwareRouting  bool
	CongestionIterations    int
	CongestionAlpha         float64
	CongestionBeta          float64
	CongestionCapacityScale float64
	CongestionRatioClamp    float64

	CapacityAwareJobs       bool
	JobAssignmentIterations int
	JobPenaltyBaseMilli     float64
}

// TrafficResult is the output of ComputeCommuteTraffic.
type TrafficResult struct {
	RoadTraffic []uint32
	MaxTraffic  uint32

	AvgCommute int // steps
	P95Commute int

	AvgCommuteTime float64 // milliseconds
	P95CommuteTime float64

	Congestion         float64
	CongestedRoadTiles int

	TotalCommuters       int
	ReachableCommuters   int
	UnreachableCommuters int

	UsedCongestionAwareRouting bool
	RoutingPasses              int

	UsedCapacityAwareJobs   bool
	JobAssignmentIterations int
	MaxJobSourceOverload    float64
}

type anchorSet struct {
	residential []Anchor
	jobs        []Anchor
}

// buildAnchors turns each accessible zone tile into an anchor: residential anchors are
// road tiles adjacent to residential zones (weighted by occupants ·
// employedShare); job anchors are road tiles adjacent to
// commercial/industrial zones (weighted by gated job capacity).
func buildAnchors(w *worldmodel.World, cfg TrafficConfig, employedShare float64, edgeMask []byte, zoneAccess roadnet.ZoneAccessMap) anchorSet {
	var set anchorSet
	n := w.NumTiles()
	for idx := 0; idx < n; idx++ {
		t := w.AtIndex(idx)
		if !t.Overlay.IsZone() {
			continue
		}
		if cfg.RequireOutsideConnection && edgeMask != nil {
			x, y := idx%w.Width, idx/w.Width
			if !zoneAccess.HasAccess(w, x, y) {
				continue
			}
		}
		roadIdx := int(zoneAccess.RoadIndex[idx])
		if roadIdx < 0 {
			continue
		}

		switch t.Overlay {
		case worldmodel.OverlayResidential:
			weight := float64(t.Occupants) * employedShare
			if weight <= 0 {
				continue
			}
			set.residential = append(set.residential, Anchor{TileIndex: roadIdx, Weight: weight})
		case worldmodel.OverlayCommercial:
			if !cfg.IncludeCommercialJobs {
				continue
			}
			jobs := float64(worldmodel.JobsFor(t.Overlay, t.Level))
			if jobs <= 0 {
				continue
			}
			set.jobs = append(set.jobs, Anchor{TileIndex: roadIdx, Weight: jobs})
		case worldmodel.OverlayIndustrial:
			if !cfg.IncludeIndustrialJobs {
				continue
			}
			jobs := float64(worldmodel.JobsFor(t.Overlay, t.Level))
			if jobs <= 0 {
				continue
			}
			set.jobs = append(set.jobs, Anchor{TileIndex: roadIdx, Weight: jobs})
		}
	}
	return set
}

// ComputeCommuteTraffic assigns commuters from residential anchors to job
// anchors over the road grid, optionally with
// congestion-aware re-routing (§4.5.3) and capacity-aware job assignment
// (§4.5.4). Grounded on the Dijkstra engine in dijkstra.go.
func ComputeCommuteTraffic(w *worldmodel.World, cfg TrafficConfig, employedShare float64, edgeMask []byte, zoneAccess roadnet.ZoneAccessMap) TrafficResult {
	res := TrafficResult{RoadTraffic: make([]uint32, w.NumTiles())}
	set := buildAnchors(w, cfg, employedShare, edgeMask, zoneAccess)
	if len(set.residential) == 0 || len(set.jobs) == 0 {
		return res
	}

	jobPenalty := make([]float64, len(set.jobs))
	prevTraffic := make([]float64, w.NumTiles())

	var commuteSteps, commuteTimes []float64
	passes := 0
	jobIterations := 1
	if cfg.CapacityAwareJobs && cfg.JobAssignmentIterations > 0 {
		jobIterations = cfg.JobAssignmentIterations
	}

	maxOverload := 0.0

	for jobIter := 0; jobIter < jobIterations; jobIter++ {
		routingIterations := 1
		if cfg.CongestionAwareRouting && cfg.CongestionIterations > 0 {
			routingIterations = cfg.CongestionIterations
		}

		traffic := make([]float64, w.NumTiles())
		commuteSteps = commuteSteps[:0]
		commuteTimes = commuteTimes[:0]
		reachable, unreachable := 0, 0

		for pass := 0; pass < routingIterations; pass++ {
			passes++
			costOf := congestionCostFn(w, cfg, prevTraffic)
			costOf = withJobPenalty(w, set.jobs, jobPenalty, costOf)
			searchRes := multiSourceDijkstra(w, set.jobs, costOf)

			passTraffic := make([]float64, w.NumTiles())
			commuteSteps = commuteSteps[:0]
			commuteTimes = commuteTimes[:0]
			reachable, unreachable = 0, 0

			for _, ra := range set.residential {
				path := pathToSource(searchRes, ra.TileIndex)
				if path == nil {
					unreachable++
					continue
				}
				reachable++
				for _, tileIdx := range path {
					passTraffic[tileIdx] += ra.Weight
				}
				commuteSteps = append(commuteSteps, float64(len(path)-1))
				commuteTimes = append(commuteTimes, float64(searchRes.dist[ra.TileIndex]))
			}

			if cfg.CongestionAwareRouting && pass > 0 {
				n := float64(pass + 1)
				for i := range traffic {
					traffic[i] = traffic[i]*(1-1/n) + passTraffic[i]/n
				}
			} else {
				traffic = passTraffic
			}
			prevTraffic = traffic
		}

		res.ReachableCommuters = reachable
		res.UnreachableCommuters = unreachable

		if !cfg.CapacityAwareJobs {
			break
		}

		loadByJob := make([]float64, len(set.jobs))
		// Recompute per-job load by re-tracing (cheap relative to the search
		// itself; keeps job-anchor bookkeeping out of the hot inner loop).
		costOf := congestionCostFn(w, cfg, prevTraffic)
		costOf = withJobPenalty(w, set.jobs, jobPenalty, costOf)
		searchRes := multiSourceDijkstra(w, set.jobs, costOf)
		for _, ra := range set.residential {
			path := pathToSource(searchRes, ra.TileIndex)
			if path == nil {
				continue
			}
			srcIdx := searchRes.source[ra.TileIndex]
			if srcIdx >= 0 {
				loadByJob[srcIdx] += ra.Weight
			}
		}

		maxOverload = 0.0
		changed := false
		for ji, ja := range set.jobs {
			if ja.Weight <= 0 {
				continue
			}
			overload := (loadByJob[ji] - ja.Weight) / ja.Weight
			if overload > 0 {
				jobPenalty[ji] += cfg.JobPenaltyBaseMilli * overload
				changed = true
			}
			if overload > maxOverload {
				maxOverload = overload
			}
		}
		res.JobAssignmentIterations = jobIter + 1
		if !changed {
			break
		}
	}

	res.UsedCongestionAwareRouting = cfg.CongestionAwareRouting
	res.RoutingPasses = passes
	res.UsedCapacityAwareJobs = cfg.CapacityAwareJobs
	res.MaxJobSourceOverload = maxOverload

	for i, v := range prevTraffic {
		rounded := uint32(v + 0.5)
		res.RoadTraffic[i] = rounded
		if rounded > res.MaxTraffic {
			res.MaxTraffic = rounded
		}
	}

	congestedTiles := 0
	roadTiles := 0
	for i := range res.RoadTraffic {
		t := w.AtIndex(i)
		if t.Overlay != worldmodel.OverlayRoad {
			continue
		}
		roadTiles++
		capacity := roadCapacity(w, cfg, i)
		if float64(res.RoadTraffic[i]) > capacity {
			congestedTiles++
		}
	}
	res.CongestedRoadTiles = congestedTiles
	if roadTiles > 0 {
		res.Congestion = float64(congestedTiles) / float64(roadTiles)
	}

	res.TotalCommuters = res.ReachableCommuters + res.UnreachableCommuters
	res.AvgCommute, res.P95Commute = avgAndP95Int(commuteSteps)
	res.AvgCommuteTime, res.P95CommuteTime = avgAndP95Float(commuteTimes)

	return res
}

// roadCapacity returns the per-tile vehicle capacity used by the
// congestion test and re-weighting formula.
func roadCapacity(w *worldmodel.World, cfg TrafficConfig, tileIdx int) float64 {
	t := w.AtIndex(tileIdx)
	base := worldmodel.RoadCapacityForLevel(cfg.RoadTileCapacity, t.Level)
	scale := cfg.CongestionCapacityScale
	if scale <= 0 {
		scale = 1
	}
	return float64(base) * scale
}

// congestionCostFn returns a weightFn that re-weights travel time by the
// congestion formula when congestion-aware routing is
// enabled, using the traffic volume observed in the prior pass.
func congestionCostFn(w *worldmodel.World, cfg TrafficConfig, priorTraffic []float64) weightFn {
	base := isRoadCost(w)
	if !cfg.CongestionAwareRouting {
		return base
	}
	return func(tileIdx int) int64 {
		step := base(tileIdx)
		if step < 0 {
			return step
		}
		c := roadCapacity(w, cfg, tileIdx)
		if c <= 0 {
			return step
		}
		v := priorTraffic[tileIdx]
		ratio := v / c
		clamp := cfg.CongestionRatioClamp
		if clamp <= 0 {
			clamp = 1
		}
		if ratio > clamp {
			ratio = clamp
		}
		factor := 1 + cfg.CongestionAlpha*math.Pow(ratio, cfg.CongestionBeta)
		return int64(float64(step) * factor)
	}
}

// withJobPenalty adds each job anchor's current overload penalty to the
// cost of entering its tile, penalizing over-subscribed job anchors by
// adding their current overload penalty to their arrival cost.
func withJobPenalty(w *worldmodel.World, jobs []Anchor, penalty []float64, base weightFn) weightFn {
	if len(penalty) == 0 {
		return base
	}
	extra := make(map[int]float64, len(jobs))
	for i, ja := range jobs {
		if penalty[i] > 0 {
			extra[ja.TileIndex] += penalty[i]
		}
	}
	if len(extra) == 0 {
		return base
	}
	return func(tileIdx int) int64 {
		step := base(tileIdx)
		if step < 0 {
			return step
		}
		if p, ok := extra[tileIdx]; ok {
			step += int64(p)
		}
		return step
	}
}

func avgAndP95Int(vals []float64) (avg, p95 int) {
	if len(vals) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	idx := int(float64(len(sorted)-1) * 0.95)
	return int(sum/float64(len(vals)) + 0.5), int(sorted[idx] + 0.5)
}

func avgAndP95Float(vals []float64) (avg, p95 float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	idx := int(float64(len(sorted)-1) * 0.95)
	return sum / float64(len(vals)), sorted[idx]
}
