package planner

import (
	"math"

	"github.com/talgya/citysim/internal/roadgraph"
	"github.com/talgya/citysim/internal/roadnet"
	"github.com/talgya/citysim/internal/worldmodel"
)

// TransitAccessibilityConfig tunes ComputeTransitAccessibility.
type TransitAccessibilityConfig struct {
	RequireOutsideConnection bool

	// StopSpacingTiles is how far apart stops are placed along a planned
	// line's polyline (in road-tile steps); endpoints are always stops.
	StopSpacingTiles int

	// GoodSteps/BadSteps map a tile's road-step distance to the nearest
	// stop onto a [0,1] accessibility score: steps <= GoodSteps -> 1.0,
	// steps >= BadSteps -> 0.0, linear in between.
	GoodSteps int
	BadSteps  int

	ServiceLevel float64
	MaxModeShare float64
}

// DefaultTransitAccessibilityConfig mirrors original_source's defaults.
func DefaultTransitAccessibilityConfig() TransitAccessibilityConfig {
	return TransitAccessibilityConfig{
		RequireOutsideConnection: true,
		StopSpacingTiles:         12,
		GoodSteps:                2,
		BadSteps:                 25,
		ServiceLevel:             1.0,
		MaxModeShare:             0.35,
	}
}

// TransitAccessibilityResult is the output of ComputeTransitAccessibility.
type TransitAccessibilityResult struct {
	Width, Height int

	PlannedLines int
	PlannedStops int

	CorridorCoverage    float64
	ResStopAccessShare  float64
	JobsStopAccessShare float64
	AccessCoverage      float64 // geometric mean of the two access shares
	OverallCoverage     float64 // CorridorCoverage * AccessCoverage

	StepsToStop          []int // -1 = unreachable / no stop
	Access01             []float64
	ModeSharePotential01 []float64

	StopMask     []byte
	CorridorMask []byte
}

// ComputeTransitAccessibility derives a stable, explainable proxy for
// where transit service would be useful given plan's already-selected
// lines: per-tile walking distance to the nearest stop, an accessibility
// score, and a localized mode-share potential signal consistent with the
// tax/happiness-facing aggregate mode-share concept,
// ported from original_source's TransitAccessibility.cpp.
func ComputeTransitAccessibility(w *worldmodel.World, g *roadgraph.Graph, plan TransitPlan, zoneAccess roadnet.ZoneAccessMap, edgeMask []byte, cfg TransitAccessibilityConfig) TransitAccessibilityResult {
	res := TransitAccessibilityResult{Width: w.Width, Height: w.Height}
	n := w.NumTiles()
	res.StepsToStop = make([]int, n)
	res.Access01 = make([]float64, n)
	res.ModeSharePotential01 = make([]float64, n)
	res.StopMask = make([]byte, n)
	res.CorridorMask = make([]byte, n)
	for i := range res.StepsToStop {
		res.StepsToStop[i] = -1
	}
	if n == 0 {
		return res
	}

	res.PlannedLines = len(plan.Lines)

	var stopSources []int
	for _, line := range plan.Lines {
		tiles, ok := BuildTransitLineTilePolyline(g, line)
		if !ok {
			continue
		}
		for _, p := range tiles {
			if w.InBounds(p.X, p.Y) {
				res.CorridorMask[w.Index(p.X, p.Y)] = 1
			}
		}
		for _, p := range lineStopTiles(g, line, cfg.StopSpacingTiles) {
			if !w.InBounds(p.X, p.Y) {
				continue
			}
			idx := w.Index(p.X, p.Y)
			if res.StopMask[idx] == 0 {
				res.StopMask[idx] = 1
				stopSources = append(stopSources, idx)
			}
		}
	}
	res.PlannedStops = len(stopSources)

	bfsStepsFromStops(w, stopSources, res.StepsToStop)

	goodSteps, badSteps := cfg.GoodSteps, cfg.BadSteps
	if badSteps <= goodSteps {
		badSteps = goodSteps + 1
	}

	roadTiles, corridorTiles := 0, 0
	var resWeighted, resTotal, jobsWeighted, jobsTotal float64

	for i := 0; i < n; i++ {
		t := w.AtIndex(i)
		steps := res.StepsToStop[i]

		access := 0.0
		if steps >= 0 {
			switch {
			case steps <= goodSteps:
				access = 1.0
			case steps >= badSteps:
				access = 0.0
			default:
				access = 1.0 - float64(steps-goodSteps)/float64(badSteps-goodSteps)
			}
		}
		res.Access01[i] = access
		res.ModeSharePotential01[i] = clamp01(access * cfg.ServiceLevel)

		if t.Overlay == worldmodel.OverlayRoad {
			roadTiles++
			if res.CorridorMask[i] != 0 {
				corridorTiles++
			}
		}

		x, y := i%w.Width, i/w.Width
		switch t.Overlay {
		case worldmodel.OverlayResidential:
			weight := float64(t.Occupants)
			if weight > 0 && zoneAccess.HasAccess(w, x, y) {
				resTotal += weight
				resWeighted += weight * access
			}
		case worldmodel.OverlayCommercial, worldmodel.OverlayIndustrial:
			weight := float64(worldmodel.JobsFor(t.Overlay, t.Level))
			if weight > 0 && zoneAccess.HasAccess(w, x, y) {
				jobsTotal += weight
				jobsWeighted += weight * access
			}
		}
	}

	if roadTiles > 0 {
		res.CorridorCoverage = float64(corridorTiles) / float64(roadTiles)
	}
	if resTotal > 0 {
		res.ResStopAccessShare = resWeighted / resTotal
	}
	if jobsTotal > 0 {
		res.JobsStopAccessShare = jobsWeighted / jobsTotal
	}
	res.AccessCoverage = geometricMean(res.ResStopAccessShare, res.JobsStopAccessShare)
	res.OverallCoverage = res.CorridorCoverage * res.AccessCoverage

	return res
}

func bfsStepsFromStops(w *worldmodel.World, sources []int, steps []int) {
	if len(sources) == 0 {
		return
	}
	queue := make([]int, 0, len(sources))
	for _, idx := range sources {
		if steps[idx] == -1 || steps[idx] > 0 {
			steps[idx] = 0
		}
		queue = append(queue, idx)
	}

	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		x, y := idx%w.Width, idx/w.Width
		for _, d := range worldmodel.Dirs4 {
			nx, ny := x+d.DX, y+d.DY
			if !w.InBounds(nx, ny) {
				continue
			}
			if w.At(nx, ny).Overlay != worldmodel.OverlayRoad {
				continue
			}
			nidx := w.Index(nx, ny)
			if steps[nidx] != -1 {
				continue
			}
			steps[nidx] = steps[idx] + 1
			queue = append(queue, nidx)
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func geometricMean(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	return math.Sqrt(a * b)
}
