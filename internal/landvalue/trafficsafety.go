package landvalue

import (
	"math"
	"sort"

	"github.com/talgya/citysim/internal/roadnet"
	"github.com/talgya/citysim/internal/worldmodel"
)

// TrafficSafetyConfig tunes the crash-risk/exposure heuristic ported from
// TrafficSafety.hpp: a deterministic, gameplay-facing proxy, not a
// calibrated real-world model.
type TrafficSafetyConfig struct {
	Enabled                  bool
	RequireOutsideConnection bool

	TrafficPercentile float64
	TrafficExponent   float64

	BaseFactor     float64
	GeometryWeight float64
	CanyonWeight   float64

	RiskPercentile float64

	ExposureRadius      int
	ExposurePercentile  float64
	PriorityPercentile  float64
}

// DefaultTrafficSafetyConfig matches the teacher source's struct defaults.
func DefaultTrafficSafetyConfig() TrafficSafetyConfig {
	return TrafficSafetyConfig{
		Enabled:                  true,
		RequireOutsideConnection: true,
		TrafficPercentile:        0.95,
		TrafficExponent:          0.70,
		BaseFactor:               0.25,
		GeometryWeight:           0.60,
		CanyonWeight:             0.35,
		RiskPercentile:           0.95,
		ExposureRadius:           6,
		ExposurePercentile:       0.95,
		PriorityPercentile:       0.95,
	}
}

// TrafficSafetyResult holds the per-tile risk/exposure/priority maps and
// their normalization scales.
type TrafficSafetyResult struct {
	Width, Height int

	TrafficPercentileValue float64
	RiskScale              float64
	ExposureScale          float64
	PriorityScale          float64

	Risk01     []float64 // roads only
	Exposure01 []float64 // all tiles
	Priority01 []float64 // residential

	RoadTilesConsidered  int
	ResidentPopulation   int
	ResidentMeanExposure float64
	ResidentMeanPriority float64
}

func percentile(v []float64, q float64) float64 {
	if len(v) == 0 {
		return 0
	}
	q = clamp01(q)
	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)
	k := int(math.Floor(q * float64(len(sorted)-1)))
	return sorted[k]
}

func geometry01ForRoadTile(n, s, e, wSide bool) float64 {
	deg := 0
	for _, b := range []bool{n, s, e, wSide} {
		if b {
			deg++
		}
	}
	switch deg {
	case 0:
		return 0.20
	case 1:
		return 0.35
	case 2:
		straight := (n && s) || (e && wSide)
		if straight {
			return 0.45
		}
		return 0.65
	case 3:
		return 0.85
	default:
		return 1.00
	}
}

// integralImage builds a (w+1)x(h+1) summed-area table over grid.
func integralImage(grid []float64, w, h int) []float64 {
	W := w + 1
	out := make([]float64, W*(h+1))
	for y := 0; y < h; y++ {
		var row float64
		for x := 0; x < w; x++ {
			row += grid[y*w+x]
			out[(y+1)*W+(x+1)] = out[y*W+(x+1)] + row
		}
	}
	return out
}

func boxSum(integral []float64, w, h, x0, y0, x1, y1 int) float64 {
	x0 = clampInt(x0, 0, w-1)
	x1 = clampInt(x1, 0, w-1)
	y0 = clampInt(y0, 0, h-1)
	y1 = clampInt(y1, 0, h-1)
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	W := w + 1
	a := integral[y0*W+x0]
	b := integral[y0*W+x1+1]
	c := integral[(y1+1)*W+x0]
	d := integral[(y1+1)*W+x1+1]
	return d - b - c + a
}

// ComputeTrafficSafety ports TrafficSafety.cpp's ComputeTrafficSafety:
// road-only crash-risk, a box-filtered neighborhood exposure map, and a
// residential intervention priority map, each robust-scaled by a
// configured percentile of its own raw distribution.
func ComputeTrafficSafety(w *worldmodel.World, cfg TrafficSafetyConfig, roadTraffic []uint32, sky *SkyViewResult, edgeMask []byte) TrafficSafetyResult {
	res := TrafficSafetyResult{Width: w.Width, Height: w.Height}
	n := w.NumTiles()
	res.Risk01 = make([]float64, n)
	res.Exposure01 = make([]float64, n)
	res.Priority01 = make([]float64, n)
	if w.Width <= 0 || w.Height <= 0 || !cfg.Enabled {
		return res
	}

	if cfg.RequireOutsideConnection && edgeMask == nil {
		edgeMask = roadnet.ComputeEdgeConnectedRoads(w)
	}

	if cfg.CanyonWeight > 0 && sky == nil {
		svCfg := DefaultSkyViewConfig()
		computed := ComputeSkyViewFactor(w, svCfg)
		sky = &computed
	}

	isConnectedRoad := func(x, y int) bool {
		if !w.InBounds(x, y) || w.At(x, y).Overlay != worldmodel.OverlayRoad {
			return false
		}
		if cfg.RequireOutsideConnection && edgeMask != nil && edgeMask[w.Index(x, y)] == 0 {
			return false
		}
		return true
	}

	trafficP := 1.0
	if roadTraffic != nil {
		var samples []float64
		for y := 0; y < w.Height; y++ {
			for x := 0; x < w.Width; x++ {
				if !isConnectedRoad(x, y) {
					continue
				}
				v := float64(roadTraffic[w.Index(x, y)])
				if v <= 0 {
					continue
				}
				samples = append(samples, v)
			}
		}
		if p := percentile(samples, cfg.TrafficPercentile); p > 0 {
			trafficP = p
		}
	}
	res.TrafficPercentileValue = trafficP

	rawRisk := make([]float64, n)
	var rawSamples []float64

	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if !isConnectedRoad(x, y) {
				continue
			}
			i := w.Index(x, y)

			geom01 := geometry01ForRoadTile(
				isConnectedRoad(x, y-1), isConnectedRoad(x, y+1),
				isConnectedRoad(x+1, y), isConnectedRoad(x-1, y),
			)

			trafficTerm := 1.0
			if roadTraffic != nil {
				t01 := clamp01(float64(roadTraffic[i]) / trafficP)
				trafficTerm = math.Pow(t01, math.Max(0, cfg.TrafficExponent))
			}

			canyon01 := 0.0
			if cfg.CanyonWeight > 0 && sky != nil && len(sky.Canyon01) == n {
				canyon01 = clamp01(sky.Canyon01[i])
			}

			raw := trafficTerm * (cfg.BaseFactor + cfg.GeometryWeight*geom01 + cfg.CanyonWeight*canyon01)
			rawRisk[i] = raw
			rawSamples = append(rawSamples, raw)
			res.RoadTilesConsidered++
		}
	}

	riskScale := math.Max(1e-6, percentile(rawSamples, cfg.RiskPercentile))
	res.RiskScale = riskScale
	for i := 0; i < n; i++ {
		if rawRisk[i] > 0 {
			res.Risk01[i] = clamp01(rawRisk[i] / riskScale)
		}
	}

	r := maxIntV(0, cfg.ExposureRadius)
	integral := integralImage(res.Risk01, w.Width, w.Height)
	exposureRaw := make([]float64, n)
	var exposureSamples []float64
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			x0, x1, y0, y1 := x-r, x+r, y-r, y+r
			sum := boxSum(integral, w.Width, w.Height, x0, y0, x1, y1)
			cx0, cx1 := clampInt(x0, 0, w.Width-1), clampInt(x1, 0, w.Width-1)
			cy0, cy1 := clampInt(y0, 0, w.Height-1), clampInt(y1, 0, w.Height-1)
			area := float64((cx1 - cx0 + 1) * (cy1 - cy0 + 1))
			v := 0.0
			if area > 0 {
				v = sum / area
			}
			exposureRaw[w.Index(x, y)] = v
			exposureSamples = append(exposureSamples, v)
		}
	}
	expScale := math.Max(1e-6, percentile(exposureSamples, cfg.ExposurePercentile))
	res.ExposureScale = expScale
	for i := 0; i < n; i++ {
		if exposureRaw[i] > 0 {
			res.Exposure01[i] = clamp01(exposureRaw[i] / expScale)
		}
	}

	var popSamples []float64
	for i := 0; i < n; i++ {
		t := w.AtIndex(i)
		if t.Overlay != worldmodel.OverlayResidential || t.Occupants == 0 {
			continue
		}
		popSamples = append(popSamples, float64(t.Occupants))
	}
	popP := math.Max(1, percentile(popSamples, 0.95))

	var priSamples []float64
	for i := 0; i < n; i++ {
		t := w.AtIndex(i)
		if t.Overlay != worldmodel.OverlayResidential {
			continue
		}
		pop01 := clamp01(float64(t.Occupants) / popP)
		raw := res.Exposure01[i] * pop01
		res.Priority01[i] = raw
		priSamples = append(priSamples, raw)
	}
	priScale := math.Max(1e-6, percentile(priSamples, cfg.PriorityPercentile))
	res.PriorityScale = priScale
	for i := 0; i < n; i++ {
		if res.Priority01[i] > 0 {
			res.Priority01[i] = clamp01(res.Priority01[i] / priScale)
		}
	}

	var sumExp, sumPri float64
	pop := 0
	for i := 0; i < n; i++ {
		t := w.AtIndex(i)
		if t.Overlay != worldmodel.OverlayResidential || t.Occupants == 0 {
			continue
		}
		occ := int(t.Occupants)
		pop += occ
		sumExp += res.Exposure01[i] * float64(occ)
		sumPri += res.Priority01[i] * float64(occ)
	}
	res.ResidentPopulation = pop
	if pop > 0 {
		res.ResidentMeanExposure = sumExp / float64(pop)
		res.ResidentMeanPriority = sumPri / float64(pop)
	}

	return res
}
