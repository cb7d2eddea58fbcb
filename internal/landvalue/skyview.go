package landvalue

import (
	"math"

	"github.com/talgya/citysim/internal/worldmodel"
)

// SkyViewConfig tunes the sky-view-factor / urban-canyon heuristic ported
// from SkyView.hpp: a lightweight, deterministic proxy for "how much sky
// is visible" from a tile, trading physical accuracy for speed and
// explainability.
type SkyViewConfig struct {
	MaxHorizonRadius int
	AzimuthSamples   int // <=8 uses an 8-direction compass, otherwise 16
	IncludeBuildings bool

	ResidentialHeightPerLevel float64
	CommercialHeightPerLevel  float64
	IndustrialHeightPerLevel  float64
	CivicHeightPerLevel       float64

	OccupantHeightBoost float64
	OccupantScale       int
}

// DefaultSkyViewConfig matches the teacher source's struct defaults.
func DefaultSkyViewConfig() SkyViewConfig {
	return SkyViewConfig{
		MaxHorizonRadius:          64,
		AzimuthSamples:            16,
		IncludeBuildings:          true,
		ResidentialHeightPerLevel: 0.05,
		CommercialHeightPerLevel:  0.07,
		IndustrialHeightPerLevel:  0.06,
		CivicHeightPerLevel:       0.08,
		OccupantHeightBoost:       0.04,
		OccupantScale:             60,
	}
}

// SkyViewResult holds the per-tile sky-view-factor map and its summary
// statistics.
type SkyViewResult struct {
	Width, Height int
	SkyView01     []float64
	Canyon01      []float64

	MeanSkyView     float64
	MeanRoadSkyView float64
	RoadTileCount   int
}

type dirStep struct {
	dx, dy      int
	distPerStep float64
}

var sqrt2 = math.Sqrt(2)
var sqrt5 = math.Sqrt(5)

var dirs8 = []dirStep{
	{1, 0, 1}, {1, -1, sqrt2}, {0, -1, 1}, {-1, -1, sqrt2},
	{-1, 0, 1}, {-1, 1, sqrt2}, {0, 1, 1}, {1, 1, sqrt2},
}

var dirs16 = []dirStep{
	{1, 0, 1}, {2, -1, sqrt5}, {1, -1, sqrt2}, {1, -2, sqrt5},
	{0, -1, 1}, {-1, -2, sqrt5}, {-1, -1, sqrt2}, {-2, -1, sqrt5},
	{-1, 0, 1}, {-2, 1, sqrt5}, {-1, 1, sqrt2}, {-1, 2, sqrt5},
	{0, 1, 1}, {1, 2, sqrt5}, {1, 1, sqrt2}, {2, 1, sqrt5},
}

func buildingHeight(t worldmodel.Tile, cfg SkyViewConfig) float64 {
	if !cfg.IncludeBuildings {
		return 0
	}
	lvl := clampInt(int(t.Level), 1, 3)
	var h float64
	switch t.Overlay {
	case worldmodel.OverlayResidential:
		h = cfg.ResidentialHeightPerLevel * float64(lvl)
	case worldmodel.OverlayCommercial:
		h = cfg.CommercialHeightPerLevel * float64(lvl)
	case worldmodel.OverlayIndustrial:
		h = cfg.IndustrialHeightPerLevel * float64(lvl)
	default:
		if t.Overlay.IsService() {
			h = cfg.CivicHeightPerLevel * float64(lvl)
		}
	}
	if h > 0 && cfg.OccupantScale > 0 && cfg.OccupantHeightBoost > 0 {
		occ01 := clamp01(float64(t.Occupants) / float64(cfg.OccupantScale))
		h += cfg.OccupantHeightBoost * occ01
	}
	return h
}

// ComputeSkyViewFactor ports SkyView.cpp's ComputeSkyViewFactor: for every
// tile, scan outward along a fixed compass of azimuth directions, take the
// maximum horizon elevation angle, and average cos^2(angle) across
// directions.
func ComputeSkyViewFactor(w *worldmodel.World, cfg SkyViewConfig) SkyViewResult {
	res := SkyViewResult{Width: w.Width, Height: w.Height}
	n := w.NumTiles()
	res.SkyView01 = make([]float64, n)
	res.Canyon01 = make([]float64, n)
	for i := range res.SkyView01 {
		res.SkyView01[i] = 1
	}
	if w.Width <= 0 || w.Height <= 0 {
		return res
	}

	effH := make([]float64, n)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			t := w.At(x, y)
			effH[w.Index(x, y)] = float64(t.Height) + buildingHeight(t, cfg)
		}
	}

	dirs := dirs8
	if cfg.AzimuthSamples > 8 {
		dirs = dirs16
	}
	maxR := clampInt(cfg.MaxHorizonRadius, 1, maxIntV(w.Width, w.Height))

	var sumAll, sumRoad float64
	roadCount := 0

	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			i0 := w.Index(x, y)
			h0 := effH[i0]

			var acc float64
			for _, d := range dirs {
				var maxAng float64
				sx, sy := x, y
				for step := 1; step <= maxR; step++ {
					sx += d.dx
					sy += d.dy
					if !w.InBounds(sx, sy) {
						break
					}
					dh := effH[w.Index(sx, sy)] - h0
					if dh <= 0 {
						continue
					}
					dist := float64(step) * d.distPerStep
					if dist <= 0 {
						continue
					}
					ang := math.Atan2(dh, dist)
					if ang > maxAng {
						maxAng = ang
					}
				}
				c := math.Cos(maxAng)
				acc += c * c
			}

			svf := clamp01(acc / float64(len(dirs)))
			res.SkyView01[i0] = svf
			res.Canyon01[i0] = 1 - svf

			sumAll += svf
			if w.At(x, y).Overlay == worldmodel.OverlayRoad {
				sumRoad += svf
				roadCount++
			}
		}
	}

	if n > 0 {
		res.MeanSkyView = sumAll / float64(n)
	}
	res.RoadTileCount = roadCount
	if roadCount > 0 {
		res.MeanRoadSkyView = sumRoad / float64(roadCount)
	}
	return res
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

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxIntV(a, b int) int {
	if a > b {
		return a
	}
	return b
}
