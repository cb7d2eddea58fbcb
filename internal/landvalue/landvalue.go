package landvalue

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/citysim/internal/worldmodel"
)

// Config tunes the land-value heuristic: proximity to
// parks and water raises value, proximity to industrial zones, traffic
// congestion, and poor terrain lowers it. Amenity contributions are
// diffused with a deterministic box-blur so a tile benefits from nearby,
// not just adjacent, amenities.
type Config struct {
	ParkWeight        float64
	WaterWeight       float64
	IndustrialPenalty float64
	RockPenalty       float64
	SandPenalty       float64
	CongestionPenalty float64

	DiffusionRadius int
	DiffusionPasses int
}

// DefaultConfig returns reasonable tuning consistent in register with the
// other landvalue heuristics' defaults.
func DefaultConfig() Config {
	return Config{
		ParkWeight:        0.35,
		WaterWeight:       0.20,
		IndustrialPenalty: 0.40,
		RockPenalty:       0.10,
		SandPenalty:       0.05,
		CongestionPenalty: 0.30,
		DiffusionRadius:   4,
		DiffusionPasses:   2,
	}
}

// ComputeLandValue returns land_value[idx] in [0,1].
// roadTraffic, if non-nil, feeds a congestion-aware negative term; pass
// nil for the "no traffic spill" pre-traffic pass used in the tick
// contract's step 3.
func ComputeLandValue(w *worldmodel.World, cfg Config, roadTraffic []uint32) []float64 {
	n := w.NumTiles()
	base := make([]float64, n)
	if w.Width <= 0 || w.Height <= 0 {
		return base
	}

	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			idx := w.Index(x, y)
			t := w.At(x, y)
			var v float64
			switch t.Overlay {
			case worldmodel.OverlayPark:
				v += cfg.ParkWeight
			case worldmodel.OverlayIndustrial:
				v -= cfg.IndustrialPenalty
			}
			switch t.Terrain {
			case worldmodel.TerrainWater:
				if t.Overlay != worldmodel.OverlayRoad {
					v += cfg.WaterWeight * 0.5
				}
			case worldmodel.TerrainRock:
				v -= cfg.RockPenalty
			case worldmodel.TerrainSand:
				v -= cfg.SandPenalty
			}
			base[idx] = v
		}
	}

	diffused := boxDiffuse(base, w.Width, w.Height, cfg.DiffusionRadius, cfg.DiffusionPasses)

	if roadTraffic != nil && cfg.CongestionPenalty > 0 {
		congestionField := make([]float64, n)
		maxTraffic := 0.0
		for i := 0; i < n; i++ {
			if w.AtIndex(i).Overlay == worldmodel.OverlayRoad {
				v := float64(roadTraffic[i])
				congestionField[i] = v
				if v > maxTraffic {
					maxTraffic = v
				}
			}
		}
		if maxTraffic > 0 {
			for i := range congestionField {
				congestionField[i] /= maxTraffic
			}
		}
		exposure := boxDiffuse(congestionField, w.Width, w.Height, cfg.DiffusionRadius, 1)
		for i := range diffused {
			diffused[i] -= cfg.CongestionPenalty * exposure[i]
		}
	}

	out := make([]float64, n)
	for i, v := range diffused {
		out[i] = clamp01(0.5 + v)
	}
	return out
}

// boxDiffuse applies cfg.DiffusionPasses rounds of deterministic box-blur
// averaging using a summed-area table per pass, reading only from the
// previous pass's buffer (Jacobi-style) so the result does not depend on
// row scheduling or thread count — a fixed-point, race-free way to
// parallelize the per-row reduction with errgroup.
func boxDiffuse(field []float64, width, height, radius, passes int) []float64 {
	if passes <= 0 {
		passes = 1
	}
	if radius < 0 {
		radius = 0
	}
	cur := append([]float64(nil), field...)

	for pass := 0; pass < passes; pass++ {
		integral := integralImage(cur, width, height)
		next := make([]float64, len(cur))

		g, _ := errgroup.WithContext(context.Background())
		numWorkers := 4
		if numWorkers > height {
			numWorkers = height
		}
		if numWorkers < 1 {
			numWorkers = 1
		}
		rowsPerWorker := (height + numWorkers - 1) / numWorkers

		for worker := 0; worker < numWorkers; worker++ {
			worker := worker
			y0 := worker * rowsPerWorker
			y1 := y0 + rowsPerWorker
			if y1 > height {
				y1 = height
			}
			if y0 >= y1 {
				continue
			}
			g.Go(func() error {
				for y := y0; y < y1; y++ {
					for x := 0; x < width; x++ {
						x0, x1, yy0, yy1 := x-radius, x+radius, y-radius, y+radius
						sum := boxSum(integral, width, height, x0, yy0, x1, yy1)
						cx0, cx1 := clampInt(x0, 0, width-1), clampInt(x1, 0, width-1)
						cy0, cy1 := clampInt(yy0, 0, height-1), clampInt(yy1, 0, height-1)
						area := float64((cx1 - cx0 + 1) * (cy1 - cy0 + 1))
						if area > 0 {
							next[y*width+x] = sum / area
						}
					}
				}
				return nil
			})
		}
		_ = g.Wait()
		cur = next
	}

	return cur
}
