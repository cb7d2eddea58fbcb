// Package worldgen builds deterministic demo worlds from layered simplex
// noise, the same technique the teacher's hex-grid generator uses,
// generalized to citysim's row-major tile grid. It exists to give tests
// and cmd/citysim a runnable fixture in the absence of an external save
// loader.
package worldgen

import (
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
	"github.com/talgya/citysim/internal/prng"
	"github.com/talgya/citysim/internal/worldmodel"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Width, Height int
	Seed          int64

	SeaLevel      float64 // elevation threshold for water, 0..1
	MountainLevel float64 // elevation threshold for rock, 0..1

	RoadSpacing int     // tiles between grid road lines
	ZoneDensity float64 // chance a buildable tile adjacent to a road becomes a zone
}

// DefaultGenConfig returns a reasonable starting configuration for a
// mid-sized demo city.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:         64,
		Height:        64,
		Seed:          1,
		SeaLevel:      0.28,
		MountainLevel: 0.80,
		RoadSpacing:   6,
		ZoneDensity:   0.55,
	}
}

// SmallTestConfig returns a tiny world for fast, deterministic tests.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Width:         16,
		Height:        16,
		Seed:          42,
		SeaLevel:      0.25,
		MountainLevel: 0.85,
		RoadSpacing:   4,
		ZoneDensity:   0.6,
	}
}

// Generate builds a complete World: terrain from multi-octave noise, a
// road grid connecting every RoadSpacing-th row and column, and
// probabilistically placed RCI zones along those roads.
func Generate(cfg GenConfig) (*worldmodel.World, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("worldgen: non-positive dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.SeaLevel < 0 || cfg.SeaLevel > 1 {
		return nil, fmt.Errorf("worldgen: SeaLevel %v out of [0,1]", cfg.SeaLevel)
	}
	if cfg.MountainLevel < 0 || cfg.MountainLevel > 1 {
		return nil, fmt.Errorf("worldgen: MountainLevel %v out of [0,1]", cfg.MountainLevel)
	}
	if cfg.MountainLevel <= cfg.SeaLevel {
		return nil, fmt.Errorf("worldgen: MountainLevel %v must exceed SeaLevel %v", cfg.MountainLevel, cfg.SeaLevel)
	}
	if cfg.RoadSpacing <= 0 {
		return nil, fmt.Errorf("worldgen: non-positive RoadSpacing %d", cfg.RoadSpacing)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	elevNoise := opensimplex.NewNormalized(seed)

	w := worldmodel.New(cfg.Width, cfg.Height, uint64(seed))
	fw, fh := float64(cfg.Width), float64(cfg.Height)
	cx, cy := fw/2, fh/2

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			fx, fy := float64(x), float64(y)
			elev := octaveNoise(elevNoise, fx, fy, 4, 0.06, 0.5)

			// Continental shaping: pull elevation down toward the map edge
			// so the border tends toward water, mirroring the teacher's
			// edge-falloff treatment.
			dx, dy := (fx-cx)/cx, (fy-cy)/cy
			distFromCenter := math.Sqrt(dx*dx + dy*dy)
			edgeFalloff := 1.0 - math.Pow(clamp01(distFromCenter), 3.0)
			elev *= edgeFalloff

			terrain := deriveTerrain(elev, cfg)
			w.Set(x, y, worldmodel.Tile{
				Terrain: terrain,
				Height:  float32(elev),
			})
		}
	}

	placeRoadGrid(w, cfg)
	w.RecomputeRoadMasks()

	zoneRng := prng.Derive(uint64(seed), 0, worldgenSalt)
	placeZones(w, cfg, zoneRng)
	assignDistricts(w)

	return w, nil
}

// worldgenSalt keeps this package's zone-placement draws independent of
// any simulate-package subsystem stream derived from the same seed.
const worldgenSalt uint64 = 0xA0761D6478BD642F

func deriveTerrain(elev float64, cfg GenConfig) worldmodel.Terrain {
	switch {
	case elev < cfg.SeaLevel:
		return worldmodel.TerrainWater
	case elev > cfg.MountainLevel:
		return worldmodel.TerrainRock
	case elev < cfg.SeaLevel+0.06:
		return worldmodel.TerrainSand
	default:
		return worldmodel.TerrainGrass
	}
}

// placeRoadGrid lays a road along every RoadSpacing-th row and column,
// skipping rock tiles (too steep to grade) but permitting water crossings
// as bridges.
func placeRoadGrid(w *worldmodel.World, cfg GenConfig) {
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			onGrid := x%cfg.RoadSpacing == 0 || y%cfg.RoadSpacing == 0
			if !onGrid {
				continue
			}
			t := w.At(x, y)
			if t.Terrain == worldmodel.TerrainRock {
				continue
			}
			t.Overlay = worldmodel.OverlayRoad
			t.Level = 1
			w.Set(x, y, t)
		}
	}
}

// placeZones scatters residential, commercial, and industrial tiles onto
// buildable land adjacent to a road, weighted so residential dominates
// the mix the way a young city's zoning typically does.
func placeZones(w *worldmodel.World, cfg GenConfig, rng *prng.Stream) {
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			t := w.At(x, y)
			if t.Overlay != worldmodel.OverlayNone {
				continue
			}
			if t.Terrain == worldmodel.TerrainWater || t.Terrain == worldmodel.TerrainRock {
				continue
			}
			if !w.HasAdjacentRoad(x, y) {
				continue
			}
			if !rng.Chance(cfg.ZoneDensity) {
				continue
			}
			t.Overlay = pickZoneOverlay(rng)
			t.Level = 1
			w.Set(x, y, t)
		}
	}
}

func pickZoneOverlay(rng *prng.Stream) worldmodel.Overlay {
	roll := rng.Float64()
	switch {
	case roll < 0.55:
		return worldmodel.OverlayResidential
	case roll < 0.80:
		return worldmodel.OverlayCommercial
	default:
		return worldmodel.OverlayIndustrial
	}
}

// assignDistricts splits the grid into a DistrictCount-wide column banding,
// matching the compile-time district count, fixed at 8.
func assignDistricts(w *worldmodel.World) {
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			t := w.At(x, y)
			t.District = uint8((x * worldmodel.DistrictCount) / w.Width)
			if int(t.District) >= worldmodel.DistrictCount {
				t.District = worldmodel.DistrictCount - 1
			}
			w.Set(x, y, t)
		}
	}
}

// octaveNoise layers successive frequency doublings of noise, matching
// the teacher's fractal-noise helper.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	if maxVal == 0 {
		return 0
	}
	return total / maxVal
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
