// Package worldmodel holds the tile grid, the World it composes into, the
// per-day Stats snapshot, and the fixed lookup tables (capacity, travel
// time, maintenance) that replace virtual dispatch on Terrain/Overlay.
package worldmodel

// Terrain is the ground type of a tile.
type Terrain uint8

const (
	TerrainGrass Terrain = iota
	TerrainSand
	TerrainWater
	TerrainRock
)

// Overlay is what is built on top of a tile's terrain.
type Overlay uint8

const (
	OverlayNone Overlay = iota
	OverlayRoad
	OverlayResidential
	OverlayCommercial
	OverlayIndustrial
	OverlayPark
	OverlaySchool
	OverlayHospital
	OverlayPoliceStation
	OverlayFireStation
	OverlayMarket
	OverlayStadium
)

// IsZone reports whether an overlay is a growable RCI zone.
func (o Overlay) IsZone() bool {
	return o == OverlayResidential || o == OverlayCommercial || o == OverlayIndustrial
}

// IsService reports whether an overlay is a civic service facility.
func (o Overlay) IsService() bool {
	switch o {
	case OverlaySchool, OverlayHospital, OverlayPoliceStation, OverlayFireStation:
		return true
	default:
		return false
	}
}

// DistrictCount is a compile-time constant: "District
// count is a compile-time constant (8 in the source)."
const DistrictCount = 8

// Tile is a fixed-size record for one grid cell. Field order here is the
// canonical hashing order used by internal/worldhash — do not reorder
// without updating it.
type Tile struct {
	Terrain    Terrain
	Overlay    Overlay
	Height     float32 // 0..1
	Variation  uint8   // cached 4-neighborhood road adjacency mask
	Level      uint8   // 1..3: building tier or road class (street/avenue/highway)
	Occupants  uint16
	District   uint8 // 0..DistrictCount-1
}

// IsBridge reports whether this tile is a road laid over water.
func (t Tile) IsBridge() bool {
	return t.Overlay == OverlayRoad && t.Terrain == TerrainWater
}

// Cap returns the occupancy cap implied by this tile's overlay and level.
func (t Tile) Cap() int {
	switch t.Overlay {
	case OverlayResidential:
		return HousingFor(t.Level)
	case OverlayCommercial, OverlayIndustrial:
		return JobsFor(t.Overlay, t.Level)
	default:
		return 0
	}
}
