package worldmodel

// levelMultiplier implements a fixed lookup:
// level in {1,2,3} maps to {1.0, 1.5, 2.25} times a base value.
func levelMultiplier(level uint8) float64 {
	switch level {
	case 1:
		return 1.0
	case 2:
		return 1.5
	case 3:
		return 2.25
	default:
		return 1.0
	}
}

func scaleByLevel(base int, level uint8) int {
	return int(float64(base)*levelMultiplier(level) + 0.5)
}

// Base occupancy counts at level 1. Chosen to match the documented growth scenario
// ("1 Residential (cap 4), 1 Commercial (cap 3), 1 Industrial (cap 3)").
const (
	housingBaseLevel1           = 4
	jobsCommercialBaseLevel1    = 3
	jobsIndustrialBaseLevel1    = 3
)

// HousingFor returns the occupancy cap for a Residential tile at the given
// level.
func HousingFor(level uint8) int {
	return scaleByLevel(housingBaseLevel1, level)
}

// JobsFor returns the job capacity for a Commercial/Industrial tile at the
// given level. Overlays other than Commercial/Industrial have no jobs.
func JobsFor(overlay Overlay, level uint8) int {
	switch overlay {
	case OverlayCommercial:
		return scaleByLevel(jobsCommercialBaseLevel1, level)
	case OverlayIndustrial:
		return scaleByLevel(jobsIndustrialBaseLevel1, level)
	default:
		return 0
	}
}

// RoadCapacityForLevel scales a base per-tile vehicle capacity by road
// class.
func RoadCapacityForLevel(base int, level uint8) int {
	return scaleByLevel(base, level)
}

// Travel time in milliseconds to cross one tile, indexed by road level
// (1=street, 2=avenue, 3=highway). Bridges (road over water) use a
// separate, slower table: water crossings move traffic more cautiously.
var roadTravelTimeMilli = [4]int{0, 1200, 800, 500}
var bridgeTravelTimeMilli = [4]int{0, 1800, 1300, 900}

// TravelTimeMilli returns the per-tile travel time for a road tile,
// accounting for whether it is a bridge.
func TravelTimeMilli(t Tile) int {
	level := clampLevel(t.Level)
	if t.IsBridge() {
		return bridgeTravelTimeMilli[level]
	}
	return roadTravelTimeMilli[level]
}

// Maintenance cost in abstract "units" per tile per day, indexed by road
// level. Bridges cost more to maintain than street-grade roads at the same
// class.
var roadMaintenanceUnits = [4]int{0, 1, 2, 4}
var bridgeMaintenanceUnits = [4]int{0, 2, 4, 7}

// RoadMaintenanceUnits returns the per-day maintenance load for a road
// tile.
func RoadMaintenanceUnits(t Tile) int {
	level := clampLevel(t.Level)
	if t.IsBridge() {
		return bridgeMaintenanceUnits[level]
	}
	return roadMaintenanceUnits[level]
}

func clampLevel(level uint8) uint8 {
	if level < 1 {
		return 1
	}
	if level > 3 {
		return 3
	}
	return level
}
