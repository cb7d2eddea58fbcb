package simulate

import "github.com/talgya/citysim/internal/worldmodel"

// serviceMaintenancePerFacility is the daily upkeep charged per active
// service-overlay tile, independent of facility type.
const serviceMaintenancePerFacility = 6

// servicesCoverageRadius bounds how far a service facility's influence
// reaches, in the same Chebyshev-distance style as parkCoverageRatio.
const servicesCoverageRadius = 6

// servicesResult mirrors the civic-accessibility snapshot original_source's
// ComputeServices produces: active facility counts and a population-weighted
// satisfaction fraction per category, plus the category facilities imply in
// upkeep.
type servicesResult struct {
	educationFacilities int
	healthFacilities    int
	safetyFacilities    int

	educationSatisfaction float64
	healthSatisfaction    float64
	safetySatisfaction    float64
	overallSatisfaction   float64

	maintenanceCostPerDay int

	active bool
}

// computeServices auto-activates whenever at least one service-overlay tile
// (School, Hospital, PoliceStation, FireStation) exists, matching the
// services-accessibility toggle decision: School feeds education,
// Hospital feeds health, Police/FireStation jointly feed safety. Each
// category's satisfaction is the population-weighted fraction of
// zone-accessible residential occupants within servicesCoverageRadius tiles
// of an active facility of that category — the same coverage technique
// parkCoverageRatio uses for parks.
func computeServices(w *worldmodel.World, zoneAccess func(x, y int) bool) servicesResult {
	var res servicesResult

	eduTiles, healthTiles, safetyTiles := collectServiceTiles(w)
	res.educationFacilities = len(eduTiles)
	res.healthFacilities = len(healthTiles)
	res.safetyFacilities = len(safetyTiles)

	if res.educationFacilities == 0 && res.healthFacilities == 0 && res.safetyFacilities == 0 {
		return res
	}
	res.active = true

	res.maintenanceCostPerDay = serviceMaintenancePerFacility * (res.educationFacilities + res.healthFacilities + res.safetyFacilities)

	var eduCovered, healthCovered, safetyCovered, total float64
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			t := w.At(x, y)
			if t.Overlay != worldmodel.OverlayResidential || t.Occupants == 0 {
				continue
			}
			if zoneAccess != nil && !zoneAccess(x, y) {
				continue
			}
			weight := float64(t.Occupants)
			total += weight
			if anyWithin(eduTiles, x, y, servicesCoverageRadius) {
				eduCovered += weight
			}
			if anyWithin(healthTiles, x, y, servicesCoverageRadius) {
				healthCovered += weight
			}
			if anyWithin(safetyTiles, x, y, servicesCoverageRadius) {
				safetyCovered += weight
			}
		}
	}

	if total > 0 {
		if res.educationFacilities > 0 {
			res.educationSatisfaction = eduCovered / total
		}
		if res.healthFacilities > 0 {
			res.healthSatisfaction = healthCovered / total
		}
		if res.safetyFacilities > 0 {
			res.safetySatisfaction = safetyCovered / total
		}
	}

	n := 0
	sum := 0.0
	for _, present := range []bool{res.educationFacilities > 0, res.healthFacilities > 0, res.safetyFacilities > 0} {
		if present {
			n++
		}
	}
	if n > 0 {
		if res.educationFacilities > 0 {
			sum += res.educationSatisfaction
		}
		if res.healthFacilities > 0 {
			sum += res.healthSatisfaction
		}
		if res.safetyFacilities > 0 {
			sum += res.safetySatisfaction
		}
		res.overallSatisfaction = sum / float64(n)
	}

	return res
}

type servicePoint struct{ x, y int }

func collectServiceTiles(w *worldmodel.World) (edu, health, safety []servicePoint) {
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			switch w.At(x, y).Overlay {
			case worldmodel.OverlaySchool:
				edu = append(edu, servicePoint{x, y})
			case worldmodel.OverlayHospital:
				health = append(health, servicePoint{x, y})
			case worldmodel.OverlayPoliceStation, worldmodel.OverlayFireStation:
				safety = append(safety, servicePoint{x, y})
			}
		}
	}
	return
}

func anyWithin(pts []servicePoint, x, y, radius int) bool {
	for _, p := range pts {
		dx := p.x - x
		if dx < 0 {
			dx = -dx
		}
		dy := p.y - y
		if dy < 0 {
			dy = -dy
		}
		if dx <= radius && dy <= radius {
			return true
		}
	}
	return false
}

// fireStationCount counts active FireStation tiles, used to mitigate fire
// incident chance independently of the broader services satisfaction model.
func fireStationCount(w *worldmodel.World) int {
	n := 0
	for i := 0; i < w.NumTiles(); i++ {
		if w.AtIndex(i).Overlay == worldmodel.OverlayFireStation {
			n++
		}
	}
	return n
}
