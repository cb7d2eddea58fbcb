package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talgya/citysim/internal/worldmodel"
)

func TestComputeHappinessIsBoundedUnit(t *testing.T) {
	cfg := DefaultSimConfig()
	in := happinessInputs{
		population:             100,
		employed:               0,
		avgCommuteTime:         5000,
		reachableCommuters:     100,
		congestion:             1,
		goodsSatisfaction:      0,
		avgTaxPerCapita:        10,
		avgLandValue:           0,
		firePenalty:            1,
		trafficSafetyPenalty:   1,
		trafficIncidentPenalty: 1,
		airPollutionPenalty:    1,
	}
	h := computeHappiness(in, cfg)
	assert.GreaterOrEqual(t, h, float32(0))
	assert.LessOrEqual(t, h, float32(1))
}

func TestComputeHappinessFullEmploymentBeatsUnemployment(t *testing.T) {
	cfg := DefaultSimConfig()
	base := happinessInputs{population: 100, reachableCommuters: 100, avgLandValue: 0.5}

	unemployed := base
	unemployed.employed = 0
	employed := base
	employed.employed = 100

	assert.Greater(t, computeHappiness(employed, cfg), computeHappiness(unemployed, cfg))
}

func TestParkCoverageRatioWeightsByOccupants(t *testing.T) {
	w := worldmodel.New(3, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Occupants: 10})
	w.Set(1, 0, worldmodel.Tile{Overlay: worldmodel.OverlayPark})
	w.Set(2, 0, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Occupants: 10})

	ratio := parkCoverageRatio(w, 1)
	assert.Equal(t, 1.0, ratio)
}

func TestParkCoverageRatioZeroWithNoParks(t *testing.T) {
	w := worldmodel.New(3, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Occupants: 10})

	ratio := parkCoverageRatio(w, 2)
	assert.Equal(t, 0.0, ratio)
}
