package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talgya/citysim/internal/prng"
	"github.com/talgya/citysim/internal/worldmodel"
)

func TestRunFireIncidentNoPopulationNeverOccurs(t *testing.T) {
	w := worldmodel.New(2, 2, 1)
	res := runFireIncident(w, DefaultSimConfig().FireIncidents, 0, 0, prng.New(1))
	assert.False(t, res.occurred)
}

func TestRunFireIncidentZeroChanceNeverOccurs(t *testing.T) {
	w := worldmodel.New(2, 2, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Occupants: 4})
	cfg := DefaultSimConfig().FireIncidents
	cfg.BaseChancePerPopulation = 0

	res := runFireIncident(w, cfg, 4, 0, prng.New(1))
	assert.False(t, res.occurred)
}

func TestRunFireIncidentStationsReduceChance(t *testing.T) {
	w := worldmodel.New(2, 2, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Occupants: 4})
	cfg := DefaultSimConfig().FireIncidents
	cfg.BaseChancePerPopulation = 1.0
	cfg.StationChanceMitigation = 1.0
	cfg.MinChanceFactor = 0

	res := runFireIncident(w, cfg, 1000, 1, prng.New(1))
	assert.False(t, res.occurred)
}

func TestRunTrafficIncidentNoRoadsNeverOccurs(t *testing.T) {
	w := worldmodel.New(2, 2, 1)
	res := runTrafficIncident(w, DefaultSimConfig().TrafficIncidents, nil, 0, 0, prng.New(1))
	assert.False(t, res.occurred)
}

func TestRunTrafficIncidentZeroChanceNeverOccurs(t *testing.T) {
	w := worldmodel.New(2, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	w.Set(1, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	cfg := DefaultSimConfig().TrafficIncidents
	cfg.BaseChancePerRoadTile = 0

	res := runTrafficIncident(w, cfg, nil, 0, 0, prng.New(1))
	assert.False(t, res.occurred)
}

func TestRunTrafficIncidentSafetyServicesReduceSeverity(t *testing.T) {
	w := worldmodel.New(2, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	w.Set(1, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	cfg := DefaultSimConfig().TrafficIncidents
	cfg.BaseChancePerRoadTile = 1.0
	cfg.SafetySatisfactionMitigation = 1.0
	cfg.MinSafetyMitigation = 0

	res := runTrafficIncident(w, cfg, nil, 1, 1.0, prng.New(1))
	assert.True(t, res.occurred)
	assert.Equal(t, 0, res.cost)
}
