package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talgya/citysim/internal/roadnet"
	"github.com/talgya/citysim/internal/worldmodel"
)

func TestUpdateEmploymentFillsMostDesirableSiteFirst(t *testing.T) {
	w := worldmodel.New(3, 2, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad})
	// Road access for the industrial tile, whose only other neighbor is
	// the commercial tile.
	w.Set(2, 1, worldmodel.Tile{Overlay: worldmodel.OverlayRoad})
	w.Set(1, 0, worldmodel.Tile{Overlay: worldmodel.OverlayCommercial, Level: 1}) // cap 3
	w.Set(2, 0, worldmodel.Tile{Overlay: worldmodel.OverlayIndustrial, Level: 1}) // cap 3
	zoneAccess := roadnet.BuildZoneAccessMap(w, nil)

	landValue := make([]float64, w.NumTiles())
	landValue[1] = 0.9
	landValue[2] = 0.1

	employed, jobsCapacity := updateEmployment(w, landValue, 3, zoneAccess)

	assert.Equal(t, 3, employed)
	assert.Equal(t, 6, jobsCapacity)
	assert.EqualValues(t, 3, w.At(1, 0).Occupants)
	assert.EqualValues(t, 0, w.At(2, 0).Occupants)
}

func TestUpdateEmploymentCapsAtWorkforce(t *testing.T) {
	w := worldmodel.New(2, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad})
	w.Set(1, 0, worldmodel.Tile{Overlay: worldmodel.OverlayCommercial, Level: 3})
	zoneAccess := roadnet.BuildZoneAccessMap(w, nil)

	employed, _ := updateEmployment(w, []float64{0, 0.5}, 1, zoneAccess)
	assert.Equal(t, 1, employed)
	assert.EqualValues(t, 1, w.At(1, 0).Occupants)
}

func TestUpdateEmploymentNoJobsNoEmployment(t *testing.T) {
	w := worldmodel.New(1, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Level: 1})
	zoneAccess := roadnet.BuildZoneAccessMap(w, nil)

	employed, jobsCapacity := updateEmployment(w, nil, 100, zoneAccess)
	assert.Equal(t, 0, employed)
	assert.Equal(t, 0, jobsCapacity)
}

// TestUpdateEmploymentSkipsInaccessibleSite covers scenario S4: a job
// site with no road access gets neither occupants nor counted capacity,
// even when citywide workforce has slack, and any stale occupants left
// from a prior accessible day are cleared.
func TestUpdateEmploymentSkipsInaccessibleSite(t *testing.T) {
	w := worldmodel.New(1, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayIndustrial, Level: 1, Occupants: 3})
	zoneAccess := roadnet.BuildZoneAccessMap(w, nil)
	assert.False(t, zoneAccess.HasAccess(w, 0, 0))

	employed, jobsCapacity := updateEmployment(w, []float64{0.9}, 100, zoneAccess)
	assert.Equal(t, 0, employed)
	assert.Equal(t, 0, jobsCapacity)
	assert.EqualValues(t, 0, w.At(0, 0).Occupants)
}
