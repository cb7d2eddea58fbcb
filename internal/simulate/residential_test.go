package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talgya/citysim/internal/roadnet"
	"github.com/talgya/citysim/internal/worldmodel"
)

func TestUpdateResidentialGrowsTowardHighDemandTarget(t *testing.T) {
	w := worldmodel.New(2, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad})
	w.Set(1, 0, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Level: 1, Occupants: 0})
	zoneAccess := roadnet.BuildZoneAccessMap(w, nil)

	updateResidential(w, []float64{0, 1.0}, zoneAccess)
	assert.Greater(t, w.At(1, 0).Occupants, uint16(0))
}

func TestUpdateResidentialDecaysTowardLowDemandTarget(t *testing.T) {
	w := worldmodel.New(2, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad})
	w.Set(1, 0, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Level: 1, Occupants: 4})
	zoneAccess := roadnet.BuildZoneAccessMap(w, nil)

	updateResidential(w, []float64{0, 0.0}, zoneAccess)
	assert.Less(t, w.At(1, 0).Occupants, uint16(4))
}

func TestUpdateResidentialNeverExceedsCapacity(t *testing.T) {
	w := worldmodel.New(2, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad})
	w.Set(1, 0, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Level: 1, Occupants: 4})
	zoneAccess := roadnet.BuildZoneAccessMap(w, nil)

	for i := 0; i < 50; i++ {
		updateResidential(w, []float64{0, 1.0}, zoneAccess)
	}
	assert.LessOrEqual(t, int(w.At(1, 0).Occupants), w.At(1, 0).Cap())
}

// TestUpdateResidentialNoAccessNeverGrows covers scenario S2: a
// residential patch with no adjacent road has its target forced to
// zero, so it only ever decays, never grows, regardless of land value.
func TestUpdateResidentialNoAccessNeverGrows(t *testing.T) {
	w := worldmodel.New(1, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Level: 1, Occupants: 4})
	zoneAccess := roadnet.BuildZoneAccessMap(w, nil)
	assert.False(t, zoneAccess.HasAccess(w, 0, 0))

	for i := 0; i < 50; i++ {
		updateResidential(w, []float64{1.0}, zoneAccess)
	}
	assert.EqualValues(t, 0, w.At(0, 0).Occupants)
}
