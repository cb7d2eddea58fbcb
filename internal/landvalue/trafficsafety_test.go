package landvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talgya/citysim/internal/worldmodel"
)

func straightRoadWorld(n int) *worldmodel.World {
	w := worldmodel.New(n, 1, 1)
	for x := 0; x < n; x++ {
		w.Set(x, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	}
	return w
}

func TestComputeTrafficSafetyNoRoadsIsZero(t *testing.T) {
	w := worldmodel.New(5, 5, 1)
	res := ComputeTrafficSafety(w, DefaultTrafficSafetyConfig(), nil, nil, nil)
	assert.Equal(t, 0, res.RoadTilesConsidered)
	for _, v := range res.Risk01 {
		assert.Equal(t, 0.0, v)
	}
}

func TestComputeTrafficSafetyHighTrafficRaisesRisk(t *testing.T) {
	w := straightRoadWorld(5)
	low := make([]uint32, w.NumTiles())
	high := make([]uint32, w.NumTiles())
	for i := range low {
		low[i] = 1
		high[i] = 100
	}
	cfg := DefaultTrafficSafetyConfig()
	cfg.RequireOutsideConnection = false

	resLow := ComputeTrafficSafety(w, cfg, low, nil, nil)
	resHigh := ComputeTrafficSafety(w, cfg, high, nil, nil)

	mid := w.Index(2, 0)
	assert.GreaterOrEqual(t, resHigh.Risk01[mid], resLow.Risk01[mid])
}

func TestComputeTrafficSafetyPriorityMapCoversAllTiles(t *testing.T) {
	w := worldmodel.New(5, 1, 1)
	for x := 0; x < 5; x++ {
		w.Set(x, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	}
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Level: 1, Occupants: 10})
	w.Set(4, 0, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Level: 1, Occupants: 1})

	cfg := DefaultTrafficSafetyConfig()
	cfg.RequireOutsideConnection = false
	res := ComputeTrafficSafety(w, cfg, nil, nil, nil)
	require.Len(t, res.Priority01, w.NumTiles())
}
