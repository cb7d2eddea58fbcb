package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talgya/citysim/internal/roadnet"
	"github.com/talgya/citysim/internal/worldmodel"
)

func industrialCommercialCorridor(n int) *worldmodel.World {
	w := worldmodel.New(n, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayIndustrial, Level: 1})
	for x := 1; x < n-1; x++ {
		w.Set(x, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	}
	w.Set(n-1, 0, worldmodel.Tile{Overlay: worldmodel.OverlayCommercial, Level: 1, Occupants: 2})
	return w
}

func TestComputeGoodsFlowDeliversWithinSupply(t *testing.T) {
	w := industrialCommercialCorridor(5)
	edgeMask := roadnet.ComputeEdgeConnectedRoads(w)
	zoneAccess := roadnet.BuildZoneAccessMap(w, edgeMask)

	res := ComputeGoodsFlow(w, GoodsConfig{}, edgeMask, zoneAccess)
	require.Greater(t, res.GoodsProduced, 0.0)
	require.Equal(t, 2.0, res.GoodsDemand)
	assert.Equal(t, res.GoodsDemand, res.GoodsDelivered)
	assert.Equal(t, 1.0, res.Satisfaction)
	assert.Equal(t, 0.0, res.UnreachableDemand)
}

func TestComputeGoodsFlowNoDemandIsZero(t *testing.T) {
	w := worldmodel.New(3, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayIndustrial, Level: 1})
	w.Set(1, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	edgeMask := roadnet.ComputeEdgeConnectedRoads(w)
	zoneAccess := roadnet.BuildZoneAccessMap(w, edgeMask)

	res := ComputeGoodsFlow(w, GoodsConfig{}, edgeMask, zoneAccess)
	assert.Equal(t, 0.0, res.GoodsDemand)
	assert.Equal(t, 0.0, res.GoodsDelivered)
	assert.Equal(t, 0.0, res.Satisfaction)
}

func TestComputeGoodsFlowUnreachableDemandWhenDisconnected(t *testing.T) {
	w := worldmodel.New(5, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayIndustrial, Level: 1})
	w.Set(1, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	// Gap at x=2.
	w.Set(3, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	w.Set(4, 0, worldmodel.Tile{Overlay: worldmodel.OverlayCommercial, Level: 1, Occupants: 5})

	edgeMask := roadnet.ComputeEdgeConnectedRoads(w)
	zoneAccess := roadnet.BuildZoneAccessMap(w, edgeMask)
	res := ComputeGoodsFlow(w, GoodsConfig{}, edgeMask, zoneAccess)

	assert.Equal(t, 0.0, res.GoodsDelivered)
	assert.Equal(t, res.GoodsDemand, res.UnreachableDemand)
	assert.Equal(t, 0.0, res.Satisfaction)
}

func TestComputeGoodsFlowImportsFillShortfall(t *testing.T) {
	// Industrial supply capped lower than commercial demand; imports at the
	// map edge must cover the shortfall.
	w := worldmodel.New(5, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayIndustrial, Level: 1}) // supply 3
	for x := 1; x < 4; x++ {
		w.Set(x, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	}
	w.Set(4, 0, worldmodel.Tile{Overlay: worldmodel.OverlayCommercial, Level: 1, Occupants: 10})

	edgeMask := roadnet.ComputeEdgeConnectedRoads(w)
	zoneAccess := roadnet.BuildZoneAccessMap(w, edgeMask)

	cfg := GoodsConfig{AllowImports: true, ImportCapacityPct: 1.0}
	res := ComputeGoodsFlow(w, cfg, edgeMask, zoneAccess)

	assert.Greater(t, res.GoodsImported, 0.0)
	assert.InDelta(t, res.GoodsDemand, res.GoodsDelivered, 0.01)
}

// TestComputeGoodsFlowExportCapLeavesResidualAsUnusedSupply covers the
// case where unconsumed industrial supply exceeds the export capacity
// cap: the excess must be tracked as UnusedSupply, not silently dropped,
// so produced = delivered + exported + unused always holds.
func TestComputeGoodsFlowExportCapLeavesResidualAsUnusedSupply(t *testing.T) {
	w := worldmodel.New(5, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayIndustrial, Level: 3}) // supply ~7
	for x := 1; x < 4; x++ {
		w.Set(x, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	}
	w.Set(4, 0, worldmodel.Tile{Overlay: worldmodel.OverlayCommercial, Level: 1, Occupants: 1})

	edgeMask := roadnet.ComputeEdgeConnectedRoads(w)
	zoneAccess := roadnet.BuildZoneAccessMap(w, edgeMask)

	cfg := GoodsConfig{AllowExports: true, ExportCapacityPct: 0.1}
	res := ComputeGoodsFlow(w, cfg, edgeMask, zoneAccess)

	assert.Greater(t, res.UnusedSupply, 0.0)
	assert.InDelta(t, res.GoodsProduced, res.GoodsDelivered+res.GoodsExported+res.UnusedSupply, 0.01)
}

func TestComputeGoodsFlowNoExportLeavesAllSurplusAsUnusedSupply(t *testing.T) {
	w := industrialCommercialCorridor(5)
	// Shrink demand so supply exceeds it; with exports disabled, the
	// full surplus must show up as UnusedSupply.
	w.Set(4, 0, worldmodel.Tile{Overlay: worldmodel.OverlayCommercial, Level: 1, Occupants: 1})

	edgeMask := roadnet.ComputeEdgeConnectedRoads(w)
	zoneAccess := roadnet.BuildZoneAccessMap(w, edgeMask)

	res := ComputeGoodsFlow(w, GoodsConfig{}, edgeMask, zoneAccess)
	assert.Equal(t, 0.0, res.GoodsExported)
	assert.InDelta(t, res.GoodsProduced-res.GoodsDelivered, res.UnusedSupply, 0.01)
}

func TestComputeGoodsFlowIsDeterministic(t *testing.T) {
	w := industrialCommercialCorridor(6)
	edgeMask := roadnet.ComputeEdgeConnectedRoads(w)
	zoneAccess := roadnet.BuildZoneAccessMap(w, edgeMask)
	cfg := GoodsConfig{AllowImports: true, ImportCapacityPct: 0.5, AllowExports: true, ExportCapacityPct: 0.5}

	a := ComputeGoodsFlow(w, cfg, edgeMask, zoneAccess)
	b := ComputeGoodsFlow(w, cfg, edgeMask, zoneAccess)
	assert.Equal(t, a, b)
}
