package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talgya/citysim/internal/roadgraph"
	"github.com/talgya/citysim/internal/roadnet"
	"github.com/talgya/citysim/internal/worldmodel"
)

func TestComputeTransitAccessibilityNoLinesGivesZeroAccess(t *testing.T) {
	w := crossRoadWorld(t)
	g := roadgraph.Build(w)
	edgeMask := roadnet.ComputeEdgeConnectedRoads(w)
	zoneAccess := roadnet.BuildZoneAccessMap(w, edgeMask)

	res := ComputeTransitAccessibility(w, g, TransitPlan{}, zoneAccess, edgeMask, DefaultTransitAccessibilityConfig())

	assert.Equal(t, 0, res.PlannedLines)
	assert.Equal(t, 0, res.PlannedStops)
	for _, s := range res.StepsToStop {
		assert.Equal(t, -1, s)
	}
	for _, a := range res.Access01 {
		assert.Equal(t, 0.0, a)
	}
}

func TestComputeTransitAccessibilityStopTileHasFullAccess(t *testing.T) {
	w := crossRoadWorld(t)
	g := roadgraph.Build(w)
	edgeMask := roadnet.ComputeEdgeConnectedRoads(w)
	zoneAccess := roadnet.BuildZoneAccessMap(w, edgeMask)

	demand := make([]uint64, len(g.Edges))
	for i := range demand {
		demand[i] = 500
	}
	tcfg := DefaultTransitPlannerConfig()
	tcfg.MaxLines = 1
	tcfg.MinLineDemand = 1
	plan := PlanTransitLines(g, demand, tcfg, w)
	require.NotEmpty(t, plan.Lines)

	cfg := DefaultTransitAccessibilityConfig()
	res := ComputeTransitAccessibility(w, g, plan, zoneAccess, edgeMask, cfg)

	require.Greater(t, res.PlannedStops, 0)
	foundStop := false
	for i, m := range res.StopMask {
		if m != 0 {
			foundStop = true
			assert.Equal(t, 0, res.StepsToStop[i])
			assert.Equal(t, 1.0, res.Access01[i])
		}
	}
	assert.True(t, foundStop)
	assert.Greater(t, res.CorridorCoverage, 0.0)
}

func TestComputeTransitAccessibilityDecaysWithDistance(t *testing.T) {
	w := worldmodel.New(30, 1, 1)
	for x := 0; x < 30; x++ {
		w.Set(x, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	}
	w.RecomputeRoadMasks()
	g := roadgraph.Build(w)
	edgeMask := roadnet.ComputeEdgeConnectedRoads(w)
	zoneAccess := roadnet.BuildZoneAccessMap(w, edgeMask)

	demand := make([]uint64, len(g.Edges))
	for i := range demand {
		demand[i] = 500
	}
	tcfg := DefaultTransitPlannerConfig()
	tcfg.MaxLines = 1
	tcfg.MinLineDemand = 1
	tcfg.CoverFraction = 0
	plan := PlanTransitLines(g, demand, tcfg, w)
	require.NotEmpty(t, plan.Lines)

	cfg := DefaultTransitAccessibilityConfig()
	cfg.StopSpacingTiles = 100 // only endpoints become stops
	res := ComputeTransitAccessibility(w, g, plan, zoneAccess, edgeMask, cfg)

	nearIdx := w.Index(1, 0)
	farIdx := w.Index(15, 0)
	assert.GreaterOrEqual(t, res.Access01[nearIdx], res.Access01[farIdx])
}

func TestGeometricMeanZeroWhenEitherInputIsZero(t *testing.T) {
	assert.Equal(t, 0.0, geometricMean(0, 1))
	assert.Equal(t, 0.0, geometricMean(1, 0))
	assert.Greater(t, geometricMean(4, 9), 0.0)
}
