package worldgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talgya/citysim/internal/worldmodel"
)

func TestGenerateRejectsNonPositiveDimensions(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Width = 0
	_, err := Generate(cfg)
	assert.Error(t, err)
}

func TestGenerateRejectsInvertedThresholds(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.SeaLevel = 0.9
	cfg.MountainLevel = 0.1
	_, err := Generate(cfg)
	assert.Error(t, err)
}

func TestGenerateProducesCorrectDimensions(t *testing.T) {
	cfg := SmallTestConfig()
	w, err := Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Width, w.Width)
	assert.Equal(t, cfg.Height, w.Height)
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := SmallTestConfig()
	w1, err := Generate(cfg)
	require.NoError(t, err)
	w2, err := Generate(cfg)
	require.NoError(t, err)

	for i := 0; i < w1.NumTiles(); i++ {
		assert.Equal(t, w1.AtIndex(i), w2.AtIndex(i))
	}
}

func TestGeneratePlacesSomeRoadsAndZones(t *testing.T) {
	cfg := DefaultGenConfig()
	w, err := Generate(cfg)
	require.NoError(t, err)

	roads, zones := 0, 0
	for i := 0; i < w.NumTiles(); i++ {
		switch w.AtIndex(i).Overlay {
		case worldmodel.OverlayRoad:
			roads++
		case worldmodel.OverlayResidential, worldmodel.OverlayCommercial, worldmodel.OverlayIndustrial:
			zones++
		}
	}
	assert.Greater(t, roads, 0)
	assert.Greater(t, zones, 0)
}

func TestGenerateAssignsDistrictsWithinRange(t *testing.T) {
	w, err := Generate(SmallTestConfig())
	require.NoError(t, err)
	for i := 0; i < w.NumTiles(); i++ {
		assert.Less(t, int(w.AtIndex(i).District), worldmodel.DistrictCount)
	}
}
