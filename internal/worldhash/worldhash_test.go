package worldhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talgya/citysim/internal/worldmodel"
)

func sampleWorld() *worldmodel.World {
	w := worldmodel.New(4, 4, 42)
	w.Set(1, 1, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	w.Set(2, 2, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Level: 2, Occupants: 5})
	return w
}

func TestHashIsDeterministic(t *testing.T) {
	w := sampleWorld()
	assert.Equal(t, Hash(w, false), Hash(w, false))
}

func TestHashChangesOnTileFieldFlip(t *testing.T) {
	base := Hash(sampleWorld(), false)

	flips := []func(*worldmodel.World){
		func(w *worldmodel.World) { t := w.At(0, 0); t.Terrain = worldmodel.TerrainRock; w.Set(0, 0, t) },
		func(w *worldmodel.World) { t := w.At(0, 0); t.Overlay = worldmodel.OverlayPark; w.Set(0, 0, t) },
		func(w *worldmodel.World) { t := w.At(0, 0); t.Height = 0.5; w.Set(0, 0, t) },
		func(w *worldmodel.World) { t := w.At(0, 0); t.Variation = 3; w.Set(0, 0, t) },
		func(w *worldmodel.World) { t := w.At(1, 1); t.Level = 2; w.Set(1, 1, t) },
		func(w *worldmodel.World) { t := w.At(2, 2); t.Occupants = 9; w.Set(2, 2, t) },
		func(w *worldmodel.World) { t := w.At(0, 0); t.District = 1; w.Set(0, 0, t) },
	}

	for i, flip := range flips {
		w := sampleWorld()
		flip(w)
		h := Hash(w, false)
		assert.NotEqual(t, base, h, "flip #%d did not change the hash", i)
	}
}

func TestHashChangesOnWidthHeightSeed(t *testing.T) {
	base := Hash(sampleWorld(), false)

	w2 := worldmodel.New(5, 4, 42)
	assert.NotEqual(t, base, Hash(w2, false))

	w3 := worldmodel.New(4, 4, 43)
	assert.NotEqual(t, base, Hash(w3, false))
}

func TestHashIncludesStatsWhenRequested(t *testing.T) {
	w := sampleWorld()
	without := Hash(w, false)
	withStats := Hash(w, true)
	assert.NotEqual(t, without, withStats)

	w.Stats.Day = 7
	changed := Hash(w, true)
	assert.NotEqual(t, withStats, changed)
}
