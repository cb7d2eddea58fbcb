package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talgya/citysim/internal/prng"
	"github.com/talgya/citysim/internal/worldmodel"
)

func TestAutoDevelopUpgradesHighDemandTile(t *testing.T) {
	w := worldmodel.New(1, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Level: 1, Occupants: 4})
	landValue := []float64{0.95}
	cfg := DefaultSimConfig().AutoDevelop
	cfg.UpgradeBaseChance = 1.0

	autoDevelop(w, cfg, landValue, prng.New(1))

	assert.Equal(t, uint8(2), w.At(0, 0).Level)
}

func TestAutoDevelopDowngradesEmptyLowValueTile(t *testing.T) {
	w := worldmodel.New(1, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Level: 2, Occupants: 0})
	landValue := []float64{0.05}
	cfg := DefaultSimConfig().AutoDevelop
	cfg.DowngradeBaseChance = 1.0

	autoDevelop(w, cfg, landValue, prng.New(1))

	assert.Equal(t, uint8(1), w.At(0, 0).Level)
}

func TestAutoDevelopNeverUpgradesPastLevelThree(t *testing.T) {
	w := worldmodel.New(1, 1, 1)
	w.Set(0, 0, worldmodel.Tile{Overlay: worldmodel.OverlayResidential, Level: 3, Occupants: 9})
	landValue := []float64{1.0}
	cfg := DefaultSimConfig().AutoDevelop
	cfg.UpgradeBaseChance = 1.0

	autoDevelop(w, cfg, landValue, prng.New(1))

	assert.Equal(t, uint8(3), w.At(0, 0).Level)
}
