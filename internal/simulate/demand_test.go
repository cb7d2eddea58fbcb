package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResidentialDemandRisesWithJobPressureAndHappiness(t *testing.T) {
	low := ResidentialDemand(0.2, 0.3, 0.5)
	high := ResidentialDemand(0.9, 0.9, 0.8)
	assert.Less(t, low, high)
	assert.GreaterOrEqual(t, low, 0.0)
	assert.LessOrEqual(t, high, 1.0)
}

func TestResidentialDemandClampsJobPressureAboveOne(t *testing.T) {
	normal := ResidentialDemand(1.0, 0.5, 0.5)
	over := ResidentialDemand(5.0, 0.5, 0.5)
	assert.Equal(t, normal, over)
}

func TestCommercialDemandZeroWithoutPopulation(t *testing.T) {
	d := CommercialDemand(0, 0, 0.5, 0.5, 0.5, 0)
	assert.Equal(t, 0.0, d)
}

func TestCommercialDemandRisesWhenJobsAreScarce(t *testing.T) {
	scarce := CommercialDemand(100, 0, 0.8, 0.7, 0.6, 0)
	plentiful := CommercialDemand(100, 200, 0.8, 0.7, 0.6, 0)
	assert.Greater(t, scarce, plentiful)
}

func TestCommercialDemandFallsWithHighTax(t *testing.T) {
	noTax := CommercialDemand(100, 10, 0.8, 0.7, 0.6, 0)
	highTax := CommercialDemand(100, 10, 0.8, 0.7, 0.6, 5)
	assert.GreaterOrEqual(t, noTax, highTax)
}

func TestIndustrialDemandRisesWhenGoodsAreShort(t *testing.T) {
	shortage := IndustrialDemand(0.5, 100, 20, 0.1, 0.5, 0.5, 0.4, 0)
	surplus := IndustrialDemand(0.5, 100, 20, 0.95, 0.5, 0.5, 0.4, 0)
	assert.Greater(t, shortage, surplus)
}

func TestIndustrialDemandRisesWithTradeMarketStrength(t *testing.T) {
	weak := IndustrialDemand(0.5, 100, 20, 0.5, 0.2, 0.5, 0.4, 0)
	strong := IndustrialDemand(0.5, 100, 20, 0.5, 1.8, 0.5, 0.4, 0)
	assert.Greater(t, strong, weak)
}

func TestIndustrialDemandStaysWithinUnitRange(t *testing.T) {
	d := IndustrialDemand(0, 1000, 0, 0, 2, 1, 0, 0)
	assert.GreaterOrEqual(t, d, 0.0)
	assert.LessOrEqual(t, d, 1.0)
}
