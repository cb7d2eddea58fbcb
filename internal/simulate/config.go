// Package simulate implements the daily simulation tick,
// composing internal/roadnet, internal/flow, and internal/landvalue into
// the step contract: land value, auto-develop, residential/employment
// update, incidents, debt service, and the happiness formula. Grounded on
// original_source's Sim.cpp, generalized into Go's explicit-config,
// explicit-error idiom instead of the teacher's JSON-tagged flat config
// (internal/economy's Config), which this package's SimConfig follows in
// shape.
package simulate

import (
	"github.com/talgya/citysim/internal/flow"
	"github.com/talgya/citysim/internal/landvalue"
)

// TrafficSafetyModel, FireIncidentSettings, and TrafficIncidentSettings
// bound the happiness penalties and Bernoulli-trial parameters for their
// respective incident systems.
type FireIncidentSettings struct {
	BaseChancePerPopulation float64 // chance of a fire per 1000 population per day
	DestroyBase             float64
	MaxHappinessPenalty     float64
	CostPerDamagedTile      int

	// NoStationMultiplier scales chance up when no fire station exists;
	// StationChanceMitigation and MinChanceFactor bound how much each active
	// station reduces chance once at least one exists.
	NoStationMultiplier      float64
	StationChanceMitigation  float64
	MinChanceFactor          float64
}

type TrafficIncidentSettings struct {
	BaseChancePerRoadTile float64
	MaxHappinessPenalty   float64
	CostPerIncident       int

	// NoSafetyServicesMultiplier scales injuries/cost/penalty up when no
	// safety-service facility exists; SafetySatisfactionMitigation and
	// MinSafetyMitigation bound how much coverage satisfaction reduces them.
	NoSafetyServicesMultiplier    float64
	SafetySatisfactionMitigation float64
	MinSafetyMitigation          float64
}

type TrafficSafetyModel struct {
	MaxHappinessPenalty float64
}

// AutoDevelopModel tunes the per-zone-tile upgrade/downgrade Bernoulli
// trial: a tile whose occupancy ratio and local land value both clear the
// upgrade thresholds has a chance, scaled by how far above threshold it
// sits, of advancing one level per day; the symmetric downgrade thresholds
// work the same way in reverse.
type AutoDevelopModel struct {
	UpgradeOccupancyThreshold   float64
	UpgradeLandValueThreshold   float64
	UpgradeBaseChance           float64
	DowngradeOccupancyThreshold float64
	DowngradeLandValueThreshold float64
	DowngradeBaseChance         float64
	UpgradeCostPerLevel         int
}

type AirPollutionModel struct {
	IndustrialWeight     float64
	MaxHappinessPenalty  float64
}

// SimConfig is the Simulator's tuning surface: a flat struct of plain
// fields (matching the teacher's config style — no reflection-driven
// option builders), grouped by concern.
type SimConfig struct {
	TickSeconds float64

	RequireOutsideConnection bool

	Traffic flow.TrafficConfig
	Goods   flow.GoodsConfig
	Land    landvalue.Config

	EmployedShare float64 // assumed share of population participating in the labor force

	ResidentialDesirabilityWeight float64
	CommercialDesirabilityWeight  float64
	IndustrialDesirabilityWeight  float64

	ParkInfluenceRadius int

	TaxRatePerCapita       float64
	TaxHappinessPerCapita  float64
	ImportUnitCost         int
	ExportUnitRevenue      int

	AutoDevelop AutoDevelopModel

	FireIncidents    FireIncidentSettings
	TrafficIncidents TrafficIncidentSettings
	TrafficSafety    TrafficSafetyModel
	AirPollution     AirPollutionModel
}

// DefaultSimConfig mirrors the defaults implied by original_source's
// Sim.cpp constants, adapted to this package's field names.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		TickSeconds:              1.0,
		RequireOutsideConnection: true,
		Traffic: flow.TrafficConfig{
			RequireOutsideConnection: true,
			RoadTileCapacity:         8,
			IncludeCommercialJobs:    true,
			IncludeIndustrialJobs:    true,
			CongestionAwareRouting:   true,
			CongestionIterations:     3,
			CongestionAlpha:          0.6,
			CongestionBeta:           2.0,
			CongestionCapacityScale:  1.0,
			CongestionRatioClamp:     4.0,
		},
		Goods: flow.GoodsConfig{
			RequireOutsideConnection: true,
			AllowImports:             true,
			ImportCapacityPct:        0.5,
			AllowExports:             true,
			ExportCapacityPct:        0.5,
		},
		Land:                           landvalue.DefaultConfig(),
		EmployedShare:                  0.62,
		ResidentialDesirabilityWeight:  0.8,
		CommercialDesirabilityWeight:   1.0,
		IndustrialDesirabilityWeight:   1.0,
		ParkInfluenceRadius:            5,
		TaxRatePerCapita:               0.12,
		TaxHappinessPerCapita:          0.01,
		ImportUnitCost:                 2,
		ExportUnitRevenue:              1,
		FireIncidents: FireIncidentSettings{
			BaseChancePerPopulation: 0.00015,
			DestroyBase:             0.20,
			MaxHappinessPenalty:     0.25,
			CostPerDamagedTile:      120,
			NoStationMultiplier:     1.35,
			StationChanceMitigation: 0.12,
			MinChanceFactor:         0.35,
		},
		TrafficIncidents: TrafficIncidentSettings{
			BaseChancePerRoadTile:        0.00005,
			MaxHappinessPenalty:          0.10,
			CostPerIncident:              60,
			NoSafetyServicesMultiplier:   1.30,
			SafetySatisfactionMitigation: 0.50,
			MinSafetyMitigation:          0.40,
		},
		TrafficSafety: TrafficSafetyModel{MaxHappinessPenalty: 0.10},
		AirPollution:  AirPollutionModel{IndustrialWeight: 0.02, MaxHappinessPenalty: 0.12},
		AutoDevelop: AutoDevelopModel{
			UpgradeOccupancyThreshold:   0.85,
			UpgradeLandValueThreshold:   0.55,
			UpgradeBaseChance:           0.20,
			DowngradeOccupancyThreshold: 0.20,
			DowngradeLandValueThreshold: 0.30,
			DowngradeBaseChance:         0.10,
			UpgradeCostPerLevel:         400,
		},
	}
}
