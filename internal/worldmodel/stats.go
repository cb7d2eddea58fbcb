package worldmodel

// Stats is the Simulator's per-day derived-output snapshot, rewritten
// every tick except for the Transit* fields and TransitCost, which the
// Simulator does not write. Field order here is the canonical
// hashing order used by internal/worldhash — do not reorder without
// updating it.
type Stats struct {
	// Core time/state.
	Day int

	// Population + economy.
	Population             int
	HousingCapacity        int
	JobsCapacity           int
	JobsCapacityAccessible int
	Employed               int
	Happiness              float32
	Money                  int
	Roads                  int
	Parks                  int

	// Commute/traffic.
	Commuters             int
	CommutersUnreachable  int
	AvgCommute            float32
	P95Commute            float32
	AvgCommuteTime        float32
	P95CommuteTime        float32
	TrafficCongestion     float32
	CongestedRoadTiles    int
	MaxRoadTraffic        int

	// Transit.
	TransitLines           int
	TransitStops           int
	TransitRiders          int
	TransitModeShare       float32
	TransitCommuteCoverage float32

	// Goods/logistics.
	GoodsProduced         int
	GoodsDemand           int
	GoodsDelivered        int
	GoodsImported         int
	GoodsExported         int
	GoodsUnreachableDemand int
	GoodsUnusedSupply     int
	GoodsSatisfaction     float32
	MaxRoadGoodsTraffic   int

	// Trade/market.
	TradeImportPartner      int
	TradeExportPartner      int
	TradeImportCapacityPct  int
	TradeExportCapacityPct  int
	TradeImportDisrupted    bool
	TradeExportDisrupted    bool
	TradeMarketIndex        float32

	// Macro economy.
	EconomyIndex         float32
	EconomyInflation     float32
	EconomyEventKind     int
	EconomyEventDaysLeft int
	EconomyCityWealth    float32

	// Economy snapshot.
	Income            int
	Expenses          int
	TaxRevenue        int
	MaintenanceCost   int
	UpgradeCost       int
	ImportCost        int
	ExportRevenue     int
	TransitCost       int
	AvgTaxPerCapita   float32

	// Demand/valuation.
	DemandResidential float32
	DemandCommercial  float32
	DemandIndustrial  float32
	AvgLandValue      float32

	// Services.
	ServicesEducationFacilities   int
	ServicesHealthFacilities      int
	ServicesSafetyFacilities      int
	ServicesEducationSatisfaction float32
	ServicesHealthSatisfaction    float32
	ServicesSafetySatisfaction    float32
	ServicesOverallSatisfaction   float32
	ServicesMaintenanceCost       int

	// Incidents: fire.
	FireIncidentDamaged           int
	FireIncidentDestroyed         int
	FireIncidentDisplaced         int
	FireIncidentJobsLostCap       int
	FireIncidentCost              int
	FireIncidentOriginX           int
	FireIncidentOriginY           int
	FireIncidentDistrict          int
	FireIncidentHappinessPenalty  float32

	// Incidents: traffic.
	TrafficIncidentInjuries         int
	TrafficIncidentCost             int
	TrafficIncidentOriginX          int
	TrafficIncidentOriginY          int
	TrafficIncidentDistrict         int
	TrafficIncidentHappinessPenalty float32

	// Air pollution.
	AirPollutionIndex            float32
	AirPollutionHappinessPenalty float32
}
