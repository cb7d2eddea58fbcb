package simulate

import (
	"fmt"
	"math"

	"github.com/talgya/citysim/internal/flow"
	"github.com/talgya/citysim/internal/landvalue"
	"github.com/talgya/citysim/internal/prng"
	"github.com/talgya/citysim/internal/roadnet"
	"github.com/talgya/citysim/internal/worldmodel"
)

// Simulator drives one World through repeated daily ticks. It is not safe
// for concurrent use from multiple goroutines against the same World
// (the Simulator holds the only mutable reference to a World
// during a tick).
type Simulator struct {
	cfg         SimConfig
	accumulated float64
}

// NewSimulator constructs a Simulator with the given tuning config.
func NewSimulator(cfg SimConfig) *Simulator {
	return &Simulator{cfg: cfg}
}

// Update advances the simulation by dt seconds of wall-clock time,
// consuming whole TickSeconds-sized ticks from the running accumulator
// and running StepOnce once per tick. A NaN or negative dt is rejected
// without mutating the accumulator. maxTicks, if positive, caps the
// number of ticks run in this call (remaining time stays queued for the
// next call); maxBacklogTicks, if positive, caps how much unconsumed time
// the accumulator is allowed to carry, discarding the excess — this
// bounds how far a stalled caller can let the simulation fall behind
// before it simply skips ahead.
func (s *Simulator) Update(w *worldmodel.World, dt float64, maxTicks, maxBacklogTicks int) (int, error) {
	if math.IsNaN(dt) || dt < 0 {
		return 0, fmt.Errorf("simulate: invalid dt %v", dt)
	}
	if s.cfg.TickSeconds <= 0 {
		return 0, fmt.Errorf("simulate: non-positive TickSeconds %v", s.cfg.TickSeconds)
	}

	s.accumulated += dt
	if maxBacklogTicks > 0 {
		maxBacklog := float64(maxBacklogTicks) * s.cfg.TickSeconds
		if s.accumulated > maxBacklog {
			s.accumulated = maxBacklog
		}
	}

	ticksRun := 0
	for s.accumulated >= s.cfg.TickSeconds {
		if maxTicks > 0 && ticksRun >= maxTicks {
			break
		}
		s.StepOnce(w)
		s.accumulated -= s.cfg.TickSeconds
		ticksRun++
	}
	return ticksRun, nil
}

// StepOnce runs exactly one simulation day against w, in place, per
// Advance the day counter, rebuild connectivity, refresh
// land value, grow/shrink zone levels and occupancy, assign jobs, route
// commuters and goods, roll incidents, service debt, and rewrite Stats.
func (s *Simulator) StepOnce(w *worldmodel.World) {
	cfg := s.cfg
	prevHappiness := float64(w.Stats.Happiness)
	prevAvgLandValue := float64(w.Stats.AvgLandValue)
	w.Stats.Day++
	day := uint64(w.Stats.Day)

	var mask []byte
	edgeMask := roadnet.ComputeEdgeConnectedRoads(w)
	if cfg.RequireOutsideConnection {
		mask = edgeMask
	}
	zoneAccess := roadnet.BuildZoneAccessMap(w, mask)

	preTrafficLandValue := landvalue.ComputeLandValue(w, cfg.Land, nil)

	autoDevRng := prng.Derive(w.Seed, day, prng.SaltAutoDevelop)
	upgradeCost := autoDevelop(w, cfg.AutoDevelop, preTrafficLandValue, autoDevRng)

	updateResidential(w, preTrafficLandValue, zoneAccess)

	scan := scanWorld(w)

	totalWorkforce := int(float64(scan.population)*cfg.EmployedShare + 0.5)
	employed, jobsCapacity := updateEmployment(w, preTrafficLandValue, totalWorkforce, zoneAccess)
	jobsCommercialAccessible, jobsIndustrialAccessible := accessibleJobsCapacityByKind(w, zoneAccess)
	jobsCapacityAccessible := jobsCommercialAccessible + jobsIndustrialAccessible

	traffic := flow.ComputeCommuteTraffic(w, cfg.Traffic, cfg.EmployedShare, mask, zoneAccess)
	goods := flow.ComputeGoodsFlow(w, cfg.Goods, mask, zoneAccess)

	finalLandValue := landvalue.ComputeLandValue(w, cfg.Land, traffic.RoadTraffic)

	services := computeServices(w, func(x, y int) bool { return zoneAccess.HasAccess(w, x, y) })

	fireRng := prng.Derive(w.Seed, day, prng.SaltFireIncident)
	fire := runFireIncident(w, cfg.FireIncidents, scan.population, services.safetyFacilities, fireRng)

	trafficRng := prng.Derive(w.Seed, day, prng.SaltTrafficIncident)
	trafficIncident := runTrafficIncident(w, cfg.TrafficIncidents, traffic.RoadTraffic, services.safetyFacilities, services.safetySatisfaction, trafficRng)

	debtPaid := applyDebtService(w)

	taxRevenue := int(float64(scan.population)*cfg.TaxRatePerCapita + 0.5)
	maintenanceCost := scan.roadMaintenance + services.maintenanceCostPerDay
	importCost := int(goods.GoodsImported*float64(cfg.ImportUnitCost) + 0.5)
	exportRevenue := int(goods.GoodsExported*float64(cfg.ExportUnitRevenue) + 0.5)
	incidentCost := fire.cost + trafficIncident.cost

	income := taxRevenue + exportRevenue
	expenses := maintenanceCost + importCost + upgradeCost + debtPaid + incidentCost

	avgTaxPerCapita := float32(0)
	if scan.population > 0 {
		avgTaxPerCapita = float32(taxRevenue) / float32(scan.population)
	}

	avgLandValue := averageFloat64(finalLandValue)
	pollutionIndex, pollutionPenalty := airPollutionPenalty(w, cfg.AirPollution)

	// The economy system is carried as a fixed, disabled-state snapshot:
	// original_source's Economy/Trade engines are never exercised once
	// disabled, and their defining sources are not available to port.
	const (
		economyIndex     = 1.0
		economyInflation = 0.0
		economyCityWealth = 0.5
	)

	tradeMarketIndex := 0.5 + 0.5*goods.Satisfaction
	if tradeMarketIndex > 2 {
		tradeMarketIndex = 2
	}

	happiness := computeHappiness(happinessInputs{
		population:             scan.population,
		employed:               employed,
		avgCommuteTime:         float32(traffic.AvgCommuteTime),
		reachableCommuters:     traffic.ReachableCommuters,
		congestion:             float32(traffic.Congestion),
		goodsSatisfaction:      float32(goods.Satisfaction),
		avgTaxPerCapita:        avgTaxPerCapita,
		avgLandValue:           float32(avgLandValue),
		firePenalty:            fire.happinessPenalty,
		trafficSafetyPenalty:   0,
		trafficIncidentPenalty: trafficIncident.happinessPenalty,
		airPollutionPenalty:    pollutionPenalty,
		economyInflation:       float32(economyInflation),
		parkCoverage:           parkCoverageRatio(w, cfg.ParkInfluenceRadius),
		servicesActive:             services.active,
		servicesOverallSatisfaction: float32(services.overallSatisfaction),
	}, cfg)

	jobPressure := 1.0
	if totalWorkforce > 0 {
		jobPressure = float64(employed) / float64(totalWorkforce)
	}
	demandResidential := ResidentialDemand(jobPressure, prevHappiness, prevAvgLandValue)
	demandCommercial := CommercialDemand(scan.population, jobsCommercialAccessible, goods.Satisfaction, prevHappiness, prevAvgLandValue, 0)
	demandIndustrial := IndustrialDemand(jobPressure, scan.population, jobsIndustrialAccessible, goods.Satisfaction, tradeMarketIndex, prevHappiness, prevAvgLandValue, 0)

	st := &w.Stats
	st.Population = scan.population
	st.HousingCapacity = scan.housingCapacity
	st.JobsCapacity = jobsCapacity
	st.JobsCapacityAccessible = jobsCapacityAccessible
	st.Employed = employed
	st.Happiness = happiness
	st.Money += income - expenses
	st.Roads = scan.roads
	st.Parks = scan.parks

	st.Commuters = traffic.TotalCommuters
	st.CommutersUnreachable = traffic.UnreachableCommuters
	st.AvgCommute = float32(traffic.AvgCommute)
	st.P95Commute = float32(traffic.P95Commute)
	st.AvgCommuteTime = float32(traffic.AvgCommuteTime)
	st.P95CommuteTime = float32(traffic.P95CommuteTime)
	st.TrafficCongestion = float32(traffic.Congestion)
	st.CongestedRoadTiles = traffic.CongestedRoadTiles
	st.MaxRoadTraffic = int(traffic.MaxTraffic)

	st.GoodsProduced = int(goods.GoodsProduced + 0.5)
	st.GoodsDemand = int(goods.GoodsDemand + 0.5)
	st.GoodsDelivered = int(goods.GoodsDelivered + 0.5)
	st.GoodsImported = int(goods.GoodsImported + 0.5)
	st.GoodsExported = int(goods.GoodsExported + 0.5)
	st.GoodsUnreachableDemand = int(goods.UnreachableDemand + 0.5)
	st.GoodsUnusedSupply = int(goods.UnusedSupply + 0.5)
	st.GoodsSatisfaction = float32(goods.Satisfaction)
	st.MaxRoadGoodsTraffic = int(goods.MaxRoadGoodsTraffic)

	st.Income = income
	st.Expenses = expenses
	st.TaxRevenue = taxRevenue
	st.MaintenanceCost = maintenanceCost
	st.UpgradeCost = upgradeCost
	st.ImportCost = importCost
	st.ExportRevenue = exportRevenue
	st.AvgTaxPerCapita = avgTaxPerCapita

	st.AvgLandValue = float32(avgLandValue)

	st.DemandResidential = float32(demandResidential)
	st.DemandCommercial = float32(demandCommercial)
	st.DemandIndustrial = float32(demandIndustrial)

	st.ServicesEducationFacilities = services.educationFacilities
	st.ServicesHealthFacilities = services.healthFacilities
	st.ServicesSafetyFacilities = services.safetyFacilities
	st.ServicesEducationSatisfaction = float32(services.educationSatisfaction)
	st.ServicesHealthSatisfaction = float32(services.healthSatisfaction)
	st.ServicesSafetySatisfaction = float32(services.safetySatisfaction)
	st.ServicesOverallSatisfaction = float32(services.overallSatisfaction)
	st.ServicesMaintenanceCost = services.maintenanceCostPerDay

	st.TradeImportPartner = -1
	st.TradeExportPartner = -1
	st.TradeImportCapacityPct = int(cfg.Goods.ImportCapacityPct*100 + 0.5)
	st.TradeExportCapacityPct = int(cfg.Goods.ExportCapacityPct*100 + 0.5)
	st.TradeImportDisrupted = !cfg.Goods.AllowImports
	st.TradeExportDisrupted = !cfg.Goods.AllowExports
	st.TradeMarketIndex = float32(tradeMarketIndex)

	st.EconomyIndex = float32(economyIndex)
	st.EconomyInflation = float32(economyInflation)
	st.EconomyEventKind = 0
	st.EconomyEventDaysLeft = 0
	st.EconomyCityWealth = float32(economyCityWealth)

	st.FireIncidentDamaged = fire.damaged
	st.FireIncidentDestroyed = fire.destroyed
	st.FireIncidentDisplaced = fire.displaced
	st.FireIncidentJobsLostCap = fire.jobsLostCap
	st.FireIncidentCost = fire.cost
	st.FireIncidentOriginX = fire.originX
	st.FireIncidentOriginY = fire.originY
	st.FireIncidentDistrict = int(fire.district)
	st.FireIncidentHappinessPenalty = fire.happinessPenalty

	st.TrafficIncidentInjuries = trafficIncident.injuries
	st.TrafficIncidentCost = trafficIncident.cost
	st.TrafficIncidentOriginX = trafficIncident.originX
	st.TrafficIncidentOriginY = trafficIncident.originY
	st.TrafficIncidentDistrict = int(trafficIncident.district)
	st.TrafficIncidentHappinessPenalty = trafficIncident.happinessPenalty

	st.AirPollutionIndex = pollutionIndex
	st.AirPollutionHappinessPenalty = pollutionPenalty
}

type worldScan struct {
	population      int
	housingCapacity int
	roads           int
	parks           int
	roadMaintenance int
}

func scanWorld(w *worldmodel.World) worldScan {
	var s worldScan
	for i := 0; i < w.NumTiles(); i++ {
		t := w.AtIndex(i)
		switch t.Overlay {
		case worldmodel.OverlayResidential:
			s.population += int(t.Occupants)
			s.housingCapacity += t.Cap()
		case worldmodel.OverlayRoad:
			s.roads++
			s.roadMaintenance += worldmodel.RoadMaintenanceUnits(t)
		case worldmodel.OverlayPark:
			s.parks++
		}
	}
	return s
}

// accessibleJobsCapacityByKind sums reachable job capacity per overlay
// kind, since CommercialDemand and IndustrialDemand each weigh their own
// job market separately.
func accessibleJobsCapacityByKind(w *worldmodel.World, zoneAccess roadnet.ZoneAccessMap) (commercial, industrial int) {
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			t := w.At(x, y)
			if !zoneAccess.HasAccess(w, x, y) {
				continue
			}
			switch t.Overlay {
			case worldmodel.OverlayCommercial:
				commercial += t.Cap()
			case worldmodel.OverlayIndustrial:
				industrial += t.Cap()
			}
		}
	}
	return commercial, industrial
}

func averageFloat64(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// airPollutionPenalty is a simple industrial-density proxy: the fraction
// of tiles under Industrial overlay, weighted by IndustrialWeight and
// capped at MaxHappinessPenalty.
func airPollutionPenalty(w *worldmodel.World, cfg AirPollutionModel) (index float32, penalty float32) {
	n := w.NumTiles()
	if n == 0 {
		return 0, 0
	}
	industrial := 0
	for i := 0; i < n; i++ {
		if w.AtIndex(i).Overlay == worldmodel.OverlayIndustrial {
			industrial++
		}
	}
	idx := float64(industrial) / float64(n)
	pen := idx * cfg.IndustrialWeight
	if pen > cfg.MaxHappinessPenalty {
		pen = cfg.MaxHappinessPenalty
	}
	return float32(idx), float32(pen)
}
