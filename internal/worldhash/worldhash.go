// Package worldhash computes a stable FNV-1a fingerprint of a World,
// ported field-for-field from original_source's Hash.cpp so regression
// fixtures and replay tests can detect any unintended divergence in
// simulation output.
package worldhash

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/talgya/citysim/internal/worldmodel"
)

// Hash returns the FNV-1a 64-bit fingerprint of world, over width, height,
// seed, then every tile in row-major order as (terrain, overlay,
// height_bits, variation, level, occupants, district). If includeStats,
// the fixed declared order of every Stats field is appended afterward.
// Any write to any of those fields changes the hash; the
// function is infallible.
func Hash(w *worldmodel.World, includeStats bool) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	binary.LittleEndian.PutUint32(buf[:4], uint32(int32(w.Width)))
	h.Write(buf[:4])
	binary.LittleEndian.PutUint32(buf[:4], uint32(int32(w.Height)))
	h.Write(buf[:4])
	binary.LittleEndian.PutUint64(buf[:8], w.Seed)
	h.Write(buf[:8])

	n := w.NumTiles()
	for i := 0; i < n; i++ {
		t := w.AtIndex(i)
		h.Write([]byte{byte(t.Terrain), byte(t.Overlay)})
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(t.Height))
		h.Write(buf[:4])
		h.Write([]byte{t.Variation, t.Level})
		binary.LittleEndian.PutUint16(buf[:2], t.Occupants)
		h.Write(buf[:2])
		h.Write([]byte{t.District})
	}

	if includeStats {
		writeStats(h, w.Stats)
	}

	return h.Sum64()
}

func writeInt(h interface{ Write([]byte) (int, error) }, v int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
	h.Write(buf[:])
}

func writeFloat32(h interface{ Write([]byte) (int, error) }, v float32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	h.Write(buf[:])
}

func writeBool(h interface{ Write([]byte) (int, error) }, v bool) {
	if v {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
}

// writeStats appends every Stats field, in its declared order, to h. This
// must track worldmodel.Stats field-for-field; a field added there without
// a corresponding write here silently breaks the hash's sensitivity
// contract.
func writeStats(h interface{ Write([]byte) (int, error) }, s worldmodel.Stats) {
	writeInt(h, s.Day)

	writeInt(h, s.Population)
	writeInt(h, s.HousingCapacity)
	writeInt(h, s.JobsCapacity)
	writeInt(h, s.JobsCapacityAccessible)
	writeInt(h, s.Employed)
	writeFloat32(h, s.Happiness)
	writeInt(h, s.Money)
	writeInt(h, s.Roads)
	writeInt(h, s.Parks)

	writeInt(h, s.Commuters)
	writeInt(h, s.CommutersUnreachable)
	writeFloat32(h, s.AvgCommute)
	writeFloat32(h, s.P95Commute)
	writeFloat32(h, s.AvgCommuteTime)
	writeFloat32(h, s.P95CommuteTime)
	writeFloat32(h, s.TrafficCongestion)
	writeInt(h, s.CongestedRoadTiles)
	writeInt(h, s.MaxRoadTraffic)

	writeInt(h, s.TransitLines)
	writeInt(h, s.TransitStops)
	writeInt(h, s.TransitRiders)
	writeFloat32(h, s.TransitModeShare)
	writeFloat32(h, s.TransitCommuteCoverage)

	writeInt(h, s.GoodsProduced)
	writeInt(h, s.GoodsDemand)
	writeInt(h, s.GoodsDelivered)
	writeInt(h, s.GoodsImported)
	writeInt(h, s.GoodsExported)
	writeInt(h, s.GoodsUnreachableDemand)
	writeInt(h, s.GoodsUnusedSupply)
	writeFloat32(h, s.GoodsSatisfaction)
	writeInt(h, s.MaxRoadGoodsTraffic)

	writeInt(h, s.TradeImportPartner)
	writeInt(h, s.TradeExportPartner)
	writeInt(h, s.TradeImportCapacityPct)
	writeInt(h, s.TradeExportCapacityPct)
	writeBool(h, s.TradeImportDisrupted)
	writeBool(h, s.TradeExportDisrupted)
	writeFloat32(h, s.TradeMarketIndex)

	writeFloat32(h, s.EconomyIndex)
	writeFloat32(h, s.EconomyInflation)
	writeInt(h, s.EconomyEventKind)
	writeInt(h, s.EconomyEventDaysLeft)
	writeFloat32(h, s.EconomyCityWealth)

	writeInt(h, s.Income)
	writeInt(h, s.Expenses)
	writeInt(h, s.TaxRevenue)
	writeInt(h, s.MaintenanceCost)
	writeInt(h, s.UpgradeCost)
	writeInt(h, s.ImportCost)
	writeInt(h, s.ExportRevenue)
	writeInt(h, s.TransitCost)
	writeFloat32(h, s.AvgTaxPerCapita)

	writeFloat32(h, s.DemandResidential)
	writeFloat32(h, s.DemandCommercial)
	writeFloat32(h, s.DemandIndustrial)
	writeFloat32(h, s.AvgLandValue)

	writeInt(h, s.ServicesEducationFacilities)
	writeInt(h, s.ServicesHealthFacilities)
	writeInt(h, s.ServicesSafetyFacilities)
	writeFloat32(h, s.ServicesEducationSatisfaction)
	writeFloat32(h, s.ServicesHealthSatisfaction)
	writeFloat32(h, s.ServicesSafetySatisfaction)
	writeFloat32(h, s.ServicesOverallSatisfaction)
	writeInt(h, s.ServicesMaintenanceCost)

	writeInt(h, s.FireIncidentDamaged)
	writeInt(h, s.FireIncidentDestroyed)
	writeInt(h, s.FireIncidentDisplaced)
	writeInt(h, s.FireIncidentJobsLostCap)
	writeInt(h, s.FireIncidentCost)
	writeInt(h, s.FireIncidentOriginX)
	writeInt(h, s.FireIncidentOriginY)
	writeInt(h, s.FireIncidentDistrict)
	writeFloat32(h, s.FireIncidentHappinessPenalty)

	writeInt(h, s.TrafficIncidentInjuries)
	writeInt(h, s.TrafficIncidentCost)
	writeInt(h, s.TrafficIncidentOriginX)
	writeInt(h, s.TrafficIncidentOriginY)
	writeInt(h, s.TrafficIncidentDistrict)
	writeFloat32(h, s.TrafficIncidentHappinessPenalty)

	writeFloat32(h, s.AirPollutionIndex)
	writeFloat32(h, s.AirPollutionHappinessPenalty)
}
