package flow

import (
	"github.com/talgya/citysim/internal/roadnet"
	"github.com/talgya/citysim/internal/worldmodel"
)

// GoodsConfig configures the goods-flow pass. It reuses the
// commuter infrastructure with industrial tiles as sources and commercial
// tiles as sinks.
type GoodsConfig struct {
	RequireOutsideConnection bool
	RoadTileCapacity         int

	// IndustrialSupplyMult and CommercialDemandMult are per-district
	// multipliers (length worldmodel.DistrictCount); nil means all 1.0.
	IndustrialSupplyMult []float64
	CommercialDemandMult []float64

	AllowImports        bool
	ImportCapacityPct   float64
	AllowExports        bool
	ExportCapacityPct   float64
}

// GoodsResult is the output of ComputeGoodsFlow.
type GoodsResult struct {
	RoadGoodsTraffic    []uint32
	MaxRoadGoodsTraffic uint32

	GoodsProduced  float64
	GoodsDemand    float64
	GoodsDelivered float64
	GoodsImported  float64
	GoodsExported  float64

	UnreachableDemand float64
	UnusedSupply      float64 // produced, neither delivered internally nor exported
	Satisfaction      float64 // delivered/demand, clamped [0,1]
}

func districtMult(mults []float64, district uint8) float64 {
	if mults == nil || int(district) >= len(mults) {
		return 1.0
	}
	m := mults[district]
	if m <= 0 {
		return 1.0
	}
	return m
}

func isMapEdge(w *worldmodel.World, idx int) bool {
	x, y := idx%w.Width, idx/w.Width
	return x == 0 || y == 0 || x == w.Width-1 || y == w.Height-1
}

// ComputeGoodsFlow moves goods from industrial supply anchors to
// commercial demand anchors over the road grid, with optional import/export
// at map-edge roads.
func ComputeGoodsFlow(w *worldmodel.World, cfg GoodsConfig, edgeMask []byte, zoneAccess roadnet.ZoneAccessMap) GoodsResult {
	res := GoodsResult{RoadGoodsTraffic: make([]uint32, w.NumTiles())}

	var supply, demand []Anchor
	n := w.NumTiles()
	for idx := 0; idx < n; idx++ {
		t := w.AtIndex(idx)
		if !t.Overlay.IsZone() {
			continue
		}
		if cfg.RequireOutsideConnection && edgeMask != nil {
			x, y := idx%w.Width, idx/w.Width
			if !zoneAccess.HasAccess(w, x, y) {
				continue
			}
		}
		roadIdx := int(zoneAccess.RoadIndex[idx])
		if roadIdx < 0 {
			continue
		}

		switch t.Overlay {
		case worldmodel.OverlayIndustrial:
			units := float64(worldmodel.JobsFor(t.Overlay, t.Level)) * districtMult(cfg.IndustrialSupplyMult, t.District)
			if units <= 0 {
				continue
			}
			supply = append(supply, Anchor{TileIndex: roadIdx, Weight: units})
		case worldmodel.OverlayCommercial:
			units := float64(t.Occupants) * districtMult(cfg.CommercialDemandMult, t.District)
			if units <= 0 {
				continue
			}
			demand = append(demand, Anchor{TileIndex: roadIdx, Weight: units})
		}
	}

	for _, s := range supply {
		res.GoodsProduced += s.Weight
	}
	for _, d := range demand {
		res.GoodsDemand += d.Weight
	}

	if len(demand) == 0 {
		res.UnusedSupply = res.GoodsProduced
		return res
	}

	var sources []Anchor
	sources = append(sources, supply...)

	importCap := 0.0
	if cfg.AllowImports {
		importCap = res.GoodsDemand * clamp01(cfg.ImportCapacityPct)
		for idx := 0; idx < n; idx++ {
			t := w.AtIndex(idx)
			if t.Overlay != worldmodel.OverlayRoad || !isMapEdge(w, idx) {
				continue
			}
			if edgeMask != nil && edgeMask[idx] == 0 {
				continue
			}
			sources = append(sources, Anchor{TileIndex: idx, Weight: importCap})
		}
	}

	if len(sources) == 0 {
		res.UnreachableDemand = res.GoodsDemand
		res.UnusedSupply = res.GoodsProduced
		return res
	}

	searchRes := multiSourceDijkstra(w, sources, isRoadCost(w))

	traffic := make([]float64, n)
	deliveredBySource := make([]float64, len(sources))
	remaining := make([]float64, len(sources))
	for i, s := range sources {
		remaining[i] = s.Weight
	}

	for _, d := range demand {
		path := pathToSource(searchRes, d.TileIndex)
		need := d.Weight
		if path == nil {
			res.UnreachableDemand += need
			continue
		}
		srcIdx := searchRes.source[d.TileIndex]
		if srcIdx < 0 {
			res.UnreachableDemand += need
			continue
		}
		take := need
		if take > remaining[srcIdx] {
			take = remaining[srcIdx]
		}
		if take <= 0 {
			res.UnreachableDemand += need
			continue
		}
		remaining[srcIdx] -= take
		deliveredBySource[srcIdx] += take
		res.GoodsDelivered += take
		if take < need {
			res.UnreachableDemand += need - take
		}
		for _, tileIdx := range path {
			traffic[tileIdx] += take
		}
	}

	for i := len(supply); i < len(sources); i++ {
		res.GoodsImported += deliveredBySource[i]
	}

	totalSupplyUsed := 0.0
	for i := range supply {
		totalSupplyUsed += deliveredBySource[i]
	}
	unusedSupply := res.GoodsProduced - totalSupplyUsed

	if cfg.AllowExports && unusedSupply > 0 {
		exportCap := res.GoodsProduced * clamp01(cfg.ExportCapacityPct)
		if exportCap > unusedSupply {
			exportCap = unusedSupply
		}
		res.GoodsExported = exportCap
	}

	// Supply that is neither delivered locally nor exported (export
	// capacity is a percentage cap, so a surplus beyond it goes
	// nowhere); tracked rather than silently dropped so
	// produced = delivered + exported + unused always holds.
	res.UnusedSupply = unusedSupply - res.GoodsExported

	for i, v := range traffic {
		rounded := uint32(v + 0.5)
		res.RoadGoodsTraffic[i] = rounded
		if rounded > res.MaxRoadGoodsTraffic {
			res.MaxRoadGoodsTraffic = rounded
		}
	}

	if res.GoodsDemand > 0 {
		res.Satisfaction = clamp01(res.GoodsDelivered / res.GoodsDemand)
	}

	return res
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
