// Package planner proposes and applies capital-improvement plans over a
// World: road-class upgrades scored against observed traffic flow
// ported from original_source's RoadUpgradePlanner.cpp,
// and transit accessibility/stop-placement planning, ported from
// TransitAccessibility.cpp/TransitPlanner.hpp.
package planner

import (
	"sort"

	"github.com/talgya/citysim/internal/roadgraph"
	"github.com/talgya/citysim/internal/worldmodel"
)

// RoadUpgradeObjective selects what PlanRoadUpgrades optimizes for.
type RoadUpgradeObjective uint8

const (
	ObjectiveCongestion RoadUpgradeObjective = iota // maximize reduction in per-tile excess flow
	ObjectiveTime                                   // maximize flow-weighted travel time saved
	ObjectiveHybrid                                 // weighted combination of both
)

// RoadUpgradePlannerConfig tunes PlanRoadUpgrades.
type RoadUpgradePlannerConfig struct {
	BaseTileCapacity    int
	UseRoadLevelCapacity bool

	// UpgradeEndpoints includes an edge's node-tile endpoints as upgrade
	// candidates; otherwise only interior tiles are considered (reduces
	// double-counting where edges share a node), except that an edge with
	// no interior tiles offers its endpoint tiles.
	UpgradeEndpoints bool

	MaxTargetLevel int

	// MinUtilConsider filters out edges whose current max utilization
	// (flow/capacity) is below this; 0 disables the filter.
	MinUtilConsider float64

	Objective         RoadUpgradeObjective
	HybridExcessWeight float64
	HybridTimeWeight   float64

	// Budget caps total spend; negative means unlimited, zero selects
	// nothing (a "report only" plan).
	Budget int
}

// DefaultRoadUpgradePlannerConfig mirrors original_source's defaults.
func DefaultRoadUpgradePlannerConfig() RoadUpgradePlannerConfig {
	return RoadUpgradePlannerConfig{
		BaseTileCapacity:     28,
		UseRoadLevelCapacity: true,
		MaxTargetLevel:       3,
		MinUtilConsider:      1.0,
		Objective:            ObjectiveCongestion,
		HybridExcessWeight:   1.0,
		HybridTimeWeight:     1.0,
		Budget:               -1,
	}
}

// RoadUpgradeEdge is one chosen upgrade.
type RoadUpgradeEdge struct {
	EdgeIndex     int
	A, B          int
	TargetLevel   int
	Cost          int
	TimeSaved     uint64
	ExcessReduced uint64
	TileCount     int
}

// RoadUpgradePlan is the output of PlanRoadUpgrades.
type RoadUpgradePlan struct {
	Width, Height int

	TotalCost          int
	TotalTimeSaved     uint64
	TotalExcessReduced uint64

	Edges []RoadUpgradeEdge

	// TileTargetLevel is the per-tile proposed road level (0 = no change).
	TileTargetLevel []uint8
}

func clampRoadLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 3 {
		return 3
	}
	return level
}

func capacityForLevel(baseCap, level int, useRoadLevels bool) int {
	base := baseCap
	if base < 1 {
		base = 1
	}
	if !useRoadLevels {
		return base
	}
	c := worldmodel.RoadCapacityForLevel(base, uint8(clampRoadLevel(level)))
	if c < 1 {
		return 1
	}
	return c
}

func travelTimeForTile(t worldmodel.Tile, level int) int {
	lvl := clampRoadLevel(level)
	probe := t
	probe.Level = uint8(lvl)
	return worldmodel.TravelTimeMilli(probe)
}

// placementCost estimates the money cost of upgrading one already-existing
// road tile from curLevel to targetLevel; bridges cost more per class step
// than street-grade roads, matching roadMaintenanceUnits/travel-time's
// bridge-premium pattern in worldmodel/tables.go.
func placementCost(curLevel, targetLevel int, isBridge bool) int {
	if targetLevel <= curLevel {
		return 0
	}
	const baseStepCost = 150
	const bridgeMultiplier = 2
	cost := 0
	for lvl := curLevel + 1; lvl <= targetLevel; lvl++ {
		step := baseStepCost * lvl
		if isBridge {
			step *= bridgeMultiplier
		}
		cost += step
	}
	return cost
}

type evalResult struct {
	cost          int
	timeSaved     uint64
	excessReduced uint64
}

// evaluateUpgrade scores upgrading tiles to targetLevel, relative to each
// tile's current level or, if plannedLevels is non-nil, the higher of its
// current and already-planned level (so incremental evaluation during
// greedy selection never double-counts a tile another edge already
// claimed).
func evaluateUpgrade(w *worldmodel.World, tiles []roadgraph.Point, targetLevel int, flow []uint32, baseCap int, useRoadLevels bool, plannedLevels []uint8) evalResult {
	var r evalResult
	tgt := clampRoadLevel(targetLevel)

	for _, p := range tiles {
		if !w.InBounds(p.X, p.Y) {
			continue
		}
		t := w.At(p.X, p.Y)
		if t.Overlay != worldmodel.OverlayRoad {
			continue
		}
		idx := w.Index(p.X, p.Y)

		curLvl := clampRoadLevel(int(t.Level))
		baseLvl := curLvl
		if plannedLevels != nil && idx < len(plannedLevels) && plannedLevels[idx] != 0 {
			planned := clampRoadLevel(int(plannedLevels[idx]))
			if planned > baseLvl {
				baseLvl = planned
			}
		}
		if baseLvl >= tgt {
			continue
		}

		r.cost += placementCost(baseLvl, tgt, t.IsBridge())

		v := 0
		if idx < len(flow) {
			v = int(flow[idx])
		}

		oldCap := capacityForLevel(baseCap, baseLvl, useRoadLevels)
		newCap := capacityForLevel(baseCap, tgt, useRoadLevels)
		oldExcess := maxInt(0, v-oldCap)
		newExcess := maxInt(0, v-newCap)
		r.excessReduced += uint64(maxInt(0, oldExcess-newExcess))

		oldTime := travelTimeForTile(t, baseLvl)
		newTime := travelTimeForTile(t, tgt)
		if oldTime > newTime && v > 0 {
			r.timeSaved += uint64(v) * uint64(oldTime-newTime)
		}
	}
	return r
}

func benefitScore(cfg RoadUpgradePlannerConfig, r evalResult) float64 {
	switch cfg.Objective {
	case ObjectiveTime:
		return float64(r.timeSaved)
	case ObjectiveHybrid:
		return cfg.HybridExcessWeight*float64(r.excessReduced) + cfg.HybridTimeWeight*float64(r.timeSaved)
	default:
		return float64(r.excessReduced)
	}
}

type upgradeCandidate struct {
	edgeIndex   int
	a, b        int
	targetLevel int
	ratio       float64
	benefit     float64
	baseCost    int
	eval        evalResult
	tiles       []roadgraph.Point
}

func edgeCandidateTiles(e roadgraph.Edge, includeEndpoints bool) []roadgraph.Point {
	if includeEndpoints || len(e.Tiles) <= 2 {
		return e.Tiles
	}
	return e.Tiles[1 : len(e.Tiles)-1]
}

func tileUtilization(w *worldmodel.World, flow []uint32, baseCap int, useRoadLevels bool, p roadgraph.Point) float64 {
	if !w.InBounds(p.X, p.Y) {
		return 0
	}
	t := w.At(p.X, p.Y)
	if t.Overlay != worldmodel.OverlayRoad {
		return 0
	}
	idx := w.Index(p.X, p.Y)
	if idx >= len(flow) {
		return 0
	}
	cap := capacityForLevel(baseCap, int(t.Level), useRoadLevels)
	if cap <= 0 {
		return 0
	}
	return float64(flow[idx]) / float64(cap)
}

// PlanRoadUpgrades scores every road-graph edge's candidate upgrades
// against roadFlow (indexed in row-major tile order, as produced by
// flow.TrafficResult.RoadTraffic or a graphflow aggregate), then greedily
// selects the highest benefit-per-cost candidates within budget. roadFlow
// must have length w.NumTiles().
func PlanRoadUpgrades(w *worldmodel.World, g *roadgraph.Graph, roadFlow []uint32, cfg RoadUpgradePlannerConfig) RoadUpgradePlan {
	plan := RoadUpgradePlan{Width: w.Width, Height: w.Height}
	if w.Width <= 0 || w.Height <= 0 {
		return plan
	}
	n := w.NumTiles()
	plan.TileTargetLevel = make([]uint8, n)
	if len(roadFlow) != n {
		return plan
	}

	baseCap := cfg.BaseTileCapacity
	if baseCap < 1 {
		baseCap = 1
	}
	maxLevel := clampRoadLevel(cfg.MaxTargetLevel)

	var candidates []upgradeCandidate
	for ei, e := range g.Edges {
		tiles := edgeCandidateTiles(e, cfg.UpgradeEndpoints)
		if len(tiles) == 0 {
			continue
		}

		maxUtil := 0.0
		for _, p := range tiles {
			if u := tileUtilization(w, roadFlow, baseCap, cfg.UseRoadLevelCapacity, p); u > maxUtil {
				maxUtil = u
			}
		}
		if cfg.MinUtilConsider > 0 && maxUtil < cfg.MinUtilConsider {
			continue
		}

		for tgt := 2; tgt <= maxLevel; tgt++ {
			base := evaluateUpgrade(w, tiles, tgt, roadFlow, baseCap, cfg.UseRoadLevelCapacity, nil)
			if base.cost <= 0 {
				continue
			}
			benefit := benefitScore(cfg, base)
			if benefit <= 0 {
				continue
			}
			cost := base.cost
			if cost < 1 {
				cost = 1
			}
			candidates = append(candidates, upgradeCandidate{
				edgeIndex:   ei,
				a:           e.A,
				b:           e.B,
				targetLevel: tgt,
				baseCost:    base.cost,
				eval:        base,
				benefit:     benefit,
				ratio:       benefit / float64(cost),
				tiles:       tiles,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.ratio != b.ratio {
			return a.ratio > b.ratio
		}
		if a.benefit != b.benefit {
			return a.benefit > b.benefit
		}
		if a.baseCost != b.baseCost {
			return a.baseCost < b.baseCost
		}
		if a.edgeIndex != b.edgeIndex {
			return a.edgeIndex < b.edgeIndex
		}
		return a.targetLevel < b.targetLevel
	})

	chosen := make([]bool, len(g.Edges))
	for _, c := range candidates {
		if chosen[c.edgeIndex] {
			continue
		}

		inc := evaluateUpgrade(w, c.tiles, c.targetLevel, roadFlow, baseCap, cfg.UseRoadLevelCapacity, plan.TileTargetLevel)
		if inc.cost <= 0 {
			continue
		}
		if benefitScore(cfg, inc) <= 0 {
			continue
		}
		if cfg.Budget >= 0 && plan.TotalCost+inc.cost > cfg.Budget {
			continue
		}

		chosen[c.edgeIndex] = true
		plan.TotalCost += inc.cost
		plan.TotalTimeSaved += inc.timeSaved
		plan.TotalExcessReduced += inc.excessReduced

		for _, p := range c.tiles {
			if !w.InBounds(p.X, p.Y) {
				continue
			}
			idx := w.Index(p.X, p.Y)
			tgt := uint8(clampRoadLevel(c.targetLevel))
			if tgt > plan.TileTargetLevel[idx] {
				plan.TileTargetLevel[idx] = tgt
			}
		}

		plan.Edges = append(plan.Edges, RoadUpgradeEdge{
			EdgeIndex:     c.edgeIndex,
			A:             c.a,
			B:             c.b,
			TargetLevel:   c.targetLevel,
			Cost:          inc.cost,
			TimeSaved:     inc.timeSaved,
			ExcessReduced: inc.excessReduced,
			TileCount:     len(c.tiles),
		})

		if cfg.Budget == 0 {
			break
		}
	}

	sort.Slice(plan.Edges, func(i, j int) bool {
		if plan.Edges[i].EdgeIndex != plan.Edges[j].EdgeIndex {
			return plan.Edges[i].EdgeIndex < plan.Edges[j].EdgeIndex
		}
		return plan.Edges[i].TargetLevel < plan.Edges[j].TargetLevel
	})

	return plan
}

// ApplyRoadUpgradePlan writes plan.TileTargetLevel onto w's road tiles
// (never downgrading) and refreshes the road adjacency masks. Does not
// itself charge money; callers bill plan.TotalCost against Stats.Money.
func ApplyRoadUpgradePlan(w *worldmodel.World, plan RoadUpgradePlan) {
	if w.Width != plan.Width || w.Height != plan.Height {
		return
	}
	n := w.NumTiles()
	if len(plan.TileTargetLevel) != n {
		return
	}

	for idx := 0; idx < n; idx++ {
		tgt := plan.TileTargetLevel[idx]
		if tgt == 0 {
			continue
		}
		t := w.AtIndex(idx)
		if t.Overlay != worldmodel.OverlayRoad {
			continue
		}
		newLevel := clampRoadLevel(int(tgt))
		if newLevel > int(t.Level) {
			t.Level = uint8(newLevel)
			w.SetIndex(idx, t)
		}
	}

	w.RecomputeRoadMasks()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
