package planner

import (
	"github.com/talgya/citysim/internal/roadgraph"
	"github.com/talgya/citysim/internal/worldmodel"
)

// TransitEdgeWeightMode selects how PlanTransitLines measures an edge's
// base cost.
type TransitEdgeWeightMode uint8

const (
	TransitWeightSteps      TransitEdgeWeightMode = iota // edge length in tiles
	TransitWeightTravelTime                              // summed per-tile travel time
)

// TransitPlannerConfig tunes PlanTransitLines.
type TransitPlannerConfig struct {
	MaxLines int

	WeightMode TransitEdgeWeightMode

	// CoverFraction is the share of a line's edge demand consumed once the
	// line is selected, so later lines are steered toward other corridors.
	// 0 = no consumption, 1 = fully consumed.
	CoverFraction float64

	// MinEdgeDemand excludes edges below this remaining demand from
	// extension candidates.
	MinEdgeDemand uint64

	// MinLineDemand is the minimum total demand a candidate line must cover
	// to be accepted; planning stops once no candidate clears this bar.
	MinLineDemand uint64
}

// DefaultTransitPlannerConfig mirrors original_source's defaults.
func DefaultTransitPlannerConfig() TransitPlannerConfig {
	return TransitPlannerConfig{
		MaxLines:      8,
		WeightMode:    TransitWeightTravelTime,
		CoverFraction: 0.7,
		MinEdgeDemand: 1,
		MinLineDemand: 50,
	}
}

// TransitLine is one planned line: an alternating node/edge path through
// the road graph.
type TransitLine struct {
	ID        int
	Nodes     []int
	Edges     []int
	SumDemand uint64
	BaseCost  uint64
}

// TransitPlan is the output of PlanTransitLines.
type TransitPlan struct {
	Cfg            TransitPlannerConfig
	TotalDemand    uint64
	CoveredDemand  uint64
	Lines          []TransitLine
}

func edgeBaseCost(g *roadgraph.Graph, w *worldmodel.World, edgeIndex int, mode TransitEdgeWeightMode) uint64 {
	e := g.Edges[edgeIndex]
	if mode == TransitWeightSteps || w == nil {
		steps := e.Length
		if steps < 1 {
			steps = 1
		}
		return uint64(steps) * 1000
	}
	var total uint64
	for _, p := range e.Tiles {
		if !w.InBounds(p.X, p.Y) {
			continue
		}
		t := w.At(p.X, p.Y)
		if t.Overlay == worldmodel.OverlayRoad {
			total += uint64(worldmodel.TravelTimeMilli(t))
		}
	}
	if total == 0 {
		total = uint64(maxInt(1, e.Length)) * 1000
	}
	return total
}

// PlanTransitLines greedily builds up to cfg.MaxLines corridor lines over
// g, each extended tile-graph-edge-by-edge toward the neighboring edge
// with the most remaining demand, consuming a share of each used edge's
// demand as lines are accepted so later lines are steered elsewhere.
// edgeDemand must have length len(g.Edges); w, if non-nil, grounds
// TransitWeightTravelTime costs in actual per-tile travel time.
func PlanTransitLines(g *roadgraph.Graph, edgeDemand []uint64, cfg TransitPlannerConfig, w *worldmodel.World) TransitPlan {
	plan := TransitPlan{Cfg: cfg}
	if len(g.Edges) == 0 || len(edgeDemand) != len(g.Edges) {
		return plan
	}

	remaining := append([]uint64(nil), edgeDemand...)
	for _, d := range edgeDemand {
		plan.TotalDemand += d
	}

	baseCost := make([]uint64, len(g.Edges))
	for i := range g.Edges {
		baseCost[i] = edgeBaseCost(g, w, i, cfg.WeightMode)
	}

	maxLines := cfg.MaxLines
	if maxLines <= 0 {
		maxLines = 1
	}

	for len(plan.Lines) < maxLines {
		seedEdge := -1
		var seedDemand uint64
		for i, d := range remaining {
			if d > seedDemand {
				seedDemand = d
				seedEdge = i
			}
		}
		if seedEdge < 0 || seedDemand < cfg.MinEdgeDemand || seedDemand < cfg.MinLineDemand {
			break
		}

		line := extendTransitLine(g, remaining, baseCost, seedEdge, cfg)
		if line.SumDemand < cfg.MinLineDemand {
			break
		}
		line.ID = len(plan.Lines)
		plan.Lines = append(plan.Lines, line)
		plan.CoveredDemand += line.SumDemand

		for _, ei := range line.Edges {
			consumed := uint64(float64(remaining[ei]) * cfg.CoverFraction)
			if consumed > remaining[ei] {
				consumed = remaining[ei]
			}
			remaining[ei] -= consumed
		}
	}

	return plan
}

// extendTransitLine grows a line outward from both endpoints of seedEdge,
// at each step following the incident edge with the highest remaining
// demand, until no qualifying neighbor remains or the walk would revisit
// a node already on the line.
func extendTransitLine(g *roadgraph.Graph, remaining, baseCost []uint64, seedEdge int, cfg TransitPlannerConfig) TransitLine {
	e := g.Edges[seedEdge]
	nodes := []int{e.A, e.B}
	edges := []int{seedEdge}
	used := map[int]bool{seedEdge: true}
	onLine := map[int]bool{e.A: true, e.B: true}

	extend := func(fromFront bool) {
		for {
			var tip int
			if fromFront {
				tip = nodes[0]
			} else {
				tip = nodes[len(nodes)-1]
			}

			best, bestDemand := -1, uint64(0)
			for _, ei := range g.Nodes[tip].Edges {
				if used[ei] {
					continue
				}
				if remaining[ei] < cfg.MinEdgeDemand {
					continue
				}
				other := otherEndpoint(g.Edges[ei], tip)
				if onLine[other] {
					continue
				}
				if remaining[ei] > bestDemand {
					bestDemand = remaining[ei]
					best = ei
				}
			}
			if best < 0 {
				return
			}

			used[best] = true
			next := otherEndpoint(g.Edges[best], tip)
			onLine[next] = true
			if fromFront {
				nodes = append([]int{next}, nodes...)
				edges = append([]int{best}, edges...)
			} else {
				nodes = append(nodes, next)
				edges = append(edges, best)
			}
		}
	}

	extend(true)
	extend(false)

	var line TransitLine
	line.Nodes = nodes
	line.Edges = edges
	for _, ei := range edges {
		line.SumDemand += remaining[ei]
		line.BaseCost += baseCost[ei]
	}
	return line
}

func otherEndpoint(e roadgraph.Edge, node int) int {
	if e.A == node {
		return e.B
	}
	return e.A
}

// BuildTransitLineTilePolyline concatenates a line's edges into one tile
// polyline inclusive of both endpoints, in travel order.
func BuildTransitLineTilePolyline(g *roadgraph.Graph, line TransitLine) ([]roadgraph.Point, bool) {
	if len(line.Edges) == 0 || len(line.Nodes) != len(line.Edges)+1 {
		return nil, false
	}
	var tiles []roadgraph.Point
	for i, ei := range line.Edges {
		if ei < 0 || ei >= len(g.Edges) {
			return nil, false
		}
		e := g.Edges[ei]
		seq := e.Tiles
		if e.A != line.Nodes[i] {
			seq = reversePoints(seq)
		}
		if i > 0 && len(seq) > 0 {
			seq = seq[1:]
		}
		tiles = append(tiles, seq...)
	}
	return tiles, true
}

func reversePoints(pts []roadgraph.Point) []roadgraph.Point {
	out := make([]roadgraph.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// lineStopTiles returns stop tiles along a line's polyline: both endpoints
// plus every spacingTiles-th tile in between.
func lineStopTiles(g *roadgraph.Graph, line TransitLine, spacingTiles int) []roadgraph.Point {
	tiles, ok := BuildTransitLineTilePolyline(g, line)
	if !ok || len(tiles) == 0 {
		return nil
	}
	if spacingTiles < 1 {
		spacingTiles = 1
	}
	stops := []roadgraph.Point{tiles[0]}
	for i := spacingTiles; i < len(tiles)-1; i += spacingTiles {
		stops = append(stops, tiles[i])
	}
	if len(tiles) > 1 {
		stops = append(stops, tiles[len(tiles)-1])
	}
	return stops
}
