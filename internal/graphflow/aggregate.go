// Package graphflow projects the dense per-tile flow fields computed by
// internal/flow onto the compressed road graph built by internal/roadgraph
// so planners can reason about edges and intersections
// instead of individual tiles.
package graphflow

import (
	"github.com/talgya/citysim/internal/roadgraph"
	"github.com/talgya/citysim/internal/worldmodel"
)

// AggregateConfig supplies the per-tile capacity base used to compute
// utilization and excess.
type AggregateConfig struct {
	RoadTileCapacity int
}

// EdgeAggregate summarizes traffic/capacity/utilization/excess over a set
// of tiles belonging to one road-graph edge.
type EdgeAggregate struct {
	TrafficSum float64
	TrafficMax float64
	TrafficMin float64

	CapacitySum float64

	UtilMax float64 // max(traffic/capacity) over the tile set
	ExcessSum float64 // sum(max(0, traffic-capacity))

	TileCount int
}

// EdgeStats holds both the all-tiles and interior-only aggregates for one
// road-graph edge.
type EdgeStats struct {
	All      EdgeAggregate
	Interior EdgeAggregate
}

// NodeStats holds the direct tile reading at a node plus the sum of
// interior aggregates of its incident edges.
type NodeStats struct {
	Traffic              float64
	Capacity             float64
	IncidentInteriorSum  float64
}

// RoadGraphTrafficResult is the output of AggregateFlowOnRoadGraph.
type RoadGraphTrafficResult struct {
	Edges []EdgeStats
	Nodes []NodeStats
}

func tileAggregate(w *worldmodel.World, flow []uint32, cfg AggregateConfig, pts []roadgraph.Point) EdgeAggregate {
	agg := EdgeAggregate{}
	first := true
	for _, p := range pts {
		idx := w.Index(p.X, p.Y)
		t := w.AtIndex(idx)
		traffic := float64(flow[idx])
		capacity := float64(worldmodel.RoadCapacityForLevel(cfg.RoadTileCapacity, t.Level))

		agg.TrafficSum += traffic
		agg.CapacitySum += capacity
		if first || traffic > agg.TrafficMax {
			agg.TrafficMax = traffic
		}
		if first || traffic < agg.TrafficMin {
			agg.TrafficMin = traffic
		}
		if capacity > 0 {
			util := traffic / capacity
			if util > agg.UtilMax {
				agg.UtilMax = util
			}
		}
		if excess := traffic - capacity; excess > 0 {
			agg.ExcessSum += excess
		}
		agg.TileCount++
		first = false
	}
	return agg
}

// AggregateFlowOnRoadGraph projects a dense per-tile flow array (as
// produced by flow.TrafficResult.RoadTraffic or
// flow.GoodsResult.RoadGoodsTraffic) onto the road graph's edges and
// nodes. Contract: for every edge, sum_all = sum_interior + tile(a) +
// tile(b) when both endpoint tiles are road.
func AggregateFlowOnRoadGraph(w *worldmodel.World, g *roadgraph.Graph, flow []uint32, cfg AggregateConfig) RoadGraphTrafficResult {
	res := RoadGraphTrafficResult{
		Edges: make([]EdgeStats, len(g.Edges)),
		Nodes: make([]NodeStats, len(g.Nodes)),
	}

	for i, e := range g.Edges {
		all := tileAggregate(w, flow, cfg, e.Tiles)

		var interior []roadgraph.Point
		if len(e.Tiles) > 2 {
			interior = e.Tiles[1 : len(e.Tiles)-1]
		}
		interiorAgg := tileAggregate(w, flow, cfg, interior)

		res.Edges[i] = EdgeStats{All: all, Interior: interiorAgg}
	}

	for i, n := range g.Nodes {
		idx := w.Index(n.Pos.X, n.Pos.Y)
		t := w.AtIndex(idx)
		res.Nodes[i] = NodeStats{
			Traffic:  float64(flow[idx]),
			Capacity: float64(worldmodel.RoadCapacityForLevel(cfg.RoadTileCapacity, t.Level)),
		}
		for _, ei := range n.Edges {
			res.Nodes[i].IncidentInteriorSum += res.Edges[ei].Interior.TrafficSum
		}
	}

	return res
}
