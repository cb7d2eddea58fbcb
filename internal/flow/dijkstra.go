// Package flow implements the multi-source shortest-path engine shared by
// commuter traffic assignment and goods flow,
// plus their congestion-aware and capacity-aware iteration passes.
// The priority-queue shape is grounded in
// _examples/katalvlaran-lvlath/graph/dijkstra.go's container/heap
// Dijkstra, generalized from a single source to the multi-source,
// tie-broken, multi-source variant this package needs.
package flow

import (
	"container/heap"
	"math"

	"github.com/talgya/citysim/internal/worldmodel"
)

const unreached = -1

// Anchor is one source (or sink) point for the multi-source search: a
// road-tile index with an associated demand/supply weight.
type Anchor struct {
	TileIndex int
	Weight    float64
}

// searchResult holds the per-tile outcome of a multi-source Dijkstra run.
type searchResult struct {
	dist   []int64 // milliseconds; math.MaxInt64 if unreached
	parent []int32 // tile index one step closer to the assigned source, or unreached
	source []int32 // index into the anchors slice that reached this tile first, or unreached
}

// pqItem is a candidate (cost, source, tile) tuple carrying the
// predecessor tile that produced it. The tie-break order — cost, then
// source index, then tile index — keeps shortest-path resolution
// deterministic across ties. Because the heap always returns
// this tuple's minimum among all pending candidates, and Dijkstra expansion
// is monotonic non-decreasing in cost, the first pop of a given tile is its
// final, deterministic answer regardless of push order.
type pqItem struct {
	cost   int64
	source int32
	tile   int32
	from   int32
}

type pq []pqItem

func (p pq) Len() int { return len(p) }
func (p pq) Less(i, j int) bool {
	if p[i].cost != p[j].cost {
		return p[i].cost < p[j].cost
	}
	if p[i].source != p[j].source {
		return p[i].source < p[j].source
	}
	return p[i].tile < p[j].tile
}
func (p pq) Swap(i, j int)       { p[i], p[j] = p[j], p[i] }
func (p *pq) Push(x interface{}) { *p = append(*p, x.(pqItem)) }
func (p *pq) Pop() interface{} {
	old := *p
	n := len(old)
	it := old[n-1]
	*p = old[:n-1]
	return it
}

// weightFn returns the traversal cost (milliseconds) of entering a tile,
// or a negative value if the tile cannot be entered at all.
type weightFn func(tileIdx int) int64

// multiSourceDijkstra runs a Dijkstra search seeded from every anchor
// simultaneously. costOf(tileIdx) gives the cost of entering a tile; it
// must return < 0 for tiles that cannot be traversed (non-road tiles).
func multiSourceDijkstra(w *worldmodel.World, anchors []Anchor, costOf weightFn) searchResult {
	n := w.NumTiles()
	res := searchResult{
		dist:   make([]int64, n),
		parent: make([]int32, n),
		source: make([]int32, n),
	}
	for i := 0; i < n; i++ {
		res.dist[i] = math.MaxInt64
		res.parent[i] = unreached
		res.source[i] = unreached
	}

	h := &pq{}
	heap.Init(h)
	for i, a := range anchors {
		if a.TileIndex < 0 || a.TileIndex >= n {
			continue
		}
		// Seed with the anchor tile's own entry cost rather than 0: a
		// weightFn like withJobPenalty's over-subscription surcharge must
		// apply to a job-anchor tile exactly as it would to any other
		// tile the search enters, or the penalty can never affect a
		// route that terminates at that anchor.
		entry := costOf(a.TileIndex)
		if entry < 0 {
			continue
		}
		heap.Push(h, pqItem{cost: entry, source: int32(i), tile: int32(a.TileIndex), from: unreached})
	}

	visited := make([]bool, n)

	for h.Len() > 0 {
		item := heap.Pop(h).(pqItem)
		if visited[item.tile] {
			continue
		}
		visited[item.tile] = true
		res.dist[item.tile] = item.cost
		res.source[item.tile] = item.source
		res.parent[item.tile] = item.from

		tx := int(item.tile) % w.Width
		ty := int(item.tile) / w.Width
		for _, d := range worldmodel.Dirs4 {
			nx, ny := tx+d.DX, ty+d.DY
			if !w.InBounds(nx, ny) {
				continue
			}
			nIdx := w.Index(nx, ny)
			if visited[nIdx] {
				continue
			}
			step := costOf(nIdx)
			if step < 0 {
				continue
			}
			heap.Push(h, pqItem{cost: item.cost + step, source: item.source, tile: int32(nIdx), from: item.tile})
		}
	}

	return res
}

// pathToSource walks parent pointers from a reached tile back to its
// assigned source anchor tile, returning the tiles visited in order from
// the start tile to (and including) the source tile. Returns nil if the
// tile was never reached.
func pathToSource(res searchResult, startTile int) []int {
	if res.source[startTile] == unreached {
		return nil
	}
	path := []int{startTile}
	cur := startTile
	for res.parent[cur] != unreached {
		cur = int(res.parent[cur])
		path = append(path, cur)
	}
	return path
}

func isRoadCost(w *worldmodel.World) weightFn {
	return func(tileIdx int) int64 {
		t := w.AtIndex(tileIdx)
		if t.Overlay != worldmodel.OverlayRoad {
			return -1
		}
		return int64(worldmodel.TravelTimeMilli(t))
	}
}
