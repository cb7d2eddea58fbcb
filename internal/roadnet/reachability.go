// Package roadnet computes road-tile reachability from the map border and
// the per-zone-tile mapping to a reachable road entry point. Grounded in
// the flood-fill shape of
// _examples/original_source/src/isocity/FloodFill.cpp, adapted to a BFS
// queue (FloodFill.cpp uses an explicit stack for DFS order; reachability
// here only needs membership, so a FIFO queue keeps the same deterministic
// fan-out without depth bias).
package roadnet

import "github.com/talgya/citysim/internal/worldmodel"

// ComputeEdgeConnectedRoads returns a byte per tile (1 = road tile
// connected, via 4-connected road tiles, to a road tile on the map
// border). O(W*H).
func ComputeEdgeConnectedRoads(w *worldmodel.World) []byte {
	n := w.NumTiles()
	mask := make([]byte, n)
	if n == 0 {
		return mask
	}

	visited := make([]bool, n)
	queue := make([]int, 0, 64)

	enqueueIfBorderRoad := func(x, y int) {
		if !w.InBounds(x, y) {
			return
		}
		if w.At(x, y).Overlay != worldmodel.OverlayRoad {
			return
		}
		idx := w.Index(x, y)
		if visited[idx] {
			return
		}
		visited[idx] = true
		queue = append(queue, idx)
	}

	for x := 0; x < w.Width; x++ {
		enqueueIfBorderRoad(x, 0)
		enqueueIfBorderRoad(x, w.Height-1)
	}
	for y := 0; y < w.Height; y++ {
		enqueueIfBorderRoad(0, y)
		enqueueIfBorderRoad(w.Width-1, y)
	}

	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		mask[idx] = 1
		y := idx / w.Width
		x := idx % w.Width
		for _, d := range worldmodel.Dirs4 {
			nx, ny := x+d.DX, y+d.DY
			if !w.InBounds(nx, ny) {
				continue
			}
			if w.At(nx, ny).Overlay != worldmodel.OverlayRoad {
				continue
			}
			nidx := w.Index(nx, ny)
			if visited[nidx] {
				continue
			}
			visited[nidx] = true
			queue = append(queue, nidx)
		}
	}

	return mask
}

// IsEdgeConnected reports whether tile (x,y) is present and set in an
// edge-connectivity mask produced by ComputeEdgeConnectedRoads.
func IsEdgeConnected(w *worldmodel.World, mask []byte, x, y int) bool {
	if mask == nil {
		return true
	}
	if !w.InBounds(x, y) {
		return false
	}
	return mask[w.Index(x, y)] != 0
}
