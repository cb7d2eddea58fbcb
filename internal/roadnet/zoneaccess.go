package roadnet

import "github.com/talgya/citysim/internal/worldmodel"

// ZoneAccessMap maps each zone (Residential/Commercial/Industrial) tile
// index to the road-tile index it can reach, or -1 if unreachable. Index
// is the flat row-major tile index.
type ZoneAccessMap struct {
	Width, Height int
	RoadIndex     []int32 // size Width*Height; only meaningful for zone tiles
}

// HasAccess reports whether tile (x,y) has a road entry point.
func (z ZoneAccessMap) HasAccess(w *worldmodel.World, x, y int) bool {
	if !w.InBounds(x, y) {
		return false
	}
	idx := w.Index(x, y)
	if idx >= len(z.RoadIndex) {
		return false
	}
	return z.RoadIndex[idx] >= 0
}

// BuildZoneAccessMap computes, for every zone tile, the road tile it can
// reach through its connected same-overlay zone component.
// edgeMask, if non-nil, restricts candidate road neighbors to
// edge-connected road tiles (as produced by ComputeEdgeConnectedRoads).
//
// Within a component, the chosen access road is the one with the smallest
// (y, x) among all road tiles adjacent to any tile in the component —
// a fixed tie-break so the result never depends on scan or visitation
// order.
func BuildZoneAccessMap(w *worldmodel.World, edgeMask []byte) ZoneAccessMap {
	n := w.NumTiles()
	z := ZoneAccessMap{Width: w.Width, Height: w.Height, RoadIndex: make([]int32, n)}
	for i := range z.RoadIndex {
		z.RoadIndex[i] = -1
	}
	if n == 0 {
		return z
	}

	visited := make([]bool, n)

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		t := w.AtIndex(start)
		if !t.Overlay.IsZone() {
			continue
		}

		component := floodZoneComponent(w, start, t.Overlay, visited)

		bestRoadIdx := -1
		bestY, bestX := 0, 0
		for _, idx := range component {
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
				if edgeMask != nil && !IsEdgeConnected(w, edgeMask, nx, ny) {
					continue
				}
				if bestRoadIdx == -1 || ny < bestY || (ny == bestY && nx < bestX) {
					bestRoadIdx = w.Index(nx, ny)
					bestY, bestX = ny, nx
				}
			}
		}

		for _, idx := range component {
			z.RoadIndex[idx] = int32(bestRoadIdx)
		}
	}

	return z
}

// floodZoneComponent BFS-collects all tiles 4-connected to start sharing
// the same overlay, marking them visited as it goes. Visitation order is
// deterministic (fixed N,E,S,W neighbor order) though the component
// membership itself does not depend on it.
func floodZoneComponent(w *worldmodel.World, start int, overlay worldmodel.Overlay, visited []bool) []int {
	visited[start] = true
	queue := []int{start}
	component := make([]int, 0, 8)

	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		component = append(component, idx)
		y := idx / w.Width
		x := idx % w.Width
		for _, d := range worldmodel.Dirs4 {
			nx, ny := x+d.DX, y+d.DY
			if !w.InBounds(nx, ny) {
				continue
			}
			if w.At(nx, ny).Overlay != overlay {
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

	return component
}
