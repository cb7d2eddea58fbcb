// Package roadgraph extracts the compressed road graph used by the
// planners, ported from
// _examples/original_source/src/isocity/RoadGraph.cpp: nodes are road
// tiles that are intersections/endpoints (degree != 2) or corners (degree
// 2 but not a straight run); edges are maximal straight degree-2 chains
// between two nodes.
package roadgraph

import "github.com/talgya/citysim/internal/worldmodel"

// Point is a tile coordinate along an edge's polyline.
type Point struct {
	X, Y int
}

// Node is an intersection, endpoint, or corner road tile.
type Node struct {
	Pos   Point
	Edges []int // indices into Graph.Edges
}

// Edge is a maximal straight chain of road tiles connecting two nodes.
type Edge struct {
	A, B   int // node indices
	Length int // len(Tiles)-1
	Tiles  []Point // inclusive of both endpoints
}

// Graph is the compressed road network.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

func isRoad(w *worldmodel.World, x, y int) bool {
	return w.InBounds(x, y) && w.At(x, y).Overlay == worldmodel.OverlayRoad
}

func isStraightDegree2(w *worldmodel.World, x, y int) bool {
	n := isRoad(w, x, y-1)
	s := isRoad(w, x, y+1)
	e := isRoad(w, x+1, y)
	west := isRoad(w, x-1, y)

	if n && s && !e && !west {
		return true
	}
	if e && west && !n && !s {
		return true
	}
	return false
}

func isGraphNode(w *worldmodel.World, x, y int) bool {
	if !isRoad(w, x, y) {
		return false
	}
	deg := w.Degree4(x, y)
	if deg != 2 {
		return true
	}
	return !isStraightDegree2(w, x, y)
}

// Build extracts the compressed road graph from the current world state.
// Pure over world; two calls on an unchanged world produce byte-identical
// graphs.
func Build(w *worldmodel.World) *Graph {
	g := &Graph{}
	if w.Width <= 0 || w.Height <= 0 {
		return g
	}

	nodeID := make([]int, w.NumTiles())
	for i := range nodeID {
		nodeID[i] = -1
	}

	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if !isGraphNode(w, x, y) {
				continue
			}
			id := len(g.Nodes)
			g.Nodes = append(g.Nodes, Node{Pos: Point{X: x, Y: y}})
			nodeID[w.Index(x, y)] = id
		}
	}

	maxSteps := w.Width*w.Height + 8

	traceToNextNode := func(startPos Point, first Point) (tiles []Point, endID int, ok bool) {
		prev := startPos
		cur := first
		tiles = append(tiles, startPos)

		for steps := 0; steps < maxSteps; steps++ {
			if !w.InBounds(cur.X, cur.Y) || w.At(cur.X, cur.Y).Overlay != worldmodel.OverlayRoad {
				return nil, -1, false
			}
			tiles = append(tiles, cur)

			id := nodeID[w.Index(cur.X, cur.Y)]
			if id != -1 {
				return tiles, id, true
			}

			next := Point{X: -999, Y: -999}
			choices := 0
			for _, d := range worldmodel.Dirs4 {
				nx, ny := cur.X+d.DX, cur.Y+d.DY
				if !isRoad(w, nx, ny) {
					continue
				}
				if nx == prev.X && ny == prev.Y {
					continue
				}
				next = Point{X: nx, Y: ny}
				choices++
			}

			if choices != 1 {
				return nil, -1, false
			}

			prev = cur
			cur = next
		}

		return nil, -1, false
	}

	for a := 0; a < len(g.Nodes); a++ {
		p := g.Nodes[a].Pos
		for _, d := range worldmodel.Dirs4 {
			nx, ny := p.X+d.DX, p.Y+d.DY
			if !isRoad(w, nx, ny) {
				continue
			}

			tiles, b, ok := traceToNextNode(p, Point{X: nx, Y: ny})
			if !ok || b < 0 || b == a {
				continue
			}

			if a < b {
				e := Edge{
					A:      a,
					B:      b,
					Length: maxInt(0, len(tiles)-1),
					Tiles:  tiles,
				}
				ei := len(g.Edges)
				g.Edges = append(g.Edges, e)
				g.Nodes[a].Edges = append(g.Nodes[a].Edges, ei)
				g.Nodes[b].Edges = append(g.Nodes[b].Edges, ei)
			}
		}
	}

	return g
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
