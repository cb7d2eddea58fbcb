package worldmodel

// World owns the flat, row-major tile grid plus the derived-but-persisted
// Stats snapshot and the outstanding municipal debts. World is the only
// shared, mutable datum in the kernel: every analyzer borrows
// it immutably; only the Simulator holds an exclusive reference during a
// tick.
type World struct {
	Width  int
	Height int
	Seed   uint64

	tiles []Tile
	Stats Stats
	Debts []DebtItem
}

// New constructs an empty, all-Grass world of the given dimensions.
func New(width, height int, seed uint64) *World {
	if width <= 0 || height <= 0 {
		width, height = 0, 0
	}
	return &World{
		Width:  width,
		Height: height,
		Seed:   seed,
		tiles:  make([]Tile, width*height),
	}
}

// Index converts tile coordinates to a flat row-major index.
func (w *World) Index(x, y int) int {
	return y*w.Width + x
}

// InBounds reports whether (x,y) lies within the grid.
func (w *World) InBounds(x, y int) bool {
	return x >= 0 && x < w.Width && y >= 0 && y < w.Height
}

// At returns the tile at (x,y). Callers must check InBounds first; At does
// not itself bounds-check (hot path, matching the kernel's "no... allocations
// on hot paths" intent for the read side).
func (w *World) At(x, y int) Tile {
	return w.tiles[w.Index(x, y)]
}

// AtIndex returns the tile at a flat row-major index.
func (w *World) AtIndex(idx int) Tile {
	return w.tiles[idx]
}

// Set writes a tile at (x,y).
func (w *World) Set(x, y int, t Tile) {
	w.tiles[w.Index(x, y)] = t
}

// SetIndex writes a tile at a flat row-major index.
func (w *World) SetIndex(idx int, t Tile) {
	w.tiles[idx] = t
}

// NumTiles returns width*height.
func (w *World) NumTiles() int {
	return len(w.tiles)
}

// HasAdjacentRoad reports whether any 4-neighbor of (x,y) is a road tile.
func (w *World) HasAdjacentRoad(x, y int) bool {
	for _, d := range Dirs4 {
		nx, ny := x+d.DX, y+d.DY
		if w.InBounds(nx, ny) && w.At(nx, ny).Overlay == OverlayRoad {
			return true
		}
	}
	return false
}

// Dir is one of the four cardinal neighbor offsets.
type Dir struct {
	DX, DY int
}

// Dirs4 lists the cardinal neighbor offsets in a fixed, deterministic
// order: N, E, S, W. Code that needs a reproducible traversal order (graph
// extraction, flood fill) should iterate this slice rather than ad hoc
// direction checks.
var Dirs4 = [4]Dir{
	{0, -1}, // N
	{1, 0},  // E
	{0, 1},  // S
	{-1, 0}, // W
}

// RecomputeRoadMasks rewrites Tile.Variation for every road tile from its
// 4-neighborhood adjacency. Bit i (in Dirs4 order)
// is set when the neighbor in that direction is also a road tile.
// O(W*H); idempotent.
func (w *World) RecomputeRoadMasks() {
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			idx := w.Index(x, y)
			t := w.tiles[idx]
			if t.Overlay != OverlayRoad {
				continue
			}
			var mask uint8
			for i, d := range Dirs4 {
				nx, ny := x+d.DX, y+d.DY
				if w.InBounds(nx, ny) && w.At(nx, ny).Overlay == OverlayRoad {
					mask |= 1 << uint(i)
				}
			}
			t.Variation = mask
			w.tiles[idx] = t
		}
	}
}

// Degree4 returns the number of 4-connected road neighbors of a road tile
// at (x,y).
func (w *World) Degree4(x, y int) int {
	deg := 0
	for _, d := range Dirs4 {
		nx, ny := x+d.DX, y+d.DY
		if w.InBounds(nx, ny) && w.At(nx, ny).Overlay == OverlayRoad {
			deg++
		}
	}
	return deg
}
