package roadgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talgya/citysim/internal/worldmodel"
)

func straightRoad(w *worldmodel.World, y int) {
	for x := 0; x < w.Width; x++ {
		w.Set(x, y, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	}
}

func TestBuildStraightRoadIsOneEdgeTwoNodes(t *testing.T) {
	w := worldmodel.New(5, 1, 1)
	straightRoad(w, 0)

	g := Build(w)
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, 4, g.Edges[0].Length)
	assert.Len(t, g.Edges[0].Tiles, 5)
}

func TestBuildTIntersectionHasFourNodes(t *testing.T) {
	w := worldmodel.New(5, 3, 1)
	straightRoad(w, 1)
	w.Set(2, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})

	g := Build(w)
	// Endpoints (0,1),(4,1), the T-junction (2,1), and the stub node (2,0).
	assert.Len(t, g.Nodes, 4)
}

func TestBuildIsDeterministic(t *testing.T) {
	w := worldmodel.New(6, 6, 1)
	straightRoad(w, 3)
	w.Set(3, 0, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	w.Set(3, 1, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})
	w.Set(3, 2, worldmodel.Tile{Overlay: worldmodel.OverlayRoad, Level: 1})

	a := Build(w)
	b := Build(w)
	require.Equal(t, len(a.Nodes), len(b.Nodes))
	require.Equal(t, len(a.Edges), len(b.Edges))
	for i := range a.Edges {
		assert.Equal(t, a.Edges[i], b.Edges[i])
	}
}

func TestBuildEmptyWorldHasNoGraph(t *testing.T) {
	w := worldmodel.New(4, 4, 1)
	g := Build(w)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

// TestEdgeLengthPlusNodesEqualsRoadTileCount checks the edge-tile-count
// invariant for a simple loop-free grid: every road tile is either a node
// or an interior tile of exactly one edge, and an edge of Length L has
// L-1 interior tiles, so sum(edge.length-1) + nodes == road_tile_count.
func TestEdgeLengthPlusNodesEqualsRoadTileCount(t *testing.T) {
	w := worldmodel.New(7, 1, 1)
	straightRoad(w, 0)

	g := Build(w)
	sum := 0
	for _, e := range g.Edges {
		sum += e.Length - 1
	}
	assert.Equal(t, 7, sum+len(g.Nodes))
}
