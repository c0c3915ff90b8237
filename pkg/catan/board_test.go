package catan

import (
	"math/rand"
	"testing"
)

func newTestRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestGenerateBoardLandTileCount(t *testing.T) {
	b := GenerateBoard(newTestRNG())

	landCount := 0
	for _, tile := range b.Tiles {
		if tile.IsLand() {
			landCount++
		}
	}
	if landCount != 19 {
		t.Errorf("expected 19 land tiles, got %d", landCount)
	}
}

func TestGenerateBoardExactlyOneRobber(t *testing.T) {
	b := GenerateBoard(newTestRNG())

	count := 0
	for _, tile := range b.Tiles {
		if tile.HasRobber {
			count++
			if tile.Resource != Desert {
				t.Errorf("robber on non-desert tile %d (%s)", tile.ID, tile.Resource)
			}
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 robber tile, got %d", count)
	}
}

func TestGenerateBoardNumberTokenAssignment(t *testing.T) {
	b := GenerateBoard(newTestRNG())

	for _, tile := range b.Tiles {
		if !tile.IsLand() {
			continue
		}
		if tile.Resource == Desert {
			if tile.Number != 0 {
				t.Errorf("desert tile %d should have no number, got %d", tile.ID, tile.Number)
			}
			continue
		}
		if tile.Number < 2 || tile.Number > 12 || tile.Number == 7 {
			t.Errorf("land tile %d has invalid number token %d", tile.ID, tile.Number)
		}
	}
}

func TestGenerateBoardHarborSpacing(t *testing.T) {
	b := GenerateBoard(newTestRNG())

	var harborCoords []HexCoord
	for _, tile := range b.Tiles {
		if tile.Harbor != nil {
			harborCoords = append(harborCoords, tile.Coord)
		}
	}
	if len(harborCoords) > 9 {
		t.Fatalf("expected at most 9 harbors, got %d", len(harborCoords))
	}
	for i := range harborCoords {
		for j := range harborCoords {
			if i == j {
				continue
			}
			if harborCoords[i].Distance(harborCoords[j]) < 2 {
				t.Errorf("harbors at %v and %v are closer than hex-distance 2", harborCoords[i], harborCoords[j])
			}
		}
	}
}

func TestGenerateBoardNodesAreBuildable(t *testing.T) {
	b := GenerateBoard(newTestRNG())

	for _, n := range b.Nodes {
		if !n.CanBuild {
			t.Errorf("node %d survived pruning with canBuild=false", n.ID)
		}
		onLand := false
		for _, ti := range n.AdjTiles {
			if b.Tiles[ti].IsLand() {
				onLand = true
			}
		}
		if !onLand {
			t.Errorf("node %d has no adjacent land tile", n.ID)
		}
	}
}

func TestGenerateBoardEdgesReferenceValidNodes(t *testing.T) {
	b := GenerateBoard(newTestRNG())

	for _, e := range b.Edges {
		if b.NodeAt(e.NodeA) == nil || b.NodeAt(e.NodeB) == nil {
			t.Errorf("edge %d references a dropped node", e.ID)
		}
		if e.OwnerID != -1 {
			t.Errorf("edge %d should start unowned, got owner %d", e.ID, e.OwnerID)
		}
	}
}
