package catan

import "math/rand"

const (
	landRadius  = 2
	boardRadius = 3
)

// resourceMultiset is the fixed pool of tile terrains shuffled across the
// land hexes on every generated board.
var resourceMultiset = []Resource{
	Wood, Wood, Wood, Wood,
	Sheep, Sheep, Sheep, Sheep,
	Wheat, Wheat, Wheat, Wheat,
	Brick, Brick, Brick,
	Ore, Ore, Ore,
	Desert,
}

// numberTokens are assigned in shuffled order to every non-desert land tile.
var numberTokens = []int{2, 3, 3, 4, 4, 5, 5, 6, 6, 8, 8, 9, 9, 10, 10, 11, 11, 12}

var harborResources = []Resource{Wood, Brick, Wheat, Sheep, Ore}

// GenerateBoard builds a fully-populated Board: land ringed by water,
// shuffled resources and number tokens, up to nine spaced harbors, a deduped
// node/edge graph pruned to buildable sites, per spec.md §4.1.
func GenerateBoard(rng *rand.Rand) *Board {
	coords := hexDisk(boardRadius)

	var landCoords, waterCoords []HexCoord
	for _, c := range coords {
		if c.Distance(HexCoord{}) <= landRadius {
			landCoords = append(landCoords, c)
		} else {
			waterCoords = append(waterCoords, c)
		}
	}

	resources := append([]Resource(nil), resourceMultiset...)
	rng.Shuffle(len(resources), func(i, j int) { resources[i], resources[j] = resources[j], resources[i] })

	tokens := append([]int(nil), numberTokens...)
	rng.Shuffle(len(tokens), func(i, j int) { tokens[i], tokens[j] = tokens[j], tokens[i] })

	tiles := make([]Tile, 0, len(coords))
	robberTile := -1
	tokenIdx := 0
	for i, c := range landCoords {
		t := Tile{ID: len(tiles), Coord: c, Resource: resources[i]}
		if t.Resource == Desert {
			t.HasRobber = true
			robberTile = t.ID
		} else {
			t.Number = tokens[tokenIdx]
			tokenIdx++
		}
		tiles = append(tiles, t)
	}
	for _, c := range waterCoords {
		tiles = append(tiles, Tile{ID: len(tiles), Coord: c, Resource: Water})
	}

	placeHarbors(tiles, rng)

	b := &Board{Tiles: tiles, RobberTile: robberTile}
	b.buildNodesAndEdges()
	b.pruneUnbuildable()
	b.buildIndexes()
	return b
}

// placeHarbors assigns up to 9 harbors to outer-ring water tiles adjacent to
// land, keeping any two chosen water tiles at hex-distance >= 2. Falling
// short of 9 is tolerated per spec.md §4.1 failure modes.
func placeHarbors(tiles []Tile, rng *rand.Rand) {
	byCoord := make(map[HexCoord]int, len(tiles))
	for i, t := range tiles {
		byCoord[t.Coord] = i
	}

	var candidates []int
	for i, t := range tiles {
		if t.Resource != Water {
			continue
		}
		if t.Coord.Distance(HexCoord{}) != boardRadius {
			continue
		}
		if adjacentToLand(t.Coord, tiles, byCoord) {
			candidates = append(candidates, i)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	kinds := make([]Harbor, 0, 9)
	specific := append([]Resource(nil), harborResources...)
	rng.Shuffle(len(specific), func(i, j int) { specific[i], specific[j] = specific[j], specific[i] })
	for _, r := range specific {
		kinds = append(kinds, Harbor{Type: Harbor2for1, Resource: r})
	}
	for i := 0; i < 4; i++ {
		kinds = append(kinds, Harbor{Type: Harbor3for1})
	}

	var chosen []HexCoord
	kindIdx := 0
	for _, ci := range candidates {
		if kindIdx >= len(kinds) {
			break
		}
		c := tiles[ci].Coord
		ok := true
		for _, pc := range chosen {
			if c.Distance(pc) < 2 {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		h := kinds[kindIdx]
		tiles[ci].Harbor = &h
		chosen = append(chosen, c)
		kindIdx++
	}
}

func adjacentToLand(c HexCoord, tiles []Tile, byCoord map[HexCoord]int) bool {
	for _, d := range hexDirections {
		nc := HexCoord{Q: c.Q + d.Q, R: c.R + d.R}
		if idx, ok := byCoord[nc]; ok && tiles[idx].Resource != Water {
			return true
		}
	}
	return false
}

var hexDirections = []HexCoord{
	{Q: 1, R: 0}, {Q: 1, R: -1}, {Q: 0, R: -1},
	{Q: -1, R: 0}, {Q: -1, R: 1}, {Q: 0, R: 1},
}

// buildNodesAndEdges constructs the node set (deduped tile corners) and the
// edge set (deduped tile sides) per spec.md §4.1 steps 4-5, and computes
// canBuild per node.
func (b *Board) buildNodesAndEdges() {
	type nodeAccum struct {
		x, y     float64
		adjTiles []int
		harbors  []Harbor
	}
	nodeByKey := make(map[[2]int64]int)
	var accum []nodeAccum

	nodeIndexFor := func(x, y float64, tileIdx int) int {
		key := roundKey(x, y)
		if idx, ok := nodeByKey[key]; ok {
			accum[idx].adjTiles = appendUnique(accum[idx].adjTiles, tileIdx)
			return idx
		}
		idx := len(accum)
		nodeByKey[key] = idx
		accum = append(accum, nodeAccum{x: x, y: y, adjTiles: []int{tileIdx}})
		return idx
	}

	type edgeKey struct{ a, b int }
	edgeSeen := make(map[edgeKey]bool)
	var edges []Edge

	for ti, t := range b.Tiles {
		corners := hexCorners(t.Coord)
		cornerNodes := make([]int, 6)
		for i, c := range corners {
			cornerNodes[i] = nodeIndexFor(c[0], c[1], ti)
		}
		for i := 0; i < 6; i++ {
			a := cornerNodes[i]
			bn := cornerNodes[(i+1)%6]
			k := edgeKey{a, bn}
			if k.a > k.b {
				k.a, k.b = k.b, k.a
			}
			if edgeSeen[k] {
				continue
			}
			edgeSeen[k] = true
			edges = append(edges, Edge{ID: len(edges), NodeA: k.a, NodeB: k.b, OwnerID: -1})
		}
	}

	nodes := make([]Node, len(accum))
	for i, a := range accum {
		n := Node{ID: i, X: a.x, Y: a.y, AdjTiles: a.adjTiles}
		for _, ti := range a.adjTiles {
			if t := b.Tiles[ti]; t.Resource != Water {
				n.CanBuild = true
			}
			if b.Tiles[ti].Harbor != nil {
				n.Harbors = append(n.Harbors, *b.Tiles[ti].Harbor)
			}
		}
		nodes[i] = n
	}

	b.Nodes = nodes
	b.Edges = edges
}

func appendUnique(s []int, v int) []int {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}

// pruneUnbuildable drops nodes with canBuild == false and any edge touching
// a dropped node, remapping ids to contiguous integers per spec.md §4.1
// step 7.
func (b *Board) pruneUnbuildable() {
	remap := make(map[int]int, len(b.Nodes))
	var kept []Node
	for _, n := range b.Nodes {
		if !n.CanBuild {
			continue
		}
		old := n.ID
		n.ID = len(kept)
		remap[old] = n.ID
		kept = append(kept, n)
	}

	var keptEdges []Edge
	for _, e := range b.Edges {
		na, aok := remap[e.NodeA]
		nb, bok := remap[e.NodeB]
		if !aok || !bok {
			continue
		}
		e.ID = len(keptEdges)
		e.NodeA, e.NodeB = na, nb
		keptEdges = append(keptEdges, e)
	}

	b.Nodes = kept
	b.Edges = keptEdges
}
