package agent

import "github.com/hexforge/catan/pkg/catan"

// HeuristicPolicy is the greedy priority cascade of spec.md §4.5a: roll if
// not rolled, resolve a pending robber move, then build the best affordable
// city/settlement/road, then buy a dev card, and finally end the turn.
type HeuristicPolicy struct{}

func (HeuristicPolicy) Name() string { return "heuristic" }

func (HeuristicPolicy) ChooseAction(s *catan.GameSession, playerID int) catan.Action {
	p := s.PlayerByID(playerID)
	if p == nil {
		return catan.Action{Type: catan.ActionEndTurn, PlayerID: playerID}
	}

	la := s.LegalActionsFor(playerID)

	if la.RollDice {
		return catan.Action{Type: catan.ActionRollDice, PlayerID: playerID}
	}

	if len(la.MoveRobber) > 0 {
		return catan.Action{Type: catan.ActionMoveRobber, PlayerID: playerID, HexID: bestRobberHex(s, playerID, la.MoveRobber)}
	}

	if len(la.BuildCity) > 0 {
		return catan.Action{Type: catan.ActionBuildCity, PlayerID: playerID, NodeID: bestNode(s.Board, la.BuildCity, ModeCity)}
	}

	if len(la.BuildTown) > 0 {
		return catan.Action{Type: catan.ActionBuildTown, PlayerID: playerID, NodeID: bestNode(s.Board, la.BuildTown, ModeTown)}
	}

	if len(la.BuildRoad) > 0 {
		opt := bestRoad(s.Board, la.BuildRoad)
		return catan.Action{Type: catan.ActionBuildRoad, PlayerID: playerID, EdgeID: opt.EdgeID, Free: opt.Free}
	}

	if la.BuyDevCard {
		return catan.Action{Type: catan.ActionBuyDevCard, PlayerID: playerID}
	}

	return catan.Action{Type: catan.ActionEndTurn, PlayerID: playerID}
}

func bestNode(board *catan.Board, candidates []int, mode BuildMode) int {
	best, bestScore := candidates[0], -1.0
	for _, n := range candidates {
		score := nodeProductionScore(board, n, mode)
		if score > bestScore {
			best, bestScore = n, score
		}
	}
	return best
}

func bestRoad(board *catan.Board, candidates []catan.RoadOption) catan.RoadOption {
	best, bestScore := candidates[0], -1.0
	for _, opt := range candidates {
		score := edgeExpansionScore(board, opt.EdgeID)
		if score > bestScore {
			best, bestScore = opt, score
		}
	}
	return best
}

// bestRobberHex picks the hex maximizing P(num)*(oppBuildingWeight -
// 0.65*selfBuildingWeight), counting cities double, per spec.md §4.5a.
func bestRobberHex(s *catan.GameSession, playerID int, candidates []int) int {
	best, bestScore := candidates[0], -1e18
	for _, hexID := range candidates {
		tile := s.Board.TileAt(hexID)
		if tile == nil || tile.Number == 0 {
			if -0.15 > bestScore {
				best, bestScore = hexID, -0.15
			}
			continue
		}
		oppWeight, selfWeight := 0.0, 0.0
		for _, n := range s.Board.Nodes {
			if n.Building == nil || !tileAdjacent(n.AdjTiles, hexID) {
				continue
			}
			w := 1.0
			if n.Building.Type == catan.City {
				w = 2.0
			}
			if n.Building.OwnerID == playerID {
				selfWeight += w
			} else {
				oppWeight += w
			}
		}
		score := rollProbability(tile.Number) * (oppWeight - 0.65*selfWeight)
		if score > bestScore {
			best, bestScore = hexID, score
		}
	}
	return best
}

func tileAdjacent(tiles []int, id int) bool {
	for _, t := range tiles {
		if t == id {
			return true
		}
	}
	return false
}
